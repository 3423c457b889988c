package multibase

import "github.com/dep2p/go-multiformats/pkg/lib/mferr"

const module = "multibase"

// 通用错误
var (
	// ErrNoRef 未指定名称或代码
	ErrNoRef = mferr.Invalid(module, "must specify exactly one of name or code")

	// ErrInvalidName 名称格式错误
	ErrInvalidName = mferr.Invalid(module, "invalid name")

	// ErrInvalidCode 代码不是单个 ASCII 字符或 0xYY 形式
	ErrInvalidCode = mferr.Invalid(module, "codes must be a single ASCII character or the hex digits '0xYY' of a single byte")

	// ErrInvalidStatus 未知状态
	ErrInvalidStatus = mferr.Invalid(module, "invalid status")

	// ErrEmpty 待解码字符串为空
	ErrEmpty = mferr.Invalid(module, "empty string is not valid for encoded data")

	// ErrUnknownName 名称未注册
	ErrUnknownName = mferr.NotFound(module, "unknown encoding name")

	// ErrUnknownCode 代码未注册
	ErrUnknownCode = mferr.NotFound(module, "unknown encoding code")

	// ErrMismatch 前缀与期望的编码不符
	ErrMismatch = mferr.Invalid(module, "encoding mismatch")

	// ErrConflict 注册时名称或代码冲突
	ErrConflict = mferr.Invalid(module, "conflicting entry")

	// ErrMalformedTable 表格式错误
	ErrMalformedTable = mferr.Invalid(module, "malformed table")
)
