package multicodec

import "github.com/dep2p/go-multiformats/pkg/lib/mferr"

const module = "multicodec"

// 通用错误
var (
	// ErrNoRef 未指定名称或代码
	ErrNoRef = mferr.Invalid(module, "must specify exactly one of name or code")

	// ErrInvalidName 名称不符合 ^[a-z][a-z0-9_-]+$
	ErrInvalidName = mferr.Invalid(module, "invalid name")

	// ErrInvalidCode 代码格式错误或超出 varint 范围
	ErrInvalidCode = mferr.Invalid(module, "invalid code")

	// ErrInvalidStatus 未知状态
	ErrInvalidStatus = mferr.Invalid(module, "invalid status")

	// ErrUnknownName 名称未注册
	ErrUnknownName = mferr.NotFound(module, "unknown name")

	// ErrUnknownCode 代码未注册
	ErrUnknownCode = mferr.NotFound(module, "unknown code")

	// ErrConflict 注册时名称或代码冲突
	ErrConflict = mferr.Invalid(module, "conflicting entry")

	// ErrPrivateUse 表中出现私有代码
	ErrPrivateUse = mferr.Invalid(module, "private use code not allowed")

	// ErrMalformedTable 表格式错误
	ErrMalformedTable = mferr.Invalid(module, "malformed table")
)
