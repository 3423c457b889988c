// Package mferr 定义 multiformats 各模块共享的两类错误
//
// 所有模块的错误都归入以下两类之一：
//
//   - ErrNotFound: 注册表中不存在的名称、代码或前缀
//   - ErrInvalid: 格式错误或参数非法（长度不符、非最小编码、版本冲突等）
//
// 调用方通过 errors.Is 区分两类错误：
//
//	if errors.Is(err, mferr.ErrNotFound) {
//	    // 未实现的协议，可以跳过
//	}
package mferr

import (
	"errors"
	"fmt"
)

// 错误类别
var (
	// ErrNotFound 查找失败
	ErrNotFound = errors.New("not found")

	// ErrInvalid 值非法
	ErrInvalid = errors.New("invalid value")
)

// Error 带模块名和类别的错误
type Error struct {
	// Module 产生错误的模块（如 "varint"、"cid"）
	Module string

	// Kind 错误类别，ErrNotFound 或 ErrInvalid
	Kind error

	// Msg 可读的错误描述
	Msg string
}

// Error 实现 error 接口
func (e *Error) Error() string {
	if e.Module == "" {
		return e.Msg
	}
	return e.Module + ": " + e.Msg
}

// Unwrap 返回错误类别
func (e *Error) Unwrap() error {
	return e.Kind
}

// NotFound 创建查找失败错误
func NotFound(module, format string, args ...any) error {
	return &Error{Module: module, Kind: ErrNotFound, Msg: fmt.Sprintf(format, args...)}
}

// Invalid 创建值非法错误
func Invalid(module, format string, args ...any) error {
	return &Error{Module: module, Kind: ErrInvalid, Msg: fmt.Sprintf(format, args...)}
}

// IsNotFound 判断是否为查找失败
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsInvalid 判断是否为值非法
func IsInvalid(err error) bool {
	return errors.Is(err, ErrInvalid)
}
