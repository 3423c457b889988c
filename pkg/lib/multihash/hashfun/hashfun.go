// Package hashfun 提供 multihash 使用的原始哈希函数
//
// 每个实现由名称（与 multicodec 表中的 multihash 名称一致）、
// 哈希函数和最大摘要长度组成。内置实现在第一次 Get 时
// 由名称正则匹配的工厂函数构造并缓存。
package hashfun

import (
	"fmt"

	"github.com/dep2p/go-multiformats/pkg/lib/mferr"
)

const module = "hashfun"

// DefaultSize 表示使用哈希函数的完整摘要长度
const DefaultSize = -1

// 通用错误
var (
	// ErrUnknownImpl 没有该名称的实现
	ErrUnknownImpl = mferr.NotFound(module, "no implementation")

	// ErrConflict 实现已注册
	ErrConflict = mferr.Invalid(module, "implementation already registered")

	// ErrInvalidSize 摘要长度非法
	ErrInvalidSize = mferr.Invalid(module, "invalid digest size")

	// ErrSizeRequired 可扩展输出函数必须指定长度
	ErrSizeRequired = mferr.Invalid(module, "digest size is mandatory")

	// ErrNilFunc 未提供哈希函数
	ErrNilFunc = mferr.Invalid(module, "nil hash function")

	// ErrInvalidRepeat 重复次数必须为正
	ErrInvalidRepeat = mferr.Invalid(module, "repeat count must be positive")
)

// Func 原始哈希函数
//
// size 为 DefaultSize 时返回完整摘要，否则返回长度为 size 的摘要
// （固定长度函数截断，可扩展输出函数直接生成）。
type Func func(data []byte, size int) ([]byte, error)

// Impl 一个哈希实现
type Impl struct {
	// Name multihash 名称
	Name string

	// Func 哈希函数
	Func Func

	// MaxSize 最大摘要长度，0 表示不限
	MaxSize int
}

// Bounded 是否有最大摘要长度
func (i Impl) Bounded() bool {
	return i.MaxSize > 0
}

// ValidateArgs 检查 size 参数
//
// size 必须为 DefaultSize 或非负；有最大长度时不能超过它；
// sizeRequired 为 true 时不能是 DefaultSize。
func ValidateArgs(size, maxSize int, sizeRequired bool, name string) error {
	if size < DefaultSize {
		return fmt.Errorf("%w: %s: size %d must be non-negative", ErrInvalidSize, name, size)
	}
	if size != DefaultSize && maxSize > 0 && size > maxSize {
		return fmt.Errorf("%w: %s: size %d exceeds max digest size %d", ErrInvalidSize, name, size, maxSize)
	}
	if sizeRequired && size == DefaultSize {
		return fmt.Errorf("%w for %s", ErrSizeRequired, name)
	}
	return nil
}

// Truncate 重复哈希时的截断方式
type Truncate int

const (
	// TruncateEnd 只截断最后一轮
	TruncateEnd Truncate = iota

	// TruncateAlways 每一轮都截断
	TruncateAlways
)

// Repeat 把 fn 连续应用 n 次
func Repeat(fn Func, n int, t Truncate) (Func, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidRepeat, n)
	}
	if n == 1 {
		return fn, nil
	}
	return func(data []byte, size int) ([]byte, error) {
		var err error
		for i := 0; i < n; i++ {
			s := size
			if t == TruncateEnd && i < n-1 {
				s = DefaultSize
			}
			if data, err = fn(data, s); err != nil {
				return nil, err
			}
		}
		return data, nil
	}, nil
}

// fixed 包装固定长度的哈希
func fixed(name string, maxSize int, sum func([]byte) []byte) Impl {
	return Impl{
		Name:    name,
		MaxSize: maxSize,
		Func: func(data []byte, size int) ([]byte, error) {
			if err := ValidateArgs(size, maxSize, false, name); err != nil {
				return nil, err
			}
			d := sum(data)
			if size != DefaultSize {
				d = d[:size]
			}
			return d, nil
		},
	}
}

// extendable 包装可扩展输出的哈希，必须指定长度
func extendable(name string, read func(data []byte, out []byte)) Impl {
	return Impl{
		Name: name,
		Func: func(data []byte, size int) ([]byte, error) {
			if err := ValidateArgs(size, 0, true, name); err != nil {
				return nil, err
			}
			out := make([]byte, size)
			read(data, out)
			return out, nil
		},
	}
}
