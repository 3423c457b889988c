// Package varint 实现 multiformats 无符号变长整数
//
// 编码规则：每字节 7 位数据、低位在前，最高位为延续位。
// 编码最多 9 字节（值小于 2^63），且必须是最小编码。
//
// # 基本用法
//
//	b, _ := varint.Encode(300)   // []byte{0xac, 0x02}
//	x, _ := varint.Decode(b)     // 300
//
//	// 从更长的缓冲区中读取前缀
//	x, n, rest, err := varint.DecodeRaw(buf)
package varint

import (
	"errors"
	"io"

	gvarint "github.com/multiformats/go-varint"

	"github.com/dep2p/go-multiformats/pkg/lib/mferr"
)

const module = "varint"

// MaxLen 是编码的最大字节数
const MaxLen = gvarint.MaxLenUvarint63

// MaxValue 是可编码的最大值（2^63 - 1）
const MaxValue = gvarint.MaxValueUvarint63

// 解码错误
var (
	// ErrEmpty 输入为空
	ErrEmpty = mferr.Invalid(module, "empty input")

	// ErrTooLong 编码超过 9 字节
	ErrTooLong = mferr.Invalid(module, "encoding longer than 9 bytes")

	// ErrTruncated 延续位之后缺少字节
	ErrTruncated = mferr.Invalid(module, "truncated encoding")

	// ErrNotMinimal 非最小编码
	ErrNotMinimal = mferr.Invalid(module, "non-minimal encoding")

	// ErrTrailing 存在未消费的尾部字节
	ErrTrailing = mferr.Invalid(module, "trailing bytes after encoding")

	// ErrOverflow 值超出可编码范围
	ErrOverflow = mferr.Invalid(module, "value must be in [0, 2^63)")
)

// Encode 编码 x
func Encode(x uint64) ([]byte, error) {
	if x > MaxValue {
		return nil, ErrOverflow
	}
	return gvarint.ToUvarint(x), nil
}

// EncodeInt 编码有符号整数，负数返回 ErrOverflow
func EncodeInt(x int64) ([]byte, error) {
	if x < 0 {
		return nil, ErrOverflow
	}
	return Encode(uint64(x))
}

// MustEncode 编码 x，超出范围时 panic
func MustEncode(x uint64) []byte {
	b, err := Encode(x)
	if err != nil {
		panic(err)
	}
	return b
}

// Size 返回 x 的编码字节数
func Size(x uint64) int {
	return gvarint.UvarintSize(x)
}

// Decode 解码恰好占满 b 的 varint
func Decode(b []byte) (uint64, error) {
	x, _, rest, err := DecodeRaw(b)
	if err != nil {
		return 0, err
	}
	if len(rest) > 0 {
		return 0, ErrTrailing
	}
	return x, nil
}

// DecodeRaw 解码 b 开头的 varint
//
// 返回值、消费的字节数，以及指向剩余部分的子切片（不复制）。
func DecodeRaw(b []byte) (x uint64, n int, rest []byte, err error) {
	if len(b) == 0 {
		return 0, 0, nil, ErrEmpty
	}
	x, n, err = gvarint.FromUvarint(b)
	if err != nil {
		return 0, 0, nil, mapError(err)
	}
	return x, n, b[n:], nil
}

// DecodeReader 从 r 中读取一个 varint
//
// 只消费 varint 本身的字节，其余数据保留在 r 中。
func DecodeReader(r io.ByteReader) (x uint64, n int, err error) {
	cr := &countingReader{r: r}
	x, err = gvarint.ReadUvarint(cr)
	if err != nil {
		return 0, cr.n, mapError(err)
	}
	return x, cr.n, nil
}

// mapError 把 go-varint 的错误映射为本包的错误
func mapError(err error) error {
	switch {
	case errors.Is(err, io.EOF):
		return ErrEmpty
	case errors.Is(err, io.ErrUnexpectedEOF), errors.Is(err, gvarint.ErrUnderflow):
		return ErrTruncated
	case errors.Is(err, gvarint.ErrOverflow):
		return ErrTooLong
	case errors.Is(err, gvarint.ErrNotMinimal):
		return ErrNotMinimal
	default:
		return err
	}
}

type countingReader struct {
	r io.ByteReader
	n int
}

func (c *countingReader) ReadByte() (byte, error) {
	b, err := c.r.ReadByte()
	if err == nil {
		c.n++
	}
	return b, err
}
