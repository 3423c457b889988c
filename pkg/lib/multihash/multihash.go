// Package multihash 实现自描述哈希摘要
//
// 摘要格式：varint(code) || varint(len) || digest。
// 代码取自 multicodec 表中标签为 multihash（或 hash）的条目，
// 哈希计算由 hashfun 包提供。
//
// # 基本用法
//
//	d, _ := multihash.Digest([]byte("Hello world!"), multicodec.Name("sha2-256"), multihash.DefaultSize)
//	// 1220c0535e4b...
//	raw, _ := multihash.Unwrap(d, multicodec.Name("sha2-256"))
package multihash

import (
	"bytes"
	"fmt"
	"io"
	"math"

	"github.com/dep2p/go-multiformats/pkg/lib/multicodec"
	"github.com/dep2p/go-multiformats/pkg/lib/multihash/hashfun"
	"github.com/dep2p/go-multiformats/pkg/lib/varint"
)

// DefaultSize 使用完整摘要长度
const DefaultSize = hashfun.DefaultSize

// IsMultihashTag 标签是否表示哈希函数
func IsMultihashTag(tag string) bool {
	return tag == "multihash" || tag == "hash"
}

// Multihash 带实现的 multihash 条目
//
// 内嵌 Multicodec，因此可以直接作为 multicodec.Ref 使用。
type Multihash struct {
	multicodec.Multicodec

	impl hashfun.Impl
}

// Codec 返回对应的 multicodec 条目
func (h Multihash) Codec() multicodec.Multicodec {
	return h.Multicodec
}

// Impl 返回哈希实现
func (h Multihash) Impl() hashfun.Impl {
	return h.impl
}

// MaxDigestSize 返回最大摘要长度，无上限时第二个返回值为 false
func (h Multihash) MaxDigestSize() (int, bool) {
	return h.impl.MaxSize, h.impl.Bounded()
}

// IsImplemented 是否带有哈希实现
func (h Multihash) IsImplemented() bool {
	return h.impl.Func != nil
}

// Digest 计算 data 的摘要并包装
//
// size 为 DefaultSize 时使用完整长度，可扩展输出函数必须指定 size。
func (h Multihash) Digest(data []byte, size int) ([]byte, error) {
	if !h.IsImplemented() {
		return nil, fmt.Errorf("%w: %s", ErrNotImplemented, h.Name)
	}
	raw, err := h.impl.Func(data, size)
	if err != nil {
		return nil, err
	}
	if size != DefaultSize && len(raw) != size {
		return nil, fmt.Errorf("%w: %s produced %d bytes, requested %d", ErrSizeMismatch, h.Name, len(raw), size)
	}
	return h.Wrap(raw)
}

// Wrap 包装已计算好的原始摘要
func (h Multihash) Wrap(raw []byte) ([]byte, error) {
	if err := h.checkSize(len(raw)); err != nil {
		return nil, err
	}
	return encode(h.Code, raw), nil
}

// Unwrap 解包摘要，代码必须与 h 一致
func (h Multihash) Unwrap(digest []byte) ([]byte, error) {
	code, raw, err := decode(digest)
	if err != nil {
		return nil, err
	}
	if code != h.Code {
		return nil, fmt.Errorf("%w: decoded code 0x%x differs from %s", ErrCodeMismatch, code, h.Multicodec)
	}
	if err := h.checkSize(len(raw)); err != nil {
		return nil, err
	}
	return raw, nil
}

// UnwrapReader 从流中读取一个摘要，只消费摘要本身的字节
func (h Multihash) UnwrapReader(r io.Reader) ([]byte, error) {
	br := asByteReader(r)
	code, _, err := varint.DecodeReader(br)
	if err != nil {
		return nil, err
	}
	if code != h.Code {
		return nil, fmt.Errorf("%w: decoded code 0x%x differs from %s", ErrCodeMismatch, code, h.Multicodec)
	}
	size, _, err := varint.DecodeReader(br)
	if err != nil {
		return nil, err
	}
	return h.readRaw(r, size)
}

// readRaw 读取声明长度的原始摘要
//
// 缓冲区随读到的数据增长，流提前结束时返回 ErrSizeMismatch。
func (h Multihash) readRaw(r io.Reader, size uint64) ([]byte, error) {
	if size > math.MaxInt {
		return nil, fmt.Errorf("%w: listed %d bytes", ErrSizeMismatch, size)
	}
	if err := h.checkSize(int(size)); err != nil {
		return nil, err
	}
	if size == 0 {
		return []byte{}, nil
	}
	var buf bytes.Buffer
	n, err := io.CopyN(&buf, r, int64(size))
	if err != nil {
		return nil, fmt.Errorf("%w: listed %d bytes, read %d", ErrSizeMismatch, size, n)
	}
	return buf.Bytes(), nil
}

func (h Multihash) checkSize(n int) error {
	if max, ok := h.MaxDigestSize(); ok && n > max {
		return fmt.Errorf("%w: %s has max digest size %d, got %d", ErrTooLong, h.Name, max, n)
	}
	return nil
}

// String 返回名称
func (h Multihash) String() string {
	return h.Name
}

// ============================================================================
//                              编解码
// ============================================================================

func encode(code uint64, raw []byte) []byte {
	out := varint.MustEncode(code)
	out = append(out, varint.MustEncode(uint64(len(raw)))...)
	return append(out, raw...)
}

// decode 解析摘要，不检查代码，只检查长度一致
func decode(digest []byte) (code uint64, raw []byte, err error) {
	code, _, rest, err := varint.DecodeRaw(digest)
	if err != nil {
		return 0, nil, err
	}
	size, _, rest, err := varint.DecodeRaw(rest)
	if err != nil {
		return 0, nil, err
	}
	if size != uint64(len(rest)) {
		return 0, nil, fmt.Errorf("%w: listed %d bytes, found %d", ErrSizeMismatch, size, len(rest))
	}
	return code, rest, nil
}

// byteReader 逐字节读取，不预读
type byteReader struct {
	r   io.Reader
	buf [1]byte
}

func (b *byteReader) ReadByte() (byte, error) {
	if _, err := io.ReadFull(b.r, b.buf[:]); err != nil {
		return 0, err
	}
	return b.buf[0], nil
}

func asByteReader(r io.Reader) io.ByteReader {
	if br, ok := r.(io.ByteReader); ok {
		return br
	}
	return &byteReader{r: r}
}
