package multiaddr

import (
	"bytes"
	"fmt"

	"github.com/dep2p/go-multiformats/pkg/lib/multicodec"
	"github.com/dep2p/go-multiformats/pkg/lib/varint"
)

// Segment 多地址中的一段，Proto 或 Addr
type Segment interface {
	// Protocol 返回段的协议
	Protocol() Proto

	// String 返回 "/name" 或 "/name/value"
	String() string

	isSegment()
}

// ============================================================================
//                              Proto
// ============================================================================

// Proto 多地址协议
//
// 不接受地址的协议可直接作为段使用；接受地址的协议只能作为
// 不完整多地址的最后一段出现。
type Proto struct {
	codec multicodec.Multicodec
	impl  Impl
}

var _ Segment = Proto{}

func (Proto) isSegment() {}

// Protocol 返回自身
func (p Proto) Protocol() Proto { return p }

// Name 协议名称
func (p Proto) Name() string { return p.codec.Name }

// Code 协议代码
func (p Proto) Code() uint64 { return p.codec.Code }

// Codec 返回协议对应的 multicodec 条目
func (p Proto) Codec() multicodec.Multicodec { return p.codec }

// Impl 返回地址实现
func (p Proto) Impl() Impl { return p.impl }

// AdmitsAddr 协议是否接受地址值
func (p Proto) AdmitsAddr() bool { return p.impl.kind != KindNone }

// AddrSize 地址长度：0 表示无地址，LengthPrefixedVarSize 表示变长
func (p Proto) AddrSize() int { return p.impl.size }

// IsPath 地址是否为路径（占据字符串形式的剩余部分）
func (p Proto) IsPath() bool { return p.impl.path }

// Validate 把字符串值编码为字节，返回字节形式
func (p Proto) Validate(value string) ([]byte, error) {
	if !p.AdmitsAddr() {
		return nil, fmt.Errorf("%w: %s given %q", ErrNoAddress, p.Name(), value)
	}
	b, err := p.impl.t.StringToBytes(value)
	if err != nil {
		return nil, fmt.Errorf("%w for %s: %q: %w", ErrInvalidAddr, p.Name(), value, err)
	}
	if err := p.checkSize(b); err != nil {
		return nil, err
	}
	return b, nil
}

// ValidateBytes 校验字节值，返回规范的字符串形式
func (p Proto) ValidateBytes(b []byte) (string, error) {
	if !p.AdmitsAddr() {
		return "", fmt.Errorf("%w: %s given %d bytes", ErrNoAddress, p.Name(), len(b))
	}
	if err := p.checkSize(b); err != nil {
		return "", err
	}
	if err := p.impl.t.ValidateBytes(b); err != nil {
		return "", fmt.Errorf("%w for %s: %w", ErrInvalidAddr, p.Name(), err)
	}
	s, err := p.impl.t.BytesToString(b)
	if err != nil {
		return "", fmt.Errorf("%w for %s: %w", ErrInvalidAddr, p.Name(), err)
	}
	return s, nil
}

func (p Proto) checkSize(b []byte) error {
	if p.impl.kind == KindFixed && len(b) != p.impl.size {
		return fmt.Errorf("%w for %s: expected %d bytes, got %d", ErrInvalidAddr, p.Name(), p.impl.size, len(b))
	}
	return nil
}

// IsAddrValid 字符串值是否有效
func (p Proto) IsAddrValid(value string) bool {
	_, err := p.Validate(value)
	return err == nil
}

// IsAddrBytesValid 字节值是否有效
func (p Proto) IsAddrBytesValid(b []byte) bool {
	_, err := p.ValidateBytes(b)
	return err == nil
}

// With 用字符串值构造地址
func (p Proto) With(value string) (Addr, error) {
	b, err := p.Validate(value)
	if err != nil {
		return Addr{}, err
	}
	// 经字节往返得到规范字符串
	s, err := p.impl.t.BytesToString(b)
	if err != nil {
		return Addr{}, fmt.Errorf("%w for %s: %w", ErrInvalidAddr, p.Name(), err)
	}
	return Addr{proto: p, value: s, raw: b}, nil
}

// WithBytes 用字节值构造地址
func (p Proto) WithBytes(b []byte) (Addr, error) {
	s, err := p.ValidateBytes(b)
	if err != nil {
		return Addr{}, err
	}
	return Addr{proto: p, value: s, raw: append([]byte(nil), b...)}, nil
}

// String 返回 "/name"
func (p Proto) String() string { return "/" + p.Name() }

// Bytes 返回协议代码的 varint 编码，接受地址的协议没有字节形式
func (p Proto) Bytes() ([]byte, error) {
	if p.AdmitsAddr() {
		return nil, fmt.Errorf("%w %s", ErrMissingAddr, p.Name())
	}
	return varint.MustEncode(p.Code()), nil
}

// Equal 按协议代码比较
func (p Proto) Equal(o Proto) bool { return p.codec.Code == o.codec.Code }

// ============================================================================
//                              Addr
// ============================================================================

// Addr 带地址值的协议段
type Addr struct {
	proto Proto
	value string
	raw   []byte
}

var _ Segment = Addr{}

func (Addr) isSegment() {}

// Protocol 返回地址的协议
func (a Addr) Protocol() Proto { return a.proto }

// Value 规范字符串值
func (a Addr) Value() string { return a.value }

// ValueBytes 字节值的副本
func (a Addr) ValueBytes() []byte { return append([]byte(nil), a.raw...) }

// String 返回 "/name/value"，路径协议的值自带前导斜杠
func (a Addr) String() string {
	if a.proto.IsPath() {
		return a.proto.String() + a.value
	}
	return a.proto.String() + "/" + a.value
}

// Bytes 返回 TLV 编码：varint(code) [varint(len)] value
func (a Addr) Bytes() []byte {
	out := varint.MustEncode(a.proto.Code())
	if a.proto.impl.kind == KindVariable {
		out = append(out, varint.MustEncode(uint64(len(a.raw)))...)
	}
	return append(out, a.raw...)
}

// Equal 比较协议和字节值
func (a Addr) Equal(o Addr) bool {
	return a.proto.Equal(o.proto) && bytes.Equal(a.raw, o.raw)
}

// segmentBytes 返回段的 TLV 编码
func segmentBytes(s Segment) ([]byte, error) {
	switch v := s.(type) {
	case Addr:
		return v.Bytes(), nil
	case Proto:
		return v.Bytes()
	}
	return nil, ErrNilSegment
}

// segmentEqual 比较两个段
func segmentEqual(a, b Segment) bool {
	switch x := a.(type) {
	case Addr:
		y, ok := b.(Addr)
		return ok && x.Equal(y)
	case Proto:
		y, ok := b.(Proto)
		return ok && x.Equal(y)
	}
	return false
}
