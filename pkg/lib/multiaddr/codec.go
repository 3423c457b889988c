package multiaddr

import (
	"fmt"
	"strings"

	"github.com/dep2p/go-multiformats/pkg/lib/varint"
)

// Parse 解析字符串形式
//
// 末尾的斜杠被忽略。路径协议消费其后的全部内容。最后一个协议缺少地址时，
// allowIncomplete 为 true 返回不完整多地址，否则返回 ErrIncomplete。
func (r *Registry) Parse(s string, allowIncomplete bool) (Multiaddr, error) {
	s = strings.TrimRight(s, "/")
	if s == "" {
		return Multiaddr{}, ErrEmpty
	}
	if !strings.HasPrefix(s, "/") {
		return Multiaddr{}, fmt.Errorf("%w: %q must begin with /", ErrInvalidMultiaddr, s)
	}

	parts := strings.Split(s[1:], "/")
	segs := make([]Segment, 0, len(parts))
	for len(parts) > 0 {
		name := parts[0]
		parts = parts[1:]
		if name == "" {
			return Multiaddr{}, fmt.Errorf("%w: empty protocol name in %q", ErrInvalidMultiaddr, s)
		}
		p, err := r.ProtocolWithName(name)
		if err != nil {
			return Multiaddr{}, err
		}
		if !p.AdmitsAddr() {
			segs = append(segs, p)
			continue
		}
		if len(parts) == 0 {
			segs = append(segs, p)
			break
		}
		value := parts[0]
		parts = parts[1:]
		if p.IsPath() {
			value = "/" + strings.Join(append([]string{value}, parts...), "/")
			parts = nil
		}
		a, err := p.With(value)
		if err != nil {
			return Multiaddr{}, err
		}
		segs = append(segs, a)
	}

	m, err := Compose(segs...)
	if err != nil {
		return Multiaddr{}, err
	}
	if m.incomplete && !allowIncomplete {
		return Multiaddr{}, fmt.Errorf("%w: %s", ErrIncomplete, m)
	}
	return m, nil
}

// Decode 解码 TLV 二进制形式
//
// 结果总是完整的：协议代码之后缺少地址字节视为截断。
func (r *Registry) Decode(b []byte) (Multiaddr, error) {
	if len(b) == 0 {
		return Multiaddr{}, ErrEmpty
	}
	var segs []Segment
	for len(b) > 0 {
		code, _, rest, err := varint.DecodeRaw(b)
		if err != nil {
			return Multiaddr{}, fmt.Errorf("%w: protocol code: %w", ErrInvalidMultiaddr, err)
		}
		b = rest
		p, err := r.ProtocolWithCode(code)
		if err != nil {
			return Multiaddr{}, err
		}
		if !p.AdmitsAddr() {
			segs = append(segs, p)
			continue
		}

		size := p.AddrSize()
		if size == LengthPrefixedVarSize {
			if len(b) == 0 {
				return Multiaddr{}, fmt.Errorf("%w: missing length for %s", ErrTruncated, p.Name())
			}
			n, _, rest, err := varint.DecodeRaw(b)
			if err != nil {
				return Multiaddr{}, fmt.Errorf("%w: length for %s: %w", ErrInvalidMultiaddr, p.Name(), err)
			}
			if n > uint64(len(rest)) {
				return Multiaddr{}, fmt.Errorf("%w: %s needs %d bytes, %d left", ErrTruncated, p.Name(), n, len(rest))
			}
			b = rest
			size = int(n)
		} else if size > len(b) {
			return Multiaddr{}, fmt.Errorf("%w: %s needs %d bytes, %d left", ErrTruncated, p.Name(), size, len(b))
		}

		a, err := p.WithBytes(b[:size])
		if err != nil {
			return Multiaddr{}, err
		}
		b = b[size:]
		segs = append(segs, a)
	}
	return Compose(segs...)
}

// ============================================================================
//                              默认注册表
// ============================================================================

// Parse 使用默认注册表解析字符串
func Parse(s string, allowIncomplete bool) (Multiaddr, error) {
	return Default().Parse(s, allowIncomplete)
}

// Decode 使用默认注册表解码二进制形式
func Decode(b []byte) (Multiaddr, error) {
	return Default().Decode(b)
}

// NewMultiaddr 解析完整的字符串形式
func NewMultiaddr(s string) (Multiaddr, error) {
	return Parse(s, false)
}

// NewMultiaddrBytes 解码二进制形式
func NewMultiaddrBytes(b []byte) (Multiaddr, error) {
	return Decode(b)
}

// StringCast 解析字符串，失败时 panic
func StringCast(s string) Multiaddr {
	m, err := NewMultiaddr(s)
	if err != nil {
		panic(err)
	}
	return m
}
