package multiaddr

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Multiaddr 自描述的网络地址，由 Proto 和 Addr 段组成
//
// 同一协议最多出现一次。接受地址但未带值的协议只能是最后一段，
// 此时多地址为不完整状态，没有二进制形式。
type Multiaddr struct {
	segs       []Segment
	incomplete bool
}

// Compose 由段组合多地址，校验结构约束
func Compose(segs ...Segment) (Multiaddr, error) {
	out := Multiaddr{segs: make([]Segment, 0, len(segs))}
	seen := make(map[uint64]struct{}, len(segs))
	for i, s := range segs {
		if s == nil {
			return Multiaddr{}, fmt.Errorf("%w at index %d", ErrNilSegment, i)
		}
		p := s.Protocol()
		if bare, ok := s.(Proto); ok && bare.AdmitsAddr() {
			if i != len(segs)-1 {
				return Multiaddr{}, fmt.Errorf("%w: %s", ErrUnaddressed, p.Name())
			}
			out.incomplete = true
		}
		if _, dup := seen[p.Code()]; dup {
			return Multiaddr{}, fmt.Errorf("%w: %s", ErrDuplicate, p.Name())
		}
		seen[p.Code()] = struct{}{}
		out.segs = append(out.segs, s)
	}
	return out, nil
}

// MustCompose 组合多地址，失败时 panic
func MustCompose(segs ...Segment) Multiaddr {
	m, err := Compose(segs...)
	if err != nil {
		panic(err)
	}
	return m
}

// IsIncomplete 最后一个协议是否缺少地址
func (m Multiaddr) IsIncomplete() bool { return m.incomplete }

// IsEmpty 是否不含任何段
func (m Multiaddr) IsEmpty() bool { return len(m.segs) == 0 }

// Len 段数
func (m Multiaddr) Len() int { return len(m.segs) }

// Segment 返回第 i 段
func (m Multiaddr) Segment(i int) Segment { return m.segs[i] }

// Segments 返回所有段的副本
func (m Multiaddr) Segments() []Segment {
	return append([]Segment(nil), m.segs...)
}

// Slice 返回 [i, j) 段组成的多地址
func (m Multiaddr) Slice(i, j int) Multiaddr {
	segs := m.segs[i:j:j]
	incomplete := m.incomplete && j == len(m.segs) && j > i
	return Multiaddr{segs: segs, incomplete: incomplete}
}

// Index 返回段所在位置
//
// 对 Proto 只匹配协议，对 Addr 还要求值相同。
func (m Multiaddr) Index(s Segment) (int, error) {
	if s == nil {
		return -1, ErrNilSegment
	}
	code := s.Protocol().Code()
	for i, seg := range m.segs {
		if seg.Protocol().Code() != code {
			continue
		}
		if a, ok := s.(Addr); ok {
			if !segmentEqual(seg, a) {
				return -1, fmt.Errorf("%w: address %s in %s", ErrNotContained, a, m)
			}
		}
		return i, nil
	}
	return -1, fmt.Errorf("%w: protocol %s in %s", ErrNotContained, s.Protocol().Name(), m)
}

// Contains 是否包含段
func (m Multiaddr) Contains(s Segment) bool {
	_, err := m.Index(s)
	return err == nil
}

// Complete 为不完整多地址的最后一个协议补上字符串值
func (m Multiaddr) Complete(value string) (Multiaddr, error) {
	tail, err := m.tail()
	if err != nil {
		return Multiaddr{}, err
	}
	a, err := tail.With(value)
	if err != nil {
		return Multiaddr{}, err
	}
	return m.replaceTail(a), nil
}

// CompleteBytes 为不完整多地址的最后一个协议补上字节值
func (m Multiaddr) CompleteBytes(b []byte) (Multiaddr, error) {
	tail, err := m.tail()
	if err != nil {
		return Multiaddr{}, err
	}
	a, err := tail.WithBytes(b)
	if err != nil {
		return Multiaddr{}, err
	}
	return m.replaceTail(a), nil
}

func (m Multiaddr) tail() (Proto, error) {
	if !m.incomplete {
		return Proto{}, fmt.Errorf("%w: %s", ErrComplete, m)
	}
	return m.segs[len(m.segs)-1].(Proto), nil
}

func (m Multiaddr) replaceTail(a Addr) Multiaddr {
	segs := make([]Segment, len(m.segs))
	copy(segs, m.segs)
	segs[len(segs)-1] = a
	return Multiaddr{segs: segs}
}

// Append 在末尾追加段，多地址必须完整
func (m Multiaddr) Append(segs ...Segment) (Multiaddr, error) {
	if m.incomplete {
		return Multiaddr{}, fmt.Errorf("%w: expected address value for %s", ErrIncomplete, m)
	}
	all := make([]Segment, 0, len(m.segs)+len(segs))
	all = append(all, m.segs...)
	all = append(all, segs...)
	return Compose(all...)
}

// Encapsulate 在末尾追加另一个多地址
func (m Multiaddr) Encapsulate(o Multiaddr) (Multiaddr, error) {
	return m.Append(o.segs...)
}

// Decapsulate 移除 o 最后一次出现的位置及其后的所有段
//
// o 不出现时原样返回。
func (m Multiaddr) Decapsulate(o Multiaddr) Multiaddr {
	if o.IsEmpty() || len(o.segs) > len(m.segs) {
		return m
	}
	for i := len(m.segs) - len(o.segs); i >= 0; i-- {
		match := true
		for j, seg := range o.segs {
			if !segmentEqual(m.segs[i+j], seg) {
				match = false
				break
			}
		}
		if match {
			return Multiaddr{segs: m.segs[:i:i]}
		}
	}
	return m
}

// String 返回字符串形式
func (m Multiaddr) String() string {
	var sb strings.Builder
	for _, s := range m.segs {
		sb.WriteString(s.String())
	}
	return sb.String()
}

// Bytes 返回 TLV 二进制形式，不完整多地址返回错误
func (m Multiaddr) Bytes() ([]byte, error) {
	if m.incomplete {
		return nil, fmt.Errorf("%w: cannot compute bytes of %s", ErrIncomplete, m)
	}
	var out []byte
	for _, s := range m.segs {
		b, err := segmentBytes(s)
		if err != nil {
			return nil, err
		}
		out = append(out, b...)
	}
	return out, nil
}

// Equal 逐段比较
func (m Multiaddr) Equal(o Multiaddr) bool {
	if len(m.segs) != len(o.segs) || m.incomplete != o.incomplete {
		return false
	}
	for i := range m.segs {
		if !segmentEqual(m.segs[i], o.segs[i]) {
			return false
		}
	}
	return true
}

// Protocols 返回各段的协议
func (m Multiaddr) Protocols() []Proto {
	out := make([]Proto, len(m.segs))
	for i, s := range m.segs {
		out[i] = s.Protocol()
	}
	return out
}

// ValueForProtocol 返回指定协议的地址值，无地址协议返回空串
func (m Multiaddr) ValueForProtocol(code uint64) (string, error) {
	for _, s := range m.segs {
		if s.Protocol().Code() != code {
			continue
		}
		if a, ok := s.(Addr); ok {
			return a.Value(), nil
		}
		if s.Protocol().AdmitsAddr() {
			return "", fmt.Errorf("%w %s", ErrMissingAddr, s.Protocol().Name())
		}
		return "", nil
	}
	return "", fmt.Errorf("%w: protocol 0x%x in %s", ErrNotContained, code, m)
}

// ============================================================================
//                              序列化
// ============================================================================

// MarshalBinary 实现 encoding.BinaryMarshaler
func (m Multiaddr) MarshalBinary() ([]byte, error) {
	return m.Bytes()
}

// UnmarshalBinary 实现 encoding.BinaryUnmarshaler，使用默认注册表
func (m *Multiaddr) UnmarshalBinary(data []byte) error {
	ma, err := Default().Decode(data)
	if err != nil {
		return err
	}
	*m = ma
	return nil
}

// MarshalText 实现 encoding.TextMarshaler
func (m Multiaddr) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText 实现 encoding.TextUnmarshaler，使用默认注册表
func (m *Multiaddr) UnmarshalText(data []byte) error {
	ma, err := Default().Parse(string(data), false)
	if err != nil {
		return err
	}
	*m = ma
	return nil
}

// MarshalJSON 实现 json.Marshaler
func (m Multiaddr) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON 实现 json.Unmarshaler
func (m *Multiaddr) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("multiaddr: %w", err)
	}
	return m.UnmarshalText([]byte(s))
}
