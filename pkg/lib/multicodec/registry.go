package multicodec

import (
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/dep2p/go-multiformats/pkg/lib/log"
	"github.com/dep2p/go-multiformats/pkg/lib/varint"
)

var logger = log.Logger("multicodec")

// Registry 代码表和名称表
//
// 并发安全：查询持读锁，Register/Unregister 持写锁。
type Registry struct {
	mu     sync.RWMutex
	byCode map[uint64]Multicodec
	byName map[string]Multicodec
}

// NewRegistry 用 BuildTables 的规则从条目创建注册表
func NewRegistry(entries []Multicodec, allowPrivateUse bool) (*Registry, error) {
	byCode, byName, err := BuildTables(entries, allowPrivateUse)
	if err != nil {
		return nil, err
	}
	return &Registry{byCode: byCode, byName: byName}, nil
}

// Get 按名称查找
func (r *Registry) Get(name string) (Multicodec, error) {
	r.mu.RLock()
	m, ok := r.byName[name]
	r.mu.RUnlock()
	if !ok {
		return Multicodec{}, fmt.Errorf("%w %q", ErrUnknownName, name)
	}
	return m, nil
}

// GetCode 按代码查找
func (r *Registry) GetCode(code uint64) (Multicodec, error) {
	r.mu.RLock()
	m, ok := r.byCode[code]
	r.mu.RUnlock()
	if !ok {
		return Multicodec{}, fmt.Errorf("%w 0x%x", ErrUnknownCode, code)
	}
	return m, nil
}

// Resolve 解析引用，nil 返回 ErrNoRef
func (r *Registry) Resolve(ref Ref) (Multicodec, error) {
	if ref == nil {
		return Multicodec{}, ErrNoRef
	}
	return ref.resolve(r)
}

// Exists 名称是否已注册
func (r *Registry) Exists(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byName[name]
	return ok
}

// ExistsCode 代码是否已注册
func (r *Registry) ExistsCode(code uint64) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byCode[code]
	return ok
}

// Len 返回条目数
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byCode)
}

// Register 注册条目
//
// overwrite 为 false 时代码已存在即报错；无论 overwrite 与否，
// 名称已被其他代码占用都报错。覆盖代码时旧条目的名称一并移除。
func (r *Registry) Register(m Multicodec, overwrite bool) error {
	if err := m.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if old, ok := r.byCode[m.Code]; ok && !overwrite {
		return fmt.Errorf("%w: code %s already registered as %q", ErrConflict, m.Hexcode(), old.Name)
	}
	if old, ok := r.byName[m.Name]; ok && old.Code != m.Code {
		return fmt.Errorf("%w: name %q already registered with code %s", ErrConflict, m.Name, old.Hexcode())
	}
	if old, ok := r.byCode[m.Code]; ok && old.Name != m.Name {
		delete(r.byName, old.Name)
	}
	r.byCode[m.Code] = m
	r.byName[m.Name] = m
	logger.Debug("注册条目", "name", m.Name, "code", m.Hexcode(), "overwrite", overwrite)
	return nil
}

// Unregister 按名称移除条目
func (r *Registry) Unregister(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.byName[name]
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownName, name)
	}
	delete(r.byName, m.Name)
	if owner, ok := r.byCode[m.Code]; ok && owner.Name == m.Name {
		delete(r.byCode, m.Code)
	}
	logger.Debug("移除条目", "name", m.Name)
	return nil
}

// UnregisterCode 按代码移除条目
func (r *Registry) UnregisterCode(code uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.byCode[code]
	if !ok {
		return fmt.Errorf("%w 0x%x", ErrUnknownCode, code)
	}
	for name, other := range r.byName {
		if other.Code == code {
			delete(r.byName, name)
		}
	}
	delete(r.byCode, m.Code)
	logger.Debug("移除条目", "name", m.Name)
	return nil
}

// Filter 限定 Table 的结果，空切片表示不限
type Filter struct {
	Tags     []string
	Statuses []Status
}

func (f Filter) match(m Multicodec) bool {
	if len(f.Tags) > 0 && !contains(f.Tags, m.Tag) {
		return false
	}
	if len(f.Statuses) > 0 && !contains(f.Statuses, m.Status) {
		return false
	}
	return true
}

func contains[T comparable](s []T, v T) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}

// Table 按代码升序返回满足 f 的条目
func (r *Registry) Table(f Filter) []Multicodec {
	r.mu.RLock()
	out := make([]Multicodec, 0, len(r.byCode))
	for _, m := range r.byCode {
		if f.match(m) {
			out = append(out, m)
		}
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// ============================================================================
//                              包装与解包
// ============================================================================

// Wrap 在 raw 前写入代码的 varint 编码
func (r *Registry) Wrap(ref Ref, raw []byte) ([]byte, error) {
	m, err := r.Resolve(ref)
	if err != nil {
		return nil, err
	}
	return WrapCode(m.Code, raw), nil
}

// WrapCode 不经注册表直接包装
func WrapCode(code uint64, raw []byte) []byte {
	prefix := varint.MustEncode(code)
	out := make([]byte, 0, len(prefix)+len(raw))
	out = append(out, prefix...)
	return append(out, raw...)
}

// Unwrap 读取代码并返回条目和剩余数据（不复制）
func (r *Registry) Unwrap(data []byte) (Multicodec, []byte, error) {
	code, _, rest, err := r.UnwrapRaw(data)
	if err != nil {
		return Multicodec{}, nil, err
	}
	m, err := r.GetCode(code)
	if err != nil {
		return Multicodec{}, nil, err
	}
	return m, rest, nil
}

// UnwrapRaw 读取代码、消费字节数和剩余数据
//
// varint 解码成功后才检查代码是否已注册。
func (r *Registry) UnwrapRaw(data []byte) (code uint64, n int, rest []byte, err error) {
	code, n, rest, err = varint.DecodeRaw(data)
	if err != nil {
		return 0, 0, nil, err
	}
	if !r.ExistsCode(code) {
		return 0, 0, nil, fmt.Errorf("%w 0x%x", ErrUnknownCode, code)
	}
	return code, n, rest, nil
}

// UnwrapReader 从流中读取代码，其余数据留在 rd 中
func (r *Registry) UnwrapReader(rd io.ByteReader) (Multicodec, int, error) {
	code, n, err := varint.DecodeReader(rd)
	if err != nil {
		return Multicodec{}, n, err
	}
	m, err := r.GetCode(code)
	if err != nil {
		return Multicodec{}, n, err
	}
	return m, n, nil
}
