package multibase

import (
	"fmt"
	"sort"
	"sync"

	"github.com/dep2p/go-multiformats/pkg/lib/log"
)

var logger = log.Logger("multibase")

// Registry 前缀表和名称表
type Registry struct {
	mu     sync.RWMutex
	byCode map[byte]Multibase
	byName map[string]Multibase
}

// NewRegistry 从条目创建注册表，名称或代码重复时报错
func NewRegistry(entries []Multibase) (*Registry, error) {
	byCode, byName, err := BuildTables(entries)
	if err != nil {
		return nil, err
	}
	return &Registry{byCode: byCode, byName: byName}, nil
}

// Get 按名称查找
func (r *Registry) Get(name string) (Multibase, error) {
	r.mu.RLock()
	m, ok := r.byName[name]
	r.mu.RUnlock()
	if !ok {
		return Multibase{}, fmt.Errorf("%w %q", ErrUnknownName, name)
	}
	return m, nil
}

// GetCode 按前缀字符查找
func (r *Registry) GetCode(code byte) (Multibase, error) {
	r.mu.RLock()
	m, ok := r.byCode[code]
	r.mu.RUnlock()
	if !ok {
		return Multibase{}, fmt.Errorf("%w '%s'", ErrUnknownCode, printableCode(code))
	}
	return m, nil
}

// Resolve 解析引用，nil 返回 ErrNoRef
func (r *Registry) Resolve(ref Ref) (Multibase, error) {
	if ref == nil {
		return Multibase{}, ErrNoRef
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

// ExistsCode 前缀是否已注册
func (r *Registry) ExistsCode(code byte) bool {
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

// Register 注册编码
//
// overwrite 为 false 时名称或代码任一已存在即报错；
// overwrite 为 true 时同名但代码不同仍然报错。
func (r *Registry) Register(m Multibase, overwrite bool) error {
	if err := m.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if !overwrite {
		if old, ok := r.byCode[m.Code]; ok {
			return fmt.Errorf("%w: code '%s' already registered as %q", ErrConflict, m.CodePrintable(), old.Name)
		}
		if _, ok := r.byName[m.Name]; ok {
			return fmt.Errorf("%w: name %q already registered", ErrConflict, m.Name)
		}
	}
	if old, ok := r.byName[m.Name]; ok && old.Code != m.Code {
		return fmt.Errorf("%w: name %q already registered with code '%s'", ErrConflict, m.Name, old.CodePrintable())
	}
	if old, ok := r.byCode[m.Code]; ok && old.Name != m.Name {
		delete(r.byName, old.Name)
	}
	r.byCode[m.Code] = m
	r.byName[m.Name] = m
	logger.Debug("注册编码", "name", m.Name, "code", m.CodePrintable(), "overwrite", overwrite)
	return nil
}

// Unregister 按名称移除编码
func (r *Registry) Unregister(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.byName[name]
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownName, name)
	}
	delete(r.byName, m.Name)
	delete(r.byCode, m.Code)
	logger.Debug("移除编码", "name", m.Name)
	return nil
}

// UnregisterCode 按前缀移除编码
func (r *Registry) UnregisterCode(code byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.byCode[code]
	if !ok {
		return fmt.Errorf("%w '%s'", ErrUnknownCode, printableCode(code))
	}
	delete(r.byName, m.Name)
	delete(r.byCode, m.Code)
	logger.Debug("移除编码", "name", m.Name)
	return nil
}

// Table 按代码升序返回所有编码
func (r *Registry) Table() []Multibase {
	r.mu.RLock()
	out := make([]Multibase, 0, len(r.byCode))
	for _, m := range r.byCode {
		out = append(out, m)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// EncodingOf 由首字符确定编码
func (r *Registry) EncodingOf(s string) (Multibase, error) {
	if s == "" {
		return Multibase{}, ErrEmpty
	}
	r.mu.RLock()
	m, ok := r.byCode[s[0]]
	r.mu.RUnlock()
	if !ok {
		return Multibase{}, fmt.Errorf("%w: no known multibase code is a prefix of the given data", ErrUnknownCode)
	}
	return m, nil
}

// Encode 用 ref 指定的编码编码 data
func (r *Registry) Encode(data []byte, ref Ref) (string, error) {
	m, err := r.Resolve(ref)
	if err != nil {
		return "", err
	}
	return m.Encode(data)
}

// Decode 按前缀解码
func (r *Registry) Decode(s string) ([]byte, error) {
	_, b, err := r.DecodeRaw(s)
	return b, err
}

// DecodeAs 要求 s 使用 ref 指定的编码
func (r *Registry) DecodeAs(ref Ref, s string) ([]byte, error) {
	m, err := r.Resolve(ref)
	if err != nil {
		return nil, err
	}
	return m.decodeIn(r, s)
}

// DecodeRaw 按前缀解码，同时返回使用的编码
func (r *Registry) DecodeRaw(s string) (Multibase, []byte, error) {
	m, err := r.EncodingOf(s)
	if err != nil {
		return Multibase{}, nil, err
	}
	raw, err := m.Raw()
	if err != nil {
		return Multibase{}, nil, err
	}
	b, err := raw.Decode(s[1:])
	if err != nil {
		return Multibase{}, nil, err
	}
	return m, b, nil
}
