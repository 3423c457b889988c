package multibase

import "fmt"

// Ref 引用一种编码：Name、Code 或 Multibase 值
type Ref interface {
	resolve(r *Registry) (Multibase, error)
}

// Name 按名称引用
type Name string

// Code 按前缀字符引用
type Code byte

func (n Name) resolve(r *Registry) (Multibase, error) {
	return r.Get(string(n))
}

func (c Code) resolve(r *Registry) (Multibase, error) {
	return r.GetCode(byte(c))
}

func (m Multibase) resolve(r *Registry) (Multibase, error) {
	reg, err := r.Get(m.Name)
	if err != nil {
		return Multibase{}, err
	}
	if reg != m {
		return Multibase{}, fmt.Errorf("%w: %q differs from the registered encoding", ErrConflict, m.Name)
	}
	return reg, nil
}
