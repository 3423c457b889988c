package multicodec

import "fmt"

// Ref 引用一个条目：Name、Code 或 Multicodec 值
//
// 由注册表的 Resolve 解析为已注册条目。
type Ref interface {
	resolve(r *Registry) (Multicodec, error)
}

// Name 按名称引用
type Name string

// Code 按代码引用
type Code uint64

func (n Name) resolve(r *Registry) (Multicodec, error) {
	return r.Get(string(n))
}

func (c Code) resolve(r *Registry) (Multicodec, error) {
	return r.GetCode(uint64(c))
}

// resolve 要求注册表中同名条目与 m 完全一致
func (m Multicodec) resolve(r *Registry) (Multicodec, error) {
	reg, err := r.Get(m.Name)
	if err != nil {
		return Multicodec{}, err
	}
	if !reg.Equal(m) {
		return Multicodec{}, fmt.Errorf("%w: %s differs from registered %s", ErrConflict, m, reg)
	}
	return reg, nil
}
