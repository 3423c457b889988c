package multihash

import (
	"fmt"
	"io"
	"sort"

	"github.com/dep2p/go-multiformats/pkg/lib/multicodec"
	"github.com/dep2p/go-multiformats/pkg/lib/multihash/hashfun"
	"github.com/dep2p/go-multiformats/pkg/lib/varint"
)

// Registry 把 multicodec 条目和哈希实现组合为 Multihash
//
// 本身不保存状态，条目和实现分别由两个底层注册表维护。
type Registry struct {
	codecs *multicodec.Registry
	impls  *hashfun.Registry
}

// NewRegistry 创建注册表
func NewRegistry(codecs *multicodec.Registry, impls *hashfun.Registry) *Registry {
	return &Registry{codecs: codecs, impls: impls}
}

// Codecs 返回底层 multicodec 注册表
func (r *Registry) Codecs() *multicodec.Registry {
	return r.codecs
}

// Impls 返回底层哈希实现注册表
func (r *Registry) Impls() *hashfun.Registry {
	return r.impls
}

// Get 按名称查找
func (r *Registry) Get(name string) (Multihash, error) {
	return r.Resolve(multicodec.Name(name))
}

// GetCode 按代码查找
func (r *Registry) GetCode(code uint64) (Multihash, error) {
	return r.Resolve(multicodec.Code(code))
}

// Resolve 解析引用
//
// 条目必须存在且标签为 multihash，并且有可用的实现。
// Multihash 值本身也可以作为引用传入。
func (r *Registry) Resolve(ref multicodec.Ref) (Multihash, error) {
	codec, err := r.codecs.Resolve(ref)
	if err != nil {
		return Multihash{}, err
	}
	return r.bind(codec)
}

func (r *Registry) bind(codec multicodec.Multicodec) (Multihash, error) {
	if !IsMultihashTag(codec.Tag) {
		return Multihash{}, fmt.Errorf("%w: %s has tag %q", ErrNotMultihash, codec, codec.Tag)
	}
	impl, err := r.impls.Get(codec.Name)
	if err != nil {
		return Multihash{}, fmt.Errorf("%w: %s: %w", ErrNotImplemented, codec.Name, err)
	}
	return Multihash{Multicodec: codec, impl: impl}, nil
}

// Exists 名称是否对应一个已实现的 multihash
func (r *Registry) Exists(name string) bool {
	_, err := r.Get(name)
	return err == nil
}

// ExistsCode 代码是否对应一个已实现的 multihash
func (r *Registry) ExistsCode(code uint64) bool {
	_, err := r.GetCode(code)
	return err == nil
}

// Register 为已存在的 multihash 条目注册实现
func (r *Registry) Register(name string, fn hashfun.Func, maxSize int, overwrite bool) error {
	codec, err := r.codecs.Get(name)
	if err != nil {
		return err
	}
	if !IsMultihashTag(codec.Tag) {
		return fmt.Errorf("%w: %s has tag %q", ErrNotMultihash, codec, codec.Tag)
	}
	return r.impls.Register(name, fn, maxSize, overwrite)
}

// Unregister 移除实现，条目本身保留
func (r *Registry) Unregister(name string) error {
	return r.impls.Unregister(name)
}

// Table 返回所有已实现的 multihash，按代码升序
func (r *Registry) Table() []Multihash {
	codecs := r.codecs.Table(multicodec.Filter{Tags: []string{"multihash", "hash"}})
	out := make([]Multihash, 0, len(codecs))
	for _, c := range codecs {
		if h, err := r.bind(c); err == nil {
			out = append(out, h)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// FromDigest 返回摘要使用的 multihash
func (r *Registry) FromDigest(digest []byte) (Multihash, error) {
	code, _, _, err := varint.DecodeRaw(digest)
	if err != nil {
		return Multihash{}, err
	}
	h, err := r.GetCode(code)
	if err != nil {
		return Multihash{}, err
	}
	if _, err := h.Unwrap(digest); err != nil {
		return Multihash{}, err
	}
	return h, nil
}

// Digest 计算摘要
func (r *Registry) Digest(data []byte, ref multicodec.Ref, size int) ([]byte, error) {
	h, err := r.Resolve(ref)
	if err != nil {
		return nil, err
	}
	return h.Digest(data, size)
}

// Wrap 包装原始摘要
func (r *Registry) Wrap(raw []byte, ref multicodec.Ref) ([]byte, error) {
	h, err := r.Resolve(ref)
	if err != nil {
		return nil, err
	}
	return h.Wrap(raw)
}

// Unwrap 解包摘要
//
// ref 为 nil 时使用摘要自身的代码。
func (r *Registry) Unwrap(digest []byte, ref multicodec.Ref) ([]byte, error) {
	var (
		h   Multihash
		err error
	)
	if ref == nil {
		h, err = r.FromDigest(digest)
	} else {
		h, err = r.Resolve(ref)
	}
	if err != nil {
		return nil, err
	}
	return h.Unwrap(digest)
}

// UnwrapRaw 解包摘要，返回代码和原始摘要
//
// 代码必须是已知的 multihash 条目，不要求有实现。
func (r *Registry) UnwrapRaw(digest []byte) (uint64, []byte, error) {
	code, raw, err := decode(digest)
	if err != nil {
		return 0, nil, err
	}
	codec, err := r.codecs.GetCode(code)
	if err != nil || !IsMultihashTag(codec.Tag) {
		return 0, nil, fmt.Errorf("%w: 0x%x", ErrUnknownCode, code)
	}
	return code, raw, nil
}

// UnwrapReader 从流中读取一个摘要
func (r *Registry) UnwrapReader(rd io.Reader) (Multihash, []byte, error) {
	br := asByteReader(rd)
	code, _, err := varint.DecodeReader(br)
	if err != nil {
		return Multihash{}, nil, err
	}
	h, err := r.GetCode(code)
	if err != nil {
		return Multihash{}, nil, err
	}
	size, _, err := varint.DecodeReader(br)
	if err != nil {
		return Multihash{}, nil, err
	}
	raw, err := h.readRaw(rd, size)
	if err != nil {
		return Multihash{}, nil, err
	}
	return h, raw, nil
}
