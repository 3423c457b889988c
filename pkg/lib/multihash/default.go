package multihash

import (
	"io"
	"sync"

	"github.com/dep2p/go-multiformats/pkg/lib/multicodec"
	"github.com/dep2p/go-multiformats/pkg/lib/multihash/hashfun"
)

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default 返回基于默认 multicodec 表和默认实现的注册表
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry(multicodec.Default(), hashfun.Default())
	})
	return defaultRegistry
}

// Get 在默认注册表中按名称查找
func Get(name string) (Multihash, error) { return Default().Get(name) }

// GetCode 在默认注册表中按代码查找
func GetCode(code uint64) (Multihash, error) { return Default().GetCode(code) }

// Resolve 在默认注册表中解析引用
func Resolve(ref multicodec.Ref) (Multihash, error) { return Default().Resolve(ref) }

// Exists 默认注册表中是否存在
func Exists(name string) bool { return Default().Exists(name) }

// ExistsCode 默认注册表中是否存在代码
func ExistsCode(code uint64) bool { return Default().ExistsCode(code) }

// Register 在默认注册表中注册实现
func Register(name string, fn hashfun.Func, maxSize int, overwrite bool) error {
	return Default().Register(name, fn, maxSize, overwrite)
}

// Unregister 在默认注册表中移除实现
func Unregister(name string) error { return Default().Unregister(name) }

// Table 返回默认注册表中已实现的 multihash
func Table() []Multihash { return Default().Table() }

// FromDigest 返回摘要使用的 multihash
func FromDigest(digest []byte) (Multihash, error) { return Default().FromDigest(digest) }

// Digest 使用默认注册表计算摘要
func Digest(data []byte, ref multicodec.Ref, size int) ([]byte, error) {
	return Default().Digest(data, ref, size)
}

// Wrap 使用默认注册表包装原始摘要
func Wrap(raw []byte, ref multicodec.Ref) ([]byte, error) { return Default().Wrap(raw, ref) }

// Unwrap 使用默认注册表解包摘要
func Unwrap(digest []byte, ref multicodec.Ref) ([]byte, error) { return Default().Unwrap(digest, ref) }

// UnwrapRaw 使用默认注册表解包摘要
func UnwrapRaw(digest []byte) (uint64, []byte, error) { return Default().UnwrapRaw(digest) }

// UnwrapReader 使用默认注册表从流中读取摘要
func UnwrapReader(r io.Reader) (Multihash, []byte, error) { return Default().UnwrapReader(r) }
