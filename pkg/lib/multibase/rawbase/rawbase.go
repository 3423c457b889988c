// Package rawbase 提供不带 multibase 前缀的原始 base-N 编解码
//
// 编码按名称注册（名称与 multibase 表中的名称一致，如 "base32hexpad"）。
// 内置编码不在导入时全部构造，而是在第一次 Get 时由名称前缀匹配的
// 工厂函数构造并缓存。
package rawbase

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/dep2p/go-multiformats/pkg/lib/log"
	"github.com/dep2p/go-multiformats/pkg/lib/mferr"
)

const module = "rawbase"

var logger = log.Logger("multibase/rawbase")

// 通用错误
var (
	// ErrUnknownEncoding 编码不存在
	ErrUnknownEncoding = mferr.NotFound(module, "unknown encoding")

	// ErrConflict 编码已注册
	ErrConflict = mferr.Invalid(module, "encoding already registered")

	// ErrMalformed 编码字符串格式错误
	ErrMalformed = mferr.Invalid(module, "malformed input")

	// ErrIncomplete 编码缺少编解码函数
	ErrIncomplete = mferr.Invalid(module, "encoding requires both encode and decode functions")
)

// Encoding 一种原始编码
type Encoding struct {
	// Name 编码名称
	Name string

	// Encode 字节到字符串
	Encode func([]byte) string

	// Decode 字符串到字节，输入非法时返回错误
	Decode func(string) ([]byte, error)
}

// factory 按名称构造内置编码，名称不受支持时返回 false
type factory struct {
	prefix string
	build  func(name string) (Encoding, bool)
}

// factories 按前缀长度降序匹配
var factories = []factory{
	{"identity", buildIdentity},
	{"proquint", buildProquint},
	{"base2", buildNumeric},
	{"base8", buildNumeric},
	{"base10", buildNumeric},
	{"base16", buildBase16},
	{"base32", buildBase32},
	{"base36", buildBase36},
	{"base58", buildBase58},
	{"base64", buildBase64},
}

func init() {
	sort.SliceStable(factories, func(i, j int) bool {
		return len(factories[i].prefix) > len(factories[j].prefix)
	})
}

func lookupFactory(name string) (Encoding, bool) {
	for _, f := range factories {
		if strings.HasPrefix(name, f.prefix) {
			if enc, ok := f.build(name); ok {
				return enc, true
			}
		}
	}
	return Encoding{}, false
}

// Registry 名称到编码的映射
type Registry struct {
	mu        sync.RWMutex
	encodings map[string]Encoding
	removed   map[string]struct{}
}

// NewRegistry 创建只含内置工厂的注册表
func NewRegistry() *Registry {
	return &Registry{
		encodings: make(map[string]Encoding),
		removed:   make(map[string]struct{}),
	}
}

// Get 返回编码，首次访问内置编码时构造
func (r *Registry) Get(name string) (Encoding, error) {
	r.mu.RLock()
	enc, ok := r.encodings[name]
	_, removed := r.removed[name]
	r.mu.RUnlock()
	if ok {
		return enc, nil
	}
	if removed {
		return Encoding{}, fmt.Errorf("%w %q", ErrUnknownEncoding, name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if enc, ok := r.encodings[name]; ok {
		return enc, nil
	}
	if _, removed := r.removed[name]; removed {
		return Encoding{}, fmt.Errorf("%w %q", ErrUnknownEncoding, name)
	}
	enc, ok = lookupFactory(name)
	if !ok {
		return Encoding{}, fmt.Errorf("%w %q", ErrUnknownEncoding, name)
	}
	r.encodings[name] = enc
	logger.Debug("构造内置编码", "name", name)
	return enc, nil
}

// Exists 编码是否已注册或可由内置工厂构造
func (r *Registry) Exists(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if _, ok := r.encodings[name]; ok {
		return true
	}
	if _, removed := r.removed[name]; removed {
		return false
	}
	_, ok := lookupFactory(name)
	return ok
}

// Register 注册编码，overwrite 为 false 时名称已存在即报错
func (r *Registry) Register(enc Encoding, overwrite bool) error {
	if enc.Encode == nil || enc.Decode == nil {
		return fmt.Errorf("%w: %q", ErrIncomplete, enc.Name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.encodings[enc.Name]; ok && !overwrite {
		return fmt.Errorf("%w: %q", ErrConflict, enc.Name)
	}
	r.encodings[enc.Name] = enc
	delete(r.removed, enc.Name)
	logger.Debug("注册编码", "name", enc.Name, "overwrite", overwrite)
	return nil
}

// Unregister 移除编码，之后内置工厂也不再为该名称构造
func (r *Registry) Unregister(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.encodings[name]; !ok {
		if _, built := lookupFactory(name); !built {
			return fmt.Errorf("%w %q", ErrUnknownEncoding, name)
		}
	}
	if _, removed := r.removed[name]; removed {
		return fmt.Errorf("%w %q", ErrUnknownEncoding, name)
	}
	delete(r.encodings, name)
	r.removed[name] = struct{}{}
	logger.Debug("移除编码", "name", name)
	return nil
}

var defaultRegistry = NewRegistry()

// Default 返回全局注册表
func Default() *Registry { return defaultRegistry }

// Get 从全局注册表获取编码
func Get(name string) (Encoding, error) { return defaultRegistry.Get(name) }

// Exists 检查全局注册表
func Exists(name string) bool { return defaultRegistry.Exists(name) }

// Register 注册到全局注册表
func Register(enc Encoding, overwrite bool) error { return defaultRegistry.Register(enc, overwrite) }

// Unregister 从全局注册表移除
func Unregister(name string) error { return defaultRegistry.Unregister(name) }

func malformed(name, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrMalformed, name, fmt.Sprintf(format, args...))
}
