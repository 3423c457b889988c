package hashfun

import (
	"fmt"
	"sync"

	"github.com/dep2p/go-multiformats/pkg/lib/log"
)

var logger = log.Logger("multihash/hashfun")

// Registry 名称到实现的映射
type Registry struct {
	mu      sync.RWMutex
	impls   map[string]Impl
	removed map[string]struct{}
}

// NewRegistry 创建只含内置工厂的注册表
func NewRegistry() *Registry {
	return &Registry{
		impls:   make(map[string]Impl),
		removed: make(map[string]struct{}),
	}
}

// Get 返回实现，首次访问内置实现时构造
func (r *Registry) Get(name string) (Impl, error) {
	r.mu.RLock()
	impl, ok := r.impls[name]
	_, removed := r.removed[name]
	r.mu.RUnlock()
	if ok {
		return impl, nil
	}
	if removed {
		return Impl{}, fmt.Errorf("%w for %q", ErrUnknownImpl, name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if impl, ok := r.impls[name]; ok {
		return impl, nil
	}
	if _, removed := r.removed[name]; removed {
		return Impl{}, fmt.Errorf("%w for %q", ErrUnknownImpl, name)
	}
	impl, ok = lookupFactory(name)
	if !ok {
		return Impl{}, fmt.Errorf("%w for %q", ErrUnknownImpl, name)
	}
	r.impls[name] = impl
	logger.Debug("构造内置哈希实现", "name", name, "maxSize", impl.MaxSize)
	return impl, nil
}

// Exists 是否有该名称的实现（已注册或可由内置工厂构造）
func (r *Registry) Exists(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if _, ok := r.impls[name]; ok {
		return true
	}
	if _, removed := r.removed[name]; removed {
		return false
	}
	_, ok := lookupFactory(name)
	return ok
}

// Register 注册实现
//
// maxSize 为 0 表示不限长度；overwrite 为 false 时名称已存在即报错。
func (r *Registry) Register(name string, fn Func, maxSize int, overwrite bool) error {
	if fn == nil {
		return fmt.Errorf("%w: %s", ErrNilFunc, name)
	}
	if maxSize < 0 {
		return fmt.Errorf("%w: %s: max size %d must be non-negative", ErrInvalidSize, name, maxSize)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	_, registered := r.impls[name]
	if !registered {
		if _, removed := r.removed[name]; !removed {
			_, registered = lookupFactory(name)
		}
	}
	if registered && !overwrite {
		return fmt.Errorf("%w: %q", ErrConflict, name)
	}
	r.impls[name] = Impl{Name: name, Func: fn, MaxSize: maxSize}
	delete(r.removed, name)
	logger.Debug("注册哈希实现", "name", name, "maxSize", maxSize, "overwrite", overwrite)
	return nil
}

// Unregister 移除实现，之后内置工厂也不再为该名称构造
func (r *Registry) Unregister(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, removed := r.removed[name]; removed {
		return fmt.Errorf("%w for %q", ErrUnknownImpl, name)
	}
	if _, ok := r.impls[name]; !ok {
		if _, ok := lookupFactory(name); !ok {
			return fmt.Errorf("%w for %q", ErrUnknownImpl, name)
		}
	}
	delete(r.impls, name)
	r.removed[name] = struct{}{}
	logger.Debug("移除哈希实现", "name", name)
	return nil
}

var defaultRegistry = NewRegistry()

// Default 返回全局注册表
func Default() *Registry { return defaultRegistry }

// Get 从全局注册表获取实现
func Get(name string) (Impl, error) { return defaultRegistry.Get(name) }

// Exists 检查全局注册表
func Exists(name string) bool { return defaultRegistry.Exists(name) }
