// Package cidcache 提供带 LRU 解码缓存的 CID 工厂
package cidcache

import (
	"context"

	"go.uber.org/fx"

	"github.com/dep2p/go-multiformats/config"
	"github.com/dep2p/go-multiformats/pkg/lib/cid"
	"github.com/dep2p/go-multiformats/pkg/lib/log"
	"github.com/dep2p/go-multiformats/pkg/lib/multibase"
	"github.com/dep2p/go-multiformats/pkg/lib/multicodec"
	"github.com/dep2p/go-multiformats/pkg/lib/multihash"
)

var logger = log.Logger("cidcache")

// Config 工厂配置
type Config struct {
	// CacheSize 缓存容量，0 表示不缓存
	CacheSize int
}

// NewConfig 创建默认配置
func NewConfig() Config {
	return Config{CacheSize: cid.DefaultCacheSize}
}

// ConfigFromUnified 从统一配置创建工厂配置
func ConfigFromUnified(cfg *config.Config) Config {
	if cfg == nil {
		return NewConfig()
	}
	return Config{CacheSize: cfg.CID.CacheSize}
}

// Params 依赖参数
type Params struct {
	fx.In

	UnifiedCfg *config.Config `optional:"true"`
	Bases      *multibase.Registry
	Codecs     *multicodec.Registry
	Hashes     *multihash.Registry
}

// Module 返回 Fx 模块
func Module() fx.Option {
	return fx.Module("cidcache",
		fx.Provide(ProvideFactory),
		fx.Invoke(registerLifecycle),
	)
}

// ProvideFactory 提供 CID 工厂
func ProvideFactory(p Params) (*cid.Factory, error) {
	cfg := ConfigFromUnified(p.UnifiedCfg)
	f, err := cid.NewFactory(p.Bases, p.Codecs, p.Hashes, cfg.CacheSize)
	if err != nil {
		return nil, err
	}
	logger.Debug("创建 CID 工厂", "cacheSize", cfg.CacheSize)
	return f, nil
}

// lifecycleInput 生命周期注册输入
type lifecycleInput struct {
	fx.In

	LC      fx.Lifecycle
	Factory *cid.Factory
}

// registerLifecycle 停止时输出缓存统计并清空缓存
func registerLifecycle(input lifecycleInput) {
	input.LC.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			s := input.Factory.Stats()
			logger.InfoContext(ctx, "CID 缓存统计", "hits", s.Hits, "misses", s.Misses, "entries", s.Len)
			input.Factory.Purge()
			return nil
		},
	})
}
