// Package registry 按统一配置构建各 multiformats 注册表
//
// 与包级 Default() 不同，这里构建的注册表彼此独立：配置中移除的
// 哈希或协议实现不会影响进程内其他使用默认注册表的代码。
package registry

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.uber.org/fx"
	"go.uber.org/multierr"

	"github.com/dep2p/go-multiformats/config"
	"github.com/dep2p/go-multiformats/pkg/lib/cid"
	"github.com/dep2p/go-multiformats/pkg/lib/log"
	"github.com/dep2p/go-multiformats/pkg/lib/multiaddr"
	"github.com/dep2p/go-multiformats/pkg/lib/multibase"
	"github.com/dep2p/go-multiformats/pkg/lib/multicodec"
	"github.com/dep2p/go-multiformats/pkg/lib/multihash"
	"github.com/dep2p/go-multiformats/pkg/lib/multihash/hashfun"
)

var logger = log.Logger("registry")

// Registries 一组相互关联的注册表
type Registries struct {
	Codecs *multicodec.Registry
	Bases  *multibase.Registry
	Hashes *multihash.Registry
	Addrs  *multiaddr.Registry
}

// Params 依赖参数
type Params struct {
	fx.In

	UnifiedCfg *config.Config `optional:"true"`
}

// Output 模块输出
type Output struct {
	fx.Out

	Codecs *multicodec.Registry
	Bases  *multibase.Registry
	Hashes *multihash.Registry
	Addrs  *multiaddr.Registry
}

// Module 返回 Fx 模块
func Module() fx.Option {
	return fx.Module("registry",
		fx.Provide(ProvideRegistries),
		fx.Invoke(registerLifecycle),
	)
}

// ProvideRegistries 从统一配置提供注册表
func ProvideRegistries(p Params) (Output, error) {
	cfg := p.UnifiedCfg
	if cfg == nil {
		cfg = config.NewConfig()
	}
	r, err := Build(cfg)
	if err != nil {
		return Output{}, err
	}
	return Output{Codecs: r.Codecs, Bases: r.Bases, Hashes: r.Hashes, Addrs: r.Addrs}, nil
}

// Build 按配置构建注册表
func Build(cfg *config.Config) (*Registries, error) {
	codecs, err := buildCodecs(cfg.Multicodec)
	if err != nil {
		return nil, err
	}
	bases, err := buildBases(cfg.Multibase)
	if err != nil {
		return nil, err
	}

	hashes := multihash.NewRegistry(codecs, hashfun.NewRegistry())
	var errs error
	for _, name := range cfg.Multihash.Disabled {
		errs = multierr.Append(errs, hashes.Unregister(name))
	}

	// 多地址中的 PeerID 与证书哈希使用本组注册表解析
	cids, err := cid.NewFactory(bases, codecs, hashes, 0)
	if err != nil {
		return nil, err
	}
	addrs := multiaddr.NewRegistryWith(codecs, cids)
	for _, name := range cfg.Multiaddr.Disabled {
		errs = multierr.Append(errs, addrs.Unregister(name))
	}
	if errs != nil {
		return nil, fmt.Errorf("registry: disable implementations: %w", errs)
	}

	return &Registries{Codecs: codecs, Bases: bases, Hashes: hashes, Addrs: addrs}, nil
}

func buildCodecs(cfg config.MulticodecConfig) (*multicodec.Registry, error) {
	entries, err := multicodec.StaticTable()
	if err != nil {
		return nil, err
	}
	r, err := multicodec.NewRegistry(entries, cfg.AllowPrivateUse)
	if err != nil {
		return nil, err
	}
	for _, path := range cfg.ExtraTables {
		extra, err := loadTable(path, multicodec.LoadCSV)
		if err != nil {
			return nil, err
		}
		for _, m := range extra {
			if err := r.Register(m, true); err != nil {
				return nil, fmt.Errorf("registry: %s: %w", path, err)
			}
		}
		logger.Debug("合并编解码器表", "path", path, "entries", len(extra))
	}
	return r, nil
}

func buildBases(cfg config.MultibaseConfig) (*multibase.Registry, error) {
	entries, err := multibase.StaticTable()
	if err != nil {
		return nil, err
	}
	r, err := multibase.NewRegistry(entries)
	if err != nil {
		return nil, err
	}
	for _, path := range cfg.ExtraTables {
		extra, err := loadTable(path, multibase.LoadCSV)
		if err != nil {
			return nil, err
		}
		for _, m := range extra {
			if err := r.Register(m, true); err != nil {
				return nil, fmt.Errorf("registry: %s: %w", path, err)
			}
		}
		logger.Debug("合并编码表", "path", path, "entries", len(extra))
	}
	var errs error
	for _, name := range cfg.Disabled {
		errs = multierr.Append(errs, r.Unregister(name))
	}
	if errs != nil {
		return nil, fmt.Errorf("registry: disable bases: %w", errs)
	}
	return r, nil
}

func loadTable[T any](path string, parse func(io.Reader) ([]T, error)) ([]T, error) {
	f, err := os.Open(path) //nolint:gosec // G304: 配置指定的表路径
	if err != nil {
		return nil, fmt.Errorf("registry: open table: %w", err)
	}
	defer f.Close()
	entries, err := parse(f)
	if err != nil {
		return nil, fmt.Errorf("registry: %s: %w", path, err)
	}
	return entries, nil
}

// lifecycleInput 生命周期注册输入
type lifecycleInput struct {
	fx.In

	LC     fx.Lifecycle
	Codecs *multicodec.Registry
	Bases  *multibase.Registry
	Hashes *multihash.Registry
	Addrs  *multiaddr.Registry
}

// registerLifecycle 启动时输出各表规模
func registerLifecycle(input lifecycleInput) {
	input.LC.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.InfoContext(ctx, "注册表就绪",
				"codecs", input.Codecs.Len(),
				"bases", input.Bases.Len(),
				"hashes", len(input.Hashes.Table()),
				"protocols", len(input.Addrs.Protos()))
			return nil
		},
	})
}
