package cidcache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/dep2p/go-multiformats/config"
	"github.com/dep2p/go-multiformats/internal/core/registry"
	"github.com/dep2p/go-multiformats/pkg/lib/cid"
)

const testCID = "bafybeigdyrzt5sfp7udm7hu76uh7y26nf3efuylqabf3oclgtqy55fbzdi"

// TestModule 测试工厂由配置构建，停止时清空缓存
func TestModule(t *testing.T) {
	cfg := config.NewConfig()
	cfg.CID.CacheSize = 8

	var f *cid.Factory
	app := fxtest.New(t,
		fx.Supply(cfg),
		registry.Module(),
		Module(),
		fx.Populate(&f),
		fx.NopLogger,
	)
	app.RequireStart()

	c1, err := f.Decode(testCID)
	require.NoError(t, err)
	c2, err := f.Decode(testCID)
	require.NoError(t, err)
	assert.True(t, c1.Equal(c2))

	s := f.Stats()
	assert.Equal(t, uint64(1), s.Hits)
	assert.Equal(t, uint64(1), s.Misses)
	assert.Equal(t, 1, s.Len)

	app.RequireStop()
	assert.Equal(t, 0, f.Stats().Len)
}

// TestConfigFromUnified 测试配置转换
func TestConfigFromUnified(t *testing.T) {
	assert.Equal(t, cid.DefaultCacheSize, ConfigFromUnified(nil).CacheSize)

	cfg := config.NewConfig()
	cfg.CID.CacheSize = 0
	assert.Equal(t, 0, ConfigFromUnified(cfg).CacheSize)
}

// TestProvideFactoryInvalid 测试非法容量
func TestProvideFactoryInvalid(t *testing.T) {
	cfg := config.NewConfig()
	cfg.CID.CacheSize = -1
	r, err := registry.Build(config.NewConfig())
	require.NoError(t, err)

	_, err = ProvideFactory(Params{UnifiedCfg: cfg, Bases: r.Bases, Codecs: r.Codecs, Hashes: r.Hashes})
	assert.Error(t, err)
}
