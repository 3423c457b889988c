package multiformats

import (
	"context"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"

	"github.com/dep2p/go-multiformats/config"
	"github.com/dep2p/go-multiformats/pkg/lib/cid"
	"github.com/dep2p/go-multiformats/pkg/lib/crypto"
	"github.com/dep2p/go-multiformats/pkg/lib/multicodec"
	"github.com/dep2p/go-multiformats/pkg/lib/multihash"
)

func newContext(t *testing.T, opts ...Option) *Context {
	t.Helper()
	mf, err := New(context.Background(), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = mf.Close(context.Background()) })
	return mf
}

// TestNewDefault 测试默认上下文的端到端操作
func TestNewDefault(t *testing.T) {
	mf := newContext(t)

	c, err := mf.Sum([]byte("hello"), "raw", "sha2-256")
	require.NoError(t, err)
	assert.Equal(t, "bafkreibm6jg3ux5qumhcn2b3flc3tyu6dmlb4xa7u5bf44yegnrjhc4yeq", c.String())

	back, err := mf.DecodeCID(c.String())
	require.NoError(t, err)
	assert.True(t, c.Equal(back))

	ma, err := mf.ParseMultiaddr("/ip4/127.0.0.1/udp/9090/quic")
	require.NoError(t, err)
	b, err := ma.Bytes()
	require.NoError(t, err)
	assert.Equal(t, "047f00000191022382cc03", hex.EncodeToString(b))

	decoded, err := mf.DecodeMultiaddr(b)
	require.NoError(t, err)
	assert.True(t, ma.Equal(decoded))

	assert.Same(t, mf.Codecs(), mf.Hashes().Codecs())
	assert.Same(t, mf.Bases(), mf.CIDs().Bases())
	assert.Same(t, mf.Codecs(), mf.Addrs().Codecs())
	assert.NotNil(t, mf.Metrics())
	assert.Equal(t, 1024, mf.Config().CID.CacheSize)
}

// TestWithConfig 测试配置影响上下文而不影响默认注册表
func TestWithConfig(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Multihash.Disabled = []string{"md5"}
	cfg.CID.DefaultBase = "base58btc"
	mf := newContext(t, WithConfig(cfg))

	_, err := mf.Digest([]byte("x"), "md5", multihash.DefaultSize)
	assert.True(t, IsNotFound(err))
	_, err = multihash.Digest([]byte("x"), multicodec.Name("md5"), multihash.DefaultSize)
	assert.NoError(t, err)

	c, err := mf.Sum([]byte("hello"), "raw", "sha2-256")
	require.NoError(t, err)
	assert.Equal(t, byte('z'), c.String()[0])
}

// TestWithConfigFile 测试从文件加载并应用环境变量
func TestWithConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mf.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"cid":{"cache_size":16}}`), 0o600))
	t.Setenv("MULTIFORMATS_CID_CACHE_SIZE", "32")

	mf := newContext(t, WithConfigFile(path))
	assert.Equal(t, 16, mf.Config().CID.CacheSize)

	withEnv := newContext(t, WithConfigFile(path), WithEnv())
	assert.Equal(t, 32, withEnv.Config().CID.CacheSize)
}

// TestNewErrors 测试非法选项与配置
func TestNewErrors(t *testing.T) {
	ctx := context.Background()

	_, err := New(ctx, WithConfig(nil))
	assert.Error(t, err)

	_, err = New(ctx, WithConfigFile(""))
	assert.Error(t, err)

	_, err = New(ctx, WithConfigFile(filepath.Join(t.TempDir(), "missing.json")))
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := config.NewConfig()
	bad.CID.CacheSize = -1
	_, err = New(ctx, WithConfig(bad))
	assert.ErrorContains(t, err, "config validation failed")

	unknown := config.NewConfig()
	unknown.Multiaddr.Disabled = []string{"no-such-proto"}
	_, err = New(ctx, WithConfig(unknown))
	assert.ErrorContains(t, err, "no-such-proto")
}

// TestWithFxOptions 测试自定义模块可以依赖注册表
func TestWithFxOptions(t *testing.T) {
	var got *cid.Factory
	mf := newContext(t, WithFxOptions(fx.Invoke(func(f *cid.Factory) { got = f })))
	assert.Same(t, mf.CIDs(), got)
}

// TestLogFile 测试日志写入文件
func TestLogFile(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Log.File = filepath.Join(t.TempDir(), "mf.log")
	cfg.Log.Format = "json"

	mf, err := New(context.Background(), WithConfig(cfg))
	require.NoError(t, err)
	require.NoError(t, mf.Close(context.Background()))

	data, err := os.ReadFile(cfg.Log.File)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"version"`)
}

// TestClose 测试重复关闭
func TestClose(t *testing.T) {
	mf, err := New(context.Background())
	require.NoError(t, err)
	require.NoError(t, mf.Close(context.Background()))
	assert.ErrorIs(t, mf.Close(context.Background()), ErrClosed)
}

// TestPeerID 测试由公钥计算 PeerID
func TestPeerID(t *testing.T) {
	mf := newContext(t)
	priv, err := crypto.GenerateKey(crypto.KeyTypeEd25519, nil)
	require.NoError(t, err)
	pub := priv.Public()

	id, err := mf.PeerID(pub)
	require.NoError(t, err)
	assert.Equal(t, "libp2p-key", id.Codec().Name)

	want, err := crypto.PeerIDFromPublicKey(pub)
	require.NoError(t, err)
	assert.True(t, want.Equal(id))
	assert.NoError(t, mf.VerifyPeerID(pub, id))

	other, err := crypto.GenerateKey(crypto.KeyTypeEd25519, nil)
	require.NoError(t, err)
	assert.ErrorIs(t, mf.VerifyPeerID(other.Public(), id), crypto.ErrPeerIDMismatch)
}

// TestVersionInfo 测试版本字符串
func TestVersionInfo(t *testing.T) {
	assert.Equal(t, "go-multiformats "+Version, VersionInfo())
}
