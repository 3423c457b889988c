package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/dep2p/go-multiformats/pkg/lib/crypto"
)

// TestNewConfig 测试默认配置有效
func TestNewConfig(t *testing.T) {
	cfg := NewConfig()
	require.NotNil(t, cfg)
	assert.NoError(t, cfg.Validate())

	assert.Equal(t, 1024, cfg.CID.CacheSize)
	assert.Equal(t, "base32", cfg.CID.DefaultBase)
	assert.Equal(t, "sha2-256", cfg.Multihash.DefaultHash)
	assert.Equal(t, "Ed25519", cfg.Identity.KeyType)
	assert.Equal(t, "info", cfg.Log.Level)
}

// TestValidateCollectsAll 测试校验汇总所有错误
func TestValidateCollectsAll(t *testing.T) {
	cfg := NewConfig()
	cfg.CID.CacheSize = -1
	cfg.Log.Format = "xml"
	cfg.Identity.KeyType = "DSA"
	cfg.Multiaddr.Disabled = []string{""}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 4)
	assert.Contains(t, err.Error(), "cache_size")
	assert.Contains(t, err.Error(), "xml")
}

// TestSubConfigs 测试各子配置校验
func TestSubConfigs(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty extra codec table", func(c *Config) { c.Multicodec.ExtraTables = []string{""} }},
		{"empty extra base table", func(c *Config) { c.Multibase.ExtraTables = []string{""} }},
		{"empty disabled base", func(c *Config) { c.Multibase.Disabled = []string{""} }},
		{"empty default hash", func(c *Config) { c.Multihash.DefaultHash = "" }},
		{"default hash disabled", func(c *Config) { c.Multihash.Disabled = []string{"sha2-256"} }},
		{"empty default base", func(c *Config) { c.CID.DefaultBase = "" }},
		{"rsa too small", func(c *Config) { c.Identity = IdentityConfig{KeyType: "RSA", RSABits: 1024} }},
		{"rsa too big", func(c *Config) { c.Identity = IdentityConfig{KeyType: "RSA", RSABits: 16384} }},
		{"bad level", func(c *Config) { c.Log.Level = "verbose" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

// TestParseKeyType 测试密钥类型名称
func TestParseKeyType(t *testing.T) {
	kt, err := ParseKeyType("Secp256k1")
	require.NoError(t, err)
	assert.Equal(t, crypto.KeyTypeSecp256k1, kt)

	_, err = ParseKeyType("ed25519")
	assert.Error(t, err)

	assert.Equal(t, "RSA", DefaultIdentityConfig().WithKeyType("RSA").KeyType)
}

// TestFromJSON 测试 JSON 覆盖默认值
func TestFromJSON(t *testing.T) {
	cfg, err := FromJSON([]byte(`{"cid":{"cache_size":0},"multihash":{"disabled":["md5"]},"log":{"level":"debug"}}`))
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.CID.CacheSize)
	assert.Equal(t, "base32", cfg.CID.DefaultBase)
	assert.Equal(t, []string{"md5"}, cfg.Multihash.Disabled)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.NoError(t, cfg.Validate())

	_, err = FromJSON([]byte(`{"cid":`))
	assert.Error(t, err)
}

// TestSaveLoadFile 测试文件往返
func TestSaveLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "multiformats.json")

	cfg := NewConfig()
	cfg.Multiaddr.Disabled = []string{"garlic64"}
	cfg.Log.FxEvents = true
	require.NoError(t, cfg.SaveFile(path))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

// TestApplyEnv 测试环境变量覆盖
func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"MULTIFORMATS_LOG_LEVEL":      "warn",
		"MULTIFORMATS_CID_CACHE_SIZE": "64",
		"MULTIFORMATS_CID_BASE":       " base58btc ",
		"MULTIFORMATS_KEY_TYPE":       "",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := NewConfig()
	require.NoError(t, applyEnv(cfg, lookup))
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, 64, cfg.CID.CacheSize)
	assert.Equal(t, "base58btc", cfg.CID.DefaultBase)
	assert.Equal(t, "Ed25519", cfg.Identity.KeyType)

	env["MULTIFORMATS_CID_CACHE_SIZE"] = "lots"
	cfg = NewConfig()
	err := applyEnv(cfg, lookup)
	assert.ErrorContains(t, err, "MULTIFORMATS_CID_CACHE_SIZE")
	assert.Equal(t, 1024, cfg.CID.CacheSize)
	assert.Equal(t, "warn", cfg.Log.Level)
}

// TestApplyEnvProcess 测试读取进程环境变量
func TestApplyEnvProcess(t *testing.T) {
	t.Setenv("MULTIFORMATS_LOG_FORMAT", "json")
	cfg := NewConfig()
	require.NoError(t, ApplyEnv(cfg))
	assert.Equal(t, "json", cfg.Log.Format)
}
