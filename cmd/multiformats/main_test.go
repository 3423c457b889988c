package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-multiformats"
	"github.com/dep2p/go-multiformats/config"
)

const (
	helloCID    = "bafkreibm6jg3ux5qumhcn2b3flc3tyu6dmlb4xa7u5bf44yegnrjhc4yeq"
	helloSHA256 = "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"
)

func newTestContext(t *testing.T) *multiformats.Context {
	t.Helper()
	mf, err := multiformats.New(context.Background(), multiformats.WithConfig(config.NewConfig()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = mf.Close(context.Background()) })
	return mf
}

func runCmd(t *testing.T, mf *multiformats.Context, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	err := execute(context.Background(), mf, args, &buf)
	return buf.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// TestCommands 测试各子命令输出
func TestCommands(t *testing.T) {
	mf := newTestContext(t)
	hello := writeFile(t, "hello.txt", "hello")

	tests := []struct {
		name     string
		args     []string
		contains []string
	}{
		{"varint encode", []string{"varint", "encode", "300"}, []string{"ac02"}},
		{"varint encode hex", []string{"varint", "encode", "0x7f"}, []string{"7f"}},
		{"varint decode", []string{"varint", "decode", "ac02"}, []string{"300"}},
		{"varint decode trailing", []string{"varint", "decode", "01ff"}, []string{"1\n", "ff"}},
		{"codec get name", []string{"codec", "get", "sha2-256"}, []string{"0x12", "multihash"}},
		{"codec get code", []string{"codec", "get", "0x55"}, []string{"raw", "ipld"}},
		{"codec table", []string{"codec", "table", "-tag", "multiaddr"}, []string{"ip4", "quic-v1"}},
		{"base encode", []string{"base", "encode", "-base", "base16", "hello"}, []string{"f68656c6c6f"}},
		{"base encode hex", []string{"base", "encode", "-base", "base16upper", "-hex", "00ff"}, []string{"F00FF"}},
		{"base decode", []string{"base", "decode", "f68656c6c6f"}, []string{"base16", "68656c6c6f"}},
		{"base decode expected", []string{"base", "decode", "-base", "base16", "f68656c6c6f"}, []string{"base16", "68656c6c6f"}},
		{"base table", []string{"base", "table"}, []string{"base58btc", "base32"}},
		{"hash", []string{"hash", hello}, []string{"1220" + helloSHA256, hello}},
		{"hash truncated", []string{"hash", "-size", "4", hello}, []string{"1204" + helloSHA256[:8]}},
		{"cid sum", []string{"cid", "sum", hello}, []string{helloCID}},
		{"cid decode", []string{"cid", "decode", helloCID}, []string{"raw", "sha2-256", helloSHA256}},
		{"cid encode", []string{"cid", "encode", "-base", "base16", helloCID}, []string{"f015512" + "20" + helloSHA256}},
		{
			"cid peer",
			[]string{"cid", "peer", "080112201498b5467a63dffa2dc9d9e069caf075d16fc33fdd4c3b01bfadae6433767d93"},
			[]string{"bafzaajaiaejcafeywvdhuy677iw4twpanhfpa5orn7bt7xkmhma37lnomqzxm7mt"},
		},
		{
			"maddr parse",
			[]string{"maddr", "parse", "/ip4/127.0.0.1/udp/9090/quic"},
			[]string{"047f00000191022382cc03", "127.0.0.1", "9090"},
		},
		{
			"maddr decode",
			[]string{"maddr", "decode", "047f00000191022382cc03"},
			[]string{"/ip4/127.0.0.1/udp/9090/quic"},
		},
		{"key gen", []string{"key", "gen"}, []string{"Ed25519", "bafzaajaiaejc"}},
		{"key gen secp256k1", []string{"key", "gen", "-type", "Secp256k1"}, []string{"Secp256k1", "peer"}},
		{"version", []string{"version"}, []string{multiformats.Version}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runCmd(t, mf, tt.args...)
			require.NoError(t, err)
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
		})
	}
}

// TestHashManyFiles 测试并发摘要按参数顺序输出
func TestHashManyFiles(t *testing.T) {
	mf := newTestContext(t)
	var files []string
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		files = append(files, writeFile(t, name, strings.Repeat(name, 10)))
	}

	out, err := runCmd(t, mf, append([]string{"hash", "-fn", "sha2-512"}, files...)...)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, len(files))
	for i, line := range lines {
		assert.True(t, strings.HasSuffix(line, files[i]), line)
		assert.True(t, strings.HasPrefix(line, "1340"), line)
	}
}

// TestCommandErrors 测试错误输入
func TestCommandErrors(t *testing.T) {
	mf := newTestContext(t)

	tests := []struct {
		name  string
		args  []string
		usage bool
	}{
		{"empty", nil, true},
		{"unknown command", []string{"frobnicate"}, true},
		{"missing subcommand", []string{"cid"}, true},
		{"unknown subcommand", []string{"cid", "frob"}, true},
		{"missing argument", []string{"varint", "encode"}, true},
		{"too many arguments", []string{"base", "decode", "a", "b"}, true},
		{"hash without files", []string{"hash"}, true},
		{"varint not a number", []string{"varint", "encode", "abc"}, false},
		{"varint bad hex", []string{"varint", "decode", "zz"}, false},
		{"codec unknown", []string{"codec", "get", "no-such-codec"}, false},
		{"base unknown", []string{"base", "encode", "-base", "base99", "x"}, false},
		{"base decode mismatch", []string{"base", "decode", "-base", "base32", "f68656c6c6f"}, false},
		{"hash missing file", []string{"hash", filepath.Join(t.TempDir(), "missing")}, false},
		{"hash unknown fn", []string{"hash", "-fn", "no-such-hash", "x"}, false},
		{"cid invalid", []string{"cid", "decode", "not-a-cid"}, false},
		{"maddr invalid", []string{"maddr", "parse", "/ip4/999.0.0.1"}, false},
		{"key bad type", []string{"key", "gen", "-type", "DSA"}, false},
		{"key small rsa", []string{"key", "gen", "-type", "RSA", "-bits", "1024"}, false},
		{"bad flag", []string{"codec", "table", "-nope"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCmd(t, mf, tt.args...)
			require.Error(t, err)
			if tt.usage {
				assert.ErrorIs(t, err, errUsage)
			}
		})
	}
}

// TestLoadConfig 测试配置优先级
func TestLoadConfig(t *testing.T) {
	cfg, err := loadConfig("", "")
	require.NoError(t, err)
	assert.Equal(t, config.NewConfig().Log.Level, cfg.Log.Level)

	file := config.NewConfig()
	file.Log.Level = "warn"
	file.CID.DefaultBase = "base58btc"
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, file.SaveFile(path))

	t.Setenv(config.EnvPrefix+"CID_BASE", "base36")
	cfg, err = loadConfig(path, "debug")
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "base36", cfg.CID.DefaultBase)

	_, err = loadConfig(filepath.Join(t.TempDir(), "missing.json"), "")
	assert.Error(t, err)
}

// TestPrintHelp 测试帮助输出
func TestPrintHelp(t *testing.T) {
	var buf bytes.Buffer
	printHelp(&buf)
	out := buf.String()
	for _, s := range []string{"varint encode", "key gen", "-config", "MULTIFORMATS_CID_BASE"} {
		assert.Contains(t, out, s)
	}
}
