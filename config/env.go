package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.uber.org/multierr"
)

// EnvPrefix 环境变量前缀
const EnvPrefix = "MULTIFORMATS_"

// 环境变量名（不含前缀）
const (
	EnvLogLevel     = "LOG_LEVEL"
	EnvLogFormat    = "LOG_FORMAT"
	EnvLogFile      = "LOG_FILE"
	EnvCIDCacheSize = "CID_CACHE_SIZE"
	EnvCIDBase      = "CID_BASE"
	EnvKeyType      = "KEY_TYPE"
)

// ApplyEnv 用环境变量覆盖配置
//
// 环境变量优先级高于配置文件，低于命令行参数。无法解析的值会被报告，
// 其余变量照常生效。
func ApplyEnv(c *Config) error {
	return applyEnv(c, os.LookupEnv)
}

func applyEnv(c *Config, lookup func(string) (string, bool)) error {
	get := func(name string) (string, bool) {
		v, ok := lookup(EnvPrefix + name)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	var errs error
	if v, ok := get(EnvLogLevel); ok {
		c.Log.Level = v
	}
	if v, ok := get(EnvLogFormat); ok {
		c.Log.Format = v
	}
	if v, ok := get(EnvLogFile); ok {
		c.Log.File = v
	}
	if v, ok := get(EnvCIDCacheSize); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, EnvCIDCacheSize, err))
		} else {
			c.CID.CacheSize = n
		}
	}
	if v, ok := get(EnvCIDBase); ok {
		c.CID.DefaultBase = v
	}
	if v, ok := get(EnvKeyType); ok {
		c.Identity.KeyType = v
	}
	return errs
}
