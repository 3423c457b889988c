package config

import "fmt"

// CIDConfig CID 工厂配置
type CIDConfig struct {
	// CacheSize 字符串解码 LRU 缓存容量，0 表示不缓存
	// 默认值: 1024
	CacheSize int `json:"cache_size"`

	// DefaultBase CIDv1 的默认文本编码
	// 默认值: "base32"
	DefaultBase string `json:"default_base"`
}

// DefaultCIDConfig 返回默认 CID 配置
func DefaultCIDConfig() CIDConfig {
	return CIDConfig{
		CacheSize:   1024,
		DefaultBase: "base32",
	}
}

// Validate 校验 CID 配置
func (c CIDConfig) Validate() error {
	if c.CacheSize < 0 {
		return fmt.Errorf("cid: cache_size %d must be non-negative", c.CacheSize)
	}
	if c.DefaultBase == "" {
		return fmt.Errorf("cid: default_base cannot be empty")
	}
	return nil
}
