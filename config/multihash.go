package config

import "fmt"

// MultihashConfig 哈希实现配置
type MultihashConfig struct {
	// Disabled 启动时移除的哈希实现名称
	// 被移除的哈希仍在编解码器表中，但不能再计算摘要
	Disabled []string `json:"disabled,omitempty"`

	// DefaultHash 命令行 hash 子命令的默认哈希
	// 默认值: "sha2-256"
	DefaultHash string `json:"default_hash"`
}

// DefaultMultihashConfig 返回默认哈希配置
func DefaultMultihashConfig() MultihashConfig {
	return MultihashConfig{
		DefaultHash: "sha2-256",
	}
}

// Validate 校验哈希配置
func (c MultihashConfig) Validate() error {
	if c.DefaultHash == "" {
		return fmt.Errorf("multihash: default_hash cannot be empty")
	}
	for _, name := range c.Disabled {
		if name == c.DefaultHash {
			return fmt.Errorf("multihash: default hash %q is disabled", name)
		}
	}
	return validateNames("multihash", c.Disabled)
}
