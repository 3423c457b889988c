package config

import "fmt"

// MulticodecConfig 编解码器表配置
type MulticodecConfig struct {
	// AllowPrivateUse 是否接受私有区间（0x300000-0x3fffff）的代码
	AllowPrivateUse bool `json:"allow_private_use"`

	// ExtraTables 追加的 CSV 表路径（name,tag,code,status,description）
	// 同名条目覆盖内置表
	ExtraTables []string `json:"extra_tables,omitempty"`
}

// DefaultMulticodecConfig 返回默认编解码器配置
func DefaultMulticodecConfig() MulticodecConfig {
	return MulticodecConfig{}
}

// Validate 校验编解码器配置
func (c MulticodecConfig) Validate() error {
	return validatePaths("multicodec", c.ExtraTables)
}

// MultibaseConfig 文本编码表配置
type MultibaseConfig struct {
	// ExtraTables 追加的 CSV 表路径（name,code,status,description）
	ExtraTables []string `json:"extra_tables,omitempty"`

	// Disabled 启动时移除的编码名称
	Disabled []string `json:"disabled,omitempty"`
}

// DefaultMultibaseConfig 返回默认文本编码配置
func DefaultMultibaseConfig() MultibaseConfig {
	return MultibaseConfig{}
}

// Validate 校验文本编码配置
func (c MultibaseConfig) Validate() error {
	if err := validatePaths("multibase", c.ExtraTables); err != nil {
		return err
	}
	return validateNames("multibase", c.Disabled)
}

func validatePaths(section string, paths []string) error {
	for i, p := range paths {
		if p == "" {
			return fmt.Errorf("%s: extra_tables[%d] cannot be empty", section, i)
		}
	}
	return nil
}

func validateNames(section string, names []string) error {
	for i, n := range names {
		if n == "" {
			return fmt.Errorf("%s: disabled[%d] cannot be empty", section, i)
		}
	}
	return nil
}
