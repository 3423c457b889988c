// Package config 提供统一的配置管理
//
// 主 Config 嵌入各组件的子配置，每个子配置在独立文件中定义，
// 提供 DefaultXxxConfig 默认值与 Validate 校验。
//
// 使用示例：
//
//	// 创建默认配置
//	cfg := config.NewConfig()
//	cfg.CID.CacheSize = 4096
//
//	// 从 JSON 文件加载，再应用环境变量
//	cfg, err := config.LoadFile("multiformats.json")
//	err = config.ApplyEnv(cfg)
package config

import "go.uber.org/multierr"

// Config 是 multiformats 的完整配置
//
// 配置按模块组织：
//   - Multicodec: 编解码器表
//   - Multibase: 文本编码表
//   - Multihash: 哈希实现
//   - CID: CID 工厂
//   - Multiaddr: 多地址协议实现
//   - Identity: 命令行生成密钥时的默认参数
//   - Log: 日志
type Config struct {
	// Multicodec 编解码器表配置
	Multicodec MulticodecConfig `json:"multicodec"`

	// Multibase 文本编码表配置
	Multibase MultibaseConfig `json:"multibase"`

	// Multihash 哈希实现配置
	Multihash MultihashConfig `json:"multihash"`

	// CID CID 工厂配置
	CID CIDConfig `json:"cid"`

	// Multiaddr 多地址配置
	Multiaddr MultiaddrConfig `json:"multiaddr"`

	// Identity 密钥配置
	Identity IdentityConfig `json:"identity"`

	// Log 日志配置
	Log LogConfig `json:"log"`
}

// NewConfig 创建默认配置
//
// 默认配置与各包的 Default() 注册表行为一致。
func NewConfig() *Config {
	return &Config{
		Multicodec: DefaultMulticodecConfig(),
		Multibase:  DefaultMultibaseConfig(),
		Multihash:  DefaultMultihashConfig(),
		CID:        DefaultCIDConfig(),
		Multiaddr:  DefaultMultiaddrConfig(),
		Identity:   DefaultIdentityConfig(),
		Log:        DefaultLogConfig(),
	}
}

// Validate 校验所有子配置，返回合并后的全部错误
func (c *Config) Validate() error {
	return multierr.Combine(
		c.Multicodec.Validate(),
		c.Multibase.Validate(),
		c.Multihash.Validate(),
		c.CID.Validate(),
		c.Multiaddr.Validate(),
		c.Identity.Validate(),
		c.Log.Validate(),
	)
}
