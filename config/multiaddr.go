package config

// MultiaddrConfig 多地址配置
type MultiaddrConfig struct {
	// Disabled 启动时移除实现的协议名称
	Disabled []string `json:"disabled,omitempty"`
}

// DefaultMultiaddrConfig 返回默认多地址配置
func DefaultMultiaddrConfig() MultiaddrConfig {
	return MultiaddrConfig{}
}

// Validate 校验多地址配置
func (c MultiaddrConfig) Validate() error {
	return validateNames("multiaddr", c.Disabled)
}
