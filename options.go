package multiformats

import (
	"errors"

	"go.uber.org/fx"

	"github.com/dep2p/go-multiformats/config"
)

// Option 配置选项函数
type Option func(*options) error

// options 内部选项结构
type options struct {
	config     *config.Config
	configFile string
	useEnv     bool
	fxOptions  []fx.Option
}

// toConfig 按优先级合并出最终配置：显式配置或文件，然后环境变量
func (o *options) toConfig() (*config.Config, error) {
	cfg := o.config
	if cfg == nil && o.configFile != "" {
		loaded, err := config.LoadFile(o.configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if cfg == nil {
		cfg = config.NewConfig()
	}
	if o.useEnv {
		if err := config.ApplyEnv(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// WithConfig 使用给定配置
//
// 与 WithConfigFile 同时使用时以本选项为准。
func WithConfig(cfg *config.Config) Option {
	return func(o *options) error {
		if cfg == nil {
			return errors.New("配置不能为空")
		}
		o.config = cfg
		return nil
	}
}

// WithConfigFile 从 JSON 文件加载配置
func WithConfigFile(path string) Option {
	return func(o *options) error {
		if path == "" {
			return errors.New("配置文件路径不能为空")
		}
		o.configFile = path
		return nil
	}
}

// WithEnv 用 MULTIFORMATS_ 前缀的环境变量覆盖配置
func WithEnv() Option {
	return func(o *options) error {
		o.useEnv = true
		return nil
	}
}

// WithFxOptions 追加自定义 Fx 选项
//
// 自定义模块可以依赖 *config.Config、各注册表、*cid.Factory 和
// *prometheus.Registry。
func WithFxOptions(opts ...fx.Option) Option {
	return func(o *options) error {
		o.fxOptions = append(o.fxOptions, opts...)
		return nil
	}
}
