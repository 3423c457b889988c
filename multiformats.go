package multiformats

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/dep2p/go-multiformats/config"
	"github.com/dep2p/go-multiformats/internal/core/cidcache"
	"github.com/dep2p/go-multiformats/internal/core/metrics"
	"github.com/dep2p/go-multiformats/internal/core/registry"
	"github.com/dep2p/go-multiformats/pkg/lib/cid"
	"github.com/dep2p/go-multiformats/pkg/lib/crypto"
	"github.com/dep2p/go-multiformats/pkg/lib/log"
	"github.com/dep2p/go-multiformats/pkg/lib/multiaddr"
	"github.com/dep2p/go-multiformats/pkg/lib/multibase"
	"github.com/dep2p/go-multiformats/pkg/lib/multicodec"
	"github.com/dep2p/go-multiformats/pkg/lib/multihash"
)

var logger = log.Logger("multiformats")

// Context 按配置装配的一组注册表
//
// 所有方法可并发调用。Close 之后访问器仍返回原注册表，但不应再使用。
type Context struct {
	app *fx.App
	cfg *config.Config

	codecs  *multicodec.Registry
	bases   *multibase.Registry
	hashes  *multihash.Registry
	addrs   *multiaddr.Registry
	cids    *cid.Factory
	metrics *prometheus.Registry

	logFile io.Closer

	mu     sync.Mutex
	closed bool
}

// New 按选项构建并启动上下文
func New(ctx context.Context, opts ...Option) (*Context, error) {
	o := &options{}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, fmt.Errorf("apply option: %w", err)
		}
	}
	cfg, err := o.toConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	c := &Context{cfg: cfg}
	if err := c.configureLog(cfg.Log); err != nil {
		return nil, err
	}

	c.app = fx.New(c.fxOptions(cfg, o.fxOptions)...)
	if err := c.app.Err(); err != nil {
		c.closeLog()
		return nil, fmt.Errorf("build fx app: %w", err)
	}
	if err := c.app.Start(ctx); err != nil {
		c.closeLog()
		return nil, fmt.Errorf("start: %w", err)
	}
	logger.Info("multiformats 上下文已启动", "version", Version)
	return c, nil
}

func (c *Context) fxOptions(cfg *config.Config, extra []fx.Option) []fx.Option {
	modules := []fx.Option{
		fx.Supply(cfg),
		registry.Module(),
		cidcache.Module(),
		metrics.Module(),
	}
	modules = append(modules, extra...)
	modules = append(modules,
		fx.Populate(&c.codecs, &c.bases, &c.hashes, &c.addrs, &c.cids, &c.metrics),
		fx.WithLogger(func() fxevent.Logger {
			if cfg.Log.FxEvents {
				if l, err := zap.NewDevelopment(); err == nil {
					return &fxevent.ZapLogger{Logger: l}
				}
			}
			return &fxevent.ZapLogger{Logger: zap.NewNop()}
		}),
	)
	return modules
}

func (c *Context) configureLog(cfg config.LogConfig) error {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		return err
	}
	var w io.Writer
	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600) //nolint:gosec // G304: 配置指定的日志路径
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		w, c.logFile = f, f
	}
	return log.Configure(w, level, cfg.Format)
}

// closeLog 关闭日志文件，默认 logger 改回标准错误
func (c *Context) closeLog() {
	if c.logFile == nil {
		return
	}
	level, _ := log.ParseLevel(c.cfg.Log.Level)
	_ = log.Configure(nil, level, c.cfg.Log.Format)
	_ = c.logFile.Close()
	c.logFile = nil
}

// Close 停止上下文，第二次调用返回 ErrClosed
func (c *Context) Close(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	c.closed = true

	err := c.app.Stop(ctx)
	logger.Info("multiformats 上下文已关闭")
	c.closeLog()
	if err != nil {
		return fmt.Errorf("stop fx app: %w", err)
	}
	return nil
}

// ════════════════════════════════════════════════════════════════════════════
//                              访问器
// ════════════════════════════════════════════════════════════════════════════

// Config 返回生效的配置
func (c *Context) Config() *config.Config { return c.cfg }

// Codecs 返回 multicodec 注册表
func (c *Context) Codecs() *multicodec.Registry { return c.codecs }

// Bases 返回 multibase 注册表
func (c *Context) Bases() *multibase.Registry { return c.bases }

// Hashes 返回 multihash 注册表
func (c *Context) Hashes() *multihash.Registry { return c.hashes }

// Addrs 返回 multiaddr 注册表
func (c *Context) Addrs() *multiaddr.Registry { return c.addrs }

// CIDs 返回 CID 工厂
func (c *Context) CIDs() *cid.Factory { return c.cids }

// Metrics 返回指标注册表
func (c *Context) Metrics() *prometheus.Registry { return c.metrics }

// ════════════════════════════════════════════════════════════════════════════
//                              便捷操作
// ════════════════════════════════════════════════════════════════════════════

// Digest 计算 multihash 摘要，size 为 multihash.DefaultSize 时使用完整长度
func (c *Context) Digest(data []byte, hash string, size int) ([]byte, error) {
	return c.hashes.Digest(data, multicodec.Name(hash), size)
}

// Sum 计算数据的 CIDv1，文本编码取配置中的默认值
func (c *Context) Sum(data []byte, codec, hash string) (cid.CID, error) {
	digest, err := c.Digest(data, hash, multihash.DefaultSize)
	if err != nil {
		return cid.CID{}, err
	}
	return c.cids.New(multibase.Name(c.cfg.CID.DefaultBase), 1, multicodec.Name(codec), digest)
}

// DecodeCID 解码字符串形式的 CID
func (c *Context) DecodeCID(s string) (cid.CID, error) {
	return c.cids.Decode(s)
}

// ParseMultiaddr 解析完整的多地址字符串
func (c *Context) ParseMultiaddr(s string) (multiaddr.Multiaddr, error) {
	return c.addrs.Parse(s, false)
}

// DecodeMultiaddr 解码二进制多地址
func (c *Context) DecodeMultiaddr(b []byte) (multiaddr.Multiaddr, error) {
	return c.addrs.Decode(b)
}

// PeerID 由公钥计算 PeerID
func (c *Context) PeerID(pub crypto.PublicKey) (cid.CID, error) {
	return crypto.NewIDs(c.cids).FromPublicKey(pub)
}

// VerifyPeerID 检查公钥是否对应 id
func (c *Context) VerifyPeerID(pub crypto.PublicKey, id cid.CID) error {
	return crypto.NewIDs(c.cids).Verify(pub, id)
}
