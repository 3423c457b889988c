package multiaddr

import (
	"fmt"
	"sort"
	"sync"

	"github.com/dep2p/go-multiformats/pkg/lib/cid"
	"github.com/dep2p/go-multiformats/pkg/lib/log"
	"github.com/dep2p/go-multiformats/pkg/lib/multicodec"
)

var logger = log.Logger("multiaddr")

// 协议代码常量，与 multicodec 表一致
const (
	P_IP4               = 0x0004
	P_TCP               = 0x0006
	P_DCCP              = 0x0021
	P_IP6               = 0x0029
	P_IP6ZONE           = 0x002A
	P_IPCIDR            = 0x002B
	P_DNS               = 0x0035
	P_DNS4              = 0x0036
	P_DNS6              = 0x0037
	P_DNSADDR           = 0x0038
	P_SCTP              = 0x0084
	P_UDP               = 0x0111
	P_P2P_WEBRTC_STAR   = 0x0113
	P_P2P_WEBRTC_DIRECT = 0x0114
	P_P2P_STARDUST      = 0x0115
	P_WEBRTC_DIRECT     = 0x0118
	P_WEBRTC            = 0x0119
	P_P2P_CIRCUIT       = 0x0122
	P_UDT               = 0x012D
	P_UTP               = 0x012E
	P_UNIX              = 0x0190
	P_P2P               = 0x01A5
	P_HTTPS             = 0x01BB
	P_ONION             = 0x01BC
	P_ONION3            = 0x01BD
	P_GARLIC64          = 0x01BE
	P_GARLIC32          = 0x01BF
	P_TLS               = 0x01C0
	P_SNI               = 0x01C1
	P_NOISE             = 0x01C6
	P_QUIC              = 0x01CC
	P_QUIC_V1           = 0x01CD
	P_WEBTRANSPORT      = 0x01D1
	P_CERTHASH          = 0x01D2
	P_WS                = 0x01DD
	P_WSS               = 0x01DE
	P_P2P_WEBSOCKET_STAR = 0x01DF
	P_HTTP              = 0x01E0
	P_HTTP_PATH         = 0x01E1
)

// builtinImpls 内置协议实现
func builtinImpls() map[string]Impl {
	impls := map[string]Impl{
		"ip4":       FixedSize(4, TranscoderIP4),
		"ip6":       FixedSize(16, TranscoderIP6),
		"ip6zone":   VariableSize(TranscoderIP6Zone),
		"ipcidr":    FixedSize(1, TranscoderIPCIDR),
		"tcp":       FixedSize(2, TranscoderPort),
		"udp":       FixedSize(2, TranscoderPort),
		"dccp":      FixedSize(2, TranscoderPort),
		"sctp":      FixedSize(2, TranscoderPort),
		"dns":       VariableSize(TranscoderDNS),
		"dns4":      VariableSize(TranscoderDNS),
		"dns6":      VariableSize(TranscoderDNS),
		"dnsaddr":   VariableSize(TranscoderDNS),
		"sni":       VariableSize(TranscoderDNS),
		"unix":      PathSize(TranscoderUnix),
		"p2p":       VariableSize(TranscoderP2P),
		"onion":     FixedSize(12, TranscoderOnion),
		"onion3":    FixedSize(37, TranscoderOnion3),
		"garlic64":  VariableSize(TranscoderGarlic64),
		"garlic32":  VariableSize(TranscoderGarlic32),
		"certhash":  VariableSize(TranscoderCerthash),
		"http-path": VariableSize(TranscoderHTTPPath),
	}
	for _, name := range []string{
		"quic", "quic-v1", "utp", "udt", "http", "https", "tls", "noise",
		"ws", "wss", "p2p-circuit", "webtransport", "webrtc", "webrtc-direct",
		"p2p-webrtc-direct", "p2p-webrtc-star", "p2p-websocket-star", "p2p-stardust",
	} {
		impls[name] = NoAddress()
	}
	return impls
}

// ============================================================================
//                              Registry
// ============================================================================

// Registry 协议实现注册表
//
// 协议条目来自 multicodec 注册表（标签 multiaddr），地址编解码来自本注册表。
type Registry struct {
	codecs *multicodec.Registry

	mu    sync.RWMutex
	impls map[string]Impl
}

// NewRegistry 创建包含内置实现的注册表
func NewRegistry(codecs *multicodec.Registry) *Registry {
	return &Registry{codecs: codecs, impls: builtinImpls()}
}

// NewRegistryWith 创建注册表，p2p 与 certhash 的值通过 cids 及其注册表解析
func NewRegistryWith(codecs *multicodec.Registry, cids *cid.Factory) *Registry {
	r := NewRegistry(codecs)
	r.impls["p2p"] = VariableSize(NewP2PTranscoder(cids))
	r.impls["certhash"] = VariableSize(NewCerthashTranscoder(cids))
	return r
}

// Codecs 返回底层 multicodec 注册表
func (r *Registry) Codecs() *multicodec.Registry {
	return r.codecs
}

// Register 注册协议实现
func (r *Registry) Register(name string, impl Impl, overwrite bool) error {
	if err := impl.Validate(); err != nil {
		return fmt.Errorf("%w (protocol %q)", err, name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.impls[name]; ok && !overwrite {
		return fmt.Errorf("%w: %q", ErrConflict, name)
	}
	r.impls[name] = impl
	logger.Debug("注册协议实现", "name", name, "size", impl.Size(), "overwrite", overwrite)
	return nil
}

// Unregister 移除协议实现
func (r *Registry) Unregister(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.impls[name]; !ok {
		return fmt.Errorf("%w %q", ErrNoImpl, name)
	}
	delete(r.impls, name)
	logger.Debug("移除协议实现", "name", name)
	return nil
}

// Exists 协议是否有实现
func (r *Registry) Exists(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.impls[name]
	return ok
}

// Impl 返回协议实现
func (r *Registry) Impl(name string) (Impl, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	impl, ok := r.impls[name]
	if !ok {
		return Impl{}, fmt.Errorf("%w %q", ErrNoImpl, name)
	}
	return impl, nil
}

// Proto 解析协议引用
//
// 条目的标签必须为 multiaddr，并且必须有实现。
func (r *Registry) Proto(ref multicodec.Ref) (Proto, error) {
	codec, err := r.codecs.Resolve(ref)
	if err != nil {
		return Proto{}, err
	}
	if codec.Tag != "multiaddr" {
		return Proto{}, fmt.Errorf("%w: %s has tag %q", ErrNotMultiaddr, codec, codec.Tag)
	}
	impl, err := r.Impl(codec.Name)
	if err != nil {
		return Proto{}, err
	}
	return Proto{codec: codec, impl: impl}, nil
}

// Protos 返回所有已实现的协议，按代码升序
func (r *Registry) Protos() []Proto {
	codecs := r.codecs.Table(multicodec.Filter{Tags: []string{"multiaddr"}})
	out := make([]Proto, 0, len(codecs))
	for _, c := range codecs {
		if impl, err := r.Impl(c.Name); err == nil {
			out = append(out, Proto{codec: c, impl: impl})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code() < out[j].Code() })
	return out
}

// ProtocolWithName 按名称查找协议
func (r *Registry) ProtocolWithName(name string) (Proto, error) {
	if name == "ipfs" {
		name = "p2p"
	}
	return r.Proto(multicodec.Name(name))
}

// ProtocolWithCode 按代码查找协议
func (r *Registry) ProtocolWithCode(code uint64) (Proto, error) {
	return r.Proto(multicodec.Code(code))
}

// ============================================================================
//                              默认注册表
// ============================================================================

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default 返回基于默认 multicodec 表的注册表
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry(multicodec.Default())
	})
	return defaultRegistry
}

// ProtocolWithName 在默认注册表中按名称查找协议
func ProtocolWithName(name string) (Proto, error) { return Default().ProtocolWithName(name) }

// ProtocolWithCode 在默认注册表中按代码查找协议
func ProtocolWithCode(code uint64) (Proto, error) { return Default().ProtocolWithCode(code) }

// Register 在默认注册表中注册实现
func Register(name string, impl Impl, overwrite bool) error {
	return Default().Register(name, impl, overwrite)
}

// Unregister 在默认注册表中移除实现
func Unregister(name string) error { return Default().Unregister(name) }

// Exists 默认注册表中协议是否有实现
func Exists(name string) bool { return Default().Exists(name) }

// NewProto 在默认注册表中解析协议引用
func NewProto(ref multicodec.Ref) (Proto, error) { return Default().Proto(ref) }
