package multiaddr

import (
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"net/netip"
	"net/url"
	"strconv"
	"strings"

	b58 "github.com/mr-tron/base58"
	b32 "github.com/multiformats/go-base32"

	"github.com/dep2p/go-multiformats/pkg/lib/cid"
	"github.com/dep2p/go-multiformats/pkg/lib/multibase"
)

// Transcoder 协议地址值的字符串与字节互转
type Transcoder interface {
	// StringToBytes 将字符串值转换为字节
	StringToBytes(string) ([]byte, error)

	// BytesToString 将字节转换为字符串值
	BytesToString([]byte) (string, error)

	// ValidateBytes 验证字节数据是否有效
	ValidateBytes([]byte) error
}

// NewTranscoderFromFunctions 从函数创建 Transcoder，val 可以为 nil
func NewTranscoderFromFunctions(
	s2b func(string) ([]byte, error),
	b2s func([]byte) (string, error),
	val func([]byte) error,
) Transcoder {
	return &transcoderWrapper{s2b, b2s, val}
}

type transcoderWrapper struct {
	stringToBytes func(string) ([]byte, error)
	bytesToString func([]byte) (string, error)
	validateBytes func([]byte) error
}

func (t *transcoderWrapper) StringToBytes(s string) ([]byte, error) {
	return t.stringToBytes(s)
}

func (t *transcoderWrapper) BytesToString(b []byte) (string, error) {
	if err := t.ValidateBytes(b); err != nil {
		return "", err
	}
	return t.bytesToString(b)
}

func (t *transcoderWrapper) ValidateBytes(b []byte) error {
	if t.validateBytes == nil {
		return nil
	}
	return t.validateBytes(b)
}

// ============================================================================
//                              实现形状
// ============================================================================

// AddrKind 地址形状
type AddrKind int

const (
	// KindNone 不接受地址
	KindNone AddrKind = iota
	// KindFixed 固定长度地址
	KindFixed
	// KindVariable 变长地址（二进制带 varint 长度前缀）
	KindVariable
)

// LengthPrefixedVarSize 变长地址的 AddrSize
const LengthPrefixedVarSize = -1

// Impl 协议实现：地址形状和编解码器
type Impl struct {
	kind AddrKind
	size int
	path bool
	t    Transcoder
}

// NoAddress 不接受地址的协议
func NoAddress() Impl {
	return Impl{kind: KindNone}
}

// FixedSize 固定 n 字节地址的协议
func FixedSize(n int, t Transcoder) Impl {
	return Impl{kind: KindFixed, size: n, t: t}
}

// VariableSize 变长地址的协议
func VariableSize(t Transcoder) Impl {
	return Impl{kind: KindVariable, size: LengthPrefixedVarSize, t: t}
}

// PathSize 路径协议：变长，且在字符串形式中消费其后的全部内容
func PathSize(t Transcoder) Impl {
	return Impl{kind: KindVariable, size: LengthPrefixedVarSize, path: true, t: t}
}

// Kind 返回地址形状
func (i Impl) Kind() AddrKind { return i.kind }

// Size 返回地址字节数：0 无地址，-1 变长
func (i Impl) Size() int { return i.size }

// IsPath 是否为路径协议
func (i Impl) IsPath() bool { return i.path }

// Transcoder 返回编解码器，无地址协议返回 nil
func (i Impl) Transcoder() Transcoder { return i.t }

// Validate 检查实现形状
func (i Impl) Validate() error {
	switch i.kind {
	case KindNone:
		if i.t != nil || i.size != 0 || i.path {
			return fmt.Errorf("%w: protocol without address must have no transcoder", ErrInvalidImpl)
		}
	case KindFixed:
		if i.size <= 0 {
			return fmt.Errorf("%w: fixed size %d must be positive", ErrInvalidImpl, i.size)
		}
		if i.t == nil || i.path {
			return fmt.Errorf("%w: fixed size protocol needs a transcoder and cannot be a path", ErrInvalidImpl)
		}
	case KindVariable:
		if i.t == nil {
			return fmt.Errorf("%w: variable size protocol needs a transcoder", ErrInvalidImpl)
		}
	default:
		return fmt.Errorf("%w: unknown kind %d", ErrInvalidImpl, i.kind)
	}
	return nil
}

// ============================================================================
//                              内置编解码器
// ============================================================================

// TranscoderIP4 IPv4 地址
var TranscoderIP4 = NewTranscoderFromFunctions(ip4StringToBytes, ipBytesToString, sizeValidator(4))

func ip4StringToBytes(s string) ([]byte, error) {
	ip, err := netip.ParseAddr(s)
	if err != nil || !ip.Is4() {
		return nil, fmt.Errorf("failed to parse ip4 addr: %s", s)
	}
	b := ip.As4()
	return b[:], nil
}

// TranscoderIP6 IPv6 地址
var TranscoderIP6 = NewTranscoderFromFunctions(ip6StringToBytes, ipBytesToString, sizeValidator(16))

func ip6StringToBytes(s string) ([]byte, error) {
	ip, err := netip.ParseAddr(s)
	if err != nil || ip.Zone() != "" || ip.Is4() {
		return nil, fmt.Errorf("failed to parse ip6 addr: %s", s)
	}
	b := ip.As16()
	return b[:], nil
}

func ipBytesToString(b []byte) (string, error) {
	ip, ok := netip.AddrFromSlice(b)
	if !ok {
		return "", fmt.Errorf("invalid ip length: %d", len(b))
	}
	// IPv4-mapped IPv6 保留 ::ffff: 前缀
	return ip.String(), nil
}

// TranscoderIP6Zone IPv6 zone
var TranscoderIP6Zone = NewTranscoderFromFunctions(nameStringToBytes("ip6zone"), nameBytesToString, nameValidator("ip6zone"))

// TranscoderDNS 域名（dns/dns4/dns6/dnsaddr/sni）
var TranscoderDNS = NewTranscoderFromFunctions(nameStringToBytes("dns"), nameBytesToString, nameValidator("dns"))

func nameStringToBytes(kind string) func(string) ([]byte, error) {
	validate := nameValidator(kind)
	return func(s string) ([]byte, error) {
		b := []byte(s)
		if err := validate(b); err != nil {
			return nil, err
		}
		return b, nil
	}
}

func nameBytesToString(b []byte) (string, error) {
	return string(b), nil
}

// nameValidator 非空且不含 '/'，否则会破坏字符串解析
func nameValidator(kind string) func([]byte) error {
	return func(b []byte) error {
		if len(b) == 0 {
			return fmt.Errorf("empty %s value", kind)
		}
		if strings.Contains(string(b), "/") {
			return fmt.Errorf("%s value contains '/': %s", kind, string(b))
		}
		return nil
	}
}

// TranscoderIPCIDR CIDR 掩码长度
var TranscoderIPCIDR = NewTranscoderFromFunctions(ipCIDRStringToBytes, ipCIDRBytesToString, sizeValidator(1))

func ipCIDRStringToBytes(s string) ([]byte, error) {
	ipMask, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return nil, fmt.Errorf("failed to parse ipcidr: %s", s)
	}
	return []byte{byte(ipMask)}, nil
}

func ipCIDRBytesToString(b []byte) (string, error) {
	return strconv.Itoa(int(b[0])), nil
}

// TranscoderPort 端口（tcp/udp/dccp/sctp）
var TranscoderPort = NewTranscoderFromFunctions(portStringToBytes, portBytesToString, sizeValidator(2))

func portStringToBytes(s string) ([]byte, error) {
	port, err := parsePort(s)
	if err != nil {
		return nil, err
	}
	return binary.BigEndian.AppendUint16(nil, port), nil
}

func parsePort(s string) (uint16, error) {
	if s == "" || strings.IndexFunc(s, func(r rune) bool { return r < '0' || r > '9' }) >= 0 {
		return 0, fmt.Errorf("invalid port %q", s)
	}
	port, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return 0, fmt.Errorf("port %q out of range", s)
	}
	return uint16(port), nil
}

func portBytesToString(b []byte) (string, error) {
	return strconv.Itoa(int(binary.BigEndian.Uint16(b))), nil
}

// TranscoderUnix Unix 套接字路径，值以 '/' 开头
var TranscoderUnix = NewTranscoderFromFunctions(unixStringToBytes, unixBytesToString, unixValidateBytes)

func unixStringToBytes(s string) ([]byte, error) {
	b := []byte(s)
	if err := unixValidateBytes(b); err != nil {
		return nil, err
	}
	return b, nil
}

func unixBytesToString(b []byte) (string, error) {
	return string(b), nil
}

func unixValidateBytes(b []byte) error {
	if len(b) == 0 || b[0] != '/' {
		return fmt.Errorf("unix path must begin with '/': %q", string(b))
	}
	return nil
}

// TranscoderHTTPPath 百分号编码的 HTTP 路径
var TranscoderHTTPPath = NewTranscoderFromFunctions(httpPathStringToBytes, httpPathBytesToString, nonEmptyValidator)

func httpPathStringToBytes(s string) ([]byte, error) {
	p, err := url.PathUnescape(s)
	if err != nil {
		return nil, fmt.Errorf("failed to unescape http-path: %w", err)
	}
	if p == "" {
		return nil, errors.New("empty http-path")
	}
	return []byte(p), nil
}

func httpPathBytesToString(b []byte) (string, error) {
	return url.PathEscape(string(b)), nil
}

func nonEmptyValidator(b []byte) error {
	if len(b) == 0 {
		return errors.New("empty value")
	}
	return nil
}

// TranscoderP2P PeerID：base58 multihash 或 libp2p-key CIDv1，使用默认注册表
var TranscoderP2P = newP2PTranscoder(cid.DefaultFactory)

// TranscoderCerthash multibase 编码的证书 multihash，使用默认注册表
var TranscoderCerthash = newCerthashTranscoder(cid.DefaultFactory)

// NewP2PTranscoder 创建绑定到 cids 的 PeerID 编解码器
//
// CID 形式由 cids 解码，multihash 代码由 cids.Hashes() 校验。
func NewP2PTranscoder(cids *cid.Factory) Transcoder {
	return newP2PTranscoder(func() *cid.Factory { return cids })
}

// NewCerthashTranscoder 创建绑定到 cids 的证书哈希编解码器
//
// 只接受 cids.Bases() 中注册的 multibase 前缀。
func NewCerthashTranscoder(cids *cid.Factory) Transcoder {
	return newCerthashTranscoder(func() *cid.Factory { return cids })
}

// peerMultihashValidator 字节必须是 hashes 中已知代码的 multihash
func peerMultihashValidator(cids func() *cid.Factory) func([]byte) error {
	return func(b []byte) error {
		if _, _, err := cids().Hashes().UnwrapRaw(b); err != nil {
			return fmt.Errorf("peer ID is not a multihash: %w", err)
		}
		return nil
	}
}

func newP2PTranscoder(cids func() *cid.Factory) Transcoder {
	validate := peerMultihashValidator(cids)
	s2b := func(s string) ([]byte, error) {
		if s == "" {
			return nil, errors.New("empty peer ID")
		}
		// base58 编码的 multihash：sha2-256 以 Qm 开头，identity 以 1 开头
		if strings.HasPrefix(s, "Qm") || strings.HasPrefix(s, "1") {
			b, err := b58.Decode(s)
			if err != nil {
				return nil, fmt.Errorf("failed to decode peer ID: %w", err)
			}
			if err := validate(b); err != nil {
				return nil, err
			}
			return b, nil
		}
		c, err := cids().Decode(s)
		if err != nil {
			return nil, fmt.Errorf("failed to decode peer ID: %w", err)
		}
		if c.Codec().Name != "libp2p-key" {
			return nil, fmt.Errorf("peer ID CID has codec %s, expected libp2p-key", c.Codec().Name)
		}
		return c.Digest(), nil
	}
	b2s := func(b []byte) (string, error) { return b58.Encode(b), nil }
	return NewTranscoderFromFunctions(s2b, b2s, validate)
}

func newCerthashTranscoder(cids func() *cid.Factory) Transcoder {
	validate := peerMultihashValidator(cids)
	s2b := func(s string) ([]byte, error) {
		b, err := cids().Bases().Decode(s)
		if err != nil {
			return nil, fmt.Errorf("failed to decode certhash: %w", err)
		}
		if err := validate(b); err != nil {
			return nil, err
		}
		return b, nil
	}
	b2s := func(b []byte) (string, error) {
		return cids().Bases().Encode(b, multibase.Name("base64url"))
	}
	return NewTranscoderFromFunctions(s2b, b2s, validate)
}

// ============================================================================
//                              匿名网络
// ============================================================================

// Tor/I2P 使用小写无填充 base32
var onionBase32 = b32.NewEncoding("abcdefghijklmnopqrstuvwxyz234567").WithPadding(b32.NoPadding)

// TranscoderOnion Tor v2 地址：10 字节主机 + 2 字节端口
var TranscoderOnion = NewTranscoderFromFunctions(onionStringToBytes(16, 10), onionBytesToString(10), onionValidator(12))

// TranscoderOnion3 Tor v3 地址：35 字节主机 + 2 字节端口
var TranscoderOnion3 = NewTranscoderFromFunctions(onionStringToBytes(56, 35), onionBytesToString(35), onionValidator(37))

func onionStringToBytes(hostLen, hostBytes int) func(string) ([]byte, error) {
	return func(s string) ([]byte, error) {
		host, portStr, ok := strings.Cut(s, ":")
		if !ok {
			return nil, fmt.Errorf("onion address %q has no port", s)
		}
		if len(host) != hostLen {
			return nil, fmt.Errorf("onion host %q must be %d characters", host, hostLen)
		}
		b, err := onionBase32.DecodeString(strings.ToLower(host))
		if err != nil {
			return nil, fmt.Errorf("failed to decode onion host: %w", err)
		}
		port, err := parsePort(portStr)
		if err != nil {
			return nil, err
		}
		if port == 0 {
			return nil, errOnionPort
		}
		out := make([]byte, 0, hostBytes+2)
		out = append(out, b...)
		return binary.BigEndian.AppendUint16(out, port), nil
	}
}

var errOnionPort = errors.New("onion port must be at least 1")

// onionValidator 校验长度，末尾两字节端口不能为 0
func onionValidator(n int) func([]byte) error {
	size := sizeValidator(n)
	return func(b []byte) error {
		if err := size(b); err != nil {
			return err
		}
		if binary.BigEndian.Uint16(b[n-2:]) == 0 {
			return errOnionPort
		}
		return nil
	}
}

func onionBytesToString(hostBytes int) func([]byte) (string, error) {
	return func(b []byte) (string, error) {
		host := onionBase32.EncodeToString(b[:hostBytes])
		port := binary.BigEndian.Uint16(b[hostBytes:])
		return fmt.Sprintf("%s:%d", host, port), nil
	}
}

// garlic64 使用 I2P 的 base64 字母表
var garlicBase64 = base64.NewEncoding("ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-~")

// TranscoderGarlic64 I2P 完整目的地址
var TranscoderGarlic64 = NewTranscoderFromFunctions(garlic64StringToBytes, garlic64BytesToString, minSizeValidator("garlic64", 386))

func garlic64StringToBytes(s string) ([]byte, error) {
	b, err := garlicBase64.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("failed to decode garlic64: %w", err)
	}
	if err := minSizeValidator("garlic64", 386)(b); err != nil {
		return nil, err
	}
	return b, nil
}

func garlic64BytesToString(b []byte) (string, error) {
	return garlicBase64.EncodeToString(b), nil
}

// TranscoderGarlic32 I2P 短地址：32 字节，或加密 LeaseSet v2 的 35 字节以上
var TranscoderGarlic32 = NewTranscoderFromFunctions(garlic32StringToBytes, garlic32BytesToString, garlic32Validate)

func garlic32Validate(b []byte) error {
	if len(b) == 32 {
		return nil
	}
	return minSizeValidator("garlic32", 35)(b)
}

func garlic32StringToBytes(s string) ([]byte, error) {
	b, err := onionBase32.DecodeString(strings.ToLower(s))
	if err != nil {
		return nil, fmt.Errorf("failed to decode garlic32: %w", err)
	}
	if err := garlic32Validate(b); err != nil {
		return nil, err
	}
	return b, nil
}

func garlic32BytesToString(b []byte) (string, error) {
	return onionBase32.EncodeToString(b), nil
}

// ============================================================================
//                              长度检查
// ============================================================================

func sizeValidator(n int) func([]byte) error {
	return func(b []byte) error {
		if len(b) != n {
			return fmt.Errorf("incorrect length: found %d, expected %d", len(b), n)
		}
		return nil
	}
}

func minSizeValidator(name string, n int) func([]byte) error {
	return func(b []byte) error {
		if len(b) < n {
			return fmt.Errorf("%s value too short: found %d bytes, expected at least %d", name, len(b), n)
		}
		return nil
	}
}
