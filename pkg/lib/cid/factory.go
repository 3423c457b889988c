package cid

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/dep2p/go-multiformats/pkg/lib/log"
	"github.com/dep2p/go-multiformats/pkg/lib/multibase"
	"github.com/dep2p/go-multiformats/pkg/lib/multicodec"
	"github.com/dep2p/go-multiformats/pkg/lib/multihash"
	"github.com/dep2p/go-multiformats/pkg/lib/varint"
)

var logger = log.Logger("cid")

// DefaultCacheSize 默认解码缓存容量
const DefaultCacheSize = 1024

// Factory 基于一组注册表构造和解码 CID
//
// 字符串解码结果缓存在 LRU 中，cacheSize 为 0 时不缓存。
type Factory struct {
	bases  *multibase.Registry
	codecs *multicodec.Registry
	hashes *multihash.Registry

	cache  *lru.Cache[string, CID]
	hits   atomic.Uint64
	misses atomic.Uint64
}

// CacheStats 解码缓存统计
type CacheStats struct {
	Hits   uint64
	Misses uint64
	Len    int
}

// NewFactory 创建工厂
func NewFactory(bases *multibase.Registry, codecs *multicodec.Registry, hashes *multihash.Registry, cacheSize int) (*Factory, error) {
	if cacheSize < 0 {
		return nil, fmt.Errorf("cid: cache size %d must be non-negative", cacheSize)
	}
	f := &Factory{bases: bases, codecs: codecs, hashes: hashes}
	if cacheSize > 0 {
		cache, err := lru.New[string, CID](cacheSize)
		if err != nil {
			return nil, fmt.Errorf("cid: create cache: %w", err)
		}
		f.cache = cache
	}
	return f, nil
}

// Bases 返回 multibase 注册表
func (f *Factory) Bases() *multibase.Registry { return f.bases }

// Codecs 返回 multicodec 注册表
func (f *Factory) Codecs() *multicodec.Registry { return f.codecs }

// Hashes 返回 multihash 注册表
func (f *Factory) Hashes() *multihash.Registry { return f.hashes }

// Stats 返回缓存统计
func (f *Factory) Stats() CacheStats {
	s := CacheStats{Hits: f.hits.Load(), Misses: f.misses.Load()}
	if f.cache != nil {
		s.Len = f.cache.Len()
	}
	return s
}

// Purge 清空解码缓存
func (f *Factory) Purge() {
	if f.cache != nil {
		f.cache.Purge()
	}
}

// ============================================================================
//                              构造
// ============================================================================

// New 由 multihash 摘要构造 CID
//
// 依次校验 base、codec、digest 和版本。
func (f *Factory) New(base multibase.Ref, version int, codec multicodec.Ref, digest []byte) (CID, error) {
	mb, err := f.bases.Resolve(base)
	if err != nil {
		return CID{}, err
	}
	mc, err := f.codecs.Resolve(codec)
	if err != nil {
		return CID{}, err
	}
	h, err := f.validateDigest(digest)
	if err != nil {
		return CID{}, err
	}
	return f.build(mb, version, mc, h, append([]byte(nil), digest...))
}

// NewFromRaw 由原始摘要构造 CID
func (f *Factory) NewFromRaw(base multibase.Ref, version int, codec, hashfun multicodec.Ref, raw []byte) (CID, error) {
	mb, err := f.bases.Resolve(base)
	if err != nil {
		return CID{}, err
	}
	mc, err := f.codecs.Resolve(codec)
	if err != nil {
		return CID{}, err
	}
	h, err := f.hashes.Resolve(hashfun)
	if err != nil {
		return CID{}, err
	}
	digest, err := h.Wrap(raw)
	if err != nil {
		return CID{}, err
	}
	return f.build(mb, version, mc, h, digest)
}

// Sum 计算 data 的摘要并构造 CID
//
// CIDv1 使用 base32，CIDv0 使用 base58btc。
func (f *Factory) Sum(p Prefix, data []byte) (CID, error) {
	h, err := f.hashes.GetCode(p.Hash)
	if err != nil {
		return CID{}, err
	}
	digest, err := h.Digest(data, p.Length)
	if err != nil {
		return CID{}, err
	}
	base := multibase.Name("base32")
	if p.Version == 0 {
		base = multibase.Name(v0Base)
	}
	return f.New(base, p.Version, multicodec.Code(p.Codec), digest)
}

func (f *Factory) validateDigest(digest []byte) (multihash.Multihash, error) {
	code, _, err := f.hashes.UnwrapRaw(digest)
	if err != nil {
		return multihash.Multihash{}, err
	}
	h, err := f.hashes.GetCode(code)
	if err != nil {
		return multihash.Multihash{}, err
	}
	if _, err := h.Unwrap(digest); err != nil {
		return multihash.Multihash{}, err
	}
	return h, nil
}

func (f *Factory) build(mb multibase.Multibase, version int, mc multicodec.Multicodec, h multihash.Multihash, digest []byte) (CID, error) {
	if err := validateVersion(version, mb, mc, h); err != nil {
		return CID{}, err
	}
	return CID{f: f, base: mb, version: version, codec: mc, hashfun: h, digest: digest}, nil
}

// ============================================================================
//                              解码
// ============================================================================

// Decode 解码字符串形式的 CID
//
// 46 个字符且以 "Qm" 开头的字符串按 CIDv0 的 base58btc 解码，
// 其余按 multibase 解码。
func (f *Factory) Decode(s string) (CID, error) {
	if f.cache != nil {
		if c, ok := f.cache.Get(s); ok {
			f.hits.Add(1)
			return c, nil
		}
		f.misses.Add(1)
	}

	b, mb, err := f.binaryFromString(s)
	if err != nil {
		return CID{}, err
	}
	c, err := f.cast(b, mb)
	if err != nil {
		return CID{}, err
	}
	if f.cache != nil {
		f.cache.Add(s, c)
	}
	logger.Debug("解码 CID", "cid", s, "version", c.version, "codec", c.codec.Name)
	return c, nil
}

func (f *Factory) binaryFromString(s string) ([]byte, multibase.Multibase, error) {
	if s == "" {
		return nil, multibase.Multibase{}, ErrEmpty
	}
	if len(s) == 46 && strings.HasPrefix(s, "Qm") {
		mb, err := f.bases.Get(v0Base)
		if err != nil {
			return nil, multibase.Multibase{}, err
		}
		dec, err := mb.RawDecoder()
		if err != nil {
			return nil, multibase.Multibase{}, err
		}
		b, err := dec(s)
		if err != nil {
			return nil, multibase.Multibase{}, err
		}
		return b, mb, nil
	}
	mb, b, err := f.bases.DecodeRaw(s)
	if err != nil {
		return nil, multibase.Multibase{}, err
	}
	// 0x12 是 sha2-256 的首字节，与 CIDv18 有歧义
	if len(b) > 0 && b[0] == 0x12 {
		return nil, multibase.Multibase{}, fmt.Errorf("%w (found %s encoded bytes starting with 0x12)", ErrV0Multibase, mb.Name)
	}
	return b, mb, nil
}

// Cast 解码二进制形式的 CID，base 设为 base58btc
func (f *Factory) Cast(b []byte) (CID, error) {
	mb, err := f.bases.Get(v0Base)
	if err != nil {
		return CID{}, err
	}
	return f.cast(b, mb)
}

func (f *Factory) cast(b []byte, mb multibase.Multibase) (CID, error) {
	if len(b) == 0 {
		return CID{}, ErrEmpty
	}
	if len(b) == 34 && b[0] == 0x12 && b[1] == 0x20 {
		mc, err := f.codecs.Get(v0Codec)
		if err != nil {
			return CID{}, err
		}
		h, err := f.validateDigest(b)
		if err != nil {
			return CID{}, err
		}
		return f.build(mb, 0, mc, h, append([]byte(nil), b...))
	}

	v, _, rest, err := varint.DecodeRaw(b)
	if err != nil {
		return CID{}, err
	}
	switch v {
	case 0:
		return CID{}, ErrMalformedV0
	case 1:
	case 2, 3:
		return CID{}, ErrReservedVersion
	default:
		return CID{}, fmt.Errorf("%w: CIDv%d", ErrUnsupportedVersion, v)
	}
	code, _, digest, err := varint.DecodeRaw(rest)
	if err != nil {
		return CID{}, err
	}
	mc, err := f.codecs.GetCode(code)
	if err != nil {
		return CID{}, err
	}
	h, err := f.validateDigest(digest)
	if err != nil {
		return CID{}, err
	}
	return f.build(mb, 1, mc, h, append([]byte(nil), digest...))
}

// ============================================================================
//                              默认工厂
// ============================================================================

var (
	defaultOnce    sync.Once
	defaultFactory *Factory
)

// DefaultFactory 返回基于默认注册表的工厂
func DefaultFactory() *Factory {
	defaultOnce.Do(func() {
		f, err := NewFactory(multibase.Default(), multicodec.Default(), multihash.Default(), DefaultCacheSize)
		if err != nil {
			panic(err)
		}
		defaultFactory = f
	})
	return defaultFactory
}

// New 使用默认工厂构造 CID
func New(base multibase.Ref, version int, codec multicodec.Ref, digest []byte) (CID, error) {
	return DefaultFactory().New(base, version, codec, digest)
}

// NewFromRaw 使用默认工厂由原始摘要构造 CID
func NewFromRaw(base multibase.Ref, version int, codec, hashfun multicodec.Ref, raw []byte) (CID, error) {
	return DefaultFactory().NewFromRaw(base, version, codec, hashfun, raw)
}

// Decode 使用默认工厂解码字符串
func Decode(s string) (CID, error) { return DefaultFactory().Decode(s) }

// Cast 使用默认工厂解码二进制形式
func Cast(b []byte) (CID, error) { return DefaultFactory().Cast(b) }

// MustDecode 解码字符串，失败时 panic
func MustDecode(s string) CID {
	c, err := Decode(s)
	if err != nil {
		panic(err)
	}
	return c
}
