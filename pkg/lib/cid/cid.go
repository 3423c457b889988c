// Package cid 实现内容标识符 CID
//
// CID 由版本、内容编解码器和 multihash 摘要组成，字符串形式使用 multibase。
//
// 二进制格式：
//
//	CIDv0: multihash（固定为 sha2-256，34 字节）
//	CIDv1: varint(1) || varint(codec) || multihash
//
// # 基本用法
//
//	c, _ := cid.Decode("zb2rhe5P4gXftAwvA4eXQ5HJwsER2owDyS9sKaQRRVQPn93bA")
//	c.Version()              // 1
//	c.Codec().Name           // "raw"
//	s, _ := c.Encode(multibase.Name("base32"))
//	// "bafkreidon73zkcrwdb5iafqtijxildoonbwnpv7dyd6ef3qdgads2jc4su"
//
// CID 是不可变值，Set 返回新的 CID。相等性只比较版本、编解码器代码和摘要，
// 不比较 multibase。
package cid

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dep2p/go-multiformats/pkg/lib/multibase"
	"github.com/dep2p/go-multiformats/pkg/lib/multicodec"
	"github.com/dep2p/go-multiformats/pkg/lib/multihash"
	"github.com/dep2p/go-multiformats/pkg/lib/varint"
)

// CIDv0 固定组合
const (
	v0Base  = "base58btc"
	v0Codec = "dag-pb"
	v0Hash  = "sha2-256"
)

// CID 内容标识符
type CID struct {
	f       *Factory
	base    multibase.Multibase
	version int
	codec   multicodec.Multicodec
	hashfun multihash.Multihash
	digest  []byte
}

// Defined 是否为有效 CID（非零值）
func (c CID) Defined() bool {
	return c.f != nil
}

// Version 返回版本
func (c CID) Version() int {
	return c.version
}

// Base 返回字符串编码使用的 multibase
func (c CID) Base() multibase.Multibase {
	return c.base
}

// Codec 返回内容编解码器
func (c CID) Codec() multicodec.Multicodec {
	return c.codec
}

// Hashfun 返回摘要使用的 multihash
func (c CID) Hashfun() multihash.Multihash {
	return c.hashfun
}

// Digest 返回 multihash 摘要（含代码和长度前缀）的副本
func (c CID) Digest() []byte {
	return append([]byte(nil), c.digest...)
}

// RawDigest 返回去掉 multihash 前缀的原始摘要
func (c CID) RawDigest() []byte {
	raw, err := c.hashfun.Unwrap(c.digest)
	if err != nil {
		// 构造时已校验过摘要
		panic(err)
	}
	return raw
}

// Bytes 返回二进制形式
func (c CID) Bytes() []byte {
	if c.version == 0 {
		return c.Digest()
	}
	out := varint.MustEncode(uint64(c.version))
	out = append(out, varint.MustEncode(c.codec.Code)...)
	return append(out, c.digest...)
}

// Encode 编码为字符串
//
// base 为 nil 时使用 CID 自身的 multibase。CIDv0 只能以 nil 调用，
// 结果为不带前缀的 base58btc。
func (c CID) Encode(base multibase.Ref) (string, error) {
	if !c.Defined() {
		return "", ErrUndefined
	}
	if c.version == 0 {
		if base != nil {
			return "", ErrV0Encode
		}
		enc, err := c.base.RawEncoder()
		if err != nil {
			return "", err
		}
		return enc(c.digest), nil
	}
	mb := c.base
	if base != nil {
		var err error
		if mb, err = c.f.bases.Resolve(base); err != nil {
			return "", err
		}
	}
	return mb.Encode(c.Bytes())
}

// String 使用自身 multibase 编码，零值返回 "b"
func (c CID) String() string {
	if !c.Defined() {
		return "b"
	}
	s, err := c.Encode(nil)
	if err != nil {
		return "<invalid CID: " + err.Error() + ">"
	}
	return s
}

// GoString 返回调试形式
func (c CID) GoString() string {
	if !c.Defined() {
		return "CID{}"
	}
	return fmt.Sprintf("CID(%q, %d, %q, %q)", c.base.Name, c.version, c.codec.Name, hex.EncodeToString(c.digest))
}

// HumanReadable 返回可读描述
//
//	base58btc - cidv1 - raw - (sha2-256 : 256 : 6E6FF795...)
func (c CID) HumanReadable() string {
	raw := c.RawDigest()
	return fmt.Sprintf("%s - cidv%d - %s - (%s : %d : %s)",
		c.base.Name, c.version, c.codec.Name,
		c.hashfun.Name, len(raw)*8, strings.ToUpper(hex.EncodeToString(raw)))
}

// Equal 比较版本、编解码器代码和摘要
func (c CID) Equal(o CID) bool {
	return c.version == o.version &&
		c.codec.Code == o.codec.Code &&
		bytes.Equal(c.digest, o.digest)
}

// Key 返回可用作 map 键的字符串，与 Equal 一致
func (c CID) Key() string {
	if !c.Defined() {
		return ""
	}
	return string(c.Bytes())
}

// ============================================================================
//                              Set
// ============================================================================

// SetOption 修改 CID 的某个字段
type SetOption func(*setParams)

type setParams struct {
	base    multibase.Ref
	codec   multicodec.Ref
	version *int
}

// SetBase 修改 multibase
func SetBase(ref multibase.Ref) SetOption {
	return func(p *setParams) { p.base = ref }
}

// SetCodec 修改内容编解码器
func SetCodec(ref multicodec.Ref) SetOption {
	return func(p *setParams) { p.codec = ref }
}

// SetVersion 修改版本
func SetVersion(v int) SetOption {
	return func(p *setParams) { p.version = &v }
}

// Set 返回修改后的新 CID，原值不变
//
// 结果总会重新校验版本组合，因此对 CIDv0 单独修改 base 或 codec 会失败。
func (c CID) Set(opts ...SetOption) (CID, error) {
	if !c.Defined() {
		return CID{}, ErrUndefined
	}
	var p setParams
	for _, opt := range opts {
		opt(&p)
	}

	out := c
	if p.base != nil {
		mb, err := c.f.bases.Resolve(p.base)
		if err != nil {
			return CID{}, err
		}
		out.base = mb
	}
	if p.codec != nil {
		mc, err := c.f.codecs.Resolve(p.codec)
		if err != nil {
			return CID{}, err
		}
		out.codec = mc
	}
	if p.version != nil {
		out.version = *p.version
	}
	if err := validateVersion(out.version, out.base, out.codec, out.hashfun); err != nil {
		return CID{}, err
	}
	return out, nil
}

func validateVersion(version int, base multibase.Multibase, codec multicodec.Multicodec, hashfun multihash.Multihash) error {
	switch version {
	case 0:
	case 1:
		return nil
	case 2, 3:
		return ErrReservedVersion
	default:
		return fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}
	if base.Name != v0Base {
		return fmt.Errorf("%w, found %q instead", ErrV0Base, base.Name)
	}
	if codec.Name != v0Codec {
		return fmt.Errorf("%w, found %q instead", ErrV0Codec, codec.Name)
	}
	if hashfun.Name != v0Hash {
		return fmt.Errorf("%w, found %q instead", ErrV0Hash, hashfun.Name)
	}
	return nil
}

// ============================================================================
//                              序列化
// ============================================================================

// MarshalText 实现 encoding.TextMarshaler
func (c CID) MarshalText() ([]byte, error) {
	s, err := c.Encode(nil)
	if err != nil {
		return nil, err
	}
	return []byte(s), nil
}

// UnmarshalText 实现 encoding.TextUnmarshaler，使用默认工厂解码
func (c *CID) UnmarshalText(text []byte) error {
	d, err := Decode(string(text))
	if err != nil {
		return err
	}
	*c = d
	return nil
}

type jsonLink struct {
	Link string `json:"/"`
}

// MarshalJSON 输出 {"/": "<cid>"}
func (c CID) MarshalJSON() ([]byte, error) {
	s, err := c.Encode(nil)
	if err != nil {
		return nil, err
	}
	return json.Marshal(jsonLink{Link: s})
}

// UnmarshalJSON 解析 {"/": "<cid>"}
func (c *CID) UnmarshalJSON(data []byte) error {
	var link jsonLink
	if err := json.Unmarshal(data, &link); err != nil {
		return fmt.Errorf("cid: %w", err)
	}
	if link.Link == "" {
		return ErrEmpty
	}
	return c.UnmarshalText([]byte(link.Link))
}
