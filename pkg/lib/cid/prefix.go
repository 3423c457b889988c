package cid

import (
	"fmt"

	"github.com/dep2p/go-multiformats/pkg/lib/multihash"
	"github.com/dep2p/go-multiformats/pkg/lib/varint"
)

// Prefix CID 除摘要外的元数据
//
// Length 为 multihash.DefaultSize 时使用完整摘要长度。
type Prefix struct {
	Version int
	Codec   uint64
	Hash    uint64
	Length  int
}

// V0Prefix 返回 CIDv0 前缀
func V0Prefix() Prefix {
	return Prefix{Version: 0, Codec: 0x70, Hash: 0x12, Length: 32}
}

// V1Prefix 返回 CIDv1 前缀
func V1Prefix(codec, hash uint64, length int) Prefix {
	return Prefix{Version: 1, Codec: codec, Hash: hash, Length: length}
}

// Sum 使用默认工厂计算 data 的 CID
func (p Prefix) Sum(data []byte) (CID, error) {
	return DefaultFactory().Sum(p, data)
}

// Bytes 序列化为 varint(version) || varint(codec) || varint(hash) || varint(length)
//
// Length 为 DefaultSize 时写入 0。
func (p Prefix) Bytes() []byte {
	length := uint64(0)
	if p.Length > 0 {
		length = uint64(p.Length)
	}
	out := varint.MustEncode(uint64(p.Version))
	out = append(out, varint.MustEncode(p.Codec)...)
	out = append(out, varint.MustEncode(p.Hash)...)
	return append(out, varint.MustEncode(length)...)
}

// PrefixFromBytes 解析 Prefix.Bytes 的输出
func PrefixFromBytes(b []byte) (Prefix, error) {
	var fields [4]uint64
	rest := b
	for i := range fields {
		x, _, r, err := varint.DecodeRaw(rest)
		if err != nil {
			return Prefix{}, fmt.Errorf("%w: field %d: %w", ErrMalformedPrefix, i, err)
		}
		fields[i] = x
		rest = r
	}
	if len(rest) > 0 {
		return Prefix{}, fmt.Errorf("%w: %d trailing bytes", ErrMalformedPrefix, len(rest))
	}
	p := Prefix{
		Version: int(fields[0]),
		Codec:   fields[1],
		Hash:    fields[2],
		Length:  int(fields[3]),
	}
	if p.Length == 0 {
		p.Length = multihash.DefaultSize
	}
	return p, nil
}

// Prefix 返回 CID 的前缀
func (c CID) Prefix() Prefix {
	return Prefix{
		Version: c.version,
		Codec:   c.codec.Code,
		Hash:    c.hashfun.Code,
		Length:  len(c.RawDigest()),
	}
}
