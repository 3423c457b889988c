package cid

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/dep2p/go-multiformats/pkg/lib/multibase"
	"github.com/dep2p/go-multiformats/pkg/lib/multicodec"
	"github.com/dep2p/go-multiformats/pkg/lib/multihash"
)

// libp2p-key 编解码器
const libp2pKeyCode = 0x72

// maxInlineKeyLen 公钥不超过该长度时以 identity 内联
const maxInlineKeyLen = 42

// KeyType libp2p 公钥类型，取值与 libp2p crypto.proto 一致
type KeyType int32

const (
	// KeyTypeRSA RSA（DER 编码的 PKIX）
	KeyTypeRSA KeyType = 0
	// KeyTypeEd25519 Ed25519（32 字节原始公钥）
	KeyTypeEd25519 KeyType = 1
	// KeyTypeSecp256k1 Secp256k1（33 字节压缩公钥）
	KeyTypeSecp256k1 KeyType = 2
	// KeyTypeECDSA ECDSA（DER 编码的 PKIX）
	KeyTypeECDSA KeyType = 3
)

// String 返回类型名称
func (kt KeyType) String() string {
	switch kt {
	case KeyTypeRSA:
		return "RSA"
	case KeyTypeEd25519:
		return "Ed25519"
	case KeyTypeSecp256k1:
		return "Secp256k1"
	case KeyTypeECDSA:
		return "ECDSA"
	default:
		return fmt.Sprintf("KeyType(%d)", int32(kt))
	}
}

// PeerID 把公钥字节包装为 CIDv1 libp2p-key
//
// 不超过 42 字节的公钥使用 identity，否则使用 sha2-256。
func (f *Factory) PeerID(pk []byte) (CID, error) {
	hash := "sha2-256"
	if len(pk) <= maxInlineKeyLen {
		hash = "identity"
	}
	h, err := f.hashes.Get(hash)
	if err != nil {
		return CID{}, err
	}
	digest, err := h.Digest(pk, multihash.DefaultSize)
	if err != nil {
		return CID{}, err
	}
	return f.New(multibase.Name("base32"), 1, multicodec.Code(libp2pKeyCode), digest)
}

// PeerIDFromPublicKey 先按 libp2p PublicKey protobuf 编码，再计算 PeerID
func (f *Factory) PeerIDFromPublicKey(kt KeyType, raw []byte) (CID, error) {
	return f.PeerID(MarshalPublicKey(kt, raw))
}

// MarshalPublicKey 编码 libp2p PublicKey{Type = 1; Data = 2}
func MarshalPublicKey(kt KeyType, raw []byte) []byte {
	b := protowire.AppendTag(nil, 1, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(kt))
	b = protowire.AppendTag(b, 2, protowire.BytesType)
	return protowire.AppendBytes(b, raw)
}

// UnmarshalPublicKey 解析 libp2p PublicKey protobuf
func UnmarshalPublicKey(b []byte) (KeyType, []byte, error) {
	var (
		kt      KeyType
		data    []byte
		hasType bool
		hasData bool
	)
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return 0, nil, fmt.Errorf("%w: %w", ErrMalformedKey, protowire.ParseError(n))
		}
		b = b[n:]
		switch {
		case num == 1 && typ == protowire.VarintType:
			v, m := protowire.ConsumeVarint(b)
			if m < 0 {
				return 0, nil, fmt.Errorf("%w: %w", ErrMalformedKey, protowire.ParseError(m))
			}
			kt, hasType = KeyType(v), true
			b = b[m:]
		case num == 2 && typ == protowire.BytesType:
			v, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return 0, nil, fmt.Errorf("%w: %w", ErrMalformedKey, protowire.ParseError(m))
			}
			data, hasData = append([]byte(nil), v...), true
			b = b[m:]
		default:
			m := protowire.ConsumeFieldValue(num, typ, b)
			if m < 0 {
				return 0, nil, fmt.Errorf("%w: %w", ErrMalformedKey, protowire.ParseError(m))
			}
			b = b[m:]
		}
	}
	if !hasType || !hasData {
		return 0, nil, fmt.Errorf("%w: missing type or data", ErrMalformedKey)
	}
	return kt, data, nil
}

// PublicKey 从内联的 PeerID 中取出公钥
func (c CID) PublicKey() (KeyType, []byte, error) {
	if !c.Defined() {
		return 0, nil, ErrUndefined
	}
	if c.codec.Code != libp2pKeyCode {
		return 0, nil, fmt.Errorf("%w: codec is %s", ErrNotPeerID, c.codec.Name)
	}
	if c.hashfun.Name != "identity" {
		return 0, nil, fmt.Errorf("%w: hashed with %s", ErrKeyNotInlined, c.hashfun.Name)
	}
	return UnmarshalPublicKey(c.RawDigest())
}

// PeerID 使用默认工厂计算 PeerID
func PeerID(pk []byte) (CID, error) { return DefaultFactory().PeerID(pk) }

// PeerIDFromPublicKey 使用默认工厂由公钥计算 PeerID
func PeerIDFromPublicKey(kt KeyType, raw []byte) (CID, error) {
	return DefaultFactory().PeerIDFromPublicKey(kt, raw)
}
