package crypto

import (
	"crypto/ed25519"
	"crypto/subtle"
	"fmt"
	"io"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	secpecdsa "github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	sha256simd "github.com/minio/sha256-simd"
)

// scheme 一种密钥类型的生成与解析
type scheme struct {
	generate func(r io.Reader) (PrivateKey, error)
	public   func(raw []byte) (PublicKey, error)
	private  func(raw []byte) (PrivateKey, error)
}

var schemes = map[KeyType]scheme{
	KeyTypeEd25519:   {generateEd25519, parseEd25519Public, parseEd25519Private},
	KeyTypeSecp256k1: {generateSecp256k1, parseSecp256k1Public, parseSecp256k1Private},
	KeyTypeECDSA:     {generateECDSA, parsePKIXPublic(KeyTypeECDSA), parseECDSAPrivate},
	KeyTypeRSA: {
		func(r io.Reader) (PrivateKey, error) { return GenerateRSAKey(RSAMinKeySize, r) },
		parsePKIXPublic(KeyTypeRSA),
		parseRSAPrivate,
	},
}

func schemeOf(kt KeyType) (scheme, error) {
	s, ok := schemes[kt]
	if !ok {
		return scheme{}, fmt.Errorf("%w: %s", ErrBadKeyType, kt)
	}
	return s, nil
}

// ============================================================================
//                              Ed25519
// ============================================================================

type ed25519Public ed25519.PublicKey

func (ed25519Public) Type() KeyType { return KeyTypeEd25519 }

func (k ed25519Public) Raw() ([]byte, error) { return append([]byte(nil), k...), nil }

func (k ed25519Public) Verify(data, sig []byte) (bool, error) {
	if len(sig) != ed25519.SignatureSize {
		return false, nil
	}
	return ed25519.Verify(ed25519.PublicKey(k), data, sig), nil
}

// ed25519Private 64 字节：种子加公钥
type ed25519Private ed25519.PrivateKey

func (ed25519Private) Type() KeyType { return KeyTypeEd25519 }

func (k ed25519Private) Raw() ([]byte, error) { return append([]byte(nil), k...), nil }

func (k ed25519Private) Sign(data []byte) ([]byte, error) {
	return ed25519.Sign(ed25519.PrivateKey(k), data), nil
}

func (k ed25519Private) Public() PublicKey {
	return ed25519Public(append([]byte(nil), k[ed25519.SeedSize:]...))
}

func generateEd25519(r io.Reader) (PrivateKey, error) {
	_, priv, err := ed25519.GenerateKey(r)
	if err != nil {
		return nil, err
	}
	return ed25519Private(priv), nil
}

func parseEd25519Public(raw []byte) (PublicKey, error) {
	if len(raw) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("%w: ed25519 public key is %d bytes, got %d", ErrInvalidKeySize, ed25519.PublicKeySize, len(raw))
	}
	return ed25519Public(append([]byte(nil), raw...)), nil
}

// parseEd25519Private 接受种子、种子加公钥，以及旧版 libp2p 末尾多附一份公钥的 96 字节格式
func parseEd25519Private(raw []byte) (PrivateKey, error) {
	switch len(raw) {
	case ed25519.SeedSize:
		return ed25519Private(ed25519.NewKeyFromSeed(raw)), nil
	case ed25519.PrivateKeySize:
		return ed25519Private(append([]byte(nil), raw...)), nil
	case ed25519.PrivateKeySize + ed25519.PublicKeySize:
		pub, extra := raw[ed25519.SeedSize:ed25519.PrivateKeySize], raw[ed25519.PrivateKeySize:]
		if subtle.ConstantTimeCompare(pub, extra) != 1 {
			return nil, fmt.Errorf("%w: trailing ed25519 public key differs", ErrInvalidPrivateKey)
		}
		return ed25519Private(append([]byte(nil), raw[:ed25519.PrivateKeySize]...)), nil
	}
	return nil, fmt.Errorf("%w: ed25519 private key is %d, %d or %d bytes, got %d", ErrInvalidKeySize,
		ed25519.SeedSize, ed25519.PrivateKeySize, ed25519.PrivateKeySize+ed25519.PublicKeySize, len(raw))
}

// ============================================================================
//                              Secp256k1
// ============================================================================

// secp256k1Public Raw 为 33 字节压缩点
type secp256k1Public struct{ k *secp256k1.PublicKey }

func (secp256k1Public) Type() KeyType { return KeyTypeSecp256k1 }

func (p secp256k1Public) Raw() ([]byte, error) { return p.k.SerializeCompressed(), nil }

// Verify 签名为 SHA-256(data) 的 DER 编码 ECDSA 签名
func (p secp256k1Public) Verify(data, sig []byte) (bool, error) {
	s, err := secpecdsa.ParseDERSignature(sig)
	if err != nil {
		return false, err
	}
	h := sha256simd.Sum256(data)
	return s.Verify(h[:], p.k), nil
}

// secp256k1Private Raw 为 32 字节标量
type secp256k1Private struct{ k *secp256k1.PrivateKey }

func (secp256k1Private) Type() KeyType { return KeyTypeSecp256k1 }

func (p secp256k1Private) Raw() ([]byte, error) { return p.k.Serialize(), nil }

// Sign RFC 6979 确定性签名
func (p secp256k1Private) Sign(data []byte) ([]byte, error) {
	h := sha256simd.Sum256(data)
	return secpecdsa.Sign(p.k, h[:]).Serialize(), nil
}

func (p secp256k1Private) Public() PublicKey { return secp256k1Public{p.k.PubKey()} }

func generateSecp256k1(r io.Reader) (PrivateKey, error) {
	k, err := secp256k1.GeneratePrivateKeyFromRand(r)
	if err != nil {
		return nil, err
	}
	return secp256k1Private{k}, nil
}

// parseSecp256k1Public 压缩与未压缩形式都接受
func parseSecp256k1Public(raw []byte) (PublicKey, error) {
	k, err := secp256k1.ParsePubKey(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPublicKey, err)
	}
	return secp256k1Public{k}, nil
}

func parseSecp256k1Private(raw []byte) (PrivateKey, error) {
	if len(raw) != secp256k1.PrivKeyBytesLen {
		return nil, fmt.Errorf("%w: secp256k1 private key is %d bytes, got %d", ErrInvalidKeySize, secp256k1.PrivKeyBytesLen, len(raw))
	}
	k := secp256k1.PrivKeyFromBytes(raw)
	if k.Key.IsZero() {
		return nil, fmt.Errorf("%w: zero scalar", ErrInvalidPrivateKey)
	}
	return secp256k1Private{k}, nil
}
