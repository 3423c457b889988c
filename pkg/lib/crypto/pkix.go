package crypto

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"fmt"
	"io"

	sha256simd "github.com/minio/sha256-simd"
)

// RSA 位数范围
const (
	RSAMinKeySize = 2048
	RSAMaxKeySize = 8192
)

// pkixPublic ECDSA 与 RSA 公钥，Raw 为 DER 编码的 PKIX
type pkixPublic struct {
	kt KeyType
	k  crypto.PublicKey
}

func (p pkixPublic) Type() KeyType { return p.kt }

func (p pkixPublic) Raw() ([]byte, error) { return x509.MarshalPKIXPublicKey(p.k) }

// Verify ECDSA 为 ASN.1 签名，RSA 为 PKCS#1 v1.5，摘要均为 SHA-256
func (p pkixPublic) Verify(data, sig []byte) (bool, error) {
	h := sha256simd.Sum256(data)
	switch k := p.k.(type) {
	case *ecdsa.PublicKey:
		return ecdsa.VerifyASN1(k, h[:], sig), nil
	case *rsa.PublicKey:
		return rsa.VerifyPKCS1v15(k, crypto.SHA256, h[:], sig) == nil, nil
	}
	return false, fmt.Errorf("%w: %T", ErrInvalidPublicKey, p.k)
}

// signerPrivate ECDSA 私钥 Raw 为 SEC 1 DER，RSA 私钥为 PKCS#1 DER
type signerPrivate struct {
	kt  KeyType
	k   crypto.Signer
	der func() ([]byte, error)
}

func (p signerPrivate) Type() KeyType { return p.kt }

func (p signerPrivate) Raw() ([]byte, error) { return p.der() }

// Sign 对 SHA-256(data) 签名，由 crypto.Signer 决定签名格式
func (p signerPrivate) Sign(data []byte) ([]byte, error) {
	h := sha256simd.Sum256(data)
	return p.k.Sign(rand.Reader, h[:], crypto.SHA256)
}

func (p signerPrivate) Public() PublicKey { return pkixPublic{p.kt, p.k.Public()} }

func ecdsaPrivate(k *ecdsa.PrivateKey) signerPrivate {
	return signerPrivate{KeyTypeECDSA, k, func() ([]byte, error) { return x509.MarshalECPrivateKey(k) }}
}

func rsaPrivate(k *rsa.PrivateKey) signerPrivate {
	return signerPrivate{KeyTypeRSA, k, func() ([]byte, error) { return x509.MarshalPKCS1PrivateKey(k), nil }}
}

// generateECDSA 生成 P-256 密钥，解析时接受任意曲线
func generateECDSA(r io.Reader) (PrivateKey, error) {
	k, err := ecdsa.GenerateKey(elliptic.P256(), r)
	if err != nil {
		return nil, err
	}
	return ecdsaPrivate(k), nil
}

// GenerateRSAKey 生成 bits 位 RSA 私钥，r 为 nil 时使用 crypto/rand
func GenerateRSAKey(bits int, r io.Reader) (PrivateKey, error) {
	if err := checkRSABits(bits); err != nil {
		return nil, err
	}
	if r == nil {
		r = rand.Reader
	}
	k, err := rsa.GenerateKey(r, bits)
	if err != nil {
		return nil, err
	}
	return rsaPrivate(k), nil
}

// parsePKIXPublic 解析 PKIX 公钥，算法必须与 kt 一致
func parsePKIXPublic(kt KeyType) func([]byte) (PublicKey, error) {
	return func(raw []byte) (PublicKey, error) {
		k, err := x509.ParsePKIXPublicKey(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidPublicKey, err)
		}
		switch k := k.(type) {
		case *ecdsa.PublicKey:
			if kt == KeyTypeECDSA {
				return pkixPublic{kt, k}, nil
			}
		case *rsa.PublicKey:
			if kt == KeyTypeRSA {
				if err := checkRSABits(k.N.BitLen()); err != nil {
					return nil, err
				}
				return pkixPublic{kt, k}, nil
			}
		}
		return nil, fmt.Errorf("%w: PKIX holds %T, expected %s", ErrInvalidPublicKey, k, kt)
	}
}

func parseECDSAPrivate(raw []byte) (PrivateKey, error) {
	k, err := x509.ParseECPrivateKey(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPrivateKey, err)
	}
	return ecdsaPrivate(k), nil
}

func parseRSAPrivate(raw []byte) (PrivateKey, error) {
	k, err := x509.ParsePKCS1PrivateKey(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPrivateKey, err)
	}
	if err := checkRSABits(k.N.BitLen()); err != nil {
		return nil, err
	}
	return rsaPrivate(k), nil
}

func checkRSABits(bits int) error {
	switch {
	case bits < RSAMinKeySize:
		return fmt.Errorf("%w: %d bits", ErrRSAKeyTooSmall, bits)
	case bits > RSAMaxKeySize:
		return fmt.Errorf("%w: %d bits", ErrRSAKeyTooBig, bits)
	}
	return nil
}
