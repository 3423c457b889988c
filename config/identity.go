package config

import (
	"errors"
	"fmt"

	"github.com/dep2p/go-multiformats/pkg/lib/crypto"
)

// IdentityConfig 密钥配置
//
// 命令行 key gen 子命令按此生成密钥并输出 PeerID。
type IdentityConfig struct {
	// KeyType 密钥类型
	// 可选值: "Ed25519", "RSA", "ECDSA", "Secp256k1"
	KeyType string `json:"key_type"`

	// RSABits RSA 密钥位数，仅当 KeyType="RSA" 时有效
	RSABits int `json:"rsa_bits,omitempty"`
}

// DefaultIdentityConfig 返回默认密钥配置
func DefaultIdentityConfig() IdentityConfig {
	return IdentityConfig{
		KeyType: "Ed25519",
		RSABits: crypto.RSAMinKeySize,
	}
}

// ParseKeyType 把名称解析为密钥类型
func ParseKeyType(name string) (crypto.KeyType, error) {
	for _, kt := range crypto.KeyTypes {
		if kt.String() == name {
			return kt, nil
		}
	}
	return 0, fmt.Errorf("invalid key type %q: must be Ed25519, RSA, ECDSA, or Secp256k1", name)
}

// Validate 校验密钥配置
func (c IdentityConfig) Validate() error {
	kt, err := ParseKeyType(c.KeyType)
	if err != nil {
		return fmt.Errorf("identity: %w", err)
	}
	if kt == crypto.KeyTypeRSA {
		if c.RSABits < crypto.RSAMinKeySize {
			return errors.New("identity: RSA key bits must be at least 2048")
		}
		if c.RSABits > crypto.RSAMaxKeySize {
			return errors.New("identity: RSA key bits must not exceed 8192")
		}
	}
	return nil
}

// WithKeyType 设置密钥类型
func (c IdentityConfig) WithKeyType(keyType string) IdentityConfig {
	c.KeyType = keyType
	return c
}
