package crypto

import (
	"crypto/rand"
	"crypto/subtle"
	"io"

	"github.com/dep2p/go-multiformats/pkg/lib/cid"
	"github.com/dep2p/go-multiformats/pkg/lib/log"
)

var logger = log.Logger("crypto")

// KeyType 密钥类型，取值即 libp2p PublicKey 消息的 Type 字段
type KeyType = cid.KeyType

const (
	KeyTypeRSA       = cid.KeyTypeRSA
	KeyTypeEd25519   = cid.KeyTypeEd25519
	KeyTypeSecp256k1 = cid.KeyTypeSecp256k1
	KeyTypeECDSA     = cid.KeyTypeECDSA
)

// KeyTypes 按 Type 字段取值排列
var KeyTypes = []KeyType{KeyTypeRSA, KeyTypeEd25519, KeyTypeSecp256k1, KeyTypeECDSA}

// Key 公钥与私钥共有的部分
type Key interface {
	Type() KeyType
	// Raw 返回 PublicKey/PrivateKey 消息中 Data 字段的字节
	Raw() ([]byte, error)
}

// PublicKey 可验证签名的公钥
type PublicKey interface {
	Key
	Verify(data, sig []byte) (bool, error)
}

// PrivateKey 可签名的私钥
type PrivateKey interface {
	Key
	Sign(data []byte) ([]byte, error)
	Public() PublicKey
}

// GenerateKey 生成 kt 类型的私钥，r 为 nil 时使用 crypto/rand
//
// RSA 使用 RSAMinKeySize 位，其他位数请用 GenerateRSAKey。
func GenerateKey(kt KeyType, r io.Reader) (PrivateKey, error) {
	s, err := schemeOf(kt)
	if err != nil {
		return nil, err
	}
	if r == nil {
		r = rand.Reader
	}
	logger.Debug("生成密钥", "type", kt.String())
	return s.generate(r)
}

// PublicKeyFromRaw 按类型解析 Data 字段的公钥字节
func PublicKeyFromRaw(kt KeyType, raw []byte) (PublicKey, error) {
	s, err := schemeOf(kt)
	if err != nil {
		return nil, err
	}
	return s.public(raw)
}

// PrivateKeyFromRaw 按类型解析 Data 字段的私钥字节
func PrivateKeyFromRaw(kt KeyType, raw []byte) (PrivateKey, error) {
	s, err := schemeOf(kt)
	if err != nil {
		return nil, err
	}
	return s.private(raw)
}

// Equal 比较类型与 Raw 字节，字节比较为常量时间
func Equal(a, b Key) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Type() != b.Type() {
		return false
	}
	ra, err := a.Raw()
	if err != nil {
		return false
	}
	rb, err := b.Raw()
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(ra, rb) == 1
}
