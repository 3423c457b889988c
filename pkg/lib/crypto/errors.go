package crypto

import "github.com/dep2p/go-multiformats/pkg/lib/mferr"

const module = "crypto"

// 密钥相关错误
var (
	// ErrBadKeyType 不支持的密钥类型
	ErrBadKeyType = mferr.NotFound(module, "invalid or unsupported key type")

	// ErrNilPrivateKey 私钥为空
	ErrNilPrivateKey = mferr.Invalid(module, "nil private key")

	// ErrNilPublicKey 公钥为空
	ErrNilPublicKey = mferr.Invalid(module, "nil public key")

	// ErrInvalidKeySize 密钥长度不符
	ErrInvalidKeySize = mferr.Invalid(module, "invalid key size")

	// ErrInvalidPublicKey 公钥无效
	ErrInvalidPublicKey = mferr.Invalid(module, "invalid public key")

	// ErrInvalidPrivateKey 私钥无效
	ErrInvalidPrivateKey = mferr.Invalid(module, "invalid private key")
)

// RSA 错误
var (
	// ErrRSAKeyTooSmall RSA 位数低于下限
	ErrRSAKeyTooSmall = mferr.Invalid(module, "rsa keys must be >= 2048 bits to be useful")

	// ErrRSAKeyTooBig RSA 位数超过上限
	ErrRSAKeyTooBig = mferr.Invalid(module, "rsa keys must be <= 8192 bits")
)

// ErrPeerIDMismatch 公钥与 PeerID 不对应
var ErrPeerIDMismatch = mferr.Invalid(module, "public key does not match peer id")
