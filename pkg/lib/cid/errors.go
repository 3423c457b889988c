package cid

import "github.com/dep2p/go-multiformats/pkg/lib/mferr"

const module = "cid"

// 版本错误
var (
	// ErrReservedVersion 版本 2、3 保留
	ErrReservedVersion = mferr.Invalid(module, "CID versions 2 and 3 are reserved for future use")

	// ErrUnsupportedVersion 不支持的版本
	ErrUnsupportedVersion = mferr.Invalid(module, "unsupported CID version")

	// ErrMalformedV0 二进制 CIDv0 格式错误
	ErrMalformedV0 = mferr.Invalid(module, "CIDv0 is malformed")
)

// CIDv0 组合错误
var (
	// ErrV0Base CIDv0 只能使用 base58btc
	ErrV0Base = mferr.Invalid(module, "CIDv0 multibase must be 'base58btc'")

	// ErrV0Codec CIDv0 只能使用 dag-pb
	ErrV0Codec = mferr.Invalid(module, "CIDv0 multicodec must be 'dag-pb'")

	// ErrV0Hash CIDv0 只能使用 sha2-256
	ErrV0Hash = mferr.Invalid(module, "CIDv0 multihash must be 'sha2-256'")

	// ErrV0Multibase CIDv0 字节不能带 multibase 前缀
	ErrV0Multibase = mferr.Invalid(module, "CIDv0 may not be multibase encoded")

	// ErrV0Encode CIDv0 编码时不能指定 multibase
	ErrV0Encode = mferr.Invalid(module, "CIDv0 cannot be multibase-encoded")
)

// 其他错误
var (
	// ErrEmpty 输入为空
	ErrEmpty = mferr.Invalid(module, "empty input")

	// ErrUndefined 零值 CID
	ErrUndefined = mferr.Invalid(module, "undefined CID")

	// ErrNotPeerID CID 不是 libp2p-key
	ErrNotPeerID = mferr.Invalid(module, "CID is not a libp2p-key")

	// ErrKeyNotInlined 公钥没有以 identity 方式内联
	ErrKeyNotInlined = mferr.NotFound(module, "public key is not inlined in the CID")

	// ErrMalformedKey 公钥 protobuf 格式错误
	ErrMalformedKey = mferr.Invalid(module, "malformed public key")

	// ErrMalformedPrefix 前缀格式错误
	ErrMalformedPrefix = mferr.Invalid(module, "malformed prefix")
)
