package multihash

import "github.com/dep2p/go-multiformats/pkg/lib/mferr"

const module = "multihash"

// 通用错误
var (
	// ErrNotMultihash 条目存在但标签不是 multihash
	ErrNotMultihash = mferr.Invalid(module, "multicodec is not a multihash")

	// ErrUnknownCode 代码不是已知的 multihash
	ErrUnknownCode = mferr.NotFound(module, "unknown multihash code")

	// ErrCodeMismatch 摘要中的代码与期望不符
	ErrCodeMismatch = mferr.Invalid(module, "code mismatch")

	// ErrSizeMismatch 声明长度与实际长度不符
	ErrSizeMismatch = mferr.Invalid(module, "digest size mismatch")

	// ErrTooLong 摘要超过最大长度
	ErrTooLong = mferr.Invalid(module, "digest exceeds max digest size")

	// ErrNotImplemented 没有可用的哈希实现
	ErrNotImplemented = mferr.NotFound(module, "not implemented")
)
