package multiaddr

import "github.com/dep2p/go-multiformats/pkg/lib/mferr"

const module = "multiaddr"

// 注册表错误
var (
	// ErrNotMultiaddr 编解码器的标签不是 multiaddr
	ErrNotMultiaddr = mferr.Invalid(module, "multicodec is not a multiaddr protocol")

	// ErrNoImpl 协议没有实现
	ErrNoImpl = mferr.NotFound(module, "no implementation for protocol")

	// ErrConflict 实现已存在
	ErrConflict = mferr.Invalid(module, "implementation already exists")

	// ErrInvalidImpl 实现形状非法
	ErrInvalidImpl = mferr.Invalid(module, "invalid protocol implementation")
)

// 地址错误
var (
	// ErrInvalidAddr 地址值非法
	ErrInvalidAddr = mferr.Invalid(module, "invalid address value")

	// ErrNoAddress 协议不接受地址值
	ErrNoAddress = mferr.Invalid(module, "protocol admits no address value")

	// ErrMissingAddr 协议缺少地址值
	ErrMissingAddr = mferr.Invalid(module, "missing address value for protocol")
)

// 结构错误
var (
	// ErrEmpty 空地址
	ErrEmpty = mferr.Invalid(module, "empty multiaddr")

	// ErrInvalidMultiaddr 格式错误
	ErrInvalidMultiaddr = mferr.Invalid(module, "invalid multiaddr")

	// ErrUnaddressed 需要地址的协议后面跟了其他协议
	ErrUnaddressed = mferr.Invalid(module, "protocol expects an address, but is followed by another protocol")

	// ErrDuplicate 同一协议出现两次
	ErrDuplicate = mferr.Invalid(module, "protocol appears twice in multiaddr")

	// ErrIncomplete 最后一个协议缺少地址
	ErrIncomplete = mferr.Invalid(module, "multiaddr is incomplete")

	// ErrComplete 地址已完整，不能再补全
	ErrComplete = mferr.Invalid(module, "multiaddr is not incomplete")

	// ErrTruncated 二进制地址被截断
	ErrTruncated = mferr.Invalid(module, "truncated multiaddr bytes")

	// ErrNilSegment 段为 nil
	ErrNilSegment = mferr.Invalid(module, "nil segment")

	// ErrNotContained 段不在地址中
	ErrNotContained = mferr.NotFound(module, "segment does not appear in multiaddr")

	// ErrNoPeerID 地址中没有 p2p 段
	ErrNoPeerID = mferr.NotFound(module, "no peer ID in multiaddr")
)
