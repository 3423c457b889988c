// Package lib 包含各格式的基础库
//
// 本目录的包彼此之间只有单向依赖：
//
//   - varint: 无符号 varint 编解码
//   - mferr: 统一错误类型
//   - multicodec: 编解码器注册表
//   - multibase: 带前缀的文本编码
//   - multihash: 自描述哈希
//   - cid: 内容标识符与 PeerID
//   - multiaddr: 自描述网络地址
//   - crypto: 密钥与 PeerID 派生
//   - log: 日志封装
//
// # 使用示例
//
//	import (
//	    "github.com/dep2p/go-multiformats/pkg/lib/cid"
//	    "github.com/dep2p/go-multiformats/pkg/lib/log"
//	    "github.com/dep2p/go-multiformats/pkg/lib/multiaddr"
//	)
package lib
