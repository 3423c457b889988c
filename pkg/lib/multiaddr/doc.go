// Package multiaddr 实现自描述网络地址 multiaddr
//
// 多地址由若干段组成，每段是一个协议（Proto）或带地址值的协议（Addr）。
// 协议条目取自 multicodec 表中标签为 multiaddr 的条目，地址编解码由
// Registry 中注册的 Impl 提供。
//
// # 基本用法
//
//	ma, err := multiaddr.NewMultiaddr("/ip4/127.0.0.1/udp/9090/quic")
//	b, _ := ma.Bytes() // 047f00000191022382cc03
//
//	ip4, _ := multiaddr.ProtocolWithName("ip4")
//	a, _ := ip4.With("192.168.1.1")
//	m, _ := multiaddr.Compose(a, tcp) // /ip4/192.168.1.1/tcp
//	m.IsIncomplete()                  // true
//	m, _ = m.Complete("4001")         // /ip4/192.168.1.1/tcp/4001
//
// # 结构约束
//
//   - 同一协议最多出现一次
//   - 接受地址但未带值的协议只能是最后一段，此时多地址不完整
//   - 不完整多地址没有二进制形式，Decode 永远不会返回不完整结果
//
// # 地址格式
//
// 字符串格式：
//
//	/ip4/127.0.0.1/tcp/4001
//	/ip6/::1/tcp/8080
//	/dns/example.com/tcp/443/wss
//	/unix/tmp/app.sock
//
// 二进制格式：
//
//	(varint(code) || [varint(len)] || addr)+
//
// 变长地址带 varint 长度前缀，固定长度地址没有。
package multiaddr
