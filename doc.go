// Package multiformats 把各 multiformats 注册表组装为一个可配置的上下文
//
// pkg/lib 下的各包可以单独使用，它们的包级函数基于内置表构建的默认注册表。
// 需要按配置定制注册表（追加编解码器表、移除哈希实现、调整 CID 缓存）时，
// 通过 New 创建 Context：
//
//	mf, err := multiformats.New(ctx, multiformats.WithConfigFile("multiformats.json"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer mf.Close(ctx)
//
//	c, err := mf.Sum([]byte("hello"), "raw", "sha2-256")
//	ma, err := mf.ParseMultiaddr("/ip4/127.0.0.1/tcp/4001")
//
// # 模块
//
//   - registry: multicodec、multibase、multihash、multiaddr 注册表
//   - cidcache: 带 LRU 解码缓存的 CID 工厂
//   - metrics: Prometheus 指标
//
// 模块通过 go.uber.org/fx 装配，WithFxOptions 可以追加自定义模块。
package multiformats
