// Package metrics 以 Prometheus 指标导出注册表规模和 CID 缓存统计
//
// 指标注册到模块自有的 *prometheus.Registry，全部是读取时计算的
// GaugeFunc/CounterFunc。
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"

	"github.com/dep2p/go-multiformats/pkg/lib/cid"
	"github.com/dep2p/go-multiformats/pkg/lib/multiaddr"
	"github.com/dep2p/go-multiformats/pkg/lib/multibase"
	"github.com/dep2p/go-multiformats/pkg/lib/multicodec"
	"github.com/dep2p/go-multiformats/pkg/lib/multihash"
)

// Namespace 指标名前缀
const Namespace = "multiformats"

// Params 依赖参数
type Params struct {
	fx.In

	Registry *prometheus.Registry
	Codecs   *multicodec.Registry
	Bases    *multibase.Registry
	Hashes   *multihash.Registry
	Addrs    *multiaddr.Registry
	Factory  *cid.Factory
}

// Module 返回 Fx 模块
func Module() fx.Option {
	return fx.Module("metrics",
		fx.Provide(prometheus.NewRegistry),
		fx.Invoke(Register),
	)
}

// Register 注册全部指标
func Register(p Params) error {
	return registerAll(p.Registry, Collectors(p))
}

// Collectors 创建全部指标采集器
func Collectors(p Params) []prometheus.Collector {
	gauge := func(subsystem, name, help string, fn func() float64) prometheus.Collector {
		return prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: subsystem,
			Name:      name,
			Help:      help,
		}, fn)
	}
	counter := func(subsystem, name, help string, fn func() float64) prometheus.Collector {
		return prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: subsystem,
			Name:      name,
			Help:      help,
		}, fn)
	}

	return []prometheus.Collector{
		gauge("multicodec", "entries", "Number of registered codec entries.",
			func() float64 { return float64(p.Codecs.Len()) }),
		gauge("multibase", "entries", "Number of registered base encodings.",
			func() float64 { return float64(p.Bases.Len()) }),
		gauge("multihash", "implemented", "Number of multihash codecs with an implementation.",
			func() float64 { return float64(len(p.Hashes.Table())) }),
		gauge("multiaddr", "protocols", "Number of multiaddr protocols with an implementation.",
			func() float64 { return float64(len(p.Addrs.Protos())) }),
		counter("cid", "cache_hits_total", "CID decode cache hits.",
			func() float64 { return float64(p.Factory.Stats().Hits) }),
		counter("cid", "cache_misses_total", "CID decode cache misses.",
			func() float64 { return float64(p.Factory.Stats().Misses) }),
		gauge("cid", "cache_entries", "Entries currently held by the CID decode cache.",
			func() float64 { return float64(p.Factory.Stats().Len) }),
	}
}

func registerAll(reg prometheus.Registerer, cs []prometheus.Collector) error {
	for _, c := range cs {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}
