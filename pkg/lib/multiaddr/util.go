package multiaddr

// Split 分离传输地址和 p2p 段
//
//	/ip4/1.2.3.4/tcp/4001/p2p/QmFoo  =>  /ip4/1.2.3.4/tcp/4001, "QmFoo"
//
// p2p 之后的段被丢弃。
func Split(m Multiaddr) (transport Multiaddr, peerID string) {
	for i, s := range m.segs {
		if s.Protocol().Code() != P_P2P {
			continue
		}
		if a, ok := s.(Addr); ok {
			return m.Slice(0, i), a.Value()
		}
		return m.Slice(0, i), ""
	}
	return m, ""
}

// Join 在传输地址后追加 p2p 段，peerID 为空时原样返回
func Join(transport Multiaddr, peerID string) (Multiaddr, error) {
	if peerID == "" {
		return transport, nil
	}
	p, err := ProtocolWithCode(P_P2P)
	if err != nil {
		return Multiaddr{}, err
	}
	a, err := p.With(peerID)
	if err != nil {
		return Multiaddr{}, err
	}
	return transport.Append(a)
}

// FilterAddrs 保留 filter 返回 true 的地址
func FilterAddrs(addrs []Multiaddr, filter func(Multiaddr) bool) []Multiaddr {
	out := make([]Multiaddr, 0, len(addrs))
	for _, addr := range addrs {
		if filter(addr) {
			out = append(out, addr)
		}
	}
	return out
}

// UniqueAddrs 去重，保持首次出现的顺序
func UniqueAddrs(addrs []Multiaddr) []Multiaddr {
	seen := make(map[string]struct{}, len(addrs))
	out := make([]Multiaddr, 0, len(addrs))
	for _, addr := range addrs {
		s := addr.String()
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, addr)
	}
	return out
}

// HasProtocol 是否包含指定协议
func HasProtocol(m Multiaddr, code uint64) bool {
	for _, s := range m.segs {
		if s.Protocol().Code() == code {
			return true
		}
	}
	return false
}

// IsTCPMultiaddr 是否包含 tcp
func IsTCPMultiaddr(m Multiaddr) bool { return HasProtocol(m, P_TCP) }

// IsUDPMultiaddr 是否包含 udp
func IsUDPMultiaddr(m Multiaddr) bool { return HasProtocol(m, P_UDP) }

// IsIP4Multiaddr 是否包含 ip4
func IsIP4Multiaddr(m Multiaddr) bool { return HasProtocol(m, P_IP4) }

// IsIP6Multiaddr 是否包含 ip6
func IsIP6Multiaddr(m Multiaddr) bool { return HasProtocol(m, P_IP6) }

// IsIPMultiaddr 是否包含 ip4 或 ip6
func IsIPMultiaddr(m Multiaddr) bool {
	return IsIP4Multiaddr(m) || IsIP6Multiaddr(m)
}

// GetPeerID 返回 p2p 段的值
func GetPeerID(m Multiaddr) (string, error) {
	_, peerID := Split(m)
	if peerID == "" {
		return "", ErrNoPeerID
	}
	return peerID, nil
}

// WithPeerID 添加或替换 p2p 段
func WithPeerID(m Multiaddr, peerID string) (Multiaddr, error) {
	transport, _ := Split(m)
	return Join(transport, peerID)
}

// WithoutPeerID 移除 p2p 段及其后的内容
func WithoutPeerID(m Multiaddr) Multiaddr {
	transport, _ := Split(m)
	return transport
}

// SplitFirst 分离第一段和剩余部分，空地址返回 nil
func SplitFirst(m Multiaddr) (Segment, Multiaddr) {
	if m.IsEmpty() {
		return nil, Multiaddr{}
	}
	return m.segs[0], m.Slice(1, len(m.segs))
}

// SplitLast 分离最后一段和之前的部分，空地址返回 nil
func SplitLast(m Multiaddr) (Multiaddr, Segment) {
	if m.IsEmpty() {
		return Multiaddr{}, nil
	}
	n := len(m.segs)
	return m.Slice(0, n-1), m.segs[n-1]
}

// ForEach 依次访问每一段，fn 返回 false 时停止
func ForEach(m Multiaddr, fn func(Segment) bool) {
	for _, s := range m.segs {
		if !fn(s) {
			return
		}
	}
}
