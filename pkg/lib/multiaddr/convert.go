package multiaddr

import (
	"fmt"
	"net"
	"net/netip"
	"strconv"
)

// ToTCPAddr 转换为 *net.TCPAddr，需要 ip4/ip6 和 tcp 段
func (m Multiaddr) ToTCPAddr() (*net.TCPAddr, error) {
	ip, port, err := m.ipPort(P_TCP)
	if err != nil {
		return nil, err
	}
	return net.TCPAddrFromAddrPort(netip.AddrPortFrom(ip, port)), nil
}

// ToUDPAddr 转换为 *net.UDPAddr，需要 ip4/ip6 和 udp 段
func (m Multiaddr) ToUDPAddr() (*net.UDPAddr, error) {
	ip, port, err := m.ipPort(P_UDP)
	if err != nil {
		return nil, err
	}
	return net.UDPAddrFromAddrPort(netip.AddrPortFrom(ip, port)), nil
}

func (m Multiaddr) ipPort(transport uint64) (netip.Addr, uint16, error) {
	ipStr, err := m.ValueForProtocol(P_IP4)
	if err != nil {
		if ipStr, err = m.ValueForProtocol(P_IP6); err != nil {
			return netip.Addr{}, 0, fmt.Errorf("%w: no IP address in %s", ErrNotContained, m)
		}
	}
	ip, err := netip.ParseAddr(ipStr)
	if err != nil {
		return netip.Addr{}, 0, fmt.Errorf("%w: %q: %w", ErrInvalidAddr, ipStr, err)
	}
	portStr, err := m.ValueForProtocol(transport)
	if err != nil {
		return netip.Addr{}, 0, err
	}
	port, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil {
		return netip.Addr{}, 0, fmt.Errorf("%w: port %q", ErrInvalidAddr, portStr)
	}
	return ip, uint16(port), nil
}

// FromTCPAddr 由 *net.TCPAddr 构造 /ipX/.../tcp/...
func FromTCPAddr(addr *net.TCPAddr) (Multiaddr, error) {
	if addr == nil {
		return Multiaddr{}, fmt.Errorf("%w: nil TCP address", ErrInvalidAddr)
	}
	return fromIPPort(addr.IP, addr.Port, P_TCP)
}

// FromUDPAddr 由 *net.UDPAddr 构造 /ipX/.../udp/...
func FromUDPAddr(addr *net.UDPAddr) (Multiaddr, error) {
	if addr == nil {
		return Multiaddr{}, fmt.Errorf("%w: nil UDP address", ErrInvalidAddr)
	}
	return fromIPPort(addr.IP, addr.Port, P_UDP)
}

// FromNetAddr 由 net.Addr 构造，支持 TCP、UDP、IP 和 Unix 地址
func FromNetAddr(addr net.Addr) (Multiaddr, error) {
	switch a := addr.(type) {
	case *net.TCPAddr:
		return FromTCPAddr(a)
	case *net.UDPAddr:
		return FromUDPAddr(a)
	case *net.IPAddr:
		ipSeg, err := ipSegment(a.IP)
		if err != nil {
			return Multiaddr{}, err
		}
		return Compose(ipSeg)
	case *net.UnixAddr:
		p, err := ProtocolWithCode(P_UNIX)
		if err != nil {
			return Multiaddr{}, err
		}
		seg, err := p.With(a.Name)
		if err != nil {
			return Multiaddr{}, err
		}
		return Compose(seg)
	case nil:
		return Multiaddr{}, fmt.Errorf("%w: nil address", ErrInvalidAddr)
	default:
		return Multiaddr{}, fmt.Errorf("%w: unsupported address type %T", ErrInvalidAddr, addr)
	}
}

func fromIPPort(ip net.IP, port int, transport uint64) (Multiaddr, error) {
	ipSeg, err := ipSegment(ip)
	if err != nil {
		return Multiaddr{}, err
	}
	p, err := ProtocolWithCode(transport)
	if err != nil {
		return Multiaddr{}, err
	}
	portSeg, err := p.With(strconv.Itoa(port))
	if err != nil {
		return Multiaddr{}, err
	}
	return Compose(ipSeg, portSeg)
}

func ipSegment(ip net.IP) (Addr, error) {
	code := uint64(P_IP6)
	if ip4 := ip.To4(); ip4 != nil {
		code, ip = P_IP4, ip4
	}
	p, err := ProtocolWithCode(code)
	if err != nil {
		return Addr{}, err
	}
	return p.WithBytes(ip)
}
