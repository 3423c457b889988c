package multiaddr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-multiformats/pkg/lib/multicodec"
)

// TestProtocolCodes 测试常量与 multicodec 表一致
func TestProtocolCodes(t *testing.T) {
	codes := map[string]uint64{
		"ip4":                P_IP4,
		"tcp":                P_TCP,
		"dccp":               P_DCCP,
		"ip6":                P_IP6,
		"ip6zone":            P_IP6ZONE,
		"ipcidr":             P_IPCIDR,
		"dns":                P_DNS,
		"dns4":               P_DNS4,
		"dns6":               P_DNS6,
		"dnsaddr":            P_DNSADDR,
		"sctp":               P_SCTP,
		"udp":                P_UDP,
		"p2p-webrtc-star":    P_P2P_WEBRTC_STAR,
		"p2p-webrtc-direct":  P_P2P_WEBRTC_DIRECT,
		"p2p-stardust":       P_P2P_STARDUST,
		"webrtc-direct":      P_WEBRTC_DIRECT,
		"webrtc":             P_WEBRTC,
		"p2p-circuit":        P_P2P_CIRCUIT,
		"udt":                P_UDT,
		"utp":                P_UTP,
		"unix":               P_UNIX,
		"p2p":                P_P2P,
		"https":              P_HTTPS,
		"onion":              P_ONION,
		"onion3":             P_ONION3,
		"garlic64":           P_GARLIC64,
		"garlic32":           P_GARLIC32,
		"tls":                P_TLS,
		"sni":                P_SNI,
		"noise":              P_NOISE,
		"quic":               P_QUIC,
		"quic-v1":            P_QUIC_V1,
		"webtransport":       P_WEBTRANSPORT,
		"certhash":           P_CERTHASH,
		"ws":                 P_WS,
		"wss":                P_WSS,
		"p2p-websocket-star": P_P2P_WEBSOCKET_STAR,
		"http":               P_HTTP,
		"http-path":          P_HTTP_PATH,
	}
	for name, code := range codes {
		t.Run(name, func(t *testing.T) {
			p, err := ProtocolWithName(name)
			require.NoError(t, err)
			assert.Equal(t, code, p.Code())

			byCode, err := ProtocolWithCode(code)
			require.NoError(t, err)
			assert.Equal(t, name, byCode.Name())
		})
	}
	assert.Len(t, Default().Protos(), len(codes))
}

// TestProtosSorted 测试 Protos 按代码升序
func TestProtosSorted(t *testing.T) {
	protos := Default().Protos()
	require.NotEmpty(t, protos)
	for i := 1; i < len(protos); i++ {
		assert.Less(t, protos[i-1].Code(), protos[i].Code())
	}
}

// TestRegistry 测试注册与移除实现
func TestRegistry(t *testing.T) {
	r := NewRegistry(multicodec.Default())
	assert.Same(t, multicodec.Default(), r.Codecs())

	assert.False(t, r.Exists("plaintextv2"))
	_, err := r.Proto(multicodec.Name("plaintextv2"))
	assert.ErrorIs(t, err, ErrNoImpl)

	require.NoError(t, r.Register("plaintextv2", NoAddress(), false))
	assert.True(t, r.Exists("plaintextv2"))

	m, err := r.Parse("/ip4/127.0.0.1/tcp/80/plaintextv2", false)
	require.NoError(t, err)
	b, err := m.Bytes()
	require.NoError(t, err)
	back, err := r.Decode(b)
	require.NoError(t, err)
	assert.True(t, m.Equal(back))

	// 默认注册表不受影响
	assert.False(t, Exists("plaintextv2"))

	err = r.Register("plaintextv2", NoAddress(), false)
	assert.ErrorIs(t, err, ErrConflict)
	require.NoError(t, r.Register("plaintextv2", NoAddress(), true))

	require.NoError(t, r.Unregister("plaintextv2"))
	assert.False(t, r.Exists("plaintextv2"))
	assert.ErrorIs(t, r.Unregister("plaintextv2"), ErrNoImpl)

	_, err = r.Parse("/ip4/127.0.0.1/tcp/80/plaintextv2", false)
	assert.ErrorIs(t, err, ErrNoImpl)
}

// TestRegisterCustomTranscoder 测试自定义变长实现
func TestRegisterCustomTranscoder(t *testing.T) {
	r := NewRegistry(multicodec.Default())
	threadID := NewTranscoderFromFunctions(
		func(s string) ([]byte, error) {
			if s == "" {
				return nil, errors.New("empty thread id")
			}
			return []byte(s), nil
		},
		func(b []byte) (string, error) { return string(b), nil },
		nil,
	)
	require.NoError(t, r.Register("thread", VariableSize(threadID), false))

	m, err := r.Parse("/thread/abc", false)
	require.NoError(t, err)
	b, err := m.Bytes()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x96, 0x03, 0x03, 'a', 'b', 'c'}, b)
}

// TestImplValidate 测试非法实现形状
func TestImplValidate(t *testing.T) {
	tests := []struct {
		name string
		impl Impl
	}{
		{"fixed zero", FixedSize(0, TranscoderPort)},
		{"fixed nil transcoder", FixedSize(2, nil)},
		{"variable nil transcoder", VariableSize(nil)},
		{"path nil transcoder", PathSize(nil)},
		{"unknown kind", Impl{kind: AddrKind(7)}},
		{"none with transcoder", Impl{kind: KindNone, t: TranscoderPort}},
	}
	r := NewRegistry(multicodec.Default())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.impl.Validate(), ErrInvalidImpl)
			assert.ErrorIs(t, r.Register("shs", tt.impl, false), ErrInvalidImpl)
		})
	}

	assert.NoError(t, NoAddress().Validate())
	assert.NoError(t, FixedSize(4, TranscoderIP4).Validate())
	assert.NoError(t, PathSize(TranscoderUnix).Validate())
}

// TestImplAccessors 测试实现访问器
func TestImplAccessors(t *testing.T) {
	impl := FixedSize(2, TranscoderPort)
	assert.Equal(t, KindFixed, impl.Kind())
	assert.Equal(t, 2, impl.Size())
	assert.False(t, impl.IsPath())
	assert.Equal(t, TranscoderPort, impl.Transcoder())

	path := PathSize(TranscoderUnix)
	assert.Equal(t, KindVariable, path.Kind())
	assert.Equal(t, LengthPrefixedVarSize, path.Size())
	assert.True(t, path.IsPath())

	none := NoAddress()
	assert.Equal(t, KindNone, none.Kind())
	assert.Nil(t, none.Transcoder())
}

// TestProtoNotMultiaddr 测试非 multiaddr 编解码器
func TestProtoNotMultiaddr(t *testing.T) {
	_, err := NewProto(multicodec.Name("raw"))
	assert.ErrorIs(t, err, ErrNotMultiaddr)

	_, err = NewProto(multicodec.Code(0x12))
	assert.ErrorIs(t, err, ErrNotMultiaddr)

	_, err = NewProto(nil)
	assert.Error(t, err)

	p, err := NewProto(multicodec.Code(P_TCP))
	require.NoError(t, err)
	assert.Equal(t, "tcp", p.Name())
	assert.Equal(t, "multiaddr", p.Codec().Tag)
	assert.Equal(t, 2, p.Impl().Size())
}
