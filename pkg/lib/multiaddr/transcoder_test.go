package multiaddr

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTranscoders 测试各协议的字符串与字节互转
func TestTranscoders(t *testing.T) {
	tests := []struct {
		name  string
		t     Transcoder
		value string
		bytes []byte
	}{
		{"ip4", TranscoderIP4, "10.1.2.3", []byte{10, 1, 2, 3}},
		{"ip6 mapped", TranscoderIP6, "::ffff:1.2.3.4",
			[]byte{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0xff, 0xff, 1, 2, 3, 4}},
		{"ip6zone", TranscoderIP6Zone, "eth0", []byte("eth0")},
		{"ipcidr", TranscoderIPCIDR, "24", []byte{24}},
		{"port", TranscoderPort, "65535", []byte{0xff, 0xff}},
		{"dns", TranscoderDNS, "example.com", []byte("example.com")},
		{"unix", TranscoderUnix, "/var/run/x.sock", []byte("/var/run/x.sock")},
		{"http-path", TranscoderHTTPPath, "a%20b", []byte("a b")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := tt.t.StringToBytes(tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.bytes, b)
			assert.NoError(t, tt.t.ValidateBytes(b))

			s, err := tt.t.BytesToString(b)
			require.NoError(t, err)
			assert.Equal(t, tt.value, s)
		})
	}
}

// TestTranscoderErrors 测试非法值
func TestTranscoderErrors(t *testing.T) {
	tests := []struct {
		name  string
		t     Transcoder
		value string
	}{
		{"ip4 short", TranscoderIP4, "1.2.3"},
		{"ip4 given ip6", TranscoderIP4, "::1"},
		{"ip6 zone", TranscoderIP6, "fe80::1%eth0"},
		{"ip6 given ip4", TranscoderIP6, "1.2.3.4"},
		{"ip6 garbage", TranscoderIP6, "not-an-ip"},
		{"ip6zone empty", TranscoderIP6Zone, ""},
		{"ip6zone slash", TranscoderIP6Zone, "a/b"},
		{"ipcidr range", TranscoderIPCIDR, "256"},
		{"port empty", TranscoderPort, ""},
		{"port negative", TranscoderPort, "-1"},
		{"dns empty", TranscoderDNS, ""},
		{"unix relative", TranscoderUnix, "tmp/sock"},
		{"http-path bad escape", TranscoderHTTPPath, "%zz"},
		{"http-path empty", TranscoderHTTPPath, ""},
		{"p2p empty", TranscoderP2P, ""},
		{"p2p bad base58", TranscoderP2P, "Qm0000"},
		{"certhash not multibase", TranscoderCerthash, "!abc"},
		{"certhash not multihash", TranscoderCerthash, "f00"},
		{"onion3 short", TranscoderOnion3, "vww6ybal4bd7szmgncyruucpgfkqahzddi37ktceo3ah7ngmcopnpyy:80"},
		{"garlic64 short", TranscoderGarlic64, "AAAA"},
		{"garlic64 alphabet", TranscoderGarlic64, "++++"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.t.StringToBytes(tt.value)
			assert.Error(t, err)
		})
	}
}

// TestTranscoderValidateBytes 测试字节校验先于转换
func TestTranscoderValidateBytes(t *testing.T) {
	_, err := TranscoderIP4.BytesToString([]byte{1, 2, 3})
	assert.Error(t, err)

	_, err = TranscoderOnion.BytesToString(make([]byte, 11))
	assert.Error(t, err)

	// 端口为 0
	onion, err := TranscoderOnion.StringToBytes("timaq4ygg2iegci7:80")
	require.NoError(t, err)
	onion[len(onion)-2], onion[len(onion)-1] = 0, 0
	assert.Error(t, TranscoderOnion.ValidateBytes(onion))
	_, err = TranscoderOnion.BytesToString(onion)
	assert.Error(t, err)
	assert.Error(t, TranscoderOnion3.ValidateBytes(make([]byte, 37)))

	_, err = TranscoderUnix.BytesToString([]byte("rel"))
	assert.Error(t, err)

	_, err = TranscoderP2P.BytesToString([]byte{0x12, 0x20, 0x01})
	assert.Error(t, err)

	_, err = TranscoderGarlic32.BytesToString(make([]byte, 33))
	assert.Error(t, err)
	_, err = TranscoderGarlic32.BytesToString(make([]byte, 32))
	assert.NoError(t, err)
	_, err = TranscoderGarlic32.BytesToString(make([]byte, 40))
	assert.NoError(t, err)
}

// TestGarlic64RoundTrip 测试 I2P base64 字母表
func TestGarlic64RoundTrip(t *testing.T) {
	raw := make([]byte, 387)
	for i := range raw {
		raw[i] = byte(i * 7)
	}
	s, err := TranscoderGarlic64.BytesToString(raw)
	require.NoError(t, err)
	assert.False(t, strings.ContainsAny(s, "+/"))

	b, err := TranscoderGarlic64.StringToBytes(s)
	require.NoError(t, err)
	assert.Equal(t, raw, b)

	m, err := NewMultiaddr("/garlic64/" + s)
	require.NoError(t, err)
	assert.Equal(t, "/garlic64/"+s, m.String())
}
