package varint

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-multiformats/pkg/lib/mferr"
)

// TestEncodeKnown 测试已知编码
func TestEncodeKnown(t *testing.T) {
	tests := []struct {
		name string
		x    uint64
		want []byte
	}{
		{"Zero", 0, []byte{0x00}},
		{"One", 1, []byte{0x01}},
		{"127", 127, []byte{0x7f}},
		{"128", 128, []byte{0x80, 0x01}},
		{"255", 255, []byte{0xff, 0x01}},
		{"300", 300, []byte{0xac, 0x02}},
		{"16384", 16384, []byte{0x80, 0x80, 0x01}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Encode(tt.x)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, len(tt.want), Size(tt.x))
		})
	}
}

// TestMinimality 测试 2^(7k)-1 恰好编码为 k 字节
func TestMinimality(t *testing.T) {
	for k := 1; k <= 9; k++ {
		x := uint64(1)<<(7*k) - 1
		if k == 9 {
			x = MaxValue
		}
		b, err := Encode(x)
		require.NoError(t, err)
		assert.Len(t, b, k, "k=%d", k)
	}
}

// TestEncodeOverflow 测试越界值
func TestEncodeOverflow(t *testing.T) {
	_, err := Encode(1 << 63)
	assert.ErrorIs(t, err, ErrOverflow)
	assert.True(t, mferr.IsInvalid(err))

	_, err = EncodeInt(-1)
	assert.ErrorIs(t, err, ErrOverflow)

	b, err := EncodeInt(300)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xac, 0x02}, b)

	assert.Panics(t, func() { MustEncode(1 << 63) })
}

// TestDecodeErrors 测试解码错误
func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  error
	}{
		{"Empty", []byte{}, ErrEmpty},
		{"TooLong", append(bytes.Repeat([]byte{0xff}, 9), 0x01), ErrTooLong},
		{"Truncated", []byte{0xff, 0xff}, ErrTruncated},
		{"NotMinimal", []byte{0x81, 0x00}, ErrNotMinimal},
		{"Trailing", []byte{0x01, 0x02}, ErrTrailing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.input)
			assert.ErrorIs(t, err, tt.want)
			assert.True(t, mferr.IsInvalid(err))
		})
	}
}

// TestRoundTrip 测试随机值往返
func TestRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for i := 0; i < 1000; i++ {
		x := r.Uint64() >> uint(1+r.Intn(63))
		b, err := Encode(x)
		require.NoError(t, err)
		got, err := Decode(b)
		require.NoError(t, err)
		assert.Equal(t, x, got)
	}
}

// TestDecodeRaw 测试带剩余部分的解码
func TestDecodeRaw(t *testing.T) {
	buf := []byte{0xac, 0x02, 0xde, 0xad}
	x, n, rest, err := DecodeRaw(buf)
	require.NoError(t, err)
	assert.Equal(t, uint64(300), x)
	assert.Equal(t, 2, n)
	assert.Equal(t, []byte{0xde, 0xad}, rest)

	// 剩余部分与原缓冲区共享内存
	rest[0] = 0x00
	assert.Equal(t, byte(0x00), buf[2])
}

// TestDecodeReader 测试从流中读取
func TestDecodeReader(t *testing.T) {
	r := bytes.NewReader([]byte{0xac, 0x02, 0x07})
	x, n, err := DecodeReader(r)
	require.NoError(t, err)
	assert.Equal(t, uint64(300), x)
	assert.Equal(t, 2, n)

	// 剩余数据仍在流中
	assert.Equal(t, 1, r.Len())
	x, n, err = DecodeReader(r)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), x)
	assert.Equal(t, 1, n)

	_, _, err = DecodeReader(r)
	assert.ErrorIs(t, err, ErrEmpty)

	_, _, err = DecodeReader(bytes.NewReader([]byte{0x80}))
	assert.ErrorIs(t, err, ErrTruncated)

	_, _, err = DecodeReader(bytes.NewReader([]byte{0x80, 0x00}))
	assert.ErrorIs(t, err, ErrNotMinimal)
}
