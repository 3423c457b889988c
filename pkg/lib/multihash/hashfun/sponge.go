package hashfun

import (
	"encoding/binary"

	"github.com/cloudflare/circl/simd/keccakf1600"
	"golang.org/x/crypto/blake2s"
)

// keccakSum 计算原始 Keccak（填充字节 0x01）摘要
//
// 容量为摘要长度的两倍，置换使用 keccakf1600 两路状态的第一路。
func keccakSum(size int, data []byte) []byte {
	rate := 200 - 2*size
	var st keccakf1600.StateX2
	a := st.Initialize(false)

	absorb := func(block []byte) {
		for i := 0; i < rate/8; i++ {
			a[2*i] ^= binary.LittleEndian.Uint64(block[8*i:])
		}
		st.Permute()
	}
	for len(data) >= rate {
		absorb(data[:rate])
		data = data[rate:]
	}
	last := make([]byte, rate)
	copy(last, data)
	last[len(data)] ^= 0x01
	last[rate-1] ^= 0x80
	absorb(last)

	out := make([]byte, 0, size+8)
	for i := 0; len(out) < size; i++ {
		out = binary.LittleEndian.AppendUint64(out, a[2*i])
	}
	return out[:size]
}

var blake2sIV = [8]uint32{
	0x6a09e667, 0xbb67ae85, 0x3c6ef372, 0xa54ff53a,
	0x510e527f, 0x9b05688c, 0x1f83d9ab, 0x5be0cd19,
}

var blake2sSigma = [10][16]byte{
	{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15},
	{14, 10, 4, 8, 9, 15, 13, 6, 1, 12, 0, 2, 11, 7, 5, 3},
	{11, 8, 12, 0, 5, 2, 15, 13, 10, 14, 3, 6, 7, 1, 9, 4},
	{7, 9, 3, 1, 13, 12, 11, 14, 2, 6, 5, 10, 4, 0, 15, 8},
	{9, 0, 5, 7, 2, 4, 10, 15, 14, 1, 11, 12, 6, 8, 3, 13},
	{2, 12, 6, 10, 0, 11, 8, 3, 4, 13, 7, 5, 15, 14, 1, 9},
	{12, 5, 1, 15, 14, 13, 4, 10, 0, 7, 6, 3, 9, 2, 8, 11},
	{13, 11, 7, 14, 12, 1, 3, 9, 5, 0, 15, 4, 8, 6, 2, 10},
	{6, 15, 14, 9, 11, 3, 0, 8, 12, 2, 13, 7, 1, 4, 10, 5},
	{10, 2, 8, 4, 7, 6, 1, 5, 15, 11, 9, 14, 3, 12, 13, 0},
}

// blake2sSum 计算摘要长度为 size 字节的无密钥 BLAKE2s
//
// 摘要长度写入参数块，与截断 blake2s-256 的结果不同。
func blake2sSum(size int, data []byte) []byte {
	if size == blake2s.Size {
		d := blake2s.Sum256(data)
		return d[:]
	}
	h := blake2sIV
	h[0] ^= 0x01010000 ^ uint32(size)

	var counter uint64
	for len(data) > blake2s.BlockSize {
		counter += blake2s.BlockSize
		blake2sCompress(&h, data[:blake2s.BlockSize], counter, false)
		data = data[blake2s.BlockSize:]
	}
	var block [blake2s.BlockSize]byte
	copy(block[:], data)
	counter += uint64(len(data))
	blake2sCompress(&h, block[:], counter, true)

	out := make([]byte, 0, 32)
	for _, v := range h {
		out = binary.LittleEndian.AppendUint32(out, v)
	}
	return out[:size]
}

func blake2sCompress(h *[8]uint32, block []byte, counter uint64, last bool) {
	var m [16]uint32
	for i := range m {
		m[i] = binary.LittleEndian.Uint32(block[4*i:])
	}
	var v [16]uint32
	copy(v[:8], h[:])
	copy(v[8:], blake2sIV[:])
	v[12] ^= uint32(counter)
	v[13] ^= uint32(counter >> 32)
	if last {
		v[14] = ^v[14]
	}

	g := func(a, b, c, d int, x, y uint32) {
		v[a] += v[b] + x
		v[d] = rotr32(v[d]^v[a], 16)
		v[c] += v[d]
		v[b] = rotr32(v[b]^v[c], 12)
		v[a] += v[b] + y
		v[d] = rotr32(v[d]^v[a], 8)
		v[c] += v[d]
		v[b] = rotr32(v[b]^v[c], 7)
	}
	for _, s := range blake2sSigma {
		g(0, 4, 8, 12, m[s[0]], m[s[1]])
		g(1, 5, 9, 13, m[s[2]], m[s[3]])
		g(2, 6, 10, 14, m[s[4]], m[s[5]])
		g(3, 7, 11, 15, m[s[6]], m[s[7]])
		g(0, 5, 10, 15, m[s[8]], m[s[9]])
		g(1, 6, 11, 12, m[s[10]], m[s[11]])
		g(2, 7, 8, 13, m[s[12]], m[s[13]])
		g(3, 4, 9, 14, m[s[14]], m[s[15]])
	}
	for i := range h {
		h[i] ^= v[i] ^ v[i+8]
	}
}

func rotr32(x uint32, n uint) uint32 { return x>>n | x<<(32-n) }
