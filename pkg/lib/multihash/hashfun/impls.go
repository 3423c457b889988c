package hashfun

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/binary"
	"fmt"
	"regexp"
	"strconv"

	"github.com/cloudflare/circl/xof"
	sha256simd "github.com/minio/sha256-simd"
	"github.com/spaolacci/murmur3"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/blake2s"
	"golang.org/x/crypto/ripemd160" //nolint:staticcheck
	"golang.org/x/crypto/sha3"
	"lukechampine.com/blake3"
)

// factory 名称匹配 re 时构造实现，名称不受支持时返回 false
type factory struct {
	re    *regexp.Regexp
	build func(m []string) (Impl, bool)
}

var factories = []factory{
	{regexp.MustCompile(`^identity$`), buildIdentity},
	{regexp.MustCompile(`^sha1$`), buildSHA1},
	{regexp.MustCompile(`^sha(2|3)-(224|256|384|512)$`), buildSHA23},
	{regexp.MustCompile(`^sha2-512-(224|256)$`), buildSHA512t},
	{regexp.MustCompile(`^shake-(128|256)$`), buildShake},
	{regexp.MustCompile(`^keccak-(224|256|384|512)$`), buildKeccak},
	{regexp.MustCompile(`^blake2([bs])-([1-9][0-9]{0,2})$`), buildBlake2},
	{regexp.MustCompile(`^blake3$`), buildBlake3},
	{regexp.MustCompile(`^kangarootwelve$`), buildK12},
	{regexp.MustCompile(`^murmur3-(32|x64-64|x64-128)$`), buildMurmur3},
	{regexp.MustCompile(`^md5$`), buildMD5},
	{regexp.MustCompile(`^ripemd-(160)$`), buildRipemd},
	{regexp.MustCompile(`^dbl-sha2-(256)$`), buildDblSHA2},
	{regexp.MustCompile(`^sha2-256-trunc254-padded$`), buildTrunc254},
}

func lookupFactory(name string) (Impl, bool) {
	for _, f := range factories {
		if m := f.re.FindStringSubmatch(name); m != nil {
			return f.build(m)
		}
	}
	return Impl{}, false
}

func buildIdentity(m []string) (Impl, bool) {
	return Impl{
		Name: m[0],
		Func: func(data []byte, size int) ([]byte, error) {
			if err := ValidateArgs(size, 0, false, "identity"); err != nil {
				return nil, err
			}
			if size == DefaultSize {
				return append([]byte(nil), data...), nil
			}
			if size > len(data) {
				return nil, fmt.Errorf("%w: identity: size %d exceeds data length %d", ErrInvalidSize, size, len(data))
			}
			return append([]byte(nil), data[:size]...), nil
		},
	}, true
}

func buildSHA1(m []string) (Impl, bool) {
	return fixed(m[0], sha1.Size, func(b []byte) []byte { d := sha1.Sum(b); return d[:] }), true
}

func buildSHA23(m []string) (Impl, bool) {
	var sum func([]byte) []byte
	switch m[1] + "-" + m[2] {
	case "2-224":
		sum = func(b []byte) []byte { d := sha256.Sum224(b); return d[:] }
	case "2-256":
		sum = func(b []byte) []byte { d := sha256simd.Sum256(b); return d[:] }
	case "2-384":
		sum = func(b []byte) []byte { d := sha512.Sum384(b); return d[:] }
	case "2-512":
		sum = func(b []byte) []byte { d := sha512.Sum512(b); return d[:] }
	case "3-224":
		sum = func(b []byte) []byte { d := sha3.Sum224(b); return d[:] }
	case "3-256":
		sum = func(b []byte) []byte { d := sha3.Sum256(b); return d[:] }
	case "3-384":
		sum = func(b []byte) []byte { d := sha3.Sum384(b); return d[:] }
	case "3-512":
		sum = func(b []byte) []byte { d := sha3.Sum512(b); return d[:] }
	}
	bits, _ := strconv.Atoi(m[2])
	return fixed(m[0], bits/8, sum), true
}

func buildSHA512t(m []string) (Impl, bool) {
	if m[1] == "224" {
		return fixed(m[0], sha512.Size224, func(b []byte) []byte { d := sha512.Sum512_224(b); return d[:] }), true
	}
	return fixed(m[0], sha512.Size256, func(b []byte) []byte { d := sha512.Sum512_256(b); return d[:] }), true
}

// buildShake 输出长度固定为安全级别的两倍：shake-128 为 32 字节，shake-256 为 64 字节
func buildShake(m []string) (Impl, bool) {
	if m[1] == "128" {
		return fixed(m[0], 32, func(b []byte) []byte {
			d := make([]byte, 32)
			sha3.ShakeSum128(d, b)
			return d
		}), true
	}
	return fixed(m[0], 64, func(b []byte) []byte {
		d := make([]byte, 64)
		sha3.ShakeSum256(d, b)
		return d
	}), true
}

// buildKeccak 256 与 512 使用 x/crypto，224 与 384 走 keccakSum
func buildKeccak(m []string) (Impl, bool) {
	switch m[1] {
	case "256":
		return fixed(m[0], 32, func(b []byte) []byte {
			h := sha3.NewLegacyKeccak256()
			h.Write(b)
			return h.Sum(nil)
		}), true
	case "512":
		return fixed(m[0], 64, func(b []byte) []byte {
			h := sha3.NewLegacyKeccak512()
			h.Write(b)
			return h.Sum(nil)
		}), true
	}
	bits, _ := strconv.Atoi(m[1])
	size := bits / 8
	return fixed(m[0], size, func(b []byte) []byte { return keccakSum(size, b) }), true
}

// buildBlake2 支持 blake2b-8 到 blake2b-512 与 blake2s-8 到 blake2s-256，步长 8 位
func buildBlake2(m []string) (Impl, bool) {
	bits, err := strconv.Atoi(m[2])
	if err != nil || bits%8 != 0 || bits < 8 {
		return Impl{}, false
	}
	size := bits / 8
	if m[1] == "s" {
		if size > blake2s.Size {
			return Impl{}, false
		}
		return fixed(m[0], size, func(b []byte) []byte { return blake2sSum(size, b) }), true
	}
	if bits > 512 {
		return Impl{}, false
	}
	return fixed(m[0], size, func(b []byte) []byte {
		h, err := blake2b.New(size, nil)
		if err != nil {
			panic(err) // size 在 1..64 之间，不会出错
		}
		h.Write(b)
		return h.Sum(nil)
	}), true
}

func buildBlake3(m []string) (Impl, bool) {
	return extendable(m[0], func(data, out []byte) {
		h := blake3.New(32, nil)
		h.Write(data)
		_, _ = h.XOF().Read(out)
	}), true
}

func buildK12(m []string) (Impl, bool) {
	return extendable(m[0], func(data, out []byte) {
		h := xof.K12D10.New()
		_, _ = h.Write(data)
		_, _ = h.Read(out)
	}), true
}

// buildMurmur3 x64-128 的摘要为 h2 和 h1 的大端拼接，x64-64 取其前 8 字节
func buildMurmur3(m []string) (Impl, bool) {
	switch m[1] {
	case "32":
		return fixed(m[0], 4, func(b []byte) []byte {
			return binary.BigEndian.AppendUint32(nil, murmur3.Sum32(b))
		}), true
	case "x64-64":
		return fixed(m[0], 8, func(b []byte) []byte { return murmur128(b)[:8] }), true
	default:
		return fixed(m[0], 16, murmur128), true
	}
}

func murmur128(b []byte) []byte {
	h1, h2 := murmur3.Sum128(b)
	d := binary.BigEndian.AppendUint64(make([]byte, 0, 16), h2)
	return binary.BigEndian.AppendUint64(d, h1)
}

func buildMD5(m []string) (Impl, bool) {
	return fixed(m[0], md5.Size, func(b []byte) []byte { d := md5.Sum(b); return d[:] }), true
}

func buildRipemd(m []string) (Impl, bool) {
	return fixed(m[0], ripemd160.Size, func(b []byte) []byte {
		h := ripemd160.New()
		h.Write(b)
		return h.Sum(nil)
	}), true
}

func buildDblSHA2(m []string) (Impl, bool) {
	single, _ := buildSHA23([]string{"sha2-256", "2", "256"})
	fn, err := Repeat(single.Func, 2, TruncateEnd)
	if err != nil {
		return Impl{}, false
	}
	return Impl{Name: m[0], Func: fn, MaxSize: sha256.Size}, true
}

// buildTrunc254 最后一个字节的最高两位清零
func buildTrunc254(m []string) (Impl, bool) {
	return fixed(m[0], sha256.Size, func(b []byte) []byte {
		d := sha256simd.Sum256(b)
		d[31] &= 0x3f
		return d[:]
	}), true
}
