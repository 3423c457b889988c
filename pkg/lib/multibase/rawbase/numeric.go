package rawbase

import (
	"math/big"
	"strings"
)

// buildNumeric 处理 base2、base8 和 base10
func buildNumeric(name string) (Encoding, bool) {
	switch name {
	case "base2":
		return Encoding{Name: name, Encode: encodeBits(1), Decode: decodeBits(name, 1)}, true
	case "base8":
		return Encoding{Name: name, Encode: encodeBits(3), Decode: decodeBits(name, 3)}, true
	case "base10":
		return Encoding{Name: name, Encode: encodeBase10, Decode: decodeBase10}, true
	}
	return Encoding{}, false
}

// encodeBits 把字节按高位在前切成 width 位一组，最后一组低位补零
func encodeBits(width uint) func([]byte) string {
	return func(b []byte) string {
		var sb strings.Builder
		sb.Grow((len(b)*8 + int(width) - 1) / int(width))
		var acc, nacc uint
		for _, x := range b {
			acc = acc<<8 | uint(x)
			nacc += 8
			for nacc >= width {
				nacc -= width
				sb.WriteByte('0' + byte(acc>>nacc&(1<<width-1)))
			}
			acc &= 1<<nacc - 1
		}
		if nacc > 0 {
			sb.WriteByte('0' + byte(acc<<(width-nacc)&(1<<width-1)))
		}
		return sb.String()
	}
}

func decodeBits(name string, width uint) func(string) ([]byte, error) {
	return func(s string) ([]byte, error) {
		nbytes := len(s) * int(width) / 8
		if (nbytes*8+int(width)-1)/int(width) != len(s) {
			return nil, malformed(name, "invalid length %d", len(s))
		}
		out := make([]byte, 0, nbytes)
		var acc, nacc uint
		for i := 0; i < len(s); i++ {
			d := uint(s[i]) - '0'
			if s[i] < '0' || d >= 1<<width {
				return nil, malformed(name, "invalid char %q at position %d", s[i], i)
			}
			acc = acc<<width | d
			nacc += width
			if nacc >= 8 {
				nacc -= 8
				out = append(out, byte(acc>>nacc))
				acc &= 1<<nacc - 1
			}
		}
		if acc != 0 {
			return nil, malformed(name, "non-zero pad bits")
		}
		return out, nil
	}
}

// encodeBase10 大整数十进制表示，每个前导零字节写作一个 '0'
func encodeBase10(b []byte) string {
	zeros := 0
	for zeros < len(b) && b[zeros] == 0 {
		zeros++
	}
	s := strings.Repeat("0", zeros)
	if zeros == len(b) {
		return s
	}
	return s + new(big.Int).SetBytes(b[zeros:]).String()
}

func decodeBase10(s string) ([]byte, error) {
	zeros := 0
	for zeros < len(s) && s[zeros] == '0' {
		zeros++
	}
	out := make([]byte, zeros)
	if zeros == len(s) {
		return out, nil
	}
	for i := zeros; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return nil, malformed("base10", "invalid char %q at position %d", s[i], i)
		}
	}
	n, ok := new(big.Int).SetString(s[zeros:], 10)
	if !ok {
		return nil, malformed("base10", "invalid number")
	}
	return append(out, n.Bytes()...), nil
}
