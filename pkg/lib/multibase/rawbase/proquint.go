package rawbase

import "strings"

const (
	proquintConsonants = "bdfghjklmnprstvz"
	proquintVowels     = "aiou"
	proquintPrefix     = "ro-"
)

func buildProquint(name string) (Encoding, bool) {
	if name != "proquint" {
		return Encoding{}, false
	}
	return Encoding{Name: name, Encode: EncodeProquint, Decode: DecodeProquint}, true
}

// EncodeProquint 编码为 "ro-" 开头的 proquint 字符串
//
// 每两个字节编码为 cvcvc 五个字符，块之间用 '-' 分隔。
// 奇数长度时最后一个字节加两个零填充位编码为 cvc。
func EncodeProquint(b []byte) string {
	var sb strings.Builder
	sb.WriteString(proquintPrefix)
	for i := 0; i < len(b); i += 2 {
		if i > 0 {
			sb.WriteByte('-')
		}
		if i+1 < len(b) {
			x := uint(b[i])<<8 | uint(b[i+1])
			sb.WriteByte(proquintConsonants[x>>12&0xf])
			sb.WriteByte(proquintVowels[x>>10&0x3])
			sb.WriteByte(proquintConsonants[x>>6&0xf])
			sb.WriteByte(proquintVowels[x>>4&0x3])
			sb.WriteByte(proquintConsonants[x&0xf])
			continue
		}
		x := uint(b[i]) << 2
		sb.WriteByte(proquintConsonants[x>>6&0xf])
		sb.WriteByte(proquintVowels[x>>4&0x3])
		sb.WriteByte(proquintConsonants[x&0xf])
	}
	return sb.String()
}

// DecodeProquint 解码 EncodeProquint 的输出
func DecodeProquint(s string) ([]byte, error) {
	if !strings.HasPrefix(s, proquintPrefix) {
		return nil, malformed("proquint", "must start with %q", proquintPrefix)
	}
	s = s[len(proquintPrefix):]
	if s == "" {
		return []byte{}, nil
	}
	if r := len(s) % 6; r != 3 && r != 5 {
		return nil, malformed("proquint", "length %d must be 3 or 5 modulo 6", len(s))
	}

	out := make([]byte, 0, (len(s)+1)/3)
	var acc, nacc uint
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case i%6 == 5:
			if c != '-' {
				return nil, malformed("proquint", "expected '-' at position %d, found %q", i, c)
			}
			continue
		case i%2 == 0:
			d := strings.IndexByte(proquintConsonants, c)
			if d < 0 {
				return nil, malformed("proquint", "expected consonant at position %d, found %q", i, c)
			}
			acc, nacc = acc<<4|uint(d), nacc+4
		default:
			d := strings.IndexByte(proquintVowels, c)
			if d < 0 {
				return nil, malformed("proquint", "expected vowel at position %d, found %q", i, c)
			}
			acc, nacc = acc<<2|uint(d), nacc+2
		}
		for nacc >= 8 {
			nacc -= 8
			out = append(out, byte(acc>>nacc))
			acc &= 1<<nacc - 1
		}
	}
	// 结尾的 cvc 块剩下两个填充位
	if acc != 0 {
		return nil, malformed("proquint", "expected pad bits 00, found %02b", acc)
	}
	return out, nil
}
