package rawbase

import (
	"encoding/base64"
	"encoding/hex"
	"strings"

	b58 "github.com/mr-tron/base58"
	b32 "github.com/multiformats/go-base32"
	b36 "github.com/multiformats/go-base36"
)

const (
	alphabet32    = "abcdefghijklmnopqrstuvwxyz234567"
	alphabet32Hex = "0123456789abcdefghijklmnopqrstuv"
	alphabet32Z   = "ybndrfg8ejkmcpqxot1uwisza345h769"
)

func buildIdentity(name string) (Encoding, bool) {
	if name != "identity" {
		return Encoding{}, false
	}
	return Encoding{
		Name:   name,
		Encode: func(b []byte) string { return string(b) },
		Decode: func(s string) ([]byte, error) { return []byte(s), nil },
	}, true
}

func buildBase16(name string) (Encoding, bool) {
	var upper bool
	switch name {
	case "base16":
	case "base16upper":
		upper = true
	default:
		return Encoding{}, false
	}
	return Encoding{
		Name: name,
		Encode: func(b []byte) string {
			s := hex.EncodeToString(b)
			if upper {
				s = strings.ToUpper(s)
			}
			return s
		},
		Decode: func(s string) ([]byte, error) {
			b, err := hex.DecodeString(s)
			if err != nil {
				return nil, malformed(name, "%v", err)
			}
			return b, nil
		},
	}, true
}

// buildBase32 处理 base32[hex][pad][upper] 与 base32z
func buildBase32(name string) (Encoding, bool) {
	rest := strings.TrimPrefix(name, "base32")
	alphabet := alphabet32
	pad := false
	switch {
	case rest == "z":
		alphabet, rest = alphabet32Z, ""
	case strings.HasPrefix(rest, "hex"):
		alphabet, rest = alphabet32Hex, strings.TrimPrefix(rest, "hex")
	}
	if strings.HasPrefix(rest, "pad") {
		pad, rest = true, strings.TrimPrefix(rest, "pad")
	}
	if rest == "upper" {
		if alphabet == alphabet32Z {
			return Encoding{}, false
		}
		alphabet, rest = strings.ToUpper(alphabet), ""
	}
	if rest != "" {
		return Encoding{}, false
	}

	enc := b32.NewEncoding(alphabet)
	if !pad {
		enc = enc.WithPadding(b32.NoPadding)
	}
	return Encoding{
		Name:   name,
		Encode: enc.EncodeToString,
		Decode: func(s string) ([]byte, error) {
			b, err := enc.DecodeString(s)
			if err != nil {
				return nil, malformed(name, "%v", err)
			}
			return b, nil
		},
	}, true
}

func buildBase36(name string) (Encoding, bool) {
	var (
		encode func([]byte) string
		upper  bool
	)
	switch name {
	case "base36":
		encode = b36.EncodeToStringLc
	case "base36upper":
		encode, upper = b36.EncodeToStringUc, true
	default:
		return Encoding{}, false
	}
	return Encoding{
		Name:   name,
		Encode: encode,
		Decode: func(s string) ([]byte, error) {
			if s == "" {
				return []byte{}, nil
			}
			// go-base36 不区分大小写，这里按编码名称限定大小写
			if (upper && s != strings.ToUpper(s)) || (!upper && s != strings.ToLower(s)) {
				return nil, malformed(name, "wrong letter case")
			}
			b, err := b36.DecodeString(s)
			if err != nil {
				return nil, malformed(name, "%v", err)
			}
			return b, nil
		},
	}, true
}

func buildBase58(name string) (Encoding, bool) {
	var alphabet *b58.Alphabet
	switch name {
	case "base58btc":
		alphabet = b58.BTCAlphabet
	case "base58flickr":
		alphabet = b58.FlickrAlphabet
	default:
		return Encoding{}, false
	}
	return Encoding{
		Name:   name,
		Encode: func(b []byte) string { return b58.EncodeAlphabet(b, alphabet) },
		Decode: func(s string) ([]byte, error) {
			if s == "" {
				return []byte{}, nil
			}
			b, err := b58.DecodeAlphabet(s, alphabet)
			if err != nil {
				return nil, malformed(name, "%v", err)
			}
			return b, nil
		},
	}, true
}

func buildBase64(name string) (Encoding, bool) {
	var enc *base64.Encoding
	switch name {
	case "base64":
		enc = base64.RawStdEncoding
	case "base64pad":
		enc = base64.StdEncoding
	case "base64url":
		enc = base64.RawURLEncoding
	case "base64urlpad":
		enc = base64.URLEncoding
	default:
		return Encoding{}, false
	}
	enc = enc.Strict()
	return Encoding{
		Name:   name,
		Encode: enc.EncodeToString,
		Decode: func(s string) ([]byte, error) {
			b, err := enc.DecodeString(s)
			if err != nil {
				return nil, malformed(name, "%v", err)
			}
			return b, nil
		},
	}, true
}
