package multibase

import (
	"encoding/json"
	"math/rand"
	"strings"
	"testing"

	gomb "github.com/multiformats/go-multibase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-multiformats/pkg/lib/mferr"
)

func TestStaticTable(t *testing.T) {
	tests := []struct {
		name string
		code byte
	}{
		{"identity", 0x00},
		{"base2", '0'},
		{"base16", 'f'},
		{"base32", 'b'},
		{"base32z", 'h'},
		{"base36upper", 'K'},
		{"base58btc", 'z'},
		{"base64urlpad", 'U'},
		{"proquint", 'p'},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Get(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.code, m.Code)
			byCode, err := GetCode(tt.code)
			require.NoError(t, err)
			assert.Equal(t, m, byCode)
		})
	}

	m, err := Get("identity")
	require.NoError(t, err)
	assert.Equal(t, "0x00", m.CodePrintable())
}

func TestParseCode(t *testing.T) {
	tests := []struct {
		in      string
		want    byte
		wantErr bool
	}{
		{"z", 'z', false},
		{"0x00", 0x00, false},
		{"0x7A", 'z', false},
		{"0x80", 0, true},
		{"zz", 0, true},
		{"", 0, true},
		{"é", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCode(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidCode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKnownEncodings(t *testing.T) {
	data := []byte("Hello world!")
	tests := []struct {
		base string
		want string
	}{
		{"base64", "mSGVsbG8gd29ybGQh"},
		{"base32", "bjbswy3dpeb3w64tmmqqq"},
		{"base16", "f48656c6c6f20776f726c6421"},
		{"identity", "\x00Hello world!"},
	}
	for _, tt := range tests {
		t.Run(tt.base, func(t *testing.T) {
			s, err := Encode(data, Name(tt.base))
			require.NoError(t, err)
			assert.Equal(t, tt.want, s)
			got, err := Decode(s)
			require.NoError(t, err)
			assert.Equal(t, data, got)
		})
	}
}

// TestAgainstGoMultibase 与 go-multibase 的编码结果比对
func TestAgainstGoMultibase(t *testing.T) {
	tests := []struct {
		name string
		ref  gomb.Encoding
	}{
		{"base2", gomb.Base2},
		{"base16", gomb.Base16},
		{"base16upper", gomb.Base16Upper},
		{"base32", gomb.Base32},
		{"base32upper", gomb.Base32Upper},
		{"base32pad", gomb.Base32pad},
		{"base32hex", gomb.Base32hex},
		{"base36", gomb.Base36},
		{"base58btc", gomb.Base58BTC},
		{"base58flickr", gomb.Base58Flickr},
		{"base64", gomb.Base64},
		{"base64pad", gomb.Base64pad},
		{"base64url", gomb.Base64url},
		{"base64urlpad", gomb.Base64urlPad},
	}
	rng := rand.New(rand.NewSource(3))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for n := 1; n < 40; n += 7 {
				data := make([]byte, n)
				rng.Read(data)
				want, err := gomb.Encode(tt.ref, data)
				require.NoError(t, err)
				got, err := Encode(data, Name(tt.name))
				require.NoError(t, err)
				assert.Equal(t, want, got)
			}
		})
	}
}

// TestRoundTrip 测试所有编码的往返
func TestRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for _, m := range Table() {
		t.Run(m.Name, func(t *testing.T) {
			for n := 0; n < 20; n++ {
				data := make([]byte, n)
				rng.Read(data)
				if m.Name == "identity" {
					data = []byte(strings.Repeat("x", n))
				}
				s, err := m.Encode(data)
				require.NoError(t, err)
				got, err := Decode(s)
				require.NoError(t, err)
				assert.Equal(t, data, got)

				got, err = m.Decode(s)
				require.NoError(t, err)
				assert.Equal(t, data, got)
			}
		})
	}
}

func TestInstanceDecodeMismatch(t *testing.T) {
	b32, err := Get("base32")
	require.NoError(t, err)

	_, err = b32.Decode("mSGVsbG8gd29ybGQh")
	assert.ErrorIs(t, err, ErrMismatch)
	assert.Contains(t, err.Error(), "expected 'base32' encoding, found 'base64' encoding instead")

	_, err = b32.Decode("!abc")
	assert.Contains(t, err.Error(), "found '!' encoding instead")

	_, err = b32.Decode("")
	assert.ErrorIs(t, err, ErrEmpty)
}

// TestRegistryDecodeAs 前缀不符时按所属注册表命名
func TestRegistryDecodeAs(t *testing.T) {
	b32, err := Get("base32")
	require.NoError(t, err)
	b16, err := Get("base16")
	require.NoError(t, err)
	r, err := NewRegistry([]Multibase{b32, b16})
	require.NoError(t, err)

	got, err := r.DecodeAs(Name("base16"), "f68656c6c6f")
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), got)

	_, err = r.DecodeAs(Name("base32"), "f68656c6c6f")
	assert.ErrorIs(t, err, ErrMismatch)
	assert.Contains(t, err.Error(), "found 'base16' encoding instead")

	// 'm' 在默认表中是 base64，但不在 r 中
	_, err = r.DecodeAs(Name("base32"), "mSGVsbG8gd29ybGQh")
	assert.ErrorIs(t, err, ErrMismatch)
	assert.Contains(t, err.Error(), "found 'm' encoding instead")

	_, err = r.DecodeAs(Name("base64"), "mSGVsbG8gd29ybGQh")
	assert.Error(t, err)
}

func TestEncodingOf(t *testing.T) {
	m, err := EncodingOf("mSGVsbG8gd29ybGQh")
	require.NoError(t, err)
	assert.Equal(t, "base64", m.Name)

	_, err = EncodingOf("")
	assert.True(t, mferr.IsInvalid(err))

	_, err = EncodingOf("!abc")
	assert.True(t, mferr.IsNotFound(err))

	m, b, err := DecodeRaw("f00ff")
	require.NoError(t, err)
	assert.Equal(t, "base16", m.Name)
	assert.Equal(t, []byte{0x00, 0xff}, b)

	_, err = Decode("zOOO")
	assert.True(t, mferr.IsInvalid(err))
}

func TestResolve(t *testing.T) {
	_, err := Resolve(nil)
	assert.ErrorIs(t, err, ErrNoRef)

	m, err := Resolve(Code('z'))
	require.NoError(t, err)
	assert.Equal(t, "base58btc", m.Name)

	m.Code = 'Z'
	_, err = Resolve(m)
	assert.ErrorIs(t, err, ErrConflict)

	_, err = Resolve(Name("base45"))
	assert.True(t, mferr.IsNotFound(err))
}

func TestRegister(t *testing.T) {
	entries, err := StaticTable()
	require.NoError(t, err)
	r, err := NewRegistry(entries)
	require.NoError(t, err)

	// base16 的原始编码借给自定义前缀
	custom := Multibase{Name: "base16", Code: '!', Status: StatusDraft}
	assert.ErrorIs(t, r.Register(custom, false), ErrConflict)
	assert.ErrorIs(t, r.Register(custom, true), ErrConflict)

	upper := Multibase{Name: "base16upper", Code: 'F', Status: StatusDraft, Description: "changed"}
	assert.ErrorIs(t, r.Register(upper, false), ErrConflict)
	require.NoError(t, r.Register(upper, true))
	got, err := r.Get("base16upper")
	require.NoError(t, err)
	assert.Equal(t, "changed", got.Description)

	require.NoError(t, r.Unregister("base16upper"))
	assert.False(t, r.ExistsCode('F'))
	assert.True(t, mferr.IsNotFound(r.Unregister("base16upper")))
	require.NoError(t, r.UnregisterCode('f'))
	assert.False(t, r.Exists("base16"))
	assert.True(t, mferr.IsNotFound(r.UnregisterCode('f')))

	assert.True(t, Exists("base16"))
}

func TestBuildTables(t *testing.T) {
	a := Multibase{Name: "aa", Code: 'a', Status: StatusDraft}
	b := Multibase{Name: "bb", Code: 'a', Status: StatusDraft}
	c := Multibase{Name: "aa", Code: 'c', Status: StatusDraft}
	_, _, err := BuildTables([]Multibase{a, b, c})
	require.Error(t, err)
	assert.Equal(t, 2, strings.Count(err.Error(), "conflicting entry"))
}

func TestLoadCSV(t *testing.T) {
	in := "encoding, code, status, description\nbase16, f, default, hexadecimal\nspace, ' ', draft,\n"
	_, err := LoadCSV(strings.NewReader(in))
	assert.Error(t, err)

	in = "encoding,code,status,description\nbase16,f,default,hexadecimal\nnull,0x01,draft,\n"
	entries, err := LoadCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, byte(0x01), entries[1].Code)
	assert.Equal(t, "0x01", entries[1].CodePrintable())
}

func TestJSON(t *testing.T) {
	m, err := Get("base32")
	require.NoError(t, err)
	b, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"base32","code":"b","status":"default","description":"rfc4648 case-insensitive - no padding"}`, string(b))

	var back Multibase
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, m, back)
}
