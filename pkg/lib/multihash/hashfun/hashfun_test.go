package hashfun

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/blake2s"
	"golang.org/x/crypto/sha3"

	"github.com/dep2p/go-multiformats/pkg/lib/mferr"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

// TestVectors 使用 "Hello world!" 的已知摘要
func TestVectors(t *testing.T) {
	data := []byte("Hello world!")
	tests := []struct {
		name string
		want string
	}{
		{"sha1", "d3486ae9136e7856bc42212385ea797094475802"},
		{"sha2-224", "7e81ebe9e604a0c97fef0e4cfe71f9ba0ecba13332bde953ad1c66e4"},
		{"sha2-256", "c0535e4be2b79ffd93291305436bf889314e4a3faec05ecffcbb7df31ad9e51a"},
		{"sha2-384", "86255fa2c36e4b30969eae17dc34c772cbebdfc58b58403900be87614eb1a34b8780263f255eb5e65ca9bbb8641cccfe"},
		{"sha2-512", "f6cde2a0f819314cdde55fc227d8d7dae3d28cc556222a0a8ad66d91ccad4aad6094f517a2182360c9aacf6a3dc323162cb6fd8cdffedb0fe038f55e85ffb5b6"},
		{"sha2-512-224", "b48c4994a3d2b6b48ae7fa6fcc09f33dc0c985109c0b7493fd3c74d0"},
		{"sha2-512-256", "f8162ad49196c1c12bddbcff1d362ddacf03ae246b6a7864b75c244b965fe475"},
		{"sha3-224", "d3ee9b1ba1990fecfd794d2f30e0207aaa7be5d37d463073096d86f8"},
		{"sha3-256", "d6ea8f9a1f22e1298e5a9506bd066f23cc56001f5d36582344a628649df53ae8"},
		{"sha3-384", "f9210511d0b2862bdcb672daa3f6a4284576ccb24d5b293b366b39c24c41a6918464035ec4466b12e22056bf559c7a49"},
		{"sha3-512", "95decc72f0a50ae4d9d5378e1b2252587cfc71977e43292c8f1b84648248509f1bc18bc6f0b0d0b8606a643eff61d611ae84e6fbd4a2683165706bd6fd48b334"},
		{"shake-128", "ee8ee3ada079996b80d926eef439a5022faf7a8b9cf69154e6ee46020ea2eafd"},
		{"shake-256", "e80627c7a1dd02229936bb2822572025e17b91ef3a94f7ade9d810aee8d6a873f3d6795a6f7b042a3b65ba0faa872f32e513eb8f460dc60768ee86a05d22e7ac"},
		{"blake2b-8", "97"},
		{"blake2b-256", "3fbc092db9350757e2ab4f7ee9792bfcd2f5220ada5a4bc684487f60c6034369"},
		{"blake2s-8", "81"},
		{"blake2s-128", "8a726060ddf0e3cf3eb7b02c1958cd46"},
		{"blake2s-224", "83b761a1f9616863339f9560a60dc2cda301a7b33c34a83d6e910ab8"},
		{"blake2s-256", "c63813a8f804abece06213a46acd04a2d738c8e7a58fbf94bfe066a9c7f89197"},
		{"keccak-224", "2528dc7b1a2c2c45d31ba2e5b21d46f78558160ef046a04df20e2233"},
		{"keccak-384", "a3c2ef2ee304217b15b09c370219ae5dc0a22a90faf199efb739ebd476be8ef93b3bab2f056b691afb4fbffb08e931e5"},
		{"md5", "86fb269d190d2c85f6e0468ceca42a20"},
		{"ripemd-160", "7f772647d88750add82d8e1a7a3e5c0902a346a3"},
		{"dbl-sha2-256", "7982970534e089b839957b7e174725ce1878731ed6d700766e59cb16f1c25e27"},
		{"identity", "48656c6c6f20776f726c6421"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			impl, err := Get(tt.name)
			require.NoError(t, err)
			got, err := impl.Func(data, DefaultSize)
			require.NoError(t, err)
			assert.Equal(t, tt.want, hex.EncodeToString(got))
			if impl.Bounded() {
				assert.Len(t, got, impl.MaxSize)
			}
		})
	}
}

func TestEmptyInputVectors(t *testing.T) {
	tests := []struct {
		name string
		size int
		want string
	}{
		{"keccak-224", DefaultSize, "f71837502ba8e10837bdd8d365adb85591895602fc552b48b7390abd"},
		{"keccak-256", DefaultSize, "c5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470"},
		{"keccak-384", DefaultSize, "2c23146a63a29acf99e73b88f8c24eaa7dc60aa771780ccc006afbfa8fe2479b2dd2b21362337441ac12b515911957ff"},
		{"blake2s-256", DefaultSize, "69217a3079908094e11121d042354a7c1f55b6482ca1a51e1b250dfd1ed0eef9"},
		{"blake3", 32, "af1349b9f5f9a1a6a0404dea36dcc9499bcb25c9adc112b7cc9a93cae41f3262"},
		{"kangarootwelve", 32, "1ac2d450fc3b4205d19da7bfca1b37513c0803577ac7167f06fe2ce1f0ef39e5"},
		{"murmur3-32", DefaultSize, "00000000"},
		{"sha2-256-trunc254-padded", DefaultSize, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b815"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			impl, err := Get(tt.name)
			require.NoError(t, err)
			got, err := impl.Func(nil, tt.size)
			require.NoError(t, err)
			assert.Equal(t, tt.want, hex.EncodeToString(got))
		})
	}
}

// TestMultiBlock 覆盖跨越多个分组的输入
func TestMultiBlock(t *testing.T) {
	tests := []struct {
		name string
		n    int
		want string
	}{
		{"keccak-224", 300, "32a77aa3856efbf6f5a2399881337db56b6323aa3d1b8bc393ea1449"},
		{"keccak-384", 300, "9f735179dc4e9e0be40ef9c549dfb7949d7022f358f7d8df2eb51c46941538cafa5d962f120795657034394ae7ba93ec"},
		{"blake2s-160", 64, "a6edeaed9fdc0057c86c0588fecf65e40ccbd249"},
		{"blake2s-160", 65, "b616c59709d5f44e8536dc95711faed9eab1dbd2"},
		{"blake2s-160", 128, "09c6b08fe61c5971278679b70121e09e1f7925f0"},
		{"blake2s-160", 200, "4e4ce5263790d6ffce9a903495230632dc7aba4b"},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s/%d", tt.name, tt.n), func(t *testing.T) {
			impl, err := Get(tt.name)
			require.NoError(t, err)
			got, err := impl.Func(bytes.Repeat([]byte("x"), tt.n), DefaultSize)
			require.NoError(t, err)
			assert.Equal(t, tt.want, hex.EncodeToString(got))
		})
	}
}

// TestBlake2sNotTruncated blake2s-n 不是 blake2s-256 的前缀
func TestBlake2sNotTruncated(t *testing.T) {
	data := []byte("Hello world!")
	full := blake2s.Sum256(data)
	for bits := 8; bits < 256; bits += 8 {
		got := blake2sSum(bits/8, data)
		require.Len(t, got, bits/8)
		assert.NotEqual(t, full[:bits/8], got, bits)
	}
	assert.Equal(t, full[:], blake2sSum(blake2s.Size, data))
}

// TestKeccakMatchesLegacy 通用 sponge 与 x/crypto 的 Keccak-256/512 一致
func TestKeccakMatchesLegacy(t *testing.T) {
	for _, n := range []int{0, 1, 135, 136, 137, 500} {
		data := bytes.Repeat([]byte{0xa5}, n)
		h := sha3.NewLegacyKeccak256()
		h.Write(data)
		assert.Equal(t, h.Sum(nil), keccakSum(32, data), n)
		h = sha3.NewLegacyKeccak512()
		h.Write(data)
		assert.Equal(t, h.Sum(nil), keccakSum(64, data), n)
	}
}

func TestTruncation(t *testing.T) {
	impl, err := Get("sha2-256")
	require.NoError(t, err)
	d, err := impl.Func([]byte("Hello world!"), 20)
	require.NoError(t, err)
	assert.Equal(t, mustHex(t, "c0535e4be2b79ffd93291305436bf889314e4a3f"), d)

	_, err = impl.Func(nil, 33)
	assert.ErrorIs(t, err, ErrInvalidSize)
	_, err = impl.Func(nil, -2)
	assert.ErrorIs(t, err, ErrInvalidSize)

	d, err = impl.Func(nil, 0)
	require.NoError(t, err)
	assert.Empty(t, d)
}

func TestExtendable(t *testing.T) {
	for _, name := range []string{"blake3", "kangarootwelve"} {
		t.Run(name, func(t *testing.T) {
			impl, err := Get(name)
			require.NoError(t, err)
			assert.False(t, impl.Bounded())

			_, err = impl.Func([]byte("x"), DefaultSize)
			assert.ErrorIs(t, err, ErrSizeRequired)
			assert.True(t, mferr.IsInvalid(err))

			long, err := impl.Func([]byte("x"), 100)
			require.NoError(t, err)
			assert.Len(t, long, 100)
			short, err := impl.Func([]byte("x"), 16)
			require.NoError(t, err)
			assert.Equal(t, long[:16], short)
		})
	}
}

func TestIdentity(t *testing.T) {
	impl, err := Get("identity")
	require.NoError(t, err)
	d, err := impl.Func([]byte("abc"), 2)
	require.NoError(t, err)
	assert.Equal(t, []byte("ab"), d)
	_, err = impl.Func([]byte("abc"), 4)
	assert.ErrorIs(t, err, ErrInvalidSize)
}

func TestMurmur3(t *testing.T) {
	data := []byte("hello")
	i32, err := Get("murmur3-32")
	require.NoError(t, err)
	d, err := i32.Func(data, DefaultSize)
	require.NoError(t, err)
	assert.Equal(t, "248bfa47", hex.EncodeToString(d))

	i64, err := Get("murmur3-x64-64")
	require.NoError(t, err)
	i128, err := Get("murmur3-x64-128")
	require.NoError(t, err)
	d64, err := i64.Func(data, DefaultSize)
	require.NoError(t, err)
	d128, err := i128.Func(data, DefaultSize)
	require.NoError(t, err)
	assert.Len(t, d128, 16)
	assert.Equal(t, d128[:8], d64)
}

func TestRepeat(t *testing.T) {
	sha, err := Get("sha2-256")
	require.NoError(t, err)

	_, err = Repeat(sha.Func, 0, TruncateEnd)
	assert.ErrorIs(t, err, ErrInvalidRepeat)

	end, err := Repeat(sha.Func, 2, TruncateEnd)
	require.NoError(t, err)
	always, err := Repeat(sha.Func, 2, TruncateAlways)
	require.NoError(t, err)

	full, err := sha.Func([]byte("x"), DefaultSize)
	require.NoError(t, err)

	// TruncateEnd: sha(sha(x))[:4]
	want, err := sha.Func(full, 4)
	require.NoError(t, err)
	got, err := end([]byte("x"), 4)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	// TruncateAlways: sha(sha(x)[:4])[:4]
	want, err = sha.Func(full[:4], 4)
	require.NoError(t, err)
	got, err = always([]byte("x"), 4)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestFactoryBounds(t *testing.T) {
	for _, name := range []string{"blake2b-520", "blake2b-12", "blake2s-264", "blake2s-12", "keccak-128", "skein256-256", "sha2-1024"} {
		assert.False(t, Exists(name), name)
		_, err := Get(name)
		assert.True(t, mferr.IsNotFound(err), name)
	}
	for _, name := range []string{"blake2b-8", "blake2b-512", "blake2s-8", "blake2s-128", "blake2s-256", "keccak-224", "keccak-384", "keccak-512"} {
		assert.True(t, Exists(name), name)
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	fn := func(data []byte, size int) ([]byte, error) { return []byte{byte(len(data))}, nil }

	assert.ErrorIs(t, r.Register("sha1", fn, 1, false), ErrConflict)
	require.NoError(t, r.Register("sha1", fn, 1, true))
	impl, err := r.Get("sha1")
	require.NoError(t, err)
	d, err := impl.Func([]byte("abc"), DefaultSize)
	require.NoError(t, err)
	assert.Equal(t, []byte{3}, d)

	assert.ErrorIs(t, r.Register("custom", fn, -1, false), ErrInvalidSize)
	assert.ErrorIs(t, r.Register("custom", nil, 0, false), ErrNilFunc)
	require.NoError(t, r.Register("custom", fn, 0, false))
	assert.True(t, r.Exists("custom"))

	require.NoError(t, r.Unregister("md5"))
	assert.False(t, r.Exists("md5"))
	_, err = r.Get("md5")
	assert.ErrorIs(t, err, ErrUnknownImpl)
	assert.ErrorIs(t, r.Unregister("md5"), ErrUnknownImpl)
	require.NoError(t, r.Register("md5", fn, 16, false))

	assert.True(t, Exists("md5"))
}
