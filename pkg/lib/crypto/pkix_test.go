package crypto

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRSAKeySize(t *testing.T) {
	_, err := GenerateRSAKey(1024, nil)
	assert.ErrorIs(t, err, ErrRSAKeyTooSmall)

	_, err = GenerateRSAKey(RSAMaxKeySize+1, nil)
	assert.ErrorIs(t, err, ErrRSAKeyTooBig)

	small, err := rsa.GenerateKey(rand.Reader, 1024)
	require.NoError(t, err)
	der, err := x509.MarshalPKIXPublicKey(&small.PublicKey)
	require.NoError(t, err)
	_, err = PublicKeyFromRaw(KeyTypeRSA, der)
	assert.ErrorIs(t, err, ErrRSAKeyTooSmall)

	_, err = PrivateKeyFromRaw(KeyTypeRSA, x509.MarshalPKCS1PrivateKey(small))
	assert.ErrorIs(t, err, ErrRSAKeyTooSmall)
}

// TestPKIXTypeMismatch PKIX 中的算法必须与声明的类型一致
func TestPKIXTypeMismatch(t *testing.T) {
	ec, err := GenerateKey(KeyTypeECDSA, nil)
	require.NoError(t, err)
	ecDER, err := ec.Public().Raw()
	require.NoError(t, err)

	_, err = PublicKeyFromRaw(KeyTypeRSA, ecDER)
	assert.ErrorIs(t, err, ErrInvalidPublicKey)

	tests := []struct {
		name string
		fn   func() error
		err  error
	}{
		{"ecdsa public", func() error { _, err := PublicKeyFromRaw(KeyTypeECDSA, []byte("garbage")); return err }, ErrInvalidPublicKey},
		{"ecdsa private", func() error { _, err := PrivateKeyFromRaw(KeyTypeECDSA, []byte("garbage")); return err }, ErrInvalidPrivateKey},
		{"rsa private", func() error { _, err := PrivateKeyFromRaw(KeyTypeRSA, []byte("garbage")); return err }, ErrInvalidPrivateKey},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.fn(), tt.err)
		})
	}
}

// TestECDSAOtherCurve 生成只用 P-256，解析接受其他曲线
func TestECDSAOtherCurve(t *testing.T) {
	k, err := ecdsa.GenerateKey(elliptic.P384(), rand.Reader)
	require.NoError(t, err)
	der, err := x509.MarshalECPrivateKey(k)
	require.NoError(t, err)

	priv, err := PrivateKeyFromRaw(KeyTypeECDSA, der)
	require.NoError(t, err)
	sig, err := priv.Sign([]byte("data"))
	require.NoError(t, err)

	raw, err := priv.Public().Raw()
	require.NoError(t, err)
	pub, err := PublicKeyFromRaw(KeyTypeECDSA, raw)
	require.NoError(t, err)
	ok, err := pub.Verify([]byte("data"), sig)
	require.NoError(t, err)
	assert.True(t, ok)
}

// TestRSASignatureFormat 签名可由标准库 PKCS#1 v1.5 校验
func TestRSASignatureFormat(t *testing.T) {
	priv, err := GenerateKey(KeyTypeRSA, nil)
	require.NoError(t, err)
	sig, err := priv.Sign([]byte("data"))
	require.NoError(t, err)
	assert.Len(t, sig, RSAMinKeySize/8)

	raw, err := priv.Public().Raw()
	require.NoError(t, err)
	k, err := x509.ParsePKIXPublicKey(raw)
	require.NoError(t, err)
	require.IsType(t, &rsa.PublicKey{}, k)
}
