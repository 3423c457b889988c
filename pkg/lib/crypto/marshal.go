package crypto

import (
	"fmt"

	"github.com/dep2p/go-multiformats/pkg/lib/cid"
)

// MarshalPublicKey 编码为 libp2p PublicKey 消息，即 libp2p-key CID 的内容
func MarshalPublicKey(k PublicKey) ([]byte, error) {
	if k == nil {
		return nil, ErrNilPublicKey
	}
	return marshalKey(k)
}

// MarshalPrivateKey 编码为 libp2p PrivateKey 消息，字段布局与 PublicKey 相同
func MarshalPrivateKey(k PrivateKey) ([]byte, error) {
	if k == nil {
		return nil, ErrNilPrivateKey
	}
	return marshalKey(k)
}

func marshalKey(k Key) ([]byte, error) {
	raw, err := k.Raw()
	if err != nil {
		return nil, err
	}
	return cid.MarshalPublicKey(k.Type(), raw), nil
}

// UnmarshalPublicKey 解析 MarshalPublicKey 的输出
func UnmarshalPublicKey(b []byte) (PublicKey, error) {
	kt, raw, err := cid.UnmarshalPublicKey(b)
	if err != nil {
		return nil, err
	}
	return PublicKeyFromRaw(kt, raw)
}

// UnmarshalPrivateKey 解析 MarshalPrivateKey 的输出
func UnmarshalPrivateKey(b []byte) (PrivateKey, error) {
	kt, raw, err := cid.UnmarshalPublicKey(b)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPrivateKey, err)
	}
	return PrivateKeyFromRaw(kt, raw)
}
