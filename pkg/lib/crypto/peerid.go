package crypto

import (
	"bytes"
	"fmt"

	"github.com/dep2p/go-multiformats/pkg/lib/cid"
	"github.com/dep2p/go-multiformats/pkg/lib/multicodec"
)

// peerCodec PeerID CID 的内容编解码器
const peerCodec = "libp2p-key"

// IDs 在一个 CID 工厂的注册表上计算和校验 PeerID
//
// 编解码器 libp2p-key 从工厂的 multicodec 注册表解析，摘要函数
// 从其 multihash 注册表解析。
type IDs struct {
	f *cid.Factory
}

// NewIDs 绑定到 f
func NewIDs(f *cid.Factory) IDs { return IDs{f: f} }

// DefaultIDs 绑定到 cid.DefaultFactory()
func DefaultIDs() IDs { return NewIDs(cid.DefaultFactory()) }

// FromPublicKey 编码后不超过 42 字节的公钥以 identity 内联，否则取 sha2-256
func (d IDs) FromPublicKey(pub PublicKey) (cid.CID, error) {
	b, err := MarshalPublicKey(pub)
	if err != nil {
		return cid.CID{}, err
	}
	return d.f.PeerID(b)
}

// PublicKey 取出内联在 id 中的公钥，摘要形式的 id 返回 cid.ErrKeyNotInlined
func (d IDs) PublicKey(id cid.CID) (PublicKey, error) {
	if err := d.checkCodec(id); err != nil {
		return nil, err
	}
	kt, raw, err := id.PublicKey()
	if err != nil {
		return nil, err
	}
	return PublicKeyFromRaw(kt, raw)
}

// Verify 用 id 自身的哈希函数和摘要长度重新计算，结果必须与 id 一致
func (d IDs) Verify(pub PublicKey, id cid.CID) error {
	if err := d.checkCodec(id); err != nil {
		return err
	}
	b, err := MarshalPublicKey(pub)
	if err != nil {
		return err
	}
	h, err := d.f.Hashes().Resolve(multicodec.Code(id.Hashfun().Code))
	if err != nil {
		return err
	}
	digest, err := h.Digest(b, len(id.RawDigest()))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPeerIDMismatch, err)
	}
	if !bytes.Equal(digest, id.Digest()) {
		return fmt.Errorf("%w: %s", ErrPeerIDMismatch, id)
	}
	return nil
}

func (d IDs) checkCodec(id cid.CID) error {
	want, err := d.f.Codecs().Get(peerCodec)
	if err != nil {
		return err
	}
	if !id.Defined() {
		return cid.ErrUndefined
	}
	if id.Codec().Code != want.Code {
		return fmt.Errorf("%w: codec is %s", cid.ErrNotPeerID, id.Codec().Name)
	}
	return nil
}

// PeerIDFromPublicKey 使用默认注册表计算 PeerID
func PeerIDFromPublicKey(pub PublicKey) (cid.CID, error) {
	return DefaultIDs().FromPublicKey(pub)
}
