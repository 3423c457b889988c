// Package crypto 提供 libp2p 密钥及由其派生的 PeerID
//
// 各类型 Raw 字节：
//
//   - Ed25519：32 字节公钥，64 字节私钥（种子加公钥）
//   - Secp256k1：33 字节压缩公钥，32 字节标量
//   - ECDSA：PKIX 公钥，SEC 1 私钥
//   - RSA：PKIX 公钥，PKCS#1 私钥，2048 到 8192 位
//
// 密钥序列化为 libp2p PublicKey/PrivateKey 消息。PeerID 是该消息的
// CIDv1 libp2p-key，由 IDs 在给定 CID 工厂的注册表上计算：
//
//	priv, err := crypto.GenerateKey(crypto.KeyTypeEd25519, nil)
//	ids := crypto.NewIDs(cid.DefaultFactory())
//	id, err := ids.FromPublicKey(priv.Public())
//	err = ids.Verify(priv.Public(), id)
package crypto
