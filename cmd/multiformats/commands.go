package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"
	"strings"
	"text/tabwriter"

	"golang.org/x/sync/errgroup"

	"github.com/dep2p/go-multiformats"
	"github.com/dep2p/go-multiformats/config"
	"github.com/dep2p/go-multiformats/pkg/lib/crypto"
	"github.com/dep2p/go-multiformats/pkg/lib/multiaddr"
	"github.com/dep2p/go-multiformats/pkg/lib/multibase"
	"github.com/dep2p/go-multiformats/pkg/lib/multicodec"
	"github.com/dep2p/go-multiformats/pkg/lib/multihash"
	"github.com/dep2p/go-multiformats/pkg/lib/varint"
)

// errUsage 参数个数或子命令不正确
var errUsage = errors.New("用法错误，运行 multiformats -help 查看帮助")

// command 子命令处理函数
type command func(ctx context.Context, mf *multiformats.Context, args []string, out io.Writer) error

var commands = map[string]map[string]command{
	"varint": {"encode": varintEncode, "decode": varintDecode},
	"codec":  {"get": codecGet, "table": codecTable},
	"base":   {"encode": baseEncode, "decode": baseDecode, "table": baseTable},
	"cid":    {"decode": cidDecode, "encode": cidEncode, "sum": cidSum, "peer": cidPeer},
	"maddr":  {"parse": maddrParse, "decode": maddrDecode},
	"key":    {"gen": keyGen},
}

// execute 分发命令
func execute(ctx context.Context, mf *multiformats.Context, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}
	switch args[0] {
	case "version":
		printVersion(out)
		return nil
	case "hash":
		return hashFiles(ctx, mf, args[1:], out)
	}

	group, ok := commands[args[0]]
	if !ok {
		return fmt.Errorf("未知命令 %q: %w", args[0], errUsage)
	}
	if len(args) < 2 {
		return fmt.Errorf("%s 缺少子命令: %w", args[0], errUsage)
	}
	cmd, ok := group[args[1]]
	if !ok {
		return fmt.Errorf("未知子命令 %q: %w", args[0]+" "+args[1], errUsage)
	}
	return cmd(ctx, mf, args[2:], out)
}

// newFlagSet 子命令参数集，出错时返回错误而不退出
func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

// exactArgs 解析参数并要求剩余 n 个位置参数
func exactArgs(fs *flag.FlagSet, args []string, n int) ([]string, error) {
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("%s: %w", fs.Name(), err)
	}
	if fs.NArg() != n {
		return nil, fmt.Errorf("%s 需要 %d 个参数: %w", fs.Name(), n, errUsage)
	}
	return fs.Args(), nil
}

func decodeHex(s string) ([]byte, error) {
	b, err := hex.DecodeString(strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X"))
	if err != nil {
		return nil, fmt.Errorf("invalid hex %q: %w", s, err)
	}
	return b, nil
}

// ════════════════════════════════════════════════════════════════════════════
//                              varint
// ════════════════════════════════════════════════════════════════════════════

func varintEncode(_ context.Context, _ *multiformats.Context, args []string, out io.Writer) error {
	rest, err := exactArgs(newFlagSet("varint encode"), args, 1)
	if err != nil {
		return err
	}
	x, err := strconv.ParseUint(rest[0], 0, 64)
	if err != nil {
		return fmt.Errorf("invalid integer %q: %w", rest[0], err)
	}
	b, err := varint.Encode(x)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, hex.EncodeToString(b))
	return nil
}

func varintDecode(_ context.Context, _ *multiformats.Context, args []string, out io.Writer) error {
	rest, err := exactArgs(newFlagSet("varint decode"), args, 1)
	if err != nil {
		return err
	}
	b, err := decodeHex(rest[0])
	if err != nil {
		return err
	}
	x, n, tail, err := varint.DecodeRaw(b)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%d\n", x)
	if len(tail) > 0 {
		fmt.Fprintf(out, "剩余 %d 字节（varint 占 %d 字节）: %s\n", len(tail), n, hex.EncodeToString(tail))
	}
	return nil
}

// ════════════════════════════════════════════════════════════════════════════
//                              multicodec
// ════════════════════════════════════════════════════════════════════════════

func codecGet(_ context.Context, mf *multiformats.Context, args []string, out io.Writer) error {
	rest, err := exactArgs(newFlagSet("codec get"), args, 1)
	if err != nil {
		return err
	}
	var m multicodec.Multicodec
	if strings.HasPrefix(rest[0], "0x") {
		code, perr := multicodec.ParseCode(rest[0])
		if perr != nil {
			return perr
		}
		m, err = mf.Codecs().GetCode(code)
	} else {
		m, err = mf.Codecs().Get(rest[0])
	}
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "name\t%s\n", m.Name)
	fmt.Fprintf(tw, "tag\t%s\n", m.Tag)
	fmt.Fprintf(tw, "code\t%s\n", m.Hexcode())
	fmt.Fprintf(tw, "status\t%s\n", m.Status)
	if m.Description != "" {
		fmt.Fprintf(tw, "description\t%s\n", m.Description)
	}
	return tw.Flush()
}

func codecTable(_ context.Context, mf *multiformats.Context, args []string, out io.Writer) error {
	fs := newFlagSet("codec table")
	tag := fs.String("tag", "", "只列出该标签")
	status := fs.String("status", "", "只列出该状态")
	if _, err := exactArgs(fs, args, 0); err != nil {
		return err
	}
	var f multicodec.Filter
	if *tag != "" {
		f.Tags = []string{*tag}
	}
	if *status != "" {
		f.Statuses = []multicodec.Status{multicodec.Status(*status)}
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, m := range mf.Codecs().Table(f) {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", m.Name, m.Tag, m.Hexcode(), m.Status)
	}
	return tw.Flush()
}

// ════════════════════════════════════════════════════════════════════════════
//                              multibase
// ════════════════════════════════════════════════════════════════════════════

func baseEncode(_ context.Context, mf *multiformats.Context, args []string, out io.Writer) error {
	fs := newFlagSet("base encode")
	base := fs.String("base", mf.Config().CID.DefaultBase, "编码名称")
	hexInput := fs.Bool("hex", false, "输入为十六进制")
	rest, err := exactArgs(fs, args, 1)
	if err != nil {
		return err
	}
	data := []byte(rest[0])
	if *hexInput {
		if data, err = decodeHex(rest[0]); err != nil {
			return err
		}
	}
	s, err := mf.Bases().Encode(data, multibase.Name(*base))
	if err != nil {
		return err
	}
	fmt.Fprintln(out, s)
	return nil
}

func baseDecode(_ context.Context, mf *multiformats.Context, args []string, out io.Writer) error {
	fs := newFlagSet("base decode")
	base := fs.String("base", "", "期望的编码名称，为空时按前缀识别")
	rest, err := exactArgs(fs, args, 1)
	if err != nil {
		return err
	}
	if *base != "" {
		data, err := mf.Bases().DecodeAs(multibase.Name(*base), rest[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s\t%s\n", *base, hex.EncodeToString(data))
		return nil
	}
	m, data, err := mf.Bases().DecodeRaw(rest[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s\t%s\n", m.Name, hex.EncodeToString(data))
	return nil
}

func baseTable(_ context.Context, mf *multiformats.Context, args []string, out io.Writer) error {
	if _, err := exactArgs(newFlagSet("base table"), args, 0); err != nil {
		return err
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, m := range mf.Bases().Table() {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", m.CodePrintable(), m.Name, m.Status)
	}
	return tw.Flush()
}

// ════════════════════════════════════════════════════════════════════════════
//                              multihash
// ════════════════════════════════════════════════════════════════════════════

// hashFiles 并发计算文件摘要，按参数顺序输出
func hashFiles(ctx context.Context, mf *multiformats.Context, args []string, out io.Writer) error {
	fs := newFlagSet("hash")
	fn := fs.String("fn", mf.Config().Multihash.DefaultHash, "哈希函数名称")
	size := fs.Int("size", multihash.DefaultSize, "摘要长度（字节），-1 为完整长度")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("hash: %w", err)
	}
	files := fs.Args()
	if len(files) == 0 {
		return fmt.Errorf("hash 需要至少一个文件: %w", errUsage)
	}
	if _, err := mf.Hashes().Get(*fn); err != nil {
		return err
	}

	digests := make([][]byte, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, name := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(name) //nolint:gosec // G304: 命令行指定的文件
			if err != nil {
				return err
			}
			d, err := mf.Digest(data, *fn, *size)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			digests[i] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, name := range files {
		fmt.Fprintf(out, "%s  %s\n", hex.EncodeToString(digests[i]), name)
	}
	return nil
}

// ════════════════════════════════════════════════════════════════════════════
//                              CID
// ════════════════════════════════════════════════════════════════════════════

func cidDecode(_ context.Context, mf *multiformats.Context, args []string, out io.Writer) error {
	rest, err := exactArgs(newFlagSet("cid decode"), args, 1)
	if err != nil {
		return err
	}
	c, err := mf.DecodeCID(rest[0])
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "version\t%d\n", c.Version())
	fmt.Fprintf(tw, "base\t%s\n", c.Base().Name)
	fmt.Fprintf(tw, "codec\t%s\n", c.Codec())
	fmt.Fprintf(tw, "hash\t%s\n", c.Hashfun().Codec())
	fmt.Fprintf(tw, "digest\t%s\n", hex.EncodeToString(c.RawDigest()))
	fmt.Fprintf(tw, "readable\t%s\n", c.HumanReadable())
	return tw.Flush()
}

func cidEncode(_ context.Context, mf *multiformats.Context, args []string, out io.Writer) error {
	fs := newFlagSet("cid encode")
	base := fs.String("base", mf.Config().CID.DefaultBase, "编码名称")
	rest, err := exactArgs(fs, args, 1)
	if err != nil {
		return err
	}
	c, err := mf.DecodeCID(rest[0])
	if err != nil {
		return err
	}
	s, err := c.Encode(multibase.Name(*base))
	if err != nil {
		return err
	}
	fmt.Fprintln(out, s)
	return nil
}

func cidSum(_ context.Context, mf *multiformats.Context, args []string, out io.Writer) error {
	fs := newFlagSet("cid sum")
	codec := fs.String("codec", "raw", "内容编解码器")
	fn := fs.String("fn", mf.Config().Multihash.DefaultHash, "哈希函数名称")
	rest, err := exactArgs(fs, args, 1)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(rest[0]) //nolint:gosec // G304: 命令行指定的文件
	if err != nil {
		return err
	}
	c, err := mf.Sum(data, *codec, *fn)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, c.String())
	return nil
}

func cidPeer(_ context.Context, mf *multiformats.Context, args []string, out io.Writer) error {
	rest, err := exactArgs(newFlagSet("cid peer"), args, 1)
	if err != nil {
		return err
	}
	b, err := decodeHex(rest[0])
	if err != nil {
		return err
	}
	pub, err := crypto.UnmarshalPublicKey(b)
	if err != nil {
		return err
	}
	id, err := mf.PeerID(pub)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, id.String())
	return nil
}

// ════════════════════════════════════════════════════════════════════════════
//                              multiaddr
// ════════════════════════════════════════════════════════════════════════════

func printMultiaddr(out io.Writer, m multiaddr.Multiaddr) error {
	b, err := m.Bytes()
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "string\t%s\n", m.String())
	fmt.Fprintf(tw, "bytes\t%s\n", hex.EncodeToString(b))
	for _, seg := range m.Segments() {
		p := seg.Protocol()
		if a, ok := seg.(multiaddr.Addr); ok {
			fmt.Fprintf(tw, "  %s\t%s\t%s\n", p.Name(), p.Codec().Hexcode(), a.Value())
			continue
		}
		fmt.Fprintf(tw, "  %s\t%s\t\n", p.Name(), p.Codec().Hexcode())
	}
	return tw.Flush()
}

func maddrParse(_ context.Context, mf *multiformats.Context, args []string, out io.Writer) error {
	rest, err := exactArgs(newFlagSet("maddr parse"), args, 1)
	if err != nil {
		return err
	}
	m, err := mf.ParseMultiaddr(rest[0])
	if err != nil {
		return err
	}
	return printMultiaddr(out, m)
}

func maddrDecode(_ context.Context, mf *multiformats.Context, args []string, out io.Writer) error {
	rest, err := exactArgs(newFlagSet("maddr decode"), args, 1)
	if err != nil {
		return err
	}
	b, err := decodeHex(rest[0])
	if err != nil {
		return err
	}
	m, err := mf.DecodeMultiaddr(b)
	if err != nil {
		return err
	}
	return printMultiaddr(out, m)
}

// ════════════════════════════════════════════════════════════════════════════
//                              密钥
// ════════════════════════════════════════════════════════════════════════════

func keyGen(_ context.Context, mf *multiformats.Context, args []string, out io.Writer) error {
	identity := mf.Config().Identity
	fs := newFlagSet("key gen")
	keyType := fs.String("type", identity.KeyType, "密钥类型 (Ed25519/RSA/ECDSA/Secp256k1)")
	bits := fs.Int("bits", identity.RSABits, "RSA 密钥位数")
	if _, err := exactArgs(fs, args, 0); err != nil {
		return err
	}
	identity = identity.WithKeyType(*keyType)
	identity.RSABits = *bits
	if err := identity.Validate(); err != nil {
		return err
	}
	kt, err := config.ParseKeyType(identity.KeyType)
	if err != nil {
		return err
	}

	var priv crypto.PrivateKey
	if kt == crypto.KeyTypeRSA {
		priv, err = crypto.GenerateRSAKey(identity.RSABits, rand.Reader)
	} else {
		priv, err = crypto.GenerateKey(kt, rand.Reader)
	}
	if err != nil {
		return err
	}
	pub := priv.Public()

	privBytes, err := crypto.MarshalPrivateKey(priv)
	if err != nil {
		return err
	}
	pubBytes, err := crypto.MarshalPublicKey(pub)
	if err != nil {
		return err
	}
	id, err := mf.PeerID(pub)
	if err != nil {
		return err
	}
	logger.Info("已生成密钥", "type", kt.String(), "peer", id.String())

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "type\t%s\n", kt)
	fmt.Fprintf(tw, "peer\t%s\n", id.String())
	fmt.Fprintf(tw, "public\t%s\n", hex.EncodeToString(pubBytes))
	fmt.Fprintf(tw, "private\t%s\n", hex.EncodeToString(privBytes))
	return tw.Flush()
}
