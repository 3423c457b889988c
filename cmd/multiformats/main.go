// Package main 提供 multiformats 命令行入口
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/dep2p/go-multiformats"
	"github.com/dep2p/go-multiformats/config"
	"github.com/dep2p/go-multiformats/pkg/lib/log"
)

var logger = log.Logger("multiformats/cmd")

// ═══════════════════════════════════════════════════════════════════════════
// 命令行参数
// ═══════════════════════════════════════════════════════════════════════════
//
// 全局参数写在子命令之前：
//
//	multiformats [-config FILE] [-log-level LEVEL] <命令> [参数...]
//
// ═══════════════════════════════════════════════════════════════════════════
var (
	configFile  = flag.String("config", "", "配置文件路径")
	logLevel    = flag.String("log-level", "", "日志级别 (debug/info/warn/error)，覆盖配置文件")
	showVersion = flag.Bool("version", false, "显示版本信息")
	showHelp    = flag.Bool("help", false, "显示帮助信息")
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	flag.Parse()

	if *showVersion {
		printVersion(os.Stdout)
		return nil
	}
	if *showHelp || flag.NArg() == 0 {
		printHelp(os.Stdout)
		return nil
	}

	cfg, err := loadConfig(*configFile, *logLevel)
	if err != nil {
		return fmt.Errorf("配置错误: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mf, err := multiformats.New(ctx, multiformats.WithConfig(cfg))
	if err != nil {
		return fmt.Errorf("启动失败: %w", err)
	}
	defer func() { _ = mf.Close(context.Background()) }()

	logger.Debug("执行命令", "command", flag.Arg(0))
	return execute(ctx, mf, flag.Args(), os.Stdout)
}

// loadConfig 合并配置
//
// 优先级（从高到低）：
//  1. 命令行参数
//  2. 环境变量（MULTIFORMATS_* 前缀）
//  3. 配置文件
//  4. 默认值
func loadConfig(path, level string) (*config.Config, error) {
	cfg := config.NewConfig()
	if path != "" {
		loaded, err := config.LoadFile(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if err := config.ApplyEnv(cfg); err != nil {
		return nil, err
	}
	if level != "" {
		cfg.Log.Level = level
	}
	return cfg, nil
}

func printVersion(w io.Writer) {
	fmt.Fprintf(w, "multiformats %s\n", multiformats.VersionInfo())
}

func printHelp(w io.Writer) {
	fmt.Fprintln(w, "multiformats - 自描述数据格式工具")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "用法:")
	fmt.Fprintln(w, "  multiformats [选项] <命令> [参数...]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "命令:")
	fmt.Fprintln(w, "  varint encode N                      编码无符号整数")
	fmt.Fprintln(w, "  varint decode HEX                    解码十六进制 varint")
	fmt.Fprintln(w, "  codec get NAME|0xCODE                查询 multicodec 条目")
	fmt.Fprintln(w, "  codec table [-tag T] [-status S]     列出 multicodec 表")
	fmt.Fprintln(w, "  base encode -base NAME TEXT          multibase 编码")
	fmt.Fprintln(w, "  base decode [-base NAME] STR         multibase 解码")
	fmt.Fprintln(w, "  base table                           列出 multibase 表")
	fmt.Fprintln(w, "  hash [-fn NAME] [-size N] FILE...    计算文件的 multihash")
	fmt.Fprintln(w, "  cid decode STR                       解析 CID")
	fmt.Fprintln(w, "  cid encode -base NAME STR            以指定编码重新输出 CID")
	fmt.Fprintln(w, "  cid sum [-codec C] [-fn NAME] FILE   计算文件的 CIDv1")
	fmt.Fprintln(w, "  cid peer HEXKEY                      由 protobuf 公钥计算 PeerID")
	fmt.Fprintln(w, "  maddr parse STR                      解析多地址字符串")
	fmt.Fprintln(w, "  maddr decode HEX                     解码二进制多地址")
	fmt.Fprintln(w, "  key gen [-type T]                    生成密钥并输出 PeerID")
	fmt.Fprintln(w, "  version                              显示版本信息")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "选项:")
	flag.CommandLine.SetOutput(w)
	flag.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "环境变量:")
	fmt.Fprintln(w, "  MULTIFORMATS_LOG_LEVEL       日志级别")
	fmt.Fprintln(w, "  MULTIFORMATS_LOG_FORMAT      日志格式 (text/json)")
	fmt.Fprintln(w, "  MULTIFORMATS_LOG_FILE        日志文件路径")
	fmt.Fprintln(w, "  MULTIFORMATS_CID_CACHE_SIZE  CID 解码缓存容量")
	fmt.Fprintln(w, "  MULTIFORMATS_CID_BASE        CID 默认文本编码")
	fmt.Fprintln(w, "  MULTIFORMATS_KEY_TYPE        key gen 默认密钥类型")
}
