package multicodec

import "io"

// 以下函数作用于 Default() 注册表

// Get 按名称查找
func Get(name string) (Multicodec, error) { return Default().Get(name) }

// GetCode 按代码查找
func GetCode(code uint64) (Multicodec, error) { return Default().GetCode(code) }

// Resolve 解析引用
func Resolve(ref Ref) (Multicodec, error) { return Default().Resolve(ref) }

// Exists 名称是否已注册
func Exists(name string) bool { return Default().Exists(name) }

// ExistsCode 代码是否已注册
func ExistsCode(code uint64) bool { return Default().ExistsCode(code) }

// Register 注册条目
func Register(m Multicodec, overwrite bool) error { return Default().Register(m, overwrite) }

// Unregister 按名称移除条目
func Unregister(name string) error { return Default().Unregister(name) }

// UnregisterCode 按代码移除条目
func UnregisterCode(code uint64) error { return Default().UnregisterCode(code) }

// Table 按代码升序列出条目
func Table(f Filter) []Multicodec { return Default().Table(f) }

// Wrap 包装数据
func Wrap(ref Ref, raw []byte) ([]byte, error) { return Default().Wrap(ref, raw) }

// Unwrap 解包数据
func Unwrap(data []byte) (Multicodec, []byte, error) { return Default().Unwrap(data) }

// UnwrapRaw 读取代码前缀
func UnwrapRaw(data []byte) (uint64, int, []byte, error) { return Default().UnwrapRaw(data) }

// UnwrapReader 从流中读取代码
func UnwrapReader(r io.ByteReader) (Multicodec, int, error) { return Default().UnwrapReader(r) }
