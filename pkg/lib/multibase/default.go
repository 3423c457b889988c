package multibase

// 以下函数作用于 Default() 注册表

// Get 按名称查找
func Get(name string) (Multibase, error) { return Default().Get(name) }

// GetCode 按前缀查找
func GetCode(code byte) (Multibase, error) { return Default().GetCode(code) }

// Resolve 解析引用
func Resolve(ref Ref) (Multibase, error) { return Default().Resolve(ref) }

// Exists 名称是否已注册
func Exists(name string) bool { return Default().Exists(name) }

// ExistsCode 前缀是否已注册
func ExistsCode(code byte) bool { return Default().ExistsCode(code) }

// Register 注册编码
func Register(m Multibase, overwrite bool) error { return Default().Register(m, overwrite) }

// Unregister 按名称移除编码
func Unregister(name string) error { return Default().Unregister(name) }

// UnregisterCode 按前缀移除编码
func UnregisterCode(code byte) error { return Default().UnregisterCode(code) }

// Table 按代码升序列出编码
func Table() []Multibase { return Default().Table() }

// EncodingOf 由首字符确定编码
func EncodingOf(s string) (Multibase, error) { return Default().EncodingOf(s) }

// Encode 编码数据
func Encode(data []byte, ref Ref) (string, error) { return Default().Encode(data, ref) }

// Decode 按前缀解码
func Decode(s string) ([]byte, error) { return Default().Decode(s) }

// DecodeRaw 按前缀解码并返回编码
func DecodeRaw(s string) (Multibase, []byte, error) { return Default().DecodeRaw(s) }
