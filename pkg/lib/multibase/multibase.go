// Package multibase 实现 multibase 自描述文本编码
//
// 编码结果为一个字符的前缀加上 base-N 编码的数据。
// 实际的 base-N 转换由 rawbase 包按名称提供。
//
// # 基本用法
//
//	s, _ := multibase.Encode([]byte("Hello world!"), multibase.Name("base64"))
//	// "mSGVsbG8gd29ybGQh"
//	b, _ := multibase.Decode(s)
package multibase

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"

	"github.com/dep2p/go-multiformats/pkg/lib/multibase/rawbase"
)

// Status 编码状态
type Status string

// 状态常量
const (
	StatusDraft     Status = "draft"
	StatusCandidate Status = "candidate"
	StatusDefault   Status = "default"
)

// Valid 检查状态是否已知
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusCandidate, StatusDefault:
		return true
	}
	return false
}

var (
	nameRegexp = regexp.MustCompile(`^[a-z][a-z0-9_-]+$`)
	hexRegexp  = regexp.MustCompile(`^0x[0-9a-fA-F]{2}$`)
)

// ParseCode 解析代码：单个 ASCII 字符或 "0xYY"
func ParseCode(s string) (byte, error) {
	if hexRegexp.MatchString(s) {
		c, _ := strconv.ParseUint(s[2:], 16, 8)
		if c >= 0x80 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidCode, s)
		}
		return byte(c), nil
	}
	if len(s) != 1 || s[0] >= 0x80 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidCode, s)
	}
	return s[0], nil
}

// Multibase 一种 multibase 编码
type Multibase struct {
	// Name 名称（如 "base32"）
	Name string

	// Code 前缀字符
	Code byte

	// Status 状态
	Status Status

	// Description 描述
	Description string
}

// New 创建并校验编码条目
func New(name string, code byte, status Status, description string) (Multibase, error) {
	m := Multibase{Name: name, Code: code, Status: status, Description: description}
	if err := m.Validate(); err != nil {
		return Multibase{}, err
	}
	return m, nil
}

// Parse 从字符串字段创建编码条目
func Parse(name, code, status, description string) (Multibase, error) {
	c, err := ParseCode(code)
	if err != nil {
		return Multibase{}, err
	}
	return New(name, c, Status(status), description)
}

// Validate 校验名称、代码和状态
func (m Multibase) Validate() error {
	if !nameRegexp.MatchString(m.Name) {
		return fmt.Errorf("%w %q", ErrInvalidName, m.Name)
	}
	if m.Code >= 0x80 {
		return fmt.Errorf("%w: 0x%02x", ErrInvalidCode, m.Code)
	}
	if !m.Status.Valid() {
		return fmt.Errorf("%w %q", ErrInvalidStatus, m.Status)
	}
	return nil
}

// CodePrintable 可打印字符原样返回，其余返回 "0xYY"
func (m Multibase) CodePrintable() string {
	return printableCode(m.Code)
}

func printableCode(c byte) string {
	if c < 0x20 || c >= 0x7f {
		return fmt.Sprintf("0x%02x", c)
	}
	return string(rune(c))
}

// String 返回名称
func (m Multibase) String() string {
	return m.Name
}

// Raw 返回该编码的原始编解码器
func (m Multibase) Raw() (rawbase.Encoding, error) {
	return rawbase.Get(m.Name)
}

// RawEncoder 返回不带前缀的编码函数
func (m Multibase) RawEncoder() (func([]byte) string, error) {
	enc, err := m.Raw()
	if err != nil {
		return nil, err
	}
	return enc.Encode, nil
}

// RawDecoder 返回不带前缀的解码函数
func (m Multibase) RawDecoder() (func(string) ([]byte, error), error) {
	enc, err := m.Raw()
	if err != nil {
		return nil, err
	}
	return enc.Decode, nil
}

// Encode 前缀加原始编码
func (m Multibase) Encode(data []byte) (string, error) {
	enc, err := m.Raw()
	if err != nil {
		return "", err
	}
	return string(rune(m.Code)) + enc.Encode(data), nil
}

// Decode 校验前缀为本编码后解码
//
// 前缀不符时按 Default() 命名找到的编码，自定义注册表请使用 Registry.DecodeAs。
func (m Multibase) Decode(s string) ([]byte, error) {
	return m.decodeIn(Default(), s)
}

// decodeIn 前缀不符时在 r 中查找实际编码的名称
func (m Multibase) decodeIn(r *Registry, s string) ([]byte, error) {
	if s == "" {
		return nil, ErrEmpty
	}
	if s[0] != m.Code {
		found := printableCode(s[0])
		if other, err := r.GetCode(s[0]); err == nil {
			found = other.Name
		}
		return nil, fmt.Errorf("%w: expected '%s' encoding, found '%s' encoding instead", ErrMismatch, m.Name, found)
	}
	enc, err := m.Raw()
	if err != nil {
		return nil, err
	}
	return enc.Decode(s[1:])
}

type jsonEntry struct {
	Name        string `json:"name"`
	Code        string `json:"code"`
	Status      string `json:"status"`
	Description string `json:"description"`
}

// MarshalJSON 输出 name/code/status/description，代码使用可打印形式
func (m Multibase) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonEntry{
		Name:        m.Name,
		Code:        m.CodePrintable(),
		Status:      string(m.Status),
		Description: m.Description,
	})
}

// UnmarshalJSON 解析 MarshalJSON 的输出并校验
func (m *Multibase) UnmarshalJSON(data []byte) error {
	var e jsonEntry
	if err := json.Unmarshal(data, &e); err != nil {
		return err
	}
	parsed, err := Parse(e.Name, e.Code, e.Status, e.Description)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
