// Package multicodec 实现 multicodec 注册表
//
// 每个条目把可读名称映射到整数代码，并附带标签、状态和描述。
// 包装数据时在原始字节前写入代码的 varint 编码。
//
// # 基本用法
//
//	raw, _ := multicodec.Get("raw")
//	b, _ := multicodec.Wrap(multicodec.Name("raw"), data)
//	m, payload, _ := multicodec.Unwrap(b)
//
// 内置表来自 table.csv，首次使用时加载。
package multicodec

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/dep2p/go-multiformats/pkg/lib/varint"
)

// Status 条目状态
type Status string

// 状态常量
const (
	StatusDraft      Status = "draft"
	StatusPermanent  Status = "permanent"
	StatusDeprecated Status = "deprecated"
)

// Valid 检查状态是否已知
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusPermanent, StatusDeprecated:
		return true
	}
	return false
}

// 私有代码范围 [PrivateUseStart, PrivateUseEnd)
const (
	PrivateUseStart uint64 = 0x300000
	PrivateUseEnd   uint64 = 0x400000
)

var nameRegexp = regexp.MustCompile(`^[a-z][a-z0-9_-]+$`)

// ValidName 检查名称格式
func ValidName(name string) bool {
	return nameRegexp.MatchString(name)
}

// Multicodec 注册表条目
type Multicodec struct {
	// Name 名称（如 "sha2-256"）
	Name string

	// Tag 标签（如 "multihash"、"ipld"）
	Tag string

	// Code 代码
	Code uint64

	// Status 状态
	Status Status

	// Description 描述，可为空
	Description string
}

// New 创建并校验条目
func New(name, tag string, code uint64, status Status, description string) (Multicodec, error) {
	m := Multicodec{Name: name, Tag: tag, Code: code, Status: status, Description: description}
	if err := m.Validate(); err != nil {
		return Multicodec{}, err
	}
	return m, nil
}

// Parse 从字符串字段创建条目，代码可以是 0x 十六进制或十进制
func Parse(name, tag, code, status, description string) (Multicodec, error) {
	c, err := ParseCode(code)
	if err != nil {
		return Multicodec{}, err
	}
	return New(name, tag, c, Status(status), description)
}

// ParseCode 解析 "0x1a" 或 "26" 形式的代码
func ParseCode(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	var (
		c   uint64
		err error
	)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		c, err = strconv.ParseUint(s[2:], 16, 64)
	} else {
		c, err = strconv.ParseUint(s, 10, 64)
	}
	if err != nil || c > varint.MaxValue {
		return 0, fmt.Errorf("%w %q", ErrInvalidCode, s)
	}
	return c, nil
}

// Validate 校验名称、代码和状态
func (m Multicodec) Validate() error {
	if !ValidName(m.Name) {
		return fmt.Errorf("%w %q", ErrInvalidName, m.Name)
	}
	if m.Code > varint.MaxValue {
		return fmt.Errorf("%w 0x%x", ErrInvalidCode, m.Code)
	}
	if !m.Status.Valid() {
		return fmt.Errorf("%w %q", ErrInvalidStatus, m.Status)
	}
	return nil
}

// Hexcode 返回 0x 开头、位数补齐为偶数的十六进制代码
func (m Multicodec) Hexcode() string {
	h := strconv.FormatUint(m.Code, 16)
	if len(h)%2 != 0 {
		h = "0" + h
	}
	return "0x" + h
}

// IsPrivateUse 代码是否在私有范围内
func (m Multicodec) IsPrivateUse() bool {
	return m.Code >= PrivateUseStart && m.Code < PrivateUseEnd
}

// IsPermanent 状态是否为 permanent
func (m Multicodec) IsPermanent() bool {
	return m.Status == StatusPermanent
}

// Equal 比较所有字段
func (m Multicodec) Equal(o Multicodec) bool {
	return m == o
}

// String 返回 "name (0xcode)"
func (m Multicodec) String() string {
	return fmt.Sprintf("%s (%s)", m.Name, m.Hexcode())
}

type jsonEntry struct {
	Name        string `json:"name"`
	Tag         string `json:"tag"`
	Code        string `json:"code"`
	Status      string `json:"status"`
	Description string `json:"description"`
}

// MarshalJSON 输出 name/tag/code/status/description，代码为十六进制字符串
func (m Multicodec) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonEntry{
		Name:        m.Name,
		Tag:         m.Tag,
		Code:        m.Hexcode(),
		Status:      string(m.Status),
		Description: m.Description,
	})
}

// UnmarshalJSON 解析 MarshalJSON 的输出并校验
func (m *Multicodec) UnmarshalJSON(data []byte) error {
	var e jsonEntry
	if err := json.Unmarshal(data, &e); err != nil {
		return err
	}
	parsed, err := Parse(e.Name, e.Tag, e.Code, e.Status, e.Description)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
