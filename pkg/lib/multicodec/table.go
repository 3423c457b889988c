package multicodec

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"go.uber.org/multierr"
)

//go:embed table.csv
var staticTable []byte

// StaticTable 解析内置的 table.csv
func StaticTable() ([]Multicodec, error) {
	return LoadCSV(bytes.NewReader(staticTable))
}

// LoadCSV 解析 name,tag,code,status,description 格式的表
//
// 第一行为表头，列顺序任意，description 列可省略。字段两端空白被去除。
func LoadCSV(r io.Reader) ([]Multicodec, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: read header: %v", ErrMalformedTable, err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.TrimSpace(h)] = i
	}
	for _, required := range []string{"name", "tag", "code", "status"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrMalformedTable, required)
		}
	}
	field := func(rec []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var (
		out  []Multicodec
		errs error
	)
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedTable, line, err)
		}
		m, err := Parse(field(rec, "name"), field(rec, "tag"), field(rec, "code"),
			field(rec, "status"), field(rec, "description"))
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("line %d: %w", line, err))
			continue
		}
		out = append(out, m)
	}
	if errs != nil {
		return nil, errs
	}
	return out, nil
}

// BuildTables 按顺序构建代码表和名称表
//
// 规则：
//   - allowPrivateUse 为 false 时拒绝私有代码
//   - 同一代码下 permanent 条目取代 draft 条目：先出现的 draft 仍留在名称表，
//     出现在 permanent 之后的 draft 直接跳过
//   - 两个 permanent 条目共用代码报错
//   - 多个 draft 共用代码且最终没有 permanent 条目报错
//   - 名称重复报错
//
// 所有违规一并返回，出错时不返回部分结果。
func BuildTables(entries []Multicodec, allowPrivateUse bool) (map[uint64]Multicodec, map[string]Multicodec, error) {
	byCode := make(map[uint64]Multicodec, len(entries))
	byName := make(map[string]Multicodec, len(entries))
	drafts := make(map[uint64][]string)
	collided := make(map[uint64]struct{})

	var errs error
	for _, m := range entries {
		if err := m.Validate(); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		if !allowPrivateUse && m.IsPrivateUse() {
			errs = multierr.Append(errs, fmt.Errorf("%w: %s", ErrPrivateUse, m))
			continue
		}
		if old, ok := byName[m.Name]; ok {
			errs = multierr.Append(errs, fmt.Errorf("%w: name %q appears for %s and %s",
				ErrConflict, m.Name, old.Hexcode(), m.Hexcode()))
			continue
		}
		if old, ok := byCode[m.Code]; ok {
			switch {
			case old.IsPermanent() && !m.IsPermanent():
				logger.Warn("跳过被取代的 draft 条目", "name", m.Name, "code", m.Hexcode(), "by", old.Name)
				continue
			case old.IsPermanent():
				errs = multierr.Append(errs, fmt.Errorf("%w: code %s is permanent for both %q and %q",
					ErrConflict, m.Hexcode(), old.Name, m.Name))
				continue
			case m.IsPermanent():
				// 之前的 draft 仍可按名称查到，代码归属永久条目
				for _, name := range drafts[m.Code] {
					logger.Warn("draft 条目的代码被取代", "name", name, "code", m.Hexcode(), "by", m.Name)
				}
				delete(drafts, m.Code)
				delete(collided, m.Code)
			default:
				collided[m.Code] = struct{}{}
			}
		}
		if !m.IsPermanent() {
			drafts[m.Code] = append(drafts[m.Code], m.Name)
		}
		byCode[m.Code] = m
		byName[m.Name] = m
	}

	codes := make([]uint64, 0, len(collided))
	for c := range collided {
		codes = append(codes, c)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	for _, c := range codes {
		errs = multierr.Append(errs, fmt.Errorf("%w: code %s shared by %q with no permanent entry",
			ErrConflict, byCode[c].Hexcode(), drafts[c]))
	}

	if errs != nil {
		return nil, nil, errs
	}
	return byCode, byName, nil
}

var (
	defaultOnce sync.Once
	defaultReg  *Registry
)

// Default 返回由内置表构建的全局注册表
func Default() *Registry {
	defaultOnce.Do(func() {
		entries, err := StaticTable()
		if err == nil {
			defaultReg, err = NewRegistry(entries, false)
		}
		if err != nil {
			panic(fmt.Sprintf("multicodec: built-in table: %v", err))
		}
	})
	return defaultReg
}
