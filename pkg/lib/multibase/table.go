package multibase

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"go.uber.org/multierr"
)

//go:embed table.csv
var staticTable []byte

// StaticTable 解析内置的 table.csv
func StaticTable() ([]Multibase, error) {
	return LoadCSV(bytes.NewReader(staticTable))
}

// LoadCSV 解析 name,code,status,description 格式的表
//
// 兼容上游表中的 "encoding" 列名。
func LoadCSV(r io.Reader) ([]Multibase, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: read header: %v", ErrMalformedTable, err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if h == "encoding" {
			h = "name"
		}
		cols[h] = i
	}
	for _, required := range []string{"name", "code", "status"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrMalformedTable, required)
		}
	}
	field := func(rec []string, name string, trim bool) string {
		i, ok := cols[name]
		if !ok || i >= len(rec) {
			return ""
		}
		if !trim {
			return rec[i]
		}
		return strings.TrimSpace(rec[i])
	}

	var (
		out  []Multibase
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
		// 代码可能是空格，只去掉多字符代码两端的空白
		code := field(rec, "code", false)
		if trimmed := strings.TrimSpace(code); trimmed != "" {
			code = trimmed
		}
		m, err := Parse(field(rec, "name", true), code, field(rec, "status", true), field(rec, "description", true))
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

// BuildTables 构建前缀表和名称表，名称或代码重复时报错
func BuildTables(entries []Multibase) (map[byte]Multibase, map[string]Multibase, error) {
	byCode := make(map[byte]Multibase, len(entries))
	byName := make(map[string]Multibase, len(entries))
	var errs error
	for _, m := range entries {
		if err := m.Validate(); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		if old, ok := byCode[m.Code]; ok {
			errs = multierr.Append(errs, fmt.Errorf("%w: code '%s' appears for %q and %q",
				ErrConflict, m.CodePrintable(), old.Name, m.Name))
			continue
		}
		if _, ok := byName[m.Name]; ok {
			errs = multierr.Append(errs, fmt.Errorf("%w: name %q appears multiple times", ErrConflict, m.Name))
			continue
		}
		byCode[m.Code] = m
		byName[m.Name] = m
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
			defaultReg, err = NewRegistry(entries)
		}
		if err != nil {
			panic(fmt.Sprintf("multibase: built-in table: %v", err))
		}
	})
	return defaultReg
}
