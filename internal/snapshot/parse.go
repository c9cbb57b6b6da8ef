package snapshot

import (
	"bufio"
	"errors"
	"io"
	"strings"

	"areacodes/internal/areacode"
	"areacodes/internal/areaerr"
	"areacodes/internal/logger"
)

const (
	codeWidth = 6
	separator = '\t'
	utf8BOM   = "\uFEFF"
)

var (
	errLineTooShort = errors.New("line too short")
	errInvalidCode  = errors.New("invalid code")
	errNoSeparator  = errors.New("missing tab separator")
	errEmptyName    = errors.New("empty name")
)

// ParseLine：解析一行 "CCCCCC\tNAME"
// 约束：代码固定为前六个字节，第七个字节为制表符，其后整体为名称，名称不可为空
func ParseLine(line string) (areacode.Code, string, error) {
	if len(line) <= codeWidth {
		return 0, "", errLineTooShort
	}
	code, ok := areacode.Parse(line[:codeWidth])
	if !ok {
		return 0, "", errInvalidCode
	}
	if line[codeWidth] != separator {
		return 0, "", errNoSeparator
	}
	name := line[codeWidth+1:]
	if name == "" {
		return 0, "", errEmptyName
	}
	return code, name, nil
}

// Parse：从 r 读取整份快照
// 背景：任何一行解析失败即返回 ParseError，整年作废，不做部分应用
// 约束：去除行尾 \r 与文件开头 BOM；空行跳过
func Parse(r io.Reader, source string, year int) (*Snapshot, error) {
	snap := New(year, source)
	rd := bufio.NewScanner(r)
	rd.Buffer(make([]byte, 1024), 1024*1024)
	n := 0
	dups := 0
	for rd.Scan() {
		n++
		line := strings.TrimSuffix(rd.Text(), "\r")
		if n == 1 {
			line = strings.TrimPrefix(line, utf8BOM)
		}
		if line == "" {
			continue
		}
		code, name, err := ParseLine(line)
		if err != nil {
			return nil, &areaerr.ParseError{Source: source, Line: n, Text: line, Reason: err.Error()}
		}
		if snap.Put(code, name) {
			dups++
		}
	}
	if err := rd.Err(); err != nil {
		return nil, &areaerr.IOError{Op: "read", Path: source, Err: err}
	}
	if dups > 0 {
		logger.L().Warn("snapshot_duplicate_codes", "source", source, "count", dups)
	}
	return snap, nil
}
