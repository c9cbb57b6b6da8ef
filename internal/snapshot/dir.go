package snapshot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"areacodes/internal/areaerr"
	"areacodes/internal/logger"
)

const fileExt = ".txt"

// DirSource：目录下每年一个 <年份>.txt 文件
// 背景：部分早期公布数据为 GBK 编码，读取时按 Encoding 转码为 UTF-8
type DirSource struct {
	Dir   string
	enc   encoding.Encoding
	paths map[int]string
}

// Encoding：按名称选择文件编码（utf-8 / gbk）
func Encoding(name string) (encoding.Encoding, error) {
	switch strings.ToLower(name) {
	case "", "utf-8", "utf8":
		return unicode.UTF8BOM, nil
	case "gbk", "gb2312":
		return simplifiedchinese.GBK, nil
	case "gb18030":
		return simplifiedchinese.GB18030, nil
	}
	return nil, fmt.Errorf("unsupported snapshot encoding %q", name)
}

func NewDirSource(dir, encodingName string) (*DirSource, error) {
	enc, err := Encoding(encodingName)
	if err != nil {
		return nil, err
	}
	return &DirSource{Dir: dir, enc: enc}, nil
}

// Years：扫描目录，返回升序年份
// 约束：仅处理普通文件且扩展名为 .txt；文件名主干必须为纯数字，否则返回 ParseError
func (s *DirSource) Years(ctx context.Context) ([]int, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return nil, &areaerr.IOError{Op: "readdir", Path: s.Dir, Err: err}
	}
	s.paths = make(map[int]string, len(entries))
	years := make([]int, 0, len(entries))
	for _, e := range entries {
		if !e.Type().IsRegular() || filepath.Ext(e.Name()) != fileExt {
			continue
		}
		stem := strings.TrimSuffix(e.Name(), fileExt)
		year, err := strconv.Atoi(stem)
		if err != nil || year <= 0 || strings.HasPrefix(stem, "+") {
			return nil, &areaerr.ParseError{Source: e.Name(), Text: stem, Reason: "non-numeric file stem"}
		}
		if prev, dup := s.paths[year]; dup {
			return nil, &areaerr.ParseError{Source: e.Name(), Text: stem, Reason: "duplicate year with " + filepath.Base(prev)}
		}
		s.paths[year] = filepath.Join(s.Dir, e.Name())
		years = append(years, year)
	}
	slices.Sort(years)
	logger.L().Debug("snapshot_dir_scanned", "dir", s.Dir, "years", len(years))
	return years, nil
}

// Load：读取并解析某年文件
func (s *DirSource) Load(ctx context.Context, year int) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, ok := s.paths[year]
	if !ok {
		path = filepath.Join(s.Dir, strconv.Itoa(year)+fileExt)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, &areaerr.IOError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()
	snap, err := Parse(transform.NewReader(f, s.enc.NewDecoder()), filepath.Base(path), year)
	if err != nil {
		return nil, err
	}
	logger.L().Debug("snapshot_loaded", "source", path, "year", year, "codes", snap.Len())
	return snap, nil
}
