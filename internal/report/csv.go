package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"areacodes/internal/hierarchy"
)

const utf8BOM = "\uFEFF"

var (
	expandedHeader = []string{
		"代码", "一级行政区", "二级行政区（变更前）", "名称", "级别", "状态",
		"启用时间（含）", "弃用时间（不含）", "是否自治", "是否市辖区", "是否县级市",
	}
	compactHeader = []string{
		"代码", "一级行政区", "二级行政区", "名称", "级别", "状态",
		"启用时间", "弃用时间", "是否自治", "是否市辖区", "是否县级市", "历史名称",
	}
)

func yesNo(b bool) string {
	if b {
		return "是"
	}
	return "否"
}

func year(y int) string {
	if y == 0 {
		return ""
	}
	return strconv.Itoa(y)
}

func record(r hierarchy.Row) []string {
	return []string{
		r.Code.String(),
		r.Province,
		r.Prefecture,
		r.Name,
		r.Level.Desc(),
		r.Status.Desc(),
		year(r.Start),
		year(r.End),
		yesNo(r.Autonomous),
		yesNo(r.District),
		yesNo(r.CountyCity),
	}
}

// History：name[start-end] 以分号连接，旧在前
func History(iv []hierarchy.Interval) string {
	parts := make([]string, len(iv))
	for i, h := range iv {
		parts[i] = fmt.Sprintf("%s[%d-%d]", h.Name, h.Start, h.End)
	}
	return strings.Join(parts, ";")
}

// CSV：按报表形式写出带 BOM 的 CSV
func CSV(form hierarchy.Form, rows []hierarchy.Row) WriteFunc {
	return func(w io.Writer) (int, error) {
		if _, err := io.WriteString(w, utf8BOM); err != nil {
			return 0, err
		}
		cw := csv.NewWriter(w)
		header := expandedHeader
		if form == hierarchy.Compact {
			header = compactHeader
		}
		if err := cw.Write(header); err != nil {
			return 0, err
		}
		for i, r := range rows {
			rec := record(r)
			if form == hierarchy.Compact {
				rec = append(rec, History(r.History))
			}
			if err := cw.Write(rec); err != nil {
				return i, err
			}
		}
		cw.Flush()
		return len(rows), cw.Error()
	}
}
