// 包 hierarchy：从封存后的台账推导每个代码的省级、地级归属与状态
package hierarchy

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"areacodes/internal/areacode"
	"areacodes/internal/areaerr"
	"areacodes/internal/ledger"
	"areacodes/internal/logger"
	"areacodes/internal/metrics"
)

const (
	// DirectlyAdministered：县级代码找不到对应地级时的取值
	DirectlyAdministered = "直管"
	// UnknownParent：省级上级缺失时的取值
	UnknownParent = "未知"
)

// Status：一行记录的状态
type Status int

const (
	InForce Status = iota
	NameRetired
	CodeRetired
)

func (s Status) Desc() string {
	switch s {
	case InForce:
		return "启用"
	case NameRetired:
		return "变更"
	case CodeRetired:
		return "弃用"
	}
	return ""
}

// Form：报表形式
type Form int

const (
	Expanded Form = iota
	Compact
)

func (f Form) String() string {
	if f == Compact {
		return "compact"
	}
	return "expanded"
}

func ParseForm(s string) (Form, error) {
	switch strings.ToLower(s) {
	case "", "expanded":
		return Expanded, nil
	case "compact":
		return Compact, nil
	}
	return Expanded, fmt.Errorf("unknown report form %q", s)
}

// Interval：一个历史名称及其有效区间 [Start, End)
type Interval struct {
	Name  string
	Start int
	End   int
}

// Row：解析后的一行
// End 为 0 表示仍在使用；History 仅在紧凑形式中填充，旧在前
type Row struct {
	Code       areacode.Code
	Level      areacode.Level
	Province   string
	Prefecture string
	Name       string
	Status     Status
	Start      int
	End        int
	Autonomous bool
	District   bool
	CountyCity bool
	History    []Interval
}

// Result：全部行及缺失上级列表
type Result struct {
	Rows    []Row
	Missing []*areaerr.MissingParentError
}

// Resolver：只读访问台账
type Resolver struct {
	ledger  *ledger.Ledger
	workers int
}

func New(l *ledger.Ledger, workers int) *Resolver {
	if workers <= 0 {
		workers = 1
	}
	return &Resolver{ledger: l, workers: workers}
}

// province：省级名称，缺失时返回 UnknownParent 与 MissingParentError
func (r *Resolver) province(code areacode.Code) (string, *areaerr.MissingParentError) {
	pc := areacode.ProvinceOf(code)
	rec, ok := r.ledger.Get(pc)
	if ok {
		if name, ok := rec.CurrentName(); ok {
			return name, nil
		}
	}
	return UnknownParent, &areaerr.MissingParentError{Code: code, Parent: pc, Level: areacode.Province}
}

// prefecture：区间 [start, end) 对应的地级名称
func (r *Resolver) prefecture(code areacode.Code, name string, start, end int) string {
	switch areacode.LevelOf(code) {
	case areacode.Prefecture:
		return name
	case areacode.County:
		parent, ok := r.ledger.Get(areacode.PrefectureOf(code))
		if !ok {
			return DirectlyAdministered
		}
		if n, ok := LastNameIntersecting(parent, start, end); ok {
			return n
		}
		return DirectlyAdministered
	}
	return ""
}

func (r *Resolver) row(code areacode.Code, province, name string, start, end int, st Status, flags bool) Row {
	row := Row{
		Code:       code,
		Level:      areacode.LevelOf(code),
		Province:   province,
		Prefecture: r.prefecture(code, name, start, end),
		Name:       name,
		Status:     st,
		Start:      start,
		End:        end,
	}
	if flags {
		row.Autonomous = areacode.IsAutonomous(name)
		row.District = areacode.IsDistrict(code, name)
		row.CountyCity = areacode.IsCountyCity(code, name)
	}
	return row
}

// Expand：展开形式，每个非缺失名称区间一行，最近的区间在前
// 约束：最近区间在用为“启用”，其余为“变更”；代码已弃用时弃用前最后一个区间为“弃用”；
// 标志按各自历史名称计算，不受弃用状态影响
func (r *Resolver) Expand(code areacode.Code) ([]Row, *areaerr.MissingParentError) {
	rec, ok := r.ledger.Get(code)
	if !ok {
		return nil, nil
	}
	province, missing := r.province(code)
	entries := rec.Entries
	last := len(entries) - 1
	if rec.Deprecated {
		last--
	}
	rows := make([]Row, 0, last+1)
	for i := last; i >= 0; i-- {
		e := entries[i]
		if e.Absent {
			continue
		}
		end := 0
		if i+1 < len(entries) {
			end = entries[i+1].Year
		}
		st := NameRetired
		switch {
		case end == 0:
			st = InForce
		case i == last:
			st = CodeRetired
		}
		rows = append(rows, r.row(code, province, e.Name, e.Year, end, st, true))
	}
	return rows, missing
}

// Latest：紧凑形式，每个代码一行，取最近的非缺失区间，早先区间记入 History
// 约束：标志仅对未弃用代码计算
func (r *Resolver) Latest(code areacode.Code) (Row, bool, *areaerr.MissingParentError) {
	rec, ok := r.ledger.Get(code)
	if !ok {
		return Row{}, false, nil
	}
	province, missing := r.province(code)
	entries := rec.Entries
	p := len(entries) - 1
	for p >= 0 && entries[p].Absent {
		p--
	}
	if p < 0 {
		return Row{}, false, missing
	}
	end, st := 0, InForce
	if p+1 < len(entries) {
		end, st = entries[p+1].Year, CodeRetired
	}
	row := r.row(code, province, entries[p].Name, entries[p].Year, end, st, !rec.Deprecated)
	for i := 0; i < p; i++ {
		if entries[i].Absent {
			continue
		}
		row.History = append(row.History, Interval{Name: entries[i].Name, Start: entries[i].Year, End: entries[i+1].Year})
	}
	return row, true, missing
}

// Resolve：并发解析全部代码，按代码升序输出
// 约束：台账必须已封存；缺失上级不会中断解析，汇总在 Result.Missing 中
func (r *Resolver) Resolve(ctx context.Context, form Form) (*Result, error) {
	if !r.ledger.Sealed() {
		return nil, areaerr.ErrNotSealed
	}
	codes := r.ledger.Codes()
	parts := make([][]Row, len(codes))
	missing := make([]*areaerr.MissingParentError, len(codes))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	var mu sync.Mutex
	next := 0
	for w := 0; w < r.workers; w++ {
		g.Go(func() error {
			for {
				if err := gctx.Err(); err != nil {
					return err
				}
				mu.Lock()
				i := next
				next++
				mu.Unlock()
				if i >= len(codes) {
					return nil
				}
				switch form {
				case Compact:
					row, ok, m := r.Latest(codes[i])
					if ok {
						parts[i] = []Row{row}
					}
					missing[i] = m
				default:
					parts[i], missing[i] = r.Expand(codes[i])
				}
			}
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &Result{Rows: make([]Row, 0, len(codes))}
	for i := range codes {
		res.Rows = append(res.Rows, parts[i]...)
		if m := missing[i]; m != nil {
			res.Missing = append(res.Missing, m)
			metrics.MissingParentsTotal.WithLabelValues("province").Inc()
			logger.L().Warn("missing_parent", "code", m.Code.String(), "parent", m.Parent.String())
		}
	}
	logger.L().Info("resolve_done", "codes", len(codes), "rows", len(res.Rows), "missing_parents", len(res.Missing))
	return res, nil
}
