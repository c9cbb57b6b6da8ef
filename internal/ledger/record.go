package ledger

import "areacodes/internal/areacode"

// AbsentMark：纯文本输出中表示“该期快照缺失此代码”的标记
const AbsentMark = "-"

// Entry：一条历史记录，Absent 为真时表示代码在该年份起缺失（不携带名称）
type Entry struct {
	Year   int
	Name   string
	Absent bool
}

// Present：构造带名称的历史记录
func Present(name string, year int) Entry { return Entry{Year: year, Name: name} }

// Absent：构造缺失记录
func Absent(year int) Entry { return Entry{Year: year, Absent: true} }

// Label：名称或缺失标记
func (e Entry) Label() string {
	if e.Absent {
		return AbsentMark
	}
	return e.Name
}

// AreaRecord：单个代码的完整变更历史（旧在前）
// 约束：Entries 至少一条；相邻两条名称不同；缺失记录只可能是 Deprecated 时的末条
type AreaRecord struct {
	Code       areacode.Code
	Entries    []Entry
	Deprecated bool
}

func (r *AreaRecord) Last() Entry { return r.Entries[len(r.Entries)-1] }

// Names：与 Times 等长的名称序列，缺失记录以 AbsentMark 表示
func (r *AreaRecord) Names() []string {
	out := make([]string, len(r.Entries))
	for i, e := range r.Entries {
		out[i] = e.Label()
	}
	return out
}

func (r *AreaRecord) Times() []int {
	out := make([]int, len(r.Entries))
	for i, e := range r.Entries {
		out[i] = e.Year
	}
	return out
}

// CurrentName：最近一条有名称的记录；已弃用的代码返回弃用前的名称
func (r *AreaRecord) CurrentName() (string, bool) {
	for i := len(r.Entries) - 1; i >= 0; i-- {
		if !r.Entries[i].Absent {
			return r.Entries[i].Name, true
		}
	}
	return "", false
}

func (r *AreaRecord) Clone() *AreaRecord {
	c := *r
	c.Entries = append([]Entry(nil), r.Entries...)
	return &c
}
