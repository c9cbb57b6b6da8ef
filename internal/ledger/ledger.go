// 包 ledger：按代码保存变更历史的台账，合并阶段单写、解析阶段只读
package ledger

import (
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"areacodes/internal/areacode"
	"areacodes/internal/areaerr"
)

// Change：一次 Upsert 对记录造成的影响
type Change int

const (
	Unchanged Change = iota
	Created
	Renamed
	Reactivated
)

func (c Change) String() string {
	switch c {
	case Created:
		return "created"
	case Renamed:
		return "renamed"
	case Reactivated:
		return "reactivated"
	}
	return "unchanged"
}

// Ledger：代码 -> 历史记录
// 约束：不同代码之间互不影响，同一年内可按代码并发调用 Upsert / MarkDeprecated；
// 新代码插入在写锁下完成，同一代码的首次插入以先到者为准
type Ledger struct {
	mu       sync.RWMutex
	records  map[areacode.Code]*AreaRecord
	lastYear int
	started  bool
	sealed   atomic.Bool
}

func New() *Ledger {
	return &Ledger{records: make(map[areacode.Code]*AreaRecord, 8192)}
}

// Get：读取记录；返回的指针在封存后只读，合并期间仅供本代码的调用方使用
func (l *Ledger) Get(code areacode.Code) (*AreaRecord, bool) {
	l.mu.RLock()
	r, ok := l.records[code]
	l.mu.RUnlock()
	return r, ok
}

// BeginYear：校验即将合并的年份，不登记
// 约束：年份必须严格大于最近一次 CommitYear 的年份；不支持乱序穿插快照
func (l *Ledger) BeginYear(year int) error {
	if l.sealed.Load() {
		return areaerr.ErrSealed
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.started && year <= l.lastYear {
		return fmt.Errorf("%w: %d after %d", areaerr.ErrOutOfOrder, year, l.lastYear)
	}
	return nil
}

// CommitYear：两遍合并都完成后登记年份；失败的年份不占用年份号
func (l *Ledger) CommitYear(year int) error {
	if err := l.BeginYear(year); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lastYear = year
	l.started = true
	return nil
}

// LastYear：最近一次 CommitYear 登记的年份
func (l *Ledger) LastYear() (int, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.lastYear, l.started
}

// Upsert：不存在则以 (name, year) 新建；存在则清除弃用标记，名称与末条不同时追加
func (l *Ledger) Upsert(code areacode.Code, name string, year int) (Change, error) {
	if l.sealed.Load() {
		return Unchanged, areaerr.ErrSealed
	}
	r, ok := l.Get(code)
	if !ok {
		l.mu.Lock()
		r, ok = l.records[code]
		if !ok {
			l.records[code] = &AreaRecord{Code: code, Entries: []Entry{Present(name, year)}}
			l.mu.Unlock()
			return Created, nil
		}
		l.mu.Unlock()
	}
	last := r.Last()
	if year < last.Year {
		return Unchanged, fmt.Errorf("%w: %s at %d after %d", areaerr.ErrOutOfOrder, code, year, last.Year)
	}
	change := Unchanged
	if !last.Absent && last.Name != name {
		change = Renamed
	}
	if last.Absent {
		change = Reactivated
	}
	r.Deprecated = false
	if change != Unchanged {
		r.Entries = append(r.Entries, Present(name, year))
	}
	return change, nil
}

// MarkDeprecated：已弃用或不存在时为空操作；否则追加缺失记录并置弃用
func (l *Ledger) MarkDeprecated(code areacode.Code, year int) (bool, error) {
	if l.sealed.Load() {
		return false, areaerr.ErrSealed
	}
	r, ok := l.Get(code)
	if !ok || r.Deprecated {
		return false, nil
	}
	if year < r.Last().Year {
		return false, fmt.Errorf("%w: %s at %d after %d", areaerr.ErrOutOfOrder, code, year, r.Last().Year)
	}
	r.Entries = append(r.Entries, Absent(year))
	r.Deprecated = true
	return true, nil
}

// Codes：全部代码，升序
func (l *Ledger) Codes() []areacode.Code {
	l.mu.RLock()
	out := make([]areacode.Code, 0, len(l.records))
	for c := range l.records {
		out = append(out, c)
	}
	l.mu.RUnlock()
	slices.Sort(out)
	return out
}

func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}

// Seal：结束合并阶段；此后所有写操作返回 ErrSealed
func (l *Ledger) Seal() { l.sealed.Store(true) }

func (l *Ledger) Sealed() bool { return l.sealed.Load() }
