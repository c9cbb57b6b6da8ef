// 包 snapshot：年度快照（代码 -> 名称）及其数据源
// 背景：快照可来自目录下的 <年份>.txt 文件，也可来自预先导入的 PostgreSQL / Redis
package snapshot

import (
	"context"
	"slices"

	"areacodes/internal/areacode"
)

// Snapshot：某一年的完整代码表；同一代码重复出现时后者覆盖前者
type Snapshot struct {
	Year   int
	Source string
	Names  map[areacode.Code]string
}

func New(year int, source string) *Snapshot {
	return &Snapshot{Year: year, Source: source, Names: make(map[areacode.Code]string, 4096)}
}

// Put：写入代码名称，返回是否覆盖了已有值
func (s *Snapshot) Put(code areacode.Code, name string) bool {
	_, dup := s.Names[code]
	s.Names[code] = name
	return dup
}

func (s *Snapshot) Has(code areacode.Code) bool {
	_, ok := s.Names[code]
	return ok
}

func (s *Snapshot) Len() int { return len(s.Names) }

// Codes：升序代码列表
func (s *Snapshot) Codes() []areacode.Code {
	out := make([]areacode.Code, 0, len(s.Names))
	for c := range s.Names {
		out = append(out, c)
	}
	slices.Sort(out)
	return out
}

// Source：按年份提供快照
// 约束：Years 升序返回；Load 对每个年份只会被调用一次，且按升序调用
type Source interface {
	Years(ctx context.Context) ([]int, error)
	Load(ctx context.Context, year int) (*Snapshot, error)
}
