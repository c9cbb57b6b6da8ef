package hierarchy

import "areacodes/internal/ledger"

// LastNameIntersecting：上级在 [start, end) 内最近使用过的名称
// 背景：县级记录的每个名称区间需要对应当时的地级名称，上级自身可能多次更名或被撤销
// 约束：
// - end 为 0 表示区间仍在使用，直接取上级末条；末条为缺失记录时视为无匹配；
// - 末条在上级未弃用时只要起始早于 end 即命中；
// - 其余记录跳过缺失记录，按半开区间相交判定 [t_i, t_{i+1}) 与 [start, end)。
func LastNameIntersecting(parent *ledger.AreaRecord, start, end int) (string, bool) {
	entries := parent.Entries
	last := len(entries) - 1
	if end == 0 {
		if entries[last].Absent {
			return "", false
		}
		return entries[last].Name, true
	}
	for i := last; i >= 0; i-- {
		cur := entries[i]
		if i == last {
			if !parent.Deprecated && cur.Year < end {
				return cur.Name, true
			}
			continue
		}
		if cur.Absent {
			continue
		}
		next := entries[i+1].Year
		if (start >= cur.Year && start < next) || (cur.Year >= start && cur.Year < end) {
			return cur.Name, true
		}
	}
	return "", false
}
