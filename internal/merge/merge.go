// 包 merge：将年度快照按年份顺序合并进台账
// 背景：同一年内先执行弃用遍历再执行更新遍历，两遍都以本年合并前的台账为准；
// 每一遍内部各代码互不影响，可并发执行；年份之间严格串行
package merge

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"areacodes/internal/areacode"
	"areacodes/internal/ledger"
	"areacodes/internal/logger"
	"areacodes/internal/metrics"
	"areacodes/internal/snapshot"
)

const DefaultWorkers = 8

// Stats：一年合并的统计
type Stats struct {
	Year        int
	Codes       int
	Created     int
	Renamed     int
	Reactivated int
	Deprecated  int
	Unchanged   int
}

// Engine：合并引擎，持有台账的唯一写入权
type Engine struct {
	ledger  *ledger.Ledger
	workers int
}

// New：workers <= 0 时使用 DefaultWorkers
func New(l *ledger.Ledger, workers int) *Engine {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Engine{ledger: l, workers: workers}
}

func (e *Engine) Ledger() *ledger.Ledger { return e.ledger }

// Apply：合并一年快照
// 约束：年份必须大于上一次合并的年份；弃用遍历完成后才开始更新遍历；
// 两遍都成功后才登记年份，失败的年份可以重新合并
func (e *Engine) Apply(ctx context.Context, snap *snapshot.Snapshot) (Stats, error) {
	st := Stats{Year: snap.Year, Codes: snap.Len()}
	if err := e.ledger.BeginYear(snap.Year); err != nil {
		return st, err
	}
	start := time.Now()

	var deprecated atomic.Int64
	err := e.fanOut(ctx, e.ledger.Codes(), func(code areacode.Code) error {
		if snap.Has(code) {
			return nil
		}
		ok, err := e.ledger.MarkDeprecated(code, snap.Year)
		if ok {
			deprecated.Add(1)
		}
		return err
	})
	if err != nil {
		return st, err
	}

	var counts [4]atomic.Int64
	err = e.fanOut(ctx, snap.Codes(), func(code areacode.Code) error {
		change, err := e.ledger.Upsert(code, snap.Names[code], snap.Year)
		if err != nil {
			return err
		}
		counts[change].Add(1)
		return nil
	})
	if err != nil {
		return st, err
	}
	if err := e.ledger.CommitYear(snap.Year); err != nil {
		return st, err
	}

	st.Deprecated = int(deprecated.Load())
	st.Created = int(counts[ledger.Created].Load())
	st.Renamed = int(counts[ledger.Renamed].Load())
	st.Reactivated = int(counts[ledger.Reactivated].Load())
	st.Unchanged = int(counts[ledger.Unchanged].Load())

	metrics.SnapshotsTotal.Inc()
	metrics.SnapshotCodes.Set(float64(st.Codes))
	metrics.LedgerCodes.Set(float64(e.ledger.Len()))
	metrics.ChangesTotal.WithLabelValues("created").Add(float64(st.Created))
	metrics.ChangesTotal.WithLabelValues("renamed").Add(float64(st.Renamed))
	metrics.ChangesTotal.WithLabelValues("reactivated").Add(float64(st.Reactivated))
	metrics.ChangesTotal.WithLabelValues("deprecated").Add(float64(st.Deprecated))
	metrics.MergeDurationMs.Observe(float64(time.Since(start).Milliseconds()))
	return st, nil
}

// fanOut：将代码切分为 workers 份并发处理；任一份出错即取消其余份
func (e *Engine) fanOut(ctx context.Context, codes []areacode.Code, fn func(areacode.Code) error) error {
	if e.workers == 1 || len(codes) < e.workers*4 {
		for _, c := range codes {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := fn(c); err != nil {
				return err
			}
		}
		return nil
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	size := (len(codes) + e.workers - 1) / e.workers
	for lo := 0; lo < len(codes); lo += size {
		part := codes[lo:min(lo+size, len(codes))]
		g.Go(func() error {
			for _, c := range part {
				if err := gctx.Err(); err != nil {
					return err
				}
				if err := fn(c); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return g.Wait()
}

// Ingest：按升序读取数据源的全部年份并逐年合并，结束后封存台账
// 异常：读取、解析或合并任一失败立即返回，不跳过坏年份
func (e *Engine) Ingest(ctx context.Context, src snapshot.Source) ([]Stats, error) {
	l := logger.L()
	years, err := src.Years(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Stats, 0, len(years))
	for _, y := range years {
		snap, err := src.Load(ctx, y)
		if err != nil {
			return out, err
		}
		st, err := e.Apply(ctx, snap)
		if err != nil {
			return out, err
		}
		out = append(out, st)
		l.Info("merge_year_done",
			"year", st.Year,
			"codes", st.Codes,
			"created", st.Created,
			"renamed", st.Renamed,
			"reactivated", st.Reactivated,
			"deprecated", st.Deprecated,
		)
	}
	e.ledger.Seal()
	l.Info("merge_done", "years", len(out), "ledger_codes", e.ledger.Len())
	return out, nil
}
