package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	SnapshotsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "areacodes_snapshots_total",
		Help: "Total number of yearly snapshots merged",
	})
	SnapshotCodes = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "areacodes_snapshot_codes",
		Help: "Number of codes in the most recently merged snapshot",
	})
	ChangesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "areacodes_changes_total",
		Help: "Ledger changes applied by kind (created, renamed, reactivated, deprecated)",
	}, []string{"kind"})
	MergeDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "areacodes_merge_duration_ms",
		Help:    "Per-year merge duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000},
	})
	LedgerCodes = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "areacodes_ledger_codes",
		Help: "Number of codes tracked by the ledger",
	})
	MissingParentsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "areacodes_missing_parents_total",
		Help: "Resolved rows whose implied parent is absent from the ledger",
	}, []string{"level"})
	ReportRowsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "areacodes_report_rows_total",
		Help: "Rows written per report",
	}, []string{"report"})
)

func init() {
	prometheus.MustRegister(SnapshotsTotal)
	prometheus.MustRegister(SnapshotCodes)
	prometheus.MustRegister(ChangesTotal)
	prometheus.MustRegister(MergeDurationMs)
	prometheus.MustRegister(LedgerCodes)
	prometheus.MustRegister(MissingParentsTotal)
	prometheus.MustRegister(ReportRowsTotal)
}

// WriteTextfile：将默认注册表写为 node_exporter textfile 格式
// 背景：批处理进程不常驻，不暴露 /metrics，改为运行结束后落盘供采集
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
