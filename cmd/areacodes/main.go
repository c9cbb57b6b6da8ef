// 程序入口：读取配置，逐年合并快照，解析层级并写出报表；任一步失败以非零状态退出
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"areacodes/internal/config"
	"areacodes/internal/hierarchy"
	"areacodes/internal/ledger"
	"areacodes/internal/logger"
	"areacodes/internal/merge"
	"areacodes/internal/metrics"
	"areacodes/internal/report"
	"areacodes/internal/snapshot"
	"areacodes/internal/store"
	"areacodes/internal/utils"
)

func main() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join("data", "env", ".env"))
	l := logger.Setup()
	if err := run(); err != nil {
		l.Error("run_error", "err", err)
		os.Exit(1)
	}
}

// run：一次完整的批处理；返回前执行全部 defer，报表只有在全部写成功后才落到目标路径
func run() error {
	l := logger.L()
	cfg, err := config.FromEnv()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	l.Debug("config_ok", "source", cfg.Source, "form", cfg.Form, "workers", cfg.Workers)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	src, closeSrc, err := openSource(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open %s source: %w", cfg.Source, err)
	}
	defer closeSrc()

	engine := merge.New(ledger.New(), cfg.Workers)
	if _, err := engine.Ingest(ctx, src); err != nil {
		return fmt.Errorf("merge: %w", err)
	}

	res, err := hierarchy.New(engine.Ledger(), cfg.Workers).Resolve(ctx, cfg.Form)
	if err != nil {
		return fmt.Errorf("resolve: %w", err)
	}

	if err := report.WriteAll(outputs(cfg, engine.Ledger(), res)...); err != nil {
		return fmt.Errorf("report: %w", err)
	}

	if cfg.MetricsTextfile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsTextfile); err != nil {
			return fmt.Errorf("metrics textfile %s: %w", cfg.MetricsTextfile, err)
		}
	}
	l.Info("run_done", "codes", engine.Ledger().Len(), "rows", len(res.Rows), "missing_parents", len(res.Missing))
	return nil
}

// outputs：CSV 报表，RESULT_TXT 非空时追加文本转储
func outputs(cfg *config.Config, l *ledger.Ledger, res *hierarchy.Result) []report.Output {
	outs := []report.Output{{Path: cfg.ResultCSV, Report: "csv", Write: report.CSV(cfg.Form, res.Rows)}}
	if cfg.ResultTXT != "" {
		outs = append(outs, report.Output{Path: cfg.ResultTXT, Report: "dump", Write: report.Dump(l)})
	}
	return outs
}

// openSource：按 SNAPSHOT_SOURCE 打开快照来源，返回的 close 负责释放连接
func openSource(ctx context.Context, cfg *config.Config) (snapshot.Source, func(), error) {
	l := logger.L()
	switch cfg.Source {
	case config.SourcePostgres:
		db, err := utils.OpenPostgresFromEnv()
		if err != nil {
			return nil, nil, err
		}
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		l.Info("db_ping_ok")
		return &snapshot.SQLSource{Store: store.AttachDB(db)}, func() { _ = db.Close() }, nil
	case config.SourceRedis:
		rc := utils.OpenRedisFromEnv()
		if err := rc.Ping(ctx).Err(); err != nil {
			_ = rc.Close()
			return nil, nil, err
		}
		l.Info("redis_ping_ok")
		return &snapshot.RedisSource{Client: rc}, func() { _ = rc.Close() }, nil
	}
	src, err := snapshot.NewDirSource(cfg.DataDir, cfg.Encoding)
	if err != nil {
		return nil, nil, err
	}
	return src, func() {}, nil
}
