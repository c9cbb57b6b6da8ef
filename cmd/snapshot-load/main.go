// 数据导入工具：把 DATA_DIR 下的年度快照写入 PostgreSQL 或 Redis 暂存
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
	"areacodes/internal/ingest"
	"areacodes/internal/logger"
	"areacodes/internal/migrate"
	"areacodes/internal/snapshot"
	"areacodes/internal/store"
	"areacodes/internal/utils"
)

func main() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join("data", "env", ".env"))
	l := logger.Setup()
	if err := run(); err != nil {
		l.Error("ingest_error", "err", err)
		os.Exit(1)
	}
}

// run：返回前关闭连接并解除信号监听
func run() error {
	cfg, err := config.FromEnv()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	src, err := snapshot.NewDirSource(cfg.DataDir, cfg.Encoding)
	if err != nil {
		return fmt.Errorf("open %s: %w", cfg.DataDir, err)
	}

	var dst ingest.Target
	switch cfg.LoadTarget {
	case config.SourceRedis:
		rc := utils.OpenRedisFromEnv()
		defer rc.Close()
		if err := rc.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis ping: %w", err)
		}
		dst = &ingest.RedisTarget{Client: rc}
	default:
		db, err := utils.OpenPostgresFromEnv()
		if err != nil {
			return fmt.Errorf("db open: %w", err)
		}
		defer db.Close()
		if err := migrate.EnsureSchema(ctx, db); err != nil {
			return fmt.Errorf("schema: %w", err)
		}
		dst = &ingest.PostgresTarget{Store: store.AttachDB(db)}
	}

	n, err := ingest.Run(ctx, src, dst)
	if err != nil {
		return fmt.Errorf("loaded %d years before failure: %w", n, err)
	}
	return nil
}
