// 包 ingest：把快照目录导入 PostgreSQL 或 Redis 暂存，作为离线数据通道
// 背景：导入后的暂存数据可直接作为 SNAPSHOT_SOURCE=postgres/redis 的输入
package ingest

import (
	"context"
	"strconv"

	"github.com/redis/go-redis/v9"

	"areacodes/internal/areaerr"
	"areacodes/internal/logger"
	"areacodes/internal/snapshot"
	"areacodes/internal/store"
)

// Target：一年快照的写入目标
type Target interface {
	Name() string
	LoadYear(ctx context.Context, snap *snapshot.Snapshot) error
}

// PostgresTarget：整年替换写入 _area_snapshots
type PostgresTarget struct {
	Store *store.Store
}

func (t *PostgresTarget) Name() string { return "postgres" }

func (t *PostgresTarget) LoadYear(ctx context.Context, snap *snapshot.Snapshot) error {
	codes := snap.Codes()
	rows := make([]store.Row, len(codes))
	for i, c := range codes {
		rows[i] = store.Row{Code: int64(c), Name: snap.Names[c]}
	}
	if err := t.Store.ReplaceYear(ctx, snap.Year, rows); err != nil {
		return &areaerr.IOError{Op: "load", Path: "_area_snapshots@" + strconv.Itoa(snap.Year), Err: err}
	}
	return nil
}

// RedisTarget：年度哈希与年份有序集合
// 约束：DEL + HSET + ZADD 在同一个 MULTI 内执行，读取方不会看到半年数据
type RedisTarget struct {
	Client *redis.Client
	Keys   snapshot.RedisKeys
}

func (t *RedisTarget) Name() string { return "redis" }

func (t *RedisTarget) LoadYear(ctx context.Context, snap *snapshot.Snapshot) error {
	key := t.Keys.Snapshot(snap.Year)
	_, err := t.Client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, key)
		if fields := hashFields(snap); len(fields) > 0 {
			p.HSet(ctx, key, fields...)
		}
		p.ZAdd(ctx, t.Keys.Years(), redis.Z{Score: float64(snap.Year), Member: strconv.Itoa(snap.Year)})
		return nil
	})
	if err != nil {
		return &areaerr.IOError{Op: "load", Path: key, Err: err}
	}
	return nil
}

// hashFields：按代码升序展开为 HSET 参数 code, name, code, name, ...
func hashFields(snap *snapshot.Snapshot) []any {
	codes := snap.Codes()
	out := make([]any, 0, 2*len(codes))
	for _, c := range codes {
		out = append(out, c.String(), snap.Names[c])
	}
	return out
}

// Run：逐年读取 src 并写入 dst，返回已导入年份数
// 异常：任一年读取或写入失败立即返回，已写入的年份保持不变
func Run(ctx context.Context, src snapshot.Source, dst Target) (int, error) {
	l := logger.L()
	years, err := src.Years(ctx)
	if err != nil {
		return 0, err
	}
	l.Info("ingest_start", "target", dst.Name(), "years", len(years))
	done := 0
	for _, y := range years {
		snap, err := src.Load(ctx, y)
		if err != nil {
			return done, err
		}
		if err := dst.LoadYear(ctx, snap); err != nil {
			return done, err
		}
		done++
		l.Info("ingest_year_done", "target", dst.Name(), "year", y, "codes", snap.Len())
	}
	l.Info("ingest_done", "target", dst.Name(), "years", done)
	return done, nil
}
