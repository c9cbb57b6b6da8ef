package migrate

import (
	"context"
	"database/sql"

	"areacodes/internal/logger"
)

// EnsureSchema：首次运行自动创建快照暂存表
// 约束：使用 IF NOT EXISTS 避免与既有结构冲突；(year, code) 唯一，同年重复代码以后写入者为准
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS _area_snapshots (
            year INT NOT NULL,
            code INT NOT NULL,
            name TEXT NOT NULL,
            loaded_at TIMESTAMPTZ NOT NULL DEFAULT now(),
            PRIMARY KEY (year, code)
        )`,
		`CREATE INDEX IF NOT EXISTS idx_area_snapshots_code ON _area_snapshots(code)`,
	}
	for i, s := range stmts {
		logger.L().Debug("schema_exec", "idx", i)
		if _, err := db.ExecContext(ctx, s); err != nil {
			return err
		}
	}
	logger.L().Debug("schema_done")
	return nil
}
