// 包 store: 快照暂存表的数据访问层，供 PostgreSQL 快照源与导入工具使用
package store

import (
	"context"
	"database/sql"

	"areacodes/internal/logger"
)

// Store: 暂存表访问入口；连接池由 utils.OpenPostgresFromEnv 创建
type Store struct {
	db *sql.DB
}

func AttachDB(db *sql.DB) *Store { return &Store{db: db} }

// Row: 暂存表中的一行
type Row struct {
	Code int64
	Name string
}

// Years: 已导入的年份，升序
func (s *Store) Years(ctx context.Context) ([]int, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT DISTINCT year FROM _area_snapshots ORDER BY year")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []int
	for rows.Next() {
		var y int
		if err := rows.Scan(&y); err != nil {
			return nil, err
		}
		out = append(out, y)
	}
	return out, rows.Err()
}

// EachRow: 按代码顺序遍历某年快照；fn 返回错误时中止遍历
func (s *Store) EachRow(ctx context.Context, year int, fn func(Row) error) error {
	rows, err := s.db.QueryContext(ctx, "SELECT code, name FROM _area_snapshots WHERE year=$1 ORDER BY code", year)
	if err != nil {
		return err
	}
	defer rows.Close()
	n := 0
	for rows.Next() {
		var r Row
		if err := rows.Scan(&r.Code, &r.Name); err != nil {
			return err
		}
		if err := fn(r); err != nil {
			return err
		}
		n++
	}
	logger.L().Debug("db_snapshot_rows", "year", year, "rows", n)
	return rows.Err()
}

const upsertSnapshotRow = `INSERT INTO _area_snapshots(year, code, name) VALUES($1,$2,$3)
        ON CONFLICT (year, code) DO UPDATE SET name=EXCLUDED.name, loaded_at=now()`

// ReplaceYear: 在单个事务内清空并重写某年快照
// 约束：整年在单个事务内提交，暂存表中不会出现残缺年份
func (s *Store) ReplaceYear(ctx context.Context, year int, rows []Row) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx, "DELETE FROM _area_snapshots WHERE year=$1", year); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, upsertSnapshotRow)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i, r := range rows {
		if _, err := stmt.ExecContext(ctx, year, r.Code, r.Name); err != nil {
			return err
		}
		if (i+1)%5000 == 0 {
			logger.L().Info("db_load_progress", "year", year, "count", i+1)
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	logger.L().Info("db_load_year_done", "year", year, "rows", len(rows))
	return nil
}
