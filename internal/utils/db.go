// 包 utils：PostgreSQL / Redis 连接工具，统一环境变量读取
package utils

import (
	"database/sql"
	"os"
	"strconv"

	_ "github.com/lib/pq"
)

func OpenPostgres(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	return db, nil
}

// PostgresEnv：连接参数，零值字段使用默认值
type PostgresEnv struct {
	Host, Port, User, Password, DB, SSLMode string
}

func postgresEnv() PostgresEnv {
	return PostgresEnv{
		Host:     os.Getenv("PG_HOST"),
		Port:     os.Getenv("PG_PORT"),
		User:     os.Getenv("PG_USER"),
		Password: os.Getenv("PG_PASSWORD"),
		DB:       os.Getenv("PG_DB"),
		SSLMode:  os.Getenv("PG_SSLMODE"),
	}
}

// DSN：拼接 postgres:// 连接串
func (p PostgresEnv) DSN() string {
	host := p.Host
	if host == "" {
		host = "localhost"
	}
	port := p.Port
	if port == "" {
		port = "5432"
	}
	user := p.User
	if user == "" {
		user = "postgres"
	}
	db := p.DB
	if db == "" {
		db = "areacodes"
	}
	ssl := p.SSLMode
	if ssl == "" {
		ssl = "disable"
	}
	dsn := "postgres://" + user
	if p.Password != "" {
		dsn += ":" + p.Password
	}
	dsn += "@" + host + ":" + port + "/" + db + "?sslmode=" + ssl
	return dsn
}

func BuildPostgresDSNFromEnv() string { return postgresEnv().DSN() }

// OpenPostgresFromEnv：按 PG_* 环境变量打开连接池
// 约束：PG_MAX_OPEN_CONNS / PG_MAX_IDLE_CONNS 解析失败时保留默认值
func OpenPostgresFromEnv() (*sql.DB, error) {
	db, err := OpenPostgres(BuildPostgresDSNFromEnv())
	if err != nil {
		return nil, err
	}
	if v := os.Getenv("PG_MAX_OPEN_CONNS"); v != "" {
		if n, e := strconv.Atoi(v); e == nil {
			db.SetMaxOpenConns(n)
		}
	}
	if v := os.Getenv("PG_MAX_IDLE_CONNS"); v != "" {
		if n, e := strconv.Atoi(v); e == nil {
			db.SetMaxIdleConns(n)
		}
	}
	return db, nil
}
