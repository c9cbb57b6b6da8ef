// 包 config：从环境变量读取运行配置；.env 由入口通过 godotenv 预先加载
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"areacodes/internal/hierarchy"
	"areacodes/internal/merge"
)

// 快照来源 / 暂存目标
const (
	SourceDir      = "dir"
	SourcePostgres = "postgres"
	SourceRedis    = "redis"
)

type Config struct {
	Source          string
	DataDir         string
	Encoding        string
	ResultCSV       string
	ResultTXT       string
	Form            hierarchy.Form
	Workers         int
	MetricsTextfile string
	LoadTarget      string
}

// LookupFunc：与 os.LookupEnv 同签名，测试中以 map 代替
type LookupFunc func(key string) (string, bool)

// FromEnv：读取进程环境
func FromEnv() (*Config, error) { return Load(os.LookupEnv) }

// Load：按 lookup 读取配置并校验
// 约束：RESULT_TXT 显式设为空串表示不输出文本转储；其余变量为空等同未设置
func Load(lookup LookupFunc) (*Config, error) {
	get := func(key, def string) string {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return def
	}
	c := &Config{
		Source:          strings.ToLower(get("SNAPSHOT_SOURCE", SourceDir)),
		DataDir:         get("DATA_DIR", "data"),
		Encoding:        strings.ToLower(get("SNAPSHOT_ENCODING", "utf-8")),
		ResultCSV:       get("RESULT_CSV", "result.csv"),
		ResultTXT:       get("RESULT_TXT", "result.txt"),
		MetricsTextfile: get("METRICS_TEXTFILE", ""),
		LoadTarget:      strings.ToLower(get("LOAD_TARGET", SourcePostgres)),
		Workers:         merge.DefaultWorkers,
	}
	if v, ok := lookup("RESULT_TXT"); ok && strings.TrimSpace(v) == "" {
		c.ResultTXT = ""
	}

	switch c.Source {
	case SourceDir, SourcePostgres, SourceRedis:
	default:
		return nil, fmt.Errorf("SNAPSHOT_SOURCE: unknown source %q", c.Source)
	}
	switch c.LoadTarget {
	case SourcePostgres, SourceRedis:
	default:
		return nil, fmt.Errorf("LOAD_TARGET: unknown target %q", c.LoadTarget)
	}
	form, err := hierarchy.ParseForm(get("REPORT_FORM", "expanded"))
	if err != nil {
		return nil, fmt.Errorf("REPORT_FORM: %w", err)
	}
	c.Form = form
	if v := get("MERGE_WORKERS", ""); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("MERGE_WORKERS: must be a positive integer, got %q", v)
		}
		c.Workers = n
	}
	if c.ResultCSV == c.ResultTXT {
		return nil, fmt.Errorf("RESULT_CSV and RESULT_TXT point to the same file %q", c.ResultCSV)
	}
	return c, nil
}
