package snapshot

import (
	"context"
	"strconv"

	"github.com/redis/go-redis/v9"

	"areacodes/internal/areacode"
	"areacodes/internal/areaerr"
)

// DefaultRedisPrefix：Redis 键前缀
const DefaultRedisPrefix = "areacodes:"

// RedisKeys：年份集合与年度哈希的键名
// 约束：<prefix>years 为有序集合（score 为年份），<prefix>snapshot:<year> 为 code -> name 哈希
type RedisKeys struct {
	Prefix string
}

func (k RedisKeys) prefix() string {
	if k.Prefix == "" {
		return DefaultRedisPrefix
	}
	return k.Prefix
}

func (k RedisKeys) Years() string { return k.prefix() + "years" }

func (k RedisKeys) Snapshot(year int) string {
	return k.prefix() + "snapshot:" + strconv.Itoa(year)
}

// RedisSource：从 Redis 读取快照
type RedisSource struct {
	Client *redis.Client
	Keys   RedisKeys
}

func (s *RedisSource) Years(ctx context.Context) ([]int, error) {
	members, err := s.Client.ZRangeByScore(ctx, s.Keys.Years(), &redis.ZRangeBy{Min: "-inf", Max: "+inf"}).Result()
	if err != nil {
		return nil, &areaerr.IOError{Op: "zrange", Path: s.Keys.Years(), Err: err}
	}
	years := make([]int, 0, len(members))
	for _, m := range members {
		y, err := strconv.Atoi(m)
		if err != nil || y <= 0 {
			return nil, &areaerr.ParseError{Source: s.Keys.Years(), Text: m, Reason: "non-numeric year"}
		}
		years = append(years, y)
	}
	return years, nil
}

func (s *RedisSource) Load(ctx context.Context, year int) (*Snapshot, error) {
	key := s.Keys.Snapshot(year)
	m, err := s.Client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, &areaerr.IOError{Op: "hgetall", Path: key, Err: err}
	}
	snap := New(year, key)
	for field, name := range m {
		code, ok := areacode.Parse(field)
		if !ok {
			return nil, &areaerr.ParseError{Source: key, Text: field, Reason: "invalid code"}
		}
		if name == "" {
			return nil, &areaerr.ParseError{Source: key, Text: field, Reason: "empty name"}
		}
		snap.Put(code, name)
	}
	return snap, nil
}
