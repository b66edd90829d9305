package reportstore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/park285/Cheese-TimePressure/internal/domain"
	"github.com/redis/go-redis/v9"
)

const defaultCacheTTL = 24 * time.Hour

// Cache keeps finished reports in Redis, keyed by input content and options.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewCache(rdb *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &Cache{rdb: rdb, ttl: ttl}
}

// Dial connects to redisURL and pings it.
func Dial(ctx context.Context, redisURL string, ttl time.Duration) (*Cache, error) {
	if strings.TrimSpace(redisURL) == "" {
		return nil, fmt.Errorf("REDIS_URL required for report cache")
	}
	opts, err := parseRedisURL(redisURL)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return NewCache(rdb, ttl), nil
}

func (c *Cache) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

// Key는 PGN 내용과 분류 옵션(threshold, window)으로 캐시 키를 만든다.
func Key(pgn []byte, threshold, window int) string {
	h := sha256.New()
	h.Write(pgn)
	fmt.Fprintf(h, "|%d|%d", threshold, window)
	return "tp:report:" + hex.EncodeToString(h.Sum(nil))
}

// Get returns nil, nil on a miss.
func (c *Cache) Get(ctx context.Context, key string) (*domain.Report, error) {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	var rep domain.Report
	if err := json.Unmarshal(raw, &rep); err != nil {
		return nil, fmt.Errorf("decode cached report: %w", err)
	}
	return &rep, nil
}

func (c *Cache) Put(ctx context.Context, key string, rep *domain.Report) error {
	if rep == nil {
		return fmt.Errorf("nil report")
	}
	raw, err := json.Marshal(rep)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return c.rdb.Set(ctx, key, raw, c.ttl).Err()
}

// parseRedisURL accepts redis:// and rediss:// (TLS) URLs with optional user, password and db.
func parseRedisURL(raw string) (*redis.Options, error) {
	opts, err := redis.ParseURL(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return opts, nil
}
