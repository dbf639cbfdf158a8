package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/learnhub/learnhub-backend/internal/platform/envutil"
	"github.com/learnhub/learnhub-backend/internal/platform/logger"
	"github.com/learnhub/learnhub-backend/internal/types"
)

// CatalogCache keeps the one-shot published-course snapshot warm between
// catalog requests. Misses fall through to postgres; writes invalidate.
type CatalogCache interface {
	GetCourses(ctx context.Context) ([]*types.Course, bool)
	SetCourses(ctx context.Context, courses []*types.Course)
	Invalidate(ctx context.Context)
	Close() error
}

const catalogKey = "catalog:published"

type catalogCache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

func NewCatalogCache(log *logger.Logger) (CatalogCache, error) {
	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &catalogCache{
		log: log.With("service", "CatalogCache"),
		rdb: rdb,
		ttl: time.Duration(envutil.Int("CATALOG_CACHE_TTL_SECONDS", 60)) * time.Second,
	}, nil
}

func (c *catalogCache) GetCourses(ctx context.Context) ([]*types.Course, bool) {
	raw, err := c.rdb.Get(ctx, catalogKey).Bytes()
	if err != nil {
		if err != goredis.Nil {
			c.log.Warn("catalog cache read failed", "error", err)
		}
		return nil, false
	}
	var courses []*types.Course
	if err := json.Unmarshal(raw, &courses); err != nil {
		c.log.Warn("catalog cache payload corrupt, dropping", "error", err)
		_ = c.rdb.Del(ctx, catalogKey).Err()
		return nil, false
	}
	return courses, true
}

func (c *catalogCache) SetCourses(ctx context.Context, courses []*types.Course) {
	raw, err := json.Marshal(courses)
	if err != nil {
		c.log.Warn("catalog cache encode failed", "error", err)
		return
	}
	if err := c.rdb.Set(ctx, catalogKey, raw, c.ttl).Err(); err != nil {
		c.log.Warn("catalog cache write failed", "error", err)
	}
}

func (c *catalogCache) Invalidate(ctx context.Context) {
	if err := c.rdb.Del(ctx, catalogKey).Err(); err != nil {
		c.log.Warn("catalog cache invalidate failed", "error", err)
	}
}

func (c *catalogCache) Close() error {
	return c.rdb.Close()
}
