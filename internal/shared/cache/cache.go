// Package cache wraps the Redis read-through pattern used for small master
// data lists.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	// DepartmentsKey holds the sorted distinct employee departments. It is
	// read by both the employee and holiday modules.
	DepartmentsKey = "employees:departments"
	DepartmentsTTL = time.Hour
)

type Loader struct {
	rdb    *redis.Client
	sf     singleflight.Group
	logger *zap.Logger
}

// NewLoader accepts a nil client; every call then goes straight to load.
func NewLoader(rdb *redis.Client, logger ...*zap.Logger) *Loader {
	l := zap.L().Named("cache")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("cache")
	}
	return &Loader{rdb: rdb, logger: l}
}

// GetOrLoad returns the cached value for key, or loads it once per key
// across concurrent callers and stores it for ttl.
func GetOrLoad[T any](ctx context.Context, l *Loader, key string, ttl time.Duration, load func(ctx context.Context) (T, error)) (T, error) {
	if l.rdb != nil {
		cached, err := l.rdb.Get(ctx, key).Bytes()
		switch {
		case err == nil:
			var v T
			if json.Unmarshal(cached, &v) == nil {
				return v, nil
			}
		case !errors.Is(err, redis.Nil):
			l.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		}
	}

	v, err, _ := l.sf.Do(key, func() (any, error) {
		val, err := load(ctx)
		if err != nil {
			return nil, err
		}
		if l.rdb != nil {
			if data, err := json.Marshal(val); err == nil {
				if err := l.rdb.Set(ctx, key, data, ttl).Err(); err != nil {
					l.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
				}
			}
		}
		return val, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

func (l *Loader) Invalidate(ctx context.Context, keys ...string) {
	if l.rdb == nil || len(keys) == 0 {
		return
	}
	if err := l.rdb.Del(ctx, keys...).Err(); err != nil {
		l.logger.Error("cache invalidate failed", zap.Strings("keys", keys), zap.Error(err))
	}
}
