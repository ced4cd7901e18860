package data

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ncobase/screener/data/config"
	"github.com/redis/go-redis/v9"
)

// newRedisClient creates a new Redis client and verifies it with a ping
func newRedisClient(ctx context.Context, conf *config.Redis) (*redis.Client, error) {
	if conf == nil || conf.Addr == "" {
		return nil, errors.New("redis configuration is nil or empty")
	}

	poolSize := conf.PoolSize
	if poolSize <= 0 {
		poolSize = 10
	}
	dialTimeout := conf.DialTimeout
	if dialTimeout <= 0 {
		dialTimeout = 5 * time.Second
	}

	rc := redis.NewClient(&redis.Options{
		Addr:        conf.Addr,
		Username:    conf.Username,
		Password:    conf.Password,
		DB:          conf.Db,
		ReadTimeout: conf.ReadTimeout,
		DialTimeout: dialTimeout,
		PoolSize:    poolSize,
	})

	pingCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()
	if err := rc.Ping(pingCtx).Err(); err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("redis connect error: %w", err)
	}

	return rc, nil
}
