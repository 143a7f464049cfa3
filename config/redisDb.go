package config

import (
	"context"
	"sync"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

var (
	rdb     *redis.Client
	locker  *redislock.Client
	redisMu sync.RWMutex
)

func GetRedisDB() *redis.Client {
	redisMu.RLock()
	defer redisMu.RUnlock()
	return rdb
}

func GetRedisLock() *redislock.Client {
	redisMu.RLock()
	defer redisMu.RUnlock()
	return locker
}

// ConnectRedisWithRetry connects and sets the global Redis client + lock client.
// Call this from main() AFTER the HTTP server is listening. It gives up when
// ctx is cancelled.
func ConnectRedisWithRetry(ctx context.Context, redisAddr string) error {
	logger := GetLogger()
	if redisAddr == "" {
		redisAddr = "localhost:6379"
		logger.WithFields(logrus.Fields{"field": "redis"}).Warn("REDIS_ADDRESS not set; defaulting to " + redisAddr)
	}

	var attempt int
	for {
		attempt++
		client := redis.NewClient(&redis.Options{
			Addr:     redisAddr,
			Password: "",
			DB:       0, // use default DB
			PoolSize: 100,
		})
		err := client.Ping(ctx).Err()
		if err == nil {
			redisMu.Lock()
			rdb = client
			locker = redislock.New(client)
			redisMu.Unlock()
			logger.WithFields(logrus.Fields{
				"field":   "redis",
				"attempt": attempt,
				"addr":    redisAddr,
			}).Info("connected to redis")
			return nil
		}
		_ = client.Close()

		sleep := backoff(attempt)
		logger.WithFields(logrus.Fields{
			"field":   "redis",
			"attempt": attempt,
			"addr":    redisAddr,
		}).Warn("failed to connect redis; retrying in " + sleep.String() + ": " + err.Error())
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(sleep):
		}
	}
}

// CloseRedis closes the global client (best-effort).
func CloseRedis() {
	redisMu.Lock()
	defer redisMu.Unlock()
	if rdb != nil {
		_ = rdb.Close()
		rdb = nil
		locker = nil
	}
}

// backoff is 2^attempt seconds capped at 30s.
func backoff(attempt int) time.Duration {
	sleep := time.Second * time.Duration(1<<min(attempt, 5))
	if sleep > 30*time.Second {
		sleep = 30 * time.Second
	}
	return sleep
}
