package livesource

import (
	"context"
	"encoding/json"
	"errors"
	"slices"
	"sync"

	"bitbucket.org/mmdatafocus/dashboard_backend/config"
	"bitbucket.org/mmdatafocus/dashboard_backend/listing"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Key is where a screen's live collection is stored in redis.
func Key(prefix, screen string) string {
	return prefix + ":" + screen
}

// RedisSource reads a screen's live collection, stored as one JSON array.
// When redis is unreachable it serves the last good snapshot.
type RedisSource[R listing.Record] struct {
	client redis.Cmdable
	key    string
	logger *logrus.Logger

	mu   sync.Mutex
	last []R
}

func NewRedisSource[R listing.Record](client redis.Cmdable, prefix, screen string, logger *logrus.Logger) *RedisSource[R] {
	if logger == nil {
		logger = config.GetLogger()
	}
	return &RedisSource[R]{client: client, key: Key(prefix, screen), logger: logger}
}

func (s *RedisSource[R]) Snapshot(ctx context.Context) []R {
	if s == nil || s.client == nil {
		return nil
	}
	raw, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		s.remember(nil)
		return nil
	}
	if err != nil {
		config.LogError(s.logger, "livesource", "RedisSource.Snapshot", "GET "+s.key, nil, err)
		return s.lastGood()
	}

	var records []R
	if err := json.Unmarshal(raw, &records); err != nil {
		config.LogError(s.logger, "livesource", "RedisSource.Snapshot", "decode "+s.key, string(raw), err)
		return s.lastGood()
	}
	s.remember(records)
	return records
}

func (s *RedisSource[R]) remember(records []R) {
	s.mu.Lock()
	s.last = records
	s.mu.Unlock()
}

func (s *RedisSource[R]) lastGood() []R {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.last)
}
