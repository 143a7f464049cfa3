package livesource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

const (
	lockTTL     = 10 * time.Second
	lockBackoff = 50 * time.Millisecond
	lockRetries = 40
)

// RedisPublisher is the external writer of the collections RedisSource
// reads. Writes to one screen are serialised with a redis lock.
type RedisPublisher struct {
	client *redis.Client
	locker *redislock.Client
	prefix string
}

func NewRedisPublisher(client *redis.Client, locker *redislock.Client, prefix string) *RedisPublisher {
	if locker == nil && client != nil {
		locker = redislock.New(client)
	}
	return &RedisPublisher{client: client, locker: locker, prefix: prefix}
}

func (p *RedisPublisher) Publish(ctx context.Context, u Update) error {
	if p == nil || p.client == nil {
		return errors.New("redis publisher is not connected")
	}
	key := Key(p.prefix, u.Screen)

	lock, err := p.locker.Obtain(ctx, "lock:"+key, lockTTL, &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(lockBackoff), lockRetries),
	})
	if err != nil {
		return fmt.Errorf("obtain lock for %s: %w", key, err)
	}
	defer lock.Release(context.WithoutCancel(ctx))

	current, err := p.load(ctx, key)
	if err != nil {
		return err
	}
	next, err := applyRaw(current, u)
	if err != nil {
		return err
	}
	data, err := json.Marshal(next)
	if err != nil {
		return err
	}
	return p.client.Set(ctx, key, data, 0).Err()
}

func (p *RedisPublisher) load(ctx context.Context, key string) ([]json.RawMessage, error) {
	raw, err := p.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", key, err)
	}
	var records []json.RawMessage
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return records, nil
}

type idOnly struct {
	ID string `json:"id"`
}

func rawId(r json.RawMessage) (string, error) {
	var v idOnly
	if err := json.Unmarshal(r, &v); err != nil {
		return "", err
	}
	if v.ID == "" {
		return "", errors.New("record without id")
	}
	return v.ID, nil
}

// applyRaw applies u to records without knowing their type.
func applyRaw(records []json.RawMessage, u Update) ([]json.RawMessage, error) {
	switch u.Op {
	case OpRemove:
		return slices.DeleteFunc(slices.Clone(records), func(r json.RawMessage) bool {
			id, err := rawId(r)
			return err == nil && slices.Contains(u.Ids, id)
		}), nil
	case OpUpsert, OpReplace:
		var incoming []json.RawMessage
		if err := json.Unmarshal(u.Records, &incoming); err != nil {
			return nil, fmt.Errorf("decode %s records: %w", u.Screen, err)
		}
		var next []json.RawMessage
		if u.Op == OpUpsert {
			next = slices.Clone(records)
		}
		for _, in := range incoming {
			id, err := rawId(in)
			if err != nil {
				return nil, fmt.Errorf("%s record: %w", u.Screen, err)
			}
			i := slices.IndexFunc(next, func(cur json.RawMessage) bool {
				curId, err := rawId(cur)
				return err == nil && curId == id
			})
			if i >= 0 {
				next[i] = in
				continue
			}
			next = append(next, in)
		}
		return next, nil
	}
	return nil, ErrUnknownOp
}
