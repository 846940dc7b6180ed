package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"boothvoice/pkg/types"

	"github.com/go-redis/redis/v8"
)

const sessionKeyPrefix = "session:"

// RedisStore keeps sessions in redis so they survive process restarts.
// The key TTL doubles as the idle timeout, refreshed on every write.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(ctx context.Context, config *types.Config) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr,
		Password: config.RedisPassword,
		DB:       config.RedisDB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &RedisStore{client: client}, nil
}

func (s *RedisStore) Get(ctx context.Context, identity string) (*Session, error) {
	data, err := s.client.Get(ctx, sessionKeyPrefix+identity).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}

	// The TTL normally handles expiry; the timestamp check covers a key
	// whose TTL was lost (e.g. a restore from persistence).
	if sess.Expired(time.Now()) {
		return nil, nil
	}

	return &sess, nil
}

func (s *RedisStore) Put(ctx context.Context, identity string, sess *Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	if err := s.client.Set(ctx, sessionKeyPrefix+identity, data, IdleTimeout).Err(); err != nil {
		return fmt.Errorf("set session: %w", err)
	}

	return nil
}

func (s *RedisStore) Touch(ctx context.Context, identity string, now time.Time) error {
	sess, err := s.Get(ctx, identity)
	if err != nil || sess == nil {
		return err
	}

	sess.LastActive = now
	return s.Put(ctx, identity, sess)
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
