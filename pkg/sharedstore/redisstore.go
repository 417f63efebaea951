package sharedstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/davidmorenoc/desayunos-backend/pkg/logger"
	"github.com/davidmorenoc/desayunos-backend/pkg/redis"
)

// RedisStore persists records as JSON under namespaced keys and pushes every
// written snapshot on a per-path pub/sub channel.
type RedisStore struct {
	client *redis.Client
	logg   *logger.Logger
}

func NewRedisStore(client *redis.Client, logg *logger.Logger) (*RedisStore, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client required")
	}
	return &RedisStore{client: client, logg: logg}, nil
}

func (s *RedisStore) Write(ctx context.Context, path string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	if err := s.client.Set(ctx, s.client.GroupKey(path), string(raw), 0); err != nil {
		return fmt.Errorf("write record: %w", err)
	}
	if err := s.client.Publish(ctx, s.client.ChannelKey(path), string(raw)); err != nil {
		return fmt.Errorf("publish snapshot: %w", err)
	}
	return nil
}

func (s *RedisStore) Read(ctx context.Context, path string, out any) error {
	raw, err := s.client.Get(ctx, s.client.GroupKey(path))
	if err != nil {
		if redis.IsNil(err) {
			return ErrNotFound
		}
		return fmt.Errorf("read record: %w", err)
	}
	return json.Unmarshal([]byte(raw), out)
}

func (s *RedisStore) Delete(ctx context.Context, path string) error {
	return s.client.Del(ctx, s.client.GroupKey(path))
}

func (s *RedisStore) List(ctx context.Context) ([]string, error) {
	keys, err := s.client.Keys(ctx, s.client.GroupKeyPattern())
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	prefix := s.client.GroupKey("")
	paths := make([]string, 0, len(keys))
	for _, key := range keys {
		paths = append(paths, strings.TrimPrefix(key, prefix+":"))
	}
	return paths, nil
}

// Subscribe reads the current record first, then follows the channel until
// the returned cancel function runs or the context ends.
func (s *RedisStore) Subscribe(ctx context.Context, path string, fn SnapshotFunc) (func(), error) {
	pubsub, err := s.client.Subscribe(ctx, s.client.ChannelKey(path))
	if err != nil {
		return nil, err
	}

	subCtx, cancel := context.WithCancel(ctx)

	current, err := s.client.Get(subCtx, s.client.GroupKey(path))
	if err != nil && !redis.IsNil(err) {
		cancel()
		_ = pubsub.Close()
		return nil, fmt.Errorf("read current record: %w", err)
	}

	go func() {
		defer func() { _ = pubsub.Close() }()

		if current != "" {
			fn(json.RawMessage(current))
		}

		ch := pubsub.Channel()
		for {
			select {
			case <-subCtx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				fn(json.RawMessage(msg.Payload))
			}
		}
	}()

	return cancel, nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx)
}
