package session

import (
	"context"
	"errors"
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
)

// DefaultKeyPrefix namespaces the session keys.
const DefaultKeyPrefix = "taskboard:"

// RedisStore keeps the token and user profile under two fixed keys.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a RedisStore using keys <prefix>token and <prefix>user.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (r *RedisStore) tokenKey() string { return r.prefix + "token" }
func (r *RedisStore) userKey() string  { return r.prefix + "user" }

// Load implements Store.
func (r *RedisStore) Load(ctx context.Context) (Session, error) {
	vals, err := r.client.MGet(ctx, r.tokenKey(), r.userKey()).Result()
	if err != nil {
		return Session{}, fmt.Errorf("redis: %w", err)
	}
	token, ok := vals[0].(string)
	if !ok {
		return Session{}, ErrNoSession
	}
	user, ok := vals[1].(string)
	if !ok {
		return Session{}, ErrNoSession
	}
	return decode(token, []byte(user))
}

// Save implements Store.
func (r *RedisStore) Save(ctx context.Context, s Session) error {
	userData, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(s.User)
	if err != nil {
		return err
	}
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.tokenKey(), s.Token, 0)
		pipe.Set(ctx, r.userKey(), userData, 0)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	return nil
}

// Clear implements Store.
func (r *RedisStore) Clear(ctx context.Context) error {
	if err := r.client.Del(ctx, r.tokenKey(), r.userKey()).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("redis: %w", err)
	}
	return nil
}

// Close implements Store.
func (r *RedisStore) Close() error {
	return r.client.Close()
}
