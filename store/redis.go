package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis stores the blob under a single key, optionally with a TTL so an
// abandoned session expires together with its refresh grant.
type Redis struct {
	client redis.UniversalClient
	key    string
	ttl    time.Duration
}

var _ Store = (*Redis)(nil)

// NewRedis returns a store writing to key on the given client. A zero ttl
// keeps the blob until overwritten.
func NewRedis(client redis.UniversalClient, key string, ttl time.Duration) *Redis {
	if key == "" {
		key = "gobroker:session"
	}
	return &Redis{client: client, key: key, ttl: ttl}
}

func (r *Redis) Write(ctx context.Context, blob []byte) error {
	if err := r.client.Set(ctx, r.key, blob, r.ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

func (r *Redis) Read(ctx context.Context) ([]byte, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return data, nil
}
