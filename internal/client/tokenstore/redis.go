package tokenstore

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// Redis keeps the token under "<namespace>:authToken", shared by every
// client process pointed at the same namespace.
type Redis struct {
	client *redis.Client
	key    string
}

// NewRedis returns a store using client; namespace may be empty.
func NewRedis(client *redis.Client, namespace string) *Redis {
	key := Key
	if namespace != "" {
		key = namespace + ":" + Key
	}
	return &Redis{client: client, key: key}
}

func (r *Redis) Load(ctx context.Context) (string, error) {
	token, err := r.client.Get(ctx, r.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return token, err
}

func (r *Redis) Save(ctx context.Context, token string) error {
	return r.client.Set(ctx, r.key, token, 0).Err()
}

func (r *Redis) Clear(ctx context.Context) error {
	return r.client.Del(ctx, r.key).Err()
}
