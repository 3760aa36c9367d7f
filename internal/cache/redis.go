package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/emrgen/page/internal/compress"
	"github.com/emrgen/page/internal/model"
	redis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

func pageKey(id string) string {
	return "page:" + id
}

// NewRedisClient connects to redis and checks the connection.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
		Protocol: 2, // Connection protocol
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	logrus.Infof("redis connected at %s", addr)

	return client, nil
}

var _ PageCache = (*RedisPageCache)(nil)

// RedisPageCache stores pages as encoded json under page:<id>.
type RedisPageCache struct {
	client  *redis.Client
	encoder compress.Compress
	ttl     time.Duration
}

func NewRedisPageCache(client *redis.Client, encoder compress.Compress, ttl time.Duration) *RedisPageCache {
	return &RedisPageCache{client: client, encoder: encoder, ttl: ttl}
}

func (r *RedisPageCache) GetPage(ctx context.Context, id string) (*model.Page, error) {
	res := r.client.Get(ctx, pageKey(id))
	if res.Err() != nil {
		if errors.Is(res.Err(), redis.Nil) {
			return nil, nil
		}
		return nil, res.Err()
	}

	buf, err := res.Bytes()
	if err != nil {
		return nil, err
	}

	data, err := r.encoder.Decode(buf)
	if err != nil {
		return nil, err
	}

	page := &model.Page{}
	if err = json.Unmarshal(data, page); err != nil {
		return nil, err
	}

	return page, nil
}

func (r *RedisPageCache) SetPage(ctx context.Context, page *model.Page) error {
	marshal, err := json.Marshal(page)
	if err != nil {
		return err
	}

	data, err := r.encoder.Encode(marshal)
	if err != nil {
		return err
	}

	return r.client.Set(ctx, pageKey(page.ID), data, r.ttl).Err()
}

func (r *RedisPageCache) DeletePages(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = pageKey(id)
	}

	return r.client.Del(ctx, keys...).Err()
}

// Close closes the underlying redis client.
func (r *RedisPageCache) Close() error {
	return r.client.Close()
}
