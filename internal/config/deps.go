package config

import (
	"context"

	"github.com/emrgen/page/internal/cache"
	"github.com/emrgen/page/internal/compress"
	"github.com/emrgen/page/internal/queue"
	"github.com/emrgen/page/internal/search"
	"github.com/sirupsen/logrus"
)

// GetPageCache connects the redis page cache, or returns a no-op cache when redis is not configured.
func GetPageCache(ctx context.Context, cfg *Config) (cache.PageCache, error) {
	if cfg.Redis.Addr == "" {
		logrus.Debug("redis not configured, page cache disabled")
		return cache.NopPageCache{}, nil
	}

	encoder, err := compress.ByName(cfg.Cache.Compression)
	if err != nil {
		return nil, err
	}

	client, err := cache.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, err
	}

	return cache.NewRedisPageCache(client, encoder, cfg.Redis.TTL), nil
}

// GetIndexer returns the meilisearch indexer, or a no-op one when search is not configured.
func GetIndexer(cfg *Config) search.Indexer {
	if cfg.Search.URL == "" {
		logrus.Debug("search not configured, page indexing disabled")
		return search.Nop{}
	}

	return search.NewMeili(cfg.Search.URL, cfg.Search.APIKey, cfg.Search.Index)
}

// GetPageLogQueue returns the kafka publisher, or a no-op queue when kafka is not configured.
func GetPageLogQueue(cfg *Config) (queue.PageLogQueue, error) {
	if cfg.Kafka.Brokers == "" {
		logrus.Debug("kafka not configured, page log publishing disabled")
		return queue.NopPageLogQueue{}, nil
	}

	return queue.NewKafkaPageLogQueue(cfg.Kafka.Brokers, cfg.Kafka.Topic)
}
