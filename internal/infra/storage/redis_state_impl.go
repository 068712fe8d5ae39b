package storage

import (
	"context"
	"fmt"
	configs "go_purl_tools/internal/infra/config"
	"go_purl_tools/utils"

	"github.com/go-redis/redis/v8"
)

const lastRevisionKey = "purl_watch:last_revision" // Redis Key

type redisStateStorageImpl struct {
	redisClient *redis.Client
}

func NewRedisClient(c *configs.PurlConfig) *redis.Client {
	if c.RedisConfig == nil {
		panic("redis state store requested but no redis configured")
	}
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", c.RedisConfig.Host, c.RedisConfig.Port),
		Password:     c.RedisConfig.Password,
		DB:           c.RedisConfig.Database,
		DialTimeout:  c.RedisConfig.DialTimeout,
		ReadTimeout:  c.RedisConfig.ReadTimeout,
		WriteTimeout: c.RedisConfig.WriteTimeout,
	})

	// 测试连接是否成功
	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		panic(fmt.Sprintf("Failed to connect to Redis: %v", err))
	}

	return client
}

func NewRedisStateStorage(redisClient *redis.Client) WatchStateStorageIface {
	return &redisStateStorageImpl{redisClient: redisClient}
}

var _ WatchStateStorageIface = (*redisStateStorageImpl)(nil)

func (r *redisStateStorageImpl) GetLastRevision(ctx context.Context) (string, error) {
	val, err := r.redisClient.Get(ctx, lastRevisionKey).Result()
	if err == redis.Nil {
		return "", nil // 尚未记录过版本
	}
	if err != nil {
		return "", fmt.Errorf("failed to get last revision from redis: %w", err)
	}
	return val, nil
}

func (r *redisStateStorageImpl) SetLastRevision(ctx context.Context, revision string) error {
	utils.GetLogger().Debugf("recording last revision: %s", revision)
	if err := r.redisClient.Set(ctx, lastRevisionKey, revision, 0).Err(); err != nil {
		return fmt.Errorf("failed to set last revision in redis: %w", err)
	}
	return nil
}
