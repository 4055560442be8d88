package redis

import (
	"Saber/backend/go/internal/config"
	"Saber/backend/go/pkg/logger"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

var (
	client  *redis.Client
	once    sync.Once
	initErr error
)

// Enabled 判断是否配置了 Redis。未配置时不启用消息去重。
func Enabled(cfg *config.RedisConfig) bool {
	return cfg != nil && cfg.Address != ""
}

// GetClient 使用单例模式初始化并返回一个 Redis 客户端实例。
func GetClient(cfg *config.RedisConfig, log *logger.Logger) (*redis.Client, error) {
	once.Do(func() {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Address,
			Password: cfg.Password,
			DB:       cfg.DB,
		})

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			initErr = fmt.Errorf("无法连接到 Redis: %w", err)
			return
		}

		log.WithField("address", cfg.Address).Info("成功连接到 Redis")
		client = rdb
	})

	return client, initErr
}

// Close 安全地关闭单例的 Redis 连接。
func Close() error {
	if client != nil {
		return client.Close()
	}
	return nil
}
