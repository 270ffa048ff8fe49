package database

import (
	"classhub_backend/internal/config"
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
)

// InitRedis 缓存是可选依赖：未配置地址时返回 nil client，
// 作业列表缓存会自动退化为直接查库
func InitRedis(cfg *config.RedisConfig) (*redis.Client, error) {
	if cfg.Host == "" {
		log.Println("Redis not configured, assignment list cache disabled")
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     20,
		MinIdleConns: 2,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		return nil, err
	}

	log.Println("Redis connection established")
	return rdb, nil
}
