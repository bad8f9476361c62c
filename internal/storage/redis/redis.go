package redis

import (
	"context"
	"eventBooking/internal/config"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

func New(cfg *config.Redis) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := HealthCheck(context.Background(), client); err != nil {
		client.Close()
		return nil, err
	}

	return client, nil
}

func HealthCheck(ctx context.Context, client redis.Cmdable) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis health check failed: %w", err)
	}

	return nil
}
