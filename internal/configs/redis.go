package config

import (
	"context"
	"log"
	"time"

	"github.com/redis/rueidis"
)

// NewRedisClient connects to Redis and verifies the connection with PING.
// It exits the process when Redis is unreachable.
func NewRedisClient(addr string) rueidis.Client {
	redisClient, err := rueidis.NewClient(
		rueidis.ClientOption{
			InitAddress:      []string{addr},
			DisableCache:     true,
			ConnWriteTimeout: 5 * time.Second,
		},
	)
	if err != nil {
		log.Fatalf("failed to create redis client: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisClient.Do(ctx, redisClient.B().Ping().Build()).Error(); err != nil {
		redisClient.Close()
		log.Fatalf("redis ping failed: %v", err)
	}

	return redisClient
}
