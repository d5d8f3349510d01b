package lib

import (
	"context"
	"log"
	"os"

	"github.com/redis/go-redis/v9"
)

var redisClient *redis.Client

func GetRedisClient() *redis.Client {
	if redisClient != nil {
		return redisClient
	}
	redisHost := os.Getenv("REDIS_HOST")
	if redisHost == "" {
		return nil
	}
	opt, err := redis.ParseURL(redisHost)
	if err != nil {
		log.Printf("[redis] Error parsing connection string: %s\n", err.Error())
		return nil
	}
	rdb := redis.NewClient(opt)
	redisClient = rdb
	return rdb
}

// NewRedisClient Replace redis instance with custom client implementation
func NewRedisClient(c *redis.Client) *redis.Client {
	redisClient = c
	return redisClient
}

// RedisPublisher pushes notifications on a pub/sub channel per recipient.
type RedisPublisher struct {
	Client *redis.Client
}

func (r *RedisPublisher) Name() string {
	return "redis"
}

func (r *RedisPublisher) Publish(ctx context.Context, channel string, event string, payload []byte) error {
	return r.Client.Publish(ctx, "notifications:"+channel, payload).Err()
}
