package redis

import (
	"fmt"

	"github.com/go-redsync/redsync/v4"
	redsyncgoredis "github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"

	"github.com/ChickenSoup269/Zero-Movie-sub001/config"
)

func SetupClient(cfg *config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// SetupRedsync builds the distributed-lock factory on top of the shared redis
// client. Seat ledger mutations take a per-showtime mutex from it.
func SetupRedsync(client *redis.Client) *redsync.Redsync {
	pool := redsyncgoredis.NewPool(client)
	return redsync.New(pool)
}
