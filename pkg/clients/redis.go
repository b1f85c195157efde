package clients

import (
	"context"
	"time"

	"github.com/DRSN-tech/storefront/internal/cfg"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/jimlawless/whereami"
	r "github.com/redis/go-redis/v9"
)

const redisConnectTimeout = 5 * time.Second

// RedisClient используется как общий клиент для корзин и списка отозванных токенов.
type RedisClient struct {
	Client *r.Client
}

func NewRedisClient(cfg *cfg.RedisCfg) *RedisClient {
	return &RedisClient{
		Client: r.NewClient(&r.Options{
			Addr:         cfg.Addr,
			Password:     cfg.Password,
			DB:           cfg.DB,
			Username:     cfg.User,
			MaxRetries:   cfg.MaxRetries,
			DialTimeout:  cfg.DialTimeout,
			ReadTimeout:  cfg.Timeout,
			WriteTimeout: cfg.Timeout,
		}),
	}
}

// ConnectRedis создаёт клиент и проверяет соединение. При неудаче клиент закрывается.
func ConnectRedis(ctx context.Context, cfg *cfg.RedisCfg) (*RedisClient, error) {
	client := NewRedisClient(cfg)

	pingCtx, cancel := context.WithTimeout(ctx, redisConnectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx); err != nil {
		_ = client.Client.Close()
		return nil, err
	}

	return client, nil
}

func (r *RedisClient) Ping(ctx context.Context) error {
	if err := r.Client.Ping(ctx).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// Close подходит как функция закрытия для closer.
func (r *RedisClient) Close(context.Context) error {
	if err := r.Client.Close(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	return nil
}
