package redis

import (
	"context"
	"errors"

	"github.com/DRSN-tech/storefront/internal/cart"
	"github.com/DRSN-tech/storefront/internal/cfg"
	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/pkg/clients"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/logger"
	"github.com/jimlawless/whereami"
	r "github.com/redis/go-redis/v9"
)

// CartRepo хранит сохранённую корзину сессии под ключом cart:<session>.
type CartRepo struct {
	client *clients.RedisClient
	cfg    *cfg.RedisCfg
	logger logger.Logger
}

func NewCartRepo(client *clients.RedisClient, cfg *cfg.RedisCfg, logger logger.Logger) *CartRepo {
	return &CartRepo{
		client: client,
		cfg:    cfg,
		logger: logger,
	}
}

// Load читает корзину. Отсутствующая или повреждённая запись даёт пустую корзину.
func (c *CartRepo) Load(ctx context.Context, sessionID string) ([]domain.CartLine, error) {
	data, err := c.client.Client.Get(ctx, cartKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, r.Nil) {
			return []domain.CartLine{}, nil
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return cart.Decode(data), nil
}

// Save перезаписывает корзину и продлевает срок её хранения.
func (c *CartRepo) Save(ctx context.Context, sessionID string, lines []domain.CartLine) error {
	data, err := cart.Encode(lines)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if err := c.client.Client.Set(ctx, cartKey(sessionID), data, c.cfg.CartTTL).Err(); err != nil {
		c.logger.Warnf("Redis SET failed: %v", e.Wrap(whereami.WhereAmI(), err))
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func (c *CartRepo) Delete(ctx context.Context, sessionID string) error {
	if err := c.client.Client.Del(ctx, cartKey(sessionID)).Err(); err != nil {
		c.logger.Warnf("Redis DEL failed: %v", e.Wrap(whereami.WhereAmI(), err))
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// cartKey возвращает Redis-ключ корзины сессии
func cartKey(sessionID string) string {
	return "cart:" + sessionID
}
