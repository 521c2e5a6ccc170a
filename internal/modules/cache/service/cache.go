package service

import (
	"context"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"

	"signal_hub/internal/models"
	"signal_hub/internal/modules/config"
)

const (
	signalsKeyPrefix = "signals:current:"
	marketKeyPrefix  = "market:status:"
	marketStatusTTL  = 5 * time.Minute
)

// Client пишет собранную витрину и статусы рынков в redis — веб-слой оттуда
// только читает. Без настроенного redis все методы — no-op, сервис живёт и так.
type Client struct {
	rdb *redis.Client
}

func NewClient(cfg *config.Config) *Client {
	if cfg.Redis.Addr == "" {
		return &Client{}
	}
	return &Client{
		rdb: redis.NewClient(&redis.Options{
			Addr: cfg.Redis.Addr,
			DB:   cfg.Redis.DB,
		}),
	}
}

func (c *Client) PublishSignals(ctx context.Context, mode string, signals []models.Signal) error {
	if c.rdb == nil {
		return nil
	}
	payload, err := sonic.Marshal(signals)
	if err != nil {
		return errors.Wrap(err, "marshal signals view")
	}
	return errors.Wrap(
		c.rdb.Set(ctx, signalsKeyPrefix+mode, payload, 0).Err(),
		"set signals view",
	)
}

// PublishMarketStatus кладёт статус с TTL: протухший статус хуже отсутствующего.
func (c *Client) PublishMarketStatus(ctx context.Context, symbol string, status any) error {
	if c.rdb == nil {
		return nil
	}
	payload, err := sonic.Marshal(status)
	if err != nil {
		return errors.Wrap(err, "marshal market status")
	}
	return errors.Wrap(
		c.rdb.Set(ctx, marketKeyPrefix+symbol, payload, marketStatusTTL).Err(),
		"set market status",
	)
}

func (c *Client) Close() error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}
