package service

import (
	"context"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"signal_hub/internal/models"
	"signal_hub/internal/modules/config"
	healthsvc "signal_hub/internal/modules/health/service"
	"signal_hub/pkg/logger"
)

const (
	reconnectMin = time.Second
	reconnectMax = 30 * time.Second
)

// Client держит websocket-подписку на change-feed таблицы сигналов и
// прокидывает нормализованные события в out. Реконнект с бэкоффом — его
// забота, движок про транспорт не знает.
type Client struct {
	cfg   *config.Config
	state *healthsvc.State

	wsDialer *websocket.Dialer
}

func NewClient(cfg *config.Config, state *healthsvc.State) *Client {
	return &Client{
		cfg:      cfg,
		state:    state,
		wsDialer: &websocket.Dialer{HandshakeTimeout: 10 * time.Second},
	}
}

type subscribeMsg struct {
	Action  string `json:"action"`
	Table   string `json:"table"`
	Session string `json:"session"`
}

func (c *Client) Start(ctx context.Context, out chan<- models.ChangeEvent) {
	go c.run(ctx, out)
}

func (c *Client) run(ctx context.Context, out chan<- models.ChangeEvent) {
	backoff := reconnectMin
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		err := c.session(ctx, out)
		c.state.SetFeedConnected(false)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			logger.Warn("feed: session ended: %v, reconnect in %s", err, backoff)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > reconnectMax {
			backoff = reconnectMax
		}
	}
}

// session — один цикл жизни соединения: dial, subscribe, read loop.
func (c *Client) session(ctx context.Context, out chan<- models.ChangeEvent) error {
	conn, _, err := c.wsDialer.DialContext(ctx, c.cfg.Feed.URL, nil)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	sub := subscribeMsg{
		Action:  "subscribe",
		Table:   c.cfg.Feed.Table,
		Session: uuid.NewString(),
	}
	payload, err := sonic.Marshal(sub)
	if err != nil {
		return err
	}
	if err = conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		return err
	}

	c.state.SetFeedConnected(true)
	logger.Info("feed: subscribed to %s (session %s)", sub.Table, sub.Session)

	// закрываем сокет при отмене, чтобы ReadMessage отвалился
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		var frame wireFrame
		if err = sonic.Unmarshal(raw, &frame); err != nil {
			logger.Warn("feed: bad frame, skip: %v", err)
			continue
		}

		ev, err := normalizeFrame(frame)
		if err != nil {
			// кривая строка не валит подписку
			logger.Warn("feed: drop frame: %v", err)
			continue
		}

		c.state.TouchEvent(time.Now())

		select {
		case out <- ev:
		case <-ctx.Done():
			return nil
		}
	}
}
