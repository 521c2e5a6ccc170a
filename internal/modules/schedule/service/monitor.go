package service

import (
	"context"
	"strings"
	"time"

	"signal_hub/internal/models"
	"signal_hub/pkg/logger"
)

// SignalSource — витрина текущих сигналов (движок реконсиляции).
type SignalSource interface {
	CurrentSignals() []models.Signal
}

// StatusSink — куда публикуем статусы (redis-кэш для веб-слоя).
type StatusSink interface {
	PublishMarketStatus(ctx context.Context, symbol string, status any) error
}

// MarketStatus — карточка "рынок закрыт / алерты офлайн" для UI.
type MarketStatus struct {
	Symbol    string     `json:"symbol"`
	Active    bool       `json:"active"`
	NextOpen  *time.Time `json:"next_open,omitempty"`
	Schedule  string     `json:"schedule"`
	CheckedAt time.Time  `json:"checked_at"`
}

// Monitor раз в период переоценивает статус рынка по вотчлисту. Чисто
// advisory-механика: переоценка идемпотентна, частота не важна.
type Monitor struct {
	eval    *Evaluator
	src     SignalSource
	sink    StatusSink
	symbols []string
	every   time.Duration
}

func NewMonitor(eval *Evaluator, src SignalSource, sink StatusSink, symbols []string, every time.Duration) *Monitor {
	if every <= 0 {
		every = time.Minute
	}
	return &Monitor{eval: eval, src: src, sink: sink, symbols: symbols, every: every}
}

func (m *Monitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.every)
	defer ticker.Stop()

	m.sweep(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.sweep(ctx)
		}
	}
}

func (m *Monitor) sweep(ctx context.Context) {
	now := time.Now().UTC()

	// по инструментам с живым сигналом карточка статуса не нужна
	running := make(map[string]bool)
	for _, s := range m.src.CurrentSignals() {
		if !s.Closed() {
			running[strings.ToUpper(s.Instrument)] = true
		}
	}

	for _, sym := range m.symbols {
		if running[strings.ToUpper(sym)] {
			continue
		}

		st := MarketStatus{
			Symbol:    sym,
			Active:    m.eval.IsActive(sym, now),
			Schedule:  m.eval.Describe(sym),
			CheckedAt: now,
		}
		if !st.Active {
			st.NextOpen = m.eval.NextActiveStart(sym, now)
		}

		if err := m.sink.PublishMarketStatus(ctx, sym, st); err != nil {
			logger.Warn("schedule: publish status %s failed: %v", sym, err)
		}
	}
}
