package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"signal_hub/internal/models"
	"signal_hub/pkg/logger"
)

type Clock func() time.Time

// Publisher выкладывает собранную витрину наружу (redis для веб-слоя).
type Publisher interface {
	PublishSignals(ctx context.Context, mode string, signals []models.Signal) error
}

// Engine — обёртка над чистым редьюсером: подписка на фид, ресинк по снапшоту,
// явный lifecycle. Несколько независимых инстансов (по одному на режим) могут
// жить в одном процессе — общего мутабельного стейта нет.
type Engine struct {
	mode  Mode
	out   chan<- models.NotificationIntent
	pub   Publisher
	clock Clock

	mu sync.Mutex
	st State

	active atomic.Bool
	cancel context.CancelFunc
}

func NewEngine(mode Mode, window time.Duration, out chan<- models.NotificationIntent, pub Publisher) *Engine {
	st := Initialize(mode, window, nil)
	return &Engine{
		mode:  st.Mode(),
		out:   out,
		pub:   pub,
		clock: time.Now,
		st:    st,
	}
}

// SetClock — для тестов; дергать до Start.
func (e *Engine) SetClock(c Clock) { e.clock = c }

func (e *Engine) Mode() Mode { return e.mode }

// Resync полностью заменяет стейт свежим снапшотом. Уведомления не эмитятся.
func (e *Engine) Resync(ctx context.Context, rows []models.Signal) {
	e.mu.Lock()
	e.st = Initialize(e.st.mode, e.st.window, rows)
	view := Current(e.st)
	e.mu.Unlock()

	e.publish(ctx, view)
	logger.Info("reconcile: resync done, mode=%s, rows=%d", e.mode, len(view))
}

// Start вешает движок на канал событий. Повторный Start без Stop — ошибка:
// два конкурентных фида на один стейт это lost update.
func (e *Engine) Start(parent context.Context, events <-chan models.ChangeEvent) error {
	if !e.active.CompareAndSwap(false, true) {
		return fmt.Errorf("reconcile engine already started")
	}
	ctx, cancel := context.WithCancel(parent)
	e.cancel = cancel

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-events:
				if !ok {
					return
				}
				e.OnEvent(ctx, ev)
			}
		}
	}()
	return nil
}

// Stop гасит подписку; после него интенты наружу не уходят.
func (e *Engine) Stop() {
	e.active.Store(false)
	if e.cancel != nil {
		e.cancel()
	}
}

func (e *Engine) OnEvent(ctx context.Context, ev models.ChangeEvent) {
	e.mu.Lock()
	st, intents := Apply(e.st, ev, e.clock())
	e.st = st
	view := Current(st)
	e.mu.Unlock()

	e.publish(ctx, view)

	if !e.active.Load() {
		return
	}
	for _, it := range intents {
		select {
		case e.out <- it:
		default:
			logger.Warn("reconcile: intent channel full, drop %s %s", it.Kind, it.Instrument)
		}
	}
}

// CurrentSignals — копия витрины, свежие первыми.
func (e *Engine) CurrentSignals() []models.Signal {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Current(e.st)
}

func (e *Engine) publish(ctx context.Context, view []models.Signal) {
	if e.pub == nil {
		return
	}
	if err := e.pub.PublishSignals(ctx, string(e.mode), view); err != nil {
		logger.Warn("reconcile: publish failed: %v", err)
	}
}
