package main

import (
	"context"
	"log"

	"go.uber.org/fx"

	"signal_hub/internal/modules/cache"
	"signal_hub/internal/modules/config"
	"signal_hub/internal/modules/feed"
	"signal_hub/internal/modules/health"
	"signal_hub/internal/modules/postgres"
	"signal_hub/internal/modules/reconcile"
	"signal_hub/internal/modules/schedule"
	"signal_hub/internal/modules/store"
	"signal_hub/internal/modules/telegram"
	"signal_hub/pkg/logger"
	"signal_hub/pkg/tracing"
)

func main() {
	if err := logger.Init(); err != nil {
		log.Fatal(err)
	}
	logger.SetServiceName("signal-hub")
	tracing.SetServiceName("signal-hub")

	app := fx.New(
		fx.Provide(
			func() context.Context {
				return context.Background()
			},
		),
		config.Module(),
		postgres.Module(),
		store.Module(),
		cache.Module(),
		feed.Module(),
		reconcile.Module(),
		schedule.Module(),
		telegram.Module(),
		health.Module(),
		fx.Invoke(initTracing),
	)
	app.Run()
}

func initTracing(lc fx.Lifecycle, cfg *config.Config) {
	if cfg.Jaeger.Host == "" {
		return
	}

	var closeTracer func()
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			_, closer, err := tracing.InitTracer(tracing.Config{
				Host: cfg.Jaeger.Host,
				Port: cfg.Jaeger.Port,
			})
			if err != nil {
				return err
			}
			closeTracer = closer
			return nil
		},
		OnStop: func(_ context.Context) error {
			if closeTracer != nil {
				closeTracer()
			}
			return nil
		},
	})
}
