package reconcile

import (
	"context"

	"go.uber.org/fx"

	"signal_hub/internal/models"
	cachesvc "signal_hub/internal/modules/cache/service"
	"signal_hub/internal/modules/config"
	healthsvc "signal_hub/internal/modules/health/service"
	"signal_hub/internal/modules/reconcile/service"
	storesvc "signal_hub/internal/modules/store/service"
)

func newIntentsChan() chan models.NotificationIntent {
	return make(chan models.NotificationIntent, 256)
}
func asSendOnlyIntents(ch chan models.NotificationIntent) chan<- models.NotificationIntent {
	return ch
}
func asRecvOnlyIntents(ch chan models.NotificationIntent) <-chan models.NotificationIntent {
	return ch
}

// Module собирает движок реконсиляции: снапшот из базы, дальше события фида.
func Module() fx.Option {
	return fx.Module("reconcile",
		fx.Provide(
			newIntentsChan,    // chan models.NotificationIntent
			asSendOnlyIntents, // chan<- models.NotificationIntent
			asRecvOnlyIntents, // <-chan models.NotificationIntent
			func(
				cfg *config.Config,
				out chan<- models.NotificationIntent,
				cc *cachesvc.Client,
			) *service.Engine {
				return service.NewEngine(service.Mode(cfg.Mode), cfg.DebounceWindow, out, cc)
			},
		),
		fx.Invoke(func(
			lc fx.Lifecycle,
			e *service.Engine,
			snaps *storesvc.Signals,
			events <-chan models.ChangeEvent,
			state *healthsvc.State,
			cfg *config.Config,
			ctx context.Context,
		) {
			lc.Append(fx.Hook{
				OnStart: func(startCtx context.Context) error {
					// сначала снапшот, потом стрим: гонка на старте лечится
					// следующим ресинком
					rows, err := snaps.Recent(startCtx, cfg.SnapshotLimit)
					if err != nil {
						return err
					}
					e.Resync(startCtx, rows)
					state.SetReady(true)
					return e.Start(ctx, events)
				},
				OnStop: func(_ context.Context) error {
					e.Stop()
					return nil
				},
			})
		}),
	)
}
