package schedule

import (
	"context"

	"go.uber.org/fx"

	cachesvc "signal_hub/internal/modules/cache/service"
	"signal_hub/internal/modules/config"
	reconcilesvc "signal_hub/internal/modules/reconcile/service"
	"signal_hub/internal/modules/schedule/service"
)

// Module поднимает таблицу расписаний, эвалюатор и минутный монитор статусов.
func Module() fx.Option {
	return fx.Module("schedule",
		fx.Provide(
			func(cfg *config.Config) (*service.Table, error) {
				return service.NewTable(cfg.ScheduleFile)
			},
			service.NewEvaluator,
			func(
				cfg *config.Config,
				eval *service.Evaluator,
				engine *reconcilesvc.Engine,
				cc *cachesvc.Client,
			) *service.Monitor {
				return service.NewMonitor(eval, engine, cc, cfg.Watchlist, cfg.MarketRefreshEvery)
			},
		),
		fx.Invoke(func(lc fx.Lifecycle, m *service.Monitor, ctx context.Context) {
			lc.Append(fx.Hook{
				OnStart: func(_ context.Context) error {
					go m.Run(ctx)
					return nil
				},
			})
		}),
	)
}
