package store

import (
	"signal_hub/internal/modules/config"
	"signal_hub/internal/modules/store/service"
	"signal_hub/pkg/db"

	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("store",
		fx.Provide(
			func(txm *db.PgTxManager, cfg *config.Config) *service.Signals {
				return service.NewSignals(txm, cfg.Feed.Table)
			},
		),
	)
}
