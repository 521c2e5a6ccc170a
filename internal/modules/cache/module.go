package cache

import (
	"context"

	"go.uber.org/fx"

	"signal_hub/internal/modules/cache/service"
)

func Module() fx.Option {
	return fx.Module("cache",
		fx.Provide(
			service.NewClient,
		),
		fx.Invoke(func(lc fx.Lifecycle, c *service.Client) {
			lc.Append(fx.Hook{
				OnStop: func(_ context.Context) error {
					return c.Close()
				},
			})
		}),
	)
}
