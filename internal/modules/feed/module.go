package feed

import (
	"context"

	"go.uber.org/fx"

	"signal_hub/internal/models"
	"signal_hub/internal/modules/feed/service"
)

func newEventsChan() chan models.ChangeEvent {
	// общий буфер событий фида
	return make(chan models.ChangeEvent, 1024)
}
func asRecvOnlyEvents(ch chan models.ChangeEvent) <-chan models.ChangeEvent { return ch }

// Module поднимает websocket-подписку на фид сигналов.
func Module() fx.Option {
	return fx.Module("feed",
		fx.Provide(
			service.NewClient, // *service.Client
			newEventsChan,     // chan models.ChangeEvent
			asRecvOnlyEvents,  // <-chan models.ChangeEvent
		),
		fx.Invoke(func(lc fx.Lifecycle, c *service.Client, out chan models.ChangeEvent, ctx context.Context) {
			lc.Append(fx.Hook{
				OnStart: func(_ context.Context) error {
					c.Start(ctx, out)
					return nil
				},
			})
		}),
	)
}
