package telegram

import (
	"context"

	"go.uber.org/fx"

	"signal_hub/internal/models"
	"signal_hub/internal/modules/config"
	reconcilesvc "signal_hub/internal/modules/reconcile/service"
	"signal_hub/internal/modules/telegram/service"
	"signal_hub/pkg/logger"
)

// Module доставляет интенты движка в telegram. Без токена — в stdout.
func Module() fx.Option {
	return fx.Module("telegram",
		fx.Provide(
			func(cfg *config.Config, engine *reconcilesvc.Engine) (service.Notifier, error) {
				if cfg.Telegram.Token == "" {
					logger.Warn("telegram: no token configured, falling back to stdout")
					return service.NewStdout(), nil
				}
				return service.NewTelegram(cfg.Telegram.Token, cfg.Telegram.ChatID, engine)
			},
		),
		fx.Invoke(func(
			lc fx.Lifecycle,
			n service.Notifier,
			intents <-chan models.NotificationIntent,
			ctx context.Context,
		) {
			lc.Append(fx.Hook{
				OnStart: func(_ context.Context) error {
					if t, ok := n.(*service.Telegram); ok {
						if err := t.Start(ctx); err != nil {
							return err
						}
					}
					go func() {
						for {
							select {
							case <-ctx.Done():
								return
							case it, ok := <-intents:
								if !ok {
									return
								}
								n.Send(service.FormatIntent(it))
							}
						}
					}()
					return nil
				},
			})
		}),
	)
}
