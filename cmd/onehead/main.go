package main

import (
	"context"
	"database/sql"

	"github.com/belmegatron/onehead/internal/bot"
	fxmodules "github.com/belmegatron/onehead/internal/fx"
	"github.com/belmegatron/onehead/internal/web"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

func main() {
	fx.New(
		fxmodules.Module,
		fx.Invoke(run),
	).Run()
}

func run(
	lc fx.Lifecycle,
	b *bot.Bot,
	status *web.Server,
	db *sql.DB,
	logger zerolog.Logger,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := b.Start(); err != nil {
				return err
			}
			go func() {
				if err := status.Start(); err != nil {
					logger.Error().Err(err).Msg("status server failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if err := status.Stop(ctx); err != nil {
				logger.Warn().Err(err).Msg("error stopping status server")
			}
			if err := b.Stop(); err != nil {
				logger.Warn().Err(err).Msg("error closing discord session")
			}
			if err := db.Close(); err != nil {
				logger.Warn().Err(err).Msg("error closing database connection")
			}
			logger.Info().Msg("stopped gracefully")
			return nil
		},
	})
}
