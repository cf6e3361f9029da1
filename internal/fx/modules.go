package fx

import (
	"github.com/belmegatron/onehead/internal/balance"
	"github.com/belmegatron/onehead/internal/bot"
	"github.com/belmegatron/onehead/internal/config"
	"github.com/belmegatron/onehead/internal/database"
	"github.com/belmegatron/onehead/internal/logger"
	"github.com/belmegatron/onehead/internal/repository"
	"github.com/belmegatron/onehead/internal/service"
	"github.com/belmegatron/onehead/internal/signup"
	"github.com/belmegatron/onehead/internal/web"

	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(logger.New),
	fx.Provide(config.Load),
	fx.Provide(database.New),
	// repos
	fx.Provide(repository.NewPlayerRepository),
	fx.Provide(repository.NewMatchRepository),
	// core
	fx.Provide(signup.NewPool),
	fx.Provide(balance.New),
	// svc
	fx.Provide(service.NewPlayerService),
	fx.Provide(service.NewMatchService),
	// surfaces
	fx.Provide(bot.New),
	fx.Provide(web.NewServer),
)
