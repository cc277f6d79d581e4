package exchange

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/nordpay/billing/internal/config"
)

// Module exposes exchange client implementation to fx graph.
var Module = fx.Provide(newClient)

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newClient(p clientParams) (Client, error) {
	return NewHTTPClient(p.Config.ExchangeAddress, p.Logger)
}
