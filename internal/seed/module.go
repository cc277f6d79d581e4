package seed

import (
	"context"

	"go.uber.org/fx"

	"github.com/nordpay/billing/internal/config"
)

// Module seeds demo data on startup when enabled in the configuration.
var Module = fx.Options(
	fx.Provide(NewSeeder),
	fx.Invoke(runSeed),
)

type seedParams struct {
	fx.In

	Ctx    context.Context
	Config *config.Config
	Seeder *Seeder
}

func runSeed(p seedParams) error {
	if !p.Config.SeedDemoData {
		return nil
	}
	return p.Seeder.Run(p.Ctx)
}
