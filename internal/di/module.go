package di

import (
	"go.uber.org/fx"

	"github.com/nordpay/billing/internal/adapter/exchange"
	"github.com/nordpay/billing/internal/adapter/payment"
	"github.com/nordpay/billing/internal/app"
	"github.com/nordpay/billing/internal/config"
	"github.com/nordpay/billing/internal/logger"
	"github.com/nordpay/billing/internal/pkg/auth"
	"github.com/nordpay/billing/internal/seed"
	"github.com/nordpay/billing/internal/server/http/handlers"
	"github.com/nordpay/billing/internal/server/http/middleware"
	"github.com/nordpay/billing/internal/server/http/router"
	"github.com/nordpay/billing/internal/storage/postgres"
	"github.com/nordpay/billing/internal/usecase"
	"github.com/nordpay/billing/internal/worker"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		postgres.Module,
		payment.Module,
		exchange.Module,
		usecase.Module,
		fx.Provide(
			func(client payment.Client) app.PaymentProvider { return client },
			func(client exchange.Client) usecase.ExchangeProvider { return client },
			func(facade *app.BillingFacade) handlers.BillingServiceFacade { return facade },
			func(runner *worker.BillingRunner) handlers.CycleTrigger { return runner },
			func(storage *postgres.Storage) handlers.HealthChecker { return storage },
			func(strategy auth.Strategy) middleware.TokenParser { return strategy },
		),
		router.Module,
		seed.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
