package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/nordpay/billing/internal/config"
	"github.com/nordpay/billing/internal/worker"
)

// Module wires application services, runtime components, and lifecycle hooks.
var Module = fx.Options(
	fx.Provide(
		NewBillingFacade,
		newHTTPServer,
		newBillingRunner,
	),
	fx.Invoke(registerLifecycle),
)

type serverParams struct {
	fx.In

	Config *config.Config
	Router *gin.Engine
}

func newHTTPServer(p serverParams) *http.Server {
	return &http.Server{
		Addr:    p.Config.RunAddress,
		Handler: p.Router,
	}
}

type runnerParams struct {
	fx.In

	Facade *BillingFacade
	Config *config.Config
	Logger *slog.Logger
}

func newBillingRunner(p runnerParams) *worker.BillingRunner {
	return worker.NewBillingRunner(
		p.Facade,
		p.Config.BillingInterval,
		p.Config.WorkerPoolSize,
		worker.RetryPolicy{
			MaxAttempts:  p.Config.ChargeMaxAttempts,
			InitialDelay: p.Config.ChargeInitialDelay,
			MaxDelay:     p.Config.ChargeMaxDelay,
			Factor:       2,
		},
		p.Logger,
	)
}

type lifecycleParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Logger     *slog.Logger
	Server     *http.Server
	Runner     *worker.BillingRunner
	Config     *config.Config
}

func registerLifecycle(p lifecycleParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			p.Logger.Info("starting billing service", slog.String("addr", p.Server.Addr))
			p.Runner.Start(ctx)
			go func() {
				if err := p.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					p.Logger.Error("http server terminated", slog.String("error", err.Error()))
					_ = p.Shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			p.Runner.Stop()

			shutdownCtx := ctx
			cancel := func() {}
			if _, ok := ctx.Deadline(); !ok {
				shutdownCtx, cancel = context.WithTimeout(ctx, p.Config.ShutdownTimeout)
			}
			defer cancel()

			if err := p.Server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			p.Logger.Info("billing service stopped")
			return nil
		},
	})
}
