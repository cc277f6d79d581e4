package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress         string
	DatabaseURI        string
	PaymentAddress     string
	ExchangeAddress    string
	AuthSecret         string
	BillingInterval    time.Duration
	WorkerPoolSize     int
	ChargeMaxAttempts  int
	ChargeInitialDelay time.Duration
	ChargeMaxDelay     time.Duration
	ShutdownTimeout    time.Duration
	SeedDemoData       bool
}

const (
	defaultRunAddress         = ":8080"
	defaultAuthSecret         = "change-me-in-production"
	defaultBillingInterval    = time.Minute
	defaultWorkerPoolSize     = 4
	defaultChargeMaxAttempts  = 3
	defaultChargeInitialDelay = 100 * time.Millisecond
	defaultChargeMaxDelay     = time.Second
	defaultShutdownTimeout    = 10 * time.Second
)

// Load parses configuration from flags and environment variables.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:         getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:        getString(lookup, "DATABASE_URI", ""),
		PaymentAddress:     getString(lookup, "PAYMENT_GATEWAY_ADDRESS", ""),
		ExchangeAddress:    getString(lookup, "EXCHANGE_SERVICE_ADDRESS", ""),
		AuthSecret:         getString(lookup, "AUTH_SECRET", defaultAuthSecret),
		BillingInterval:    getDuration(lookup, "BILLING_INTERVAL", defaultBillingInterval),
		WorkerPoolSize:     getInt(lookup, "WORKER_POOL_SIZE", defaultWorkerPoolSize),
		ChargeMaxAttempts:  getInt(lookup, "CHARGE_MAX_ATTEMPTS", defaultChargeMaxAttempts),
		ChargeInitialDelay: getDuration(lookup, "CHARGE_INITIAL_DELAY", defaultChargeInitialDelay),
		ChargeMaxDelay:     getDuration(lookup, "CHARGE_MAX_DELAY", defaultChargeMaxDelay),
		ShutdownTimeout:    getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		SeedDemoData:       getBool(lookup, "SEED_DEMO_DATA", false),
	}

	fs := flag.NewFlagSet("billing", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		billingIntervalStr = cfg.BillingInterval.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.PaymentAddress, "p", cfg.PaymentAddress, "Payment gateway base URL")
	fs.StringVar(&cfg.ExchangeAddress, "x", cfg.ExchangeAddress, "Exchange service base URL")
	fs.StringVar(&cfg.AuthSecret, "auth-secret", cfg.AuthSecret, "Secret for signing service tokens")
	fs.IntVar(&cfg.WorkerPoolSize, "worker-pool", cfg.WorkerPoolSize, "Number of concurrent charge workers")
	fs.IntVar(&cfg.ChargeMaxAttempts, "charge-attempts", cfg.ChargeMaxAttempts, "Total charge attempts per invoice")
	fs.StringVar(&billingIntervalStr, "billing-interval", billingIntervalStr, "Interval between billing cycles")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	fs.BoolVar(&cfg.SeedDemoData, "seed", cfg.SeedDemoData, "Seed demo customers and invoices on startup")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.BillingInterval, err = time.ParseDuration(billingIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid billing interval: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if secretFile, ok := lookup("AUTH_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read auth secret file: %w", err)
		}
		cfg.AuthSecret = string(content)
	}

	if cfg.WorkerPoolSize <= 0 {
		cfg.WorkerPoolSize = defaultWorkerPoolSize
	}

	if cfg.ChargeMaxAttempts <= 0 {
		cfg.ChargeMaxAttempts = defaultChargeMaxAttempts
	}

	if cfg.ChargeInitialDelay <= 0 {
		cfg.ChargeInitialDelay = defaultChargeInitialDelay
	}

	if cfg.ChargeMaxDelay < cfg.ChargeInitialDelay {
		cfg.ChargeMaxDelay = defaultChargeMaxDelay
	}

	if cfg.BillingInterval <= 0 {
		cfg.BillingInterval = defaultBillingInterval
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	if cfg.PaymentAddress == "" {
		return nil, fmt.Errorf("payment gateway address must be provided")
	}

	if cfg.ExchangeAddress == "" {
		return nil, fmt.Errorf("exchange service address must be provided")
	}

	return cfg, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getBool(lookup envLookup, key string, def bool) bool {
	if v, ok := lookup(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
