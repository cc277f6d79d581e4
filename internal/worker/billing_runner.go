package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	domainErrors "github.com/nordpay/billing/internal/domain/errors"
	"github.com/nordpay/billing/internal/domain/model"
)

// BillingFacade exposes the subset of application functionality required by the runner.
type BillingFacade interface {
	ClaimDueInvoices(ctx context.Context) ([]model.DueInvoice, error)
	HasCurrencyMismatch(due model.DueInvoice) bool
	ReconcileInvoice(ctx context.Context, due model.DueInvoice) (model.Invoice, error)
	Charge(ctx context.Context, invoice model.Invoice) (bool, error)
	SetInvoiceStatus(ctx context.Context, id int64, status model.InvoiceStatus) error
}

// ChargeResult classifies how a single invoice settled within one cycle.
type ChargeResult string

const (
	// ChargeResultPaid means the gateway accepted the charge.
	ChargeResultPaid ChargeResult = "PAID"
	// ChargeResultDeclined means the gateway soft-declined; the invoice
	// keeps its claimed status and is not retried within the cycle.
	ChargeResultDeclined ChargeResult = "DECLINED"
	// ChargeResultCustomerNotFound means the gateway could not resolve the customer.
	ChargeResultCustomerNotFound ChargeResult = "CUSTOMER_NOT_FOUND"
	// ChargeResultCurrencyMismatch means the gateway rejected the invoice currency.
	ChargeResultCurrencyMismatch ChargeResult = "CURRENCY_MISMATCH"
	// ChargeResultRetriesExhausted means every attempt failed transiently;
	// the invoice stays claimed and is picked up by a future cycle.
	ChargeResultRetriesExhausted ChargeResult = "RETRIES_EXHAUSTED"
	// ChargeResultReconcileFailed means the invoice never reached the
	// gateway because currency reconciliation failed.
	ChargeResultReconcileFailed ChargeResult = "RECONCILE_FAILED"
	// ChargeResultFailed covers unclassified errors, including status
	// write-back failures.
	ChargeResultFailed ChargeResult = "FAILED"
)

// ChargeOutcome reports the final state of one invoice after a billing cycle.
type ChargeOutcome struct {
	InvoiceID int64
	Result    ChargeResult
	Status    model.InvoiceStatus
	Attempts  int
	Err       error
}

// RetryPolicy bounds the transient-failure retry loop of a single charge.
type RetryPolicy struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Factor       float64
}

// BillingRunner executes billing cycles: it claims due invoices, reconciles
// currency mismatches, charges every invoice concurrently and writes terminal
// statuses back. Cycles run on a fixed interval and on demand via TriggerCycle.
type BillingRunner struct {
	facade   BillingFacade
	interval time.Duration
	workers  int
	retry    RetryPolicy
	logger   *slog.Logger

	trigger chan struct{}
	wg      sync.WaitGroup
	cancel  context.CancelFunc
	mu      sync.Mutex
}

// NewBillingRunner constructs the billing cycle runner.
func NewBillingRunner(facade BillingFacade, interval time.Duration, workers int, retry RetryPolicy, logger *slog.Logger) *BillingRunner {
	if workers <= 0 {
		workers = 1
	}
	if retry.MaxAttempts <= 0 {
		retry.MaxAttempts = 1
	}
	if retry.Factor < 1 {
		retry.Factor = 2
	}
	if retry.MaxDelay < retry.InitialDelay {
		retry.MaxDelay = retry.InitialDelay
	}
	return &BillingRunner{
		facade:   facade,
		interval: interval,
		workers:  workers,
		retry:    retry,
		logger:   logger,
		trigger:  make(chan struct{}, 1),
	}
}

// Start launches background billing cycles.
func (r *BillingRunner) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	r.wg.Add(1)
	go r.loop(runCtx)
}

// Stop waits for the in-flight cycle to finish.
func (r *BillingRunner) Stop() {
	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.mu.Unlock()

	r.wg.Wait()
}

// TriggerCycle requests an immediate billing cycle. It reports false when a
// trigger is already queued.
func (r *BillingRunner) TriggerCycle() bool {
	select {
	case r.trigger <- struct{}{}:
		return true
	default:
		return false
	}
}

func (r *BillingRunner) loop(ctx context.Context) {
	defer r.wg.Done()
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		case <-r.trigger:
		}
		if _, err := r.RunCycle(ctx); err != nil {
			r.logger.Error("billing cycle failed", slog.String("error", err.Error()))
		}
	}
}

// RunCycle executes one full billing cycle and returns the per-invoice
// outcomes. It returns once every dispatched charge has settled.
func (r *BillingRunner) RunCycle(ctx context.Context) ([]ChargeOutcome, error) {
	due, err := r.facade.ClaimDueInvoices(ctx)
	if err != nil {
		return nil, err
	}
	if len(due) == 0 {
		return nil, nil
	}

	outcomes := make([]ChargeOutcome, 0, len(due))
	batch := make([]model.Invoice, 0, len(due))
	var mismatched []model.DueInvoice
	for _, d := range due {
		if r.facade.HasCurrencyMismatch(d) {
			mismatched = append(mismatched, d)
			continue
		}
		batch = append(batch, d.Invoice)
	}
	for _, d := range mismatched {
		invoice, err := r.facade.ReconcileInvoice(ctx, d)
		if err != nil {
			r.logger.Error("reconciliation failed",
				slog.Int64("invoice", d.Invoice.ID),
				slog.String("error", err.Error()),
			)
			outcomes = append(outcomes, ChargeOutcome{
				InvoiceID: d.Invoice.ID,
				Result:    ChargeResultReconcileFailed,
				Status:    model.InvoiceStatusSentForPayment,
				Err:       err,
			})
			continue
		}
		batch = append(batch, invoice)
	}

	outcomes = append(outcomes, r.dispatch(ctx, batch)...)

	var paid int
	for _, o := range outcomes {
		if o.Result == ChargeResultPaid {
			paid++
		}
	}
	r.logger.Info("billing cycle complete",
		slog.Int("claimed", len(due)),
		slog.Int("charged", len(batch)),
		slog.Int("paid", paid),
	)

	return outcomes, nil
}

// dispatch fans the batch out over the worker pool and joins all results.
func (r *BillingRunner) dispatch(ctx context.Context, batch []model.Invoice) []ChargeOutcome {
	if len(batch) == 0 {
		return nil
	}

	workers := r.workers
	if workers > len(batch) {
		workers = len(batch)
	}

	jobs := make(chan model.Invoice)
	results := make(chan ChargeOutcome, len(batch))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for invoice := range jobs {
				results <- r.chargeWithRetry(ctx, invoice)
			}
		}()
	}

	for _, invoice := range batch {
		jobs <- invoice
	}
	close(jobs)
	wg.Wait()
	close(results)

	outcomes := make([]ChargeOutcome, 0, len(batch))
	for outcome := range results {
		outcomes = append(outcomes, outcome)
	}
	return outcomes
}

// chargeWithRetry submits one invoice to the gateway, retrying transient
// failures with exponential backoff, and classifies the terminal outcome.
func (r *BillingRunner) chargeWithRetry(ctx context.Context, invoice model.Invoice) ChargeOutcome {
	outcome := ChargeOutcome{
		InvoiceID: invoice.ID,
		Status:    model.InvoiceStatusSentForPayment,
	}

	delay := r.retry.InitialDelay
	for attempt := 1; ; attempt++ {
		outcome.Attempts = attempt

		accepted, err := r.facade.Charge(ctx, invoice)
		if err == nil {
			if accepted {
				return r.settle(ctx, outcome, ChargeResultPaid, model.InvoiceStatusPaid)
			}
			// Soft decline: the invoice keeps its claimed status and no
			// future cycle reclaims it, since claiming only selects
			// PENDING rows.
			outcome.Result = ChargeResultDeclined
			return outcome
		}

		var notFound *domainErrors.CustomerNotFoundError
		var mismatch *domainErrors.CurrencyMismatchError
		switch {
		case errors.As(err, &notFound):
			return r.settle(ctx, outcome, ChargeResultCustomerNotFound, model.InvoiceStatusCustomerNotFound)
		case errors.As(err, &mismatch):
			return r.settle(ctx, outcome, ChargeResultCurrencyMismatch, model.InvoiceStatusCurrencyMismatch)
		case domainErrors.IsTransient(err):
			if attempt >= r.retry.MaxAttempts {
				r.logger.Warn("charge retries exhausted",
					slog.Int64("invoice", invoice.ID),
					slog.Int("attempts", attempt),
				)
				outcome.Result = ChargeResultRetriesExhausted
				outcome.Err = err
				return outcome
			}
			if !sleep(ctx, delay) {
				outcome.Result = ChargeResultRetriesExhausted
				outcome.Err = ctx.Err()
				return outcome
			}
			delay = nextDelay(delay, r.retry)
		default:
			r.logger.Error("charge failed",
				slog.Int64("invoice", invoice.ID),
				slog.String("error", err.Error()),
			)
			outcome.Result = ChargeResultFailed
			outcome.Err = err
			return outcome
		}
	}
}

func (r *BillingRunner) settle(ctx context.Context, outcome ChargeOutcome, result ChargeResult, status model.InvoiceStatus) ChargeOutcome {
	if err := r.facade.SetInvoiceStatus(ctx, outcome.InvoiceID, status); err != nil {
		r.logger.Error("status write failed",
			slog.Int64("invoice", outcome.InvoiceID),
			slog.String("status", string(status)),
			slog.String("error", err.Error()),
		)
		outcome.Result = ChargeResultFailed
		outcome.Err = err
		return outcome
	}
	outcome.Result = result
	outcome.Status = status
	return outcome
}

func nextDelay(current time.Duration, retry RetryPolicy) time.Duration {
	next := time.Duration(float64(current) * retry.Factor)
	if next > retry.MaxDelay {
		next = retry.MaxDelay
	}
	return next
}

// sleep waits for d, reporting false when ctx is canceled first.
func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
