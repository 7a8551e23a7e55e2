package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/arcana-app/arcana-go/internal/apperr"
	"github.com/arcana-app/arcana-go/internal/i18n"
	"github.com/arcana-app/arcana-go/internal/models"
	"github.com/arcana-app/arcana-go/internal/subscription"
)

// Fixed capture-surface branding.
const (
	merchantDisplayName = "Arcana"
	captureReturnURL    = "arcana://stripe-redirect"
	defaultBillingName  = "Arcana Customer"
)

// Backend is the slice of the API client the workflow needs.
type Backend interface {
	CreatePaymentIntent(ctx context.Context, packageID, priceID string) (*models.PaymentIntentRecord, error)
	VerifyPayment(ctx context.Context, paymentIntentID string) error
}

// Processor runs the checkout workflow. Each Process call is independent;
// the only state shared across invocations is the subscription snapshot
// owned by the store behind the poller.
type Processor struct {
	backend Backend
	capture Capture
	poller  *subscription.Poller
	log     *apperr.ErrorLog
	logger  *slog.Logger
	// OnProcessing, when set, fires once after capture succeeds and
	// before reconciliation polling starts, so a UI can show a
	// "confirming" state.
	OnProcessing func()
	// PollMaxDuration and PollInterval override the reconciliation
	// window; zero values take the subscription package defaults.
	PollMaxDuration time.Duration
	PollInterval    time.Duration
}

// NewProcessor wires the workflow's collaborators.
func NewProcessor(backend Backend, capture Capture, poller *subscription.Poller, log *apperr.ErrorLog, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		backend: backend,
		capture: capture,
		poller:  poller,
		log:     log,
		logger:  logger,
	}
}

// Process drives one checkout for (packageID, priceID) to a terminal
// outcome. Every failure short-circuits to a Failed outcome except user
// cancellation (Cancelled, not a system failure) and a reconciliation
// window that closes before the subscription activates (Processing: the
// payment is captured, only bookkeeping is pending).
func (p *Processor) Process(ctx context.Context, packageID, priceID string) (outcome models.PaymentOutcome) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("checkout panicked", "panic", r)
			outcome = p.failed(ctx, fmt.Errorf("checkout aborted: %v", r))
		}
	}()

	// CreateIntent.
	intent, err := p.backend.CreatePaymentIntent(ctx, packageID, priceID)
	if err != nil {
		return p.failed(ctx, err)
	}
	if intent == nil {
		return p.failed(ctx, stepFailure(i18n.T("payment.intent_failed", nil)))
	}

	// InitCapture.
	err = p.capture.Init(ctx, CaptureConfig{
		ClientSecret:                intent.ClientSecret,
		MerchantDisplayName:         merchantDisplayName,
		ReturnURL:                   captureReturnURL,
		AllowsDelayedPaymentMethods: true,
		DefaultBillingName:          defaultBillingName,
	})
	if err != nil {
		var capErr *CaptureError
		if errors.As(err, &capErr) {
			return p.failed(ctx, stepFailure(capErr.Message))
		}
		return p.failed(ctx, err)
	}

	// PresentCapture.
	result, err := p.capture.Present(ctx)
	if apperr.IsUserCancelled(err) {
		return cancelledOutcome()
	}
	if err != nil {
		var capErr *CaptureError
		if errors.As(err, &capErr) {
			return p.failed(ctx, stepFailure(capErr.Error()))
		}
		return p.failed(ctx, err)
	}

	// StatusCheck.
	if result.Status != CaptureStatusSucceeded {
		return p.failed(ctx, stepFailure(i18n.T("payment.unexpected_status",
			map[string]string{"status": string(result.Status)})))
	}

	// BackupVerify: redundancy against webhook delay, not a correctness
	// gate. Failures are logged and the workflow proceeds.
	if err := p.backend.VerifyPayment(ctx, intent.PaymentIntentID); err != nil {
		p.logger.Warn("backup payment verification failed",
			"payment_intent_id", intent.PaymentIntentID, "error", err)
	}

	if p.OnProcessing != nil {
		p.OnProcessing()
	}

	// Reconcile: wait for the backend to reflect the purchase.
	poll := p.poller.Poll(ctx, subscription.PollOptions{
		ExpectedPackageID: packageID,
		MaxDuration:       p.PollMaxDuration,
		Interval:          p.PollInterval,
	})

	switch {
	case poll.Success:
		return models.PaymentOutcome{
			State:        models.PaymentStateSucceeded,
			Subscription: poll.Subscription,
		}
	case poll.TimedOut:
		return models.PaymentOutcome{
			State:   models.PaymentStateProcessing,
			Message: i18n.T("payment.processing", nil),
		}
	default:
		return p.failed(ctx, stepFailure(firstNonEmpty(poll.Error, i18n.T("payment.poll_timeout", nil))))
	}
}

// cancelledOutcome is the terminal outcome for a user-abandoned checkout.
// It carries no error and is never written to the diagnostics log.
func cancelledOutcome() models.PaymentOutcome {
	return models.PaymentOutcome{
		State:   models.PaymentStateCancelled,
		Message: i18n.T("payment.cancelled", nil),
	}
}

// stepFailure wraps a workflow-step message so the classifier records it
// as a payment failure without rewriting the text.
func stepFailure(msg string) error {
	return &apperr.DomainFailure{Code: models.CodePaymentError, Message: msg}
}

// failed classifies and logs err, returning the Failed outcome. A checkout
// abandoned mid-step resolves to Cancelled instead: cancellation is a user
// action, not a system failure.
func (p *Processor) failed(ctx context.Context, err error) models.PaymentOutcome {
	if ctx.Err() != nil || apperr.IsUserCancelled(err) {
		return cancelledOutcome()
	}
	app := apperr.Parse(err, map[string]string{"flow": "checkout"})
	if p.log != nil {
		p.log.Log(app)
	}
	return models.PaymentOutcome{
		State:   models.PaymentStateFailed,
		Message: app.Message,
		Err:     app,
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
