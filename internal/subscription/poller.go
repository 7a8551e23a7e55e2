package subscription

import (
	"context"
	"log/slog"
	"time"

	"github.com/arcana-app/arcana-go/internal/models"
)

// Poll tuning defaults: a purchase normally reconciles within a few
// webhook deliveries, so 30 seconds at 2.5 second spacing covers the
// common case without hammering the backend.
const (
	DefaultPollMaxDuration = 30 * time.Second
	DefaultPollInterval    = 2500 * time.Millisecond
)

// PollOptions tunes one polling run. Zero durations take the defaults.
type PollOptions struct {
	MaxDuration time.Duration
	Interval    time.Duration
	// ExpectedPackageID, when set, requires the snapshot to carry this
	// package id; when empty any entitled subscription matches (which can
	// false-positive against a pre-existing subscription; see
	// SubscriptionSnapshot.Matches).
	ExpectedPackageID string
	// OnUpdate fires once with the matching snapshot.
	OnUpdate func(*models.SubscriptionSnapshot)
	// OnTimeout fires when the window closes without a match.
	OnTimeout func()
	// OnError fires per transient fetch failure; polling continues.
	OnError func(string)
}

// Poller drives a subscription store until its snapshot reflects an
// expected state or a wall-clock window closes.
type Poller struct {
	store  *Store
	logger *slog.Logger
}

// NewPoller binds a poller to the store it refreshes.
func NewPoller(store *Store, logger *slog.Logger) *Poller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Poller{store: store, logger: logger}
}

// Poll force-refreshes the snapshot immediately, then re-checks every
// Interval until a match or MaxDuration elapses. Exactly one fetch is in
// flight at a time; a slow fetch delays the next tick rather than
// overlapping it. Transient fetch errors keep the loop alive. Cancelling
// ctx stops the loop deterministically.
//
// The result settles in one of three ways: match, timeout, or caller
// cancellation; it never runs past MaxDuration by more than one Interval.
func (p *Poller) Poll(ctx context.Context, opts PollOptions) models.PollingResult {
	maxDuration := opts.MaxDuration
	if maxDuration <= 0 {
		maxDuration = DefaultPollMaxDuration
	}
	interval := opts.Interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	start := time.Now()

	// Cold read: the purchase may already be reconciled.
	if result, done := p.check(ctx, opts); done {
		return result
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return models.PollingResult{Success: false, Error: "polling cancelled"}
		case <-ticker.C:
			if time.Since(start) >= maxDuration {
				if opts.OnTimeout != nil {
					opts.OnTimeout()
				}
				return models.PollingResult{
					Success:  false,
					TimedOut: true,
					Error:    "subscription did not reconcile within the polling window",
				}
			}
			if result, done := p.check(ctx, opts); done {
				return result
			}
		}
	}
}

// check runs one fetch-and-match cycle. done is true only on a match;
// fetch errors are reported and swallowed.
func (p *Poller) check(ctx context.Context, opts PollOptions) (models.PollingResult, bool) {
	snap, err := p.store.Refresh(ctx, true)
	if err != nil {
		p.logger.Debug("subscription poll fetch failed", "error", err)
		if opts.OnError != nil {
			opts.OnError(err.Error())
		}
		return models.PollingResult{}, false
	}
	if !snap.Matches(opts.ExpectedPackageID) {
		return models.PollingResult{}, false
	}
	if opts.OnUpdate != nil {
		opts.OnUpdate(snap)
	}
	return models.PollingResult{Success: true, Subscription: snap}, true
}
