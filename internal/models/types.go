package models

import (
	"encoding/json"
	"time"
)

// SubscriptionStatus represents the server-side state of a subscription.
type SubscriptionStatus string

// Subscription status constants.
const (
	SubscriptionStatusActive   SubscriptionStatus = "active"
	SubscriptionStatusTrialing SubscriptionStatus = "trialing"
	SubscriptionStatusPastDue  SubscriptionStatus = "past_due"
	SubscriptionStatusCanceled SubscriptionStatus = "canceled"
	SubscriptionStatusNone     SubscriptionStatus = "none"
)

// IsEntitled returns true if the subscription grants premium access.
// Trialing counts: the trial period is entitled until it lapses.
func (s SubscriptionStatus) IsEntitled() bool {
	return s == SubscriptionStatusActive || s == SubscriptionStatusTrialing
}

// SubscriptionSnapshot is the most recent server view of the user's
// subscription. Each refresh overwrites the previous snapshot wholesale;
// readers treat it as immutable.
type SubscriptionSnapshot struct {
	PackageID        string             `json:"package_id"`
	Status           SubscriptionStatus `json:"status"`
	PriceID          string             `json:"price_id,omitempty"`
	CurrentPeriodEnd *time.Time         `json:"current_period_end,omitempty"`
	CancelAtEnd      bool               `json:"cancel_at_period_end,omitempty"`
	FetchedAt        time.Time          `json:"fetched_at"`
}

// Matches reports whether the snapshot satisfies an expectation: with a
// package id, the ids must agree and the status must be entitled; with no
// expectation, any entitled subscription counts.
//
// The no-expectation branch can match a pre-existing unrelated subscription.
// Callers that just completed a checkout should always pass the package id.
func (s *SubscriptionSnapshot) Matches(expectedPackageID string) bool {
	if s == nil {
		return false
	}
	if expectedPackageID != "" && s.PackageID != expectedPackageID {
		return false
	}
	return s.Status.IsEntitled()
}

// PaymentIntentRecord is the backend's answer to a checkout request: the
// capture secret plus ids for verification. Created once per attempt and
// consumed immediately by the capture step.
type PaymentIntentRecord struct {
	ClientSecret    string `json:"client_secret"`
	PaymentIntentID string `json:"payment_intent_id"`
	SubscriptionID  string `json:"subscription_id,omitempty"`
}

// PollingResult is the terminal value of one poll invocation.
type PollingResult struct {
	Success      bool                  `json:"success"`
	Subscription *SubscriptionSnapshot `json:"subscription,omitempty"`
	Error        string                `json:"error,omitempty"`
	TimedOut     bool                  `json:"timed_out"`
}

// TimerData is the server-supplied countdown to the next quota reset
// (e.g. the daily readings limit). It is an immutable snapshot; remaining
// time is re-derived locally against ResetTimestamp.
type TimerData struct {
	Hours          int    `json:"hours"`
	Minutes        int    `json:"minutes"`
	Seconds        int    `json:"seconds"`
	TotalMS        int64  `json:"total_ms"`
	TotalSeconds   int64  `json:"total_seconds"`
	ResetTime      string `json:"reset_time"`
	ResetTimestamp int64  `json:"reset_timestamp"`
}

// CachedUser is the locally persisted profile blob, stored alongside the
// bearer token and cleared with it on logout.
type CachedUser struct {
	ID      string          `json:"id"`
	Email   string          `json:"email"`
	Name    string          `json:"name,omitempty"`
	Premium bool            `json:"premium"`
	Raw     json.RawMessage `json:"raw,omitempty"`
}
