// Package subscription owns the client-side subscription snapshot and the
// reconciliation poller that waits for the backend to reflect a purchase.
package subscription

import (
	"context"
	"sync"

	"github.com/arcana-app/arcana-go/internal/models"
)

// Fetcher retrieves the server's current subscription view.
// api.Client satisfies it.
type Fetcher interface {
	CurrentSubscription(ctx context.Context, force bool) (*models.SubscriptionSnapshot, error)
}

// Store holds the latest snapshot. Each successful refresh overwrites it
// wholesale; readers get the pointer and must not mutate through it.
type Store struct {
	fetcher Fetcher

	mu   sync.RWMutex
	snap *models.SubscriptionSnapshot
}

// NewStore binds the store to its fetcher. Constructed at app start and
// passed by reference to consumers.
func NewStore(fetcher Fetcher) *Store {
	return &Store{fetcher: fetcher}
}

// Current returns the last fetched snapshot, nil before the first refresh.
func (s *Store) Current() *models.SubscriptionSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Refresh fetches the subscription and replaces the snapshot. On error the
// previous snapshot is kept.
func (s *Store) Refresh(ctx context.Context, force bool) (*models.SubscriptionSnapshot, error) {
	snap, err := s.fetcher.CurrentSubscription(ctx, force)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()
	return snap, nil
}

// IsEntitled reports whether the last known snapshot grants premium access.
func (s *Store) IsEntitled() bool {
	snap := s.Current()
	return snap != nil && snap.Status.IsEntitled()
}
