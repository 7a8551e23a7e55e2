package subscription

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arcana-app/arcana-go/internal/models"
)

// scriptedFetcher returns canned results per call, repeating the last one.
type scriptedFetcher struct {
	calls   atomic.Int32
	results []fetchResult
}

type fetchResult struct {
	snap *models.SubscriptionSnapshot
	err  error
}

func (f *scriptedFetcher) CurrentSubscription(_ context.Context, _ bool) (*models.SubscriptionSnapshot, error) {
	n := int(f.calls.Add(1)) - 1
	if n >= len(f.results) {
		n = len(f.results) - 1
	}
	r := f.results[n]
	return r.snap, r.err
}

func entitled(pkg string) *models.SubscriptionSnapshot {
	return &models.SubscriptionSnapshot{PackageID: pkg, Status: models.SubscriptionStatusActive}
}

func free() *models.SubscriptionSnapshot {
	return &models.SubscriptionSnapshot{Status: models.SubscriptionStatusNone}
}

func TestPollImmediateMatch(t *testing.T) {
	fetcher := &scriptedFetcher{results: []fetchResult{{snap: entitled("pkg_yearly")}}}
	poller := NewPoller(NewStore(fetcher), nil)

	var updated *models.SubscriptionSnapshot
	result := poller.Poll(context.Background(), PollOptions{
		ExpectedPackageID: "pkg_yearly",
		MaxDuration:       time.Second,
		Interval:          100 * time.Millisecond,
		OnUpdate:          func(s *models.SubscriptionSnapshot) { updated = s },
	})

	require.True(t, result.Success)
	require.False(t, result.TimedOut)
	require.Equal(t, "pkg_yearly", result.Subscription.PackageID)
	require.Equal(t, int32(1), fetcher.calls.Load(), "cold read matched, no loop entered")
	require.NotNil(t, updated)
}

func TestPollDelayedMatch(t *testing.T) {
	fetcher := &scriptedFetcher{results: []fetchResult{
		{snap: free()},
		{snap: free()},
		{snap: entitled("pkg_yearly")},
	}}
	poller := NewPoller(NewStore(fetcher), nil)

	start := time.Now()
	result := poller.Poll(context.Background(), PollOptions{
		ExpectedPackageID: "pkg_yearly",
		MaxDuration:       time.Second,
		Interval:          20 * time.Millisecond,
	})
	elapsed := time.Since(start)

	require.True(t, result.Success)
	require.GreaterOrEqual(t, fetcher.calls.Load(), int32(3))
	require.Less(t, fetcher.calls.Load(), int32(10))
	require.Less(t, elapsed, time.Second+20*time.Millisecond)
}

func TestPollTimeout(t *testing.T) {
	fetcher := &scriptedFetcher{results: []fetchResult{{snap: free()}}}
	poller := NewPoller(NewStore(fetcher), nil)

	timedOut := false
	start := time.Now()
	result := poller.Poll(context.Background(), PollOptions{
		MaxDuration: 200 * time.Millisecond,
		Interval:    50 * time.Millisecond,
		OnTimeout:   func() { timedOut = true },
	})
	elapsed := time.Since(start)

	require.False(t, result.Success)
	require.True(t, result.TimedOut)
	require.NotEmpty(t, result.Error)
	require.True(t, timedOut)
	require.GreaterOrEqual(t, elapsed, 200*time.Millisecond)
	require.Less(t, elapsed, 400*time.Millisecond, "settles within one interval of the deadline")
}

func TestPollContinuesThroughFetchErrors(t *testing.T) {
	fetcher := &scriptedFetcher{results: []fetchResult{
		{err: errors.New("transient")},
		{err: errors.New("transient")},
		{snap: entitled("pkg_monthly")},
	}}
	poller := NewPoller(NewStore(fetcher), nil)

	var fetchErrs []string
	result := poller.Poll(context.Background(), PollOptions{
		ExpectedPackageID: "pkg_monthly",
		MaxDuration:       time.Second,
		Interval:          20 * time.Millisecond,
		OnError:           func(msg string) { fetchErrs = append(fetchErrs, msg) },
	})

	require.True(t, result.Success)
	require.Len(t, fetchErrs, 2, "transient fetch errors do not abort polling")
}

func TestPollAnyEntitledWhenNoExpectation(t *testing.T) {
	fetcher := &scriptedFetcher{results: []fetchResult{{snap: entitled("pkg_preexisting")}}}
	poller := NewPoller(NewStore(fetcher), nil)

	result := poller.Poll(context.Background(), PollOptions{
		MaxDuration: time.Second,
		Interval:    50 * time.Millisecond,
	})
	require.True(t, result.Success, "no-expectation polling accepts any entitled subscription")
}

func TestPollCancellation(t *testing.T) {
	fetcher := &scriptedFetcher{results: []fetchResult{{snap: free()}}}
	poller := NewPoller(NewStore(fetcher), nil)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(30 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	result := poller.Poll(ctx, PollOptions{
		MaxDuration: 5 * time.Second,
		Interval:    20 * time.Millisecond,
	})
	require.False(t, result.Success)
	require.False(t, result.TimedOut)
	require.Less(t, time.Since(start), time.Second, "cancellation stops the loop deterministically")
}

func TestStoreRefreshKeepsSnapshotOnError(t *testing.T) {
	fetcher := &scriptedFetcher{results: []fetchResult{
		{snap: entitled("pkg_yearly")},
		{err: errors.New("down")},
	}}
	store := NewStore(fetcher)

	_, err := store.Refresh(context.Background(), true)
	require.NoError(t, err)
	require.True(t, store.IsEntitled())

	_, err = store.Refresh(context.Background(), true)
	require.Error(t, err)
	require.True(t, store.IsEntitled(), "failed refresh keeps the previous snapshot")
}
