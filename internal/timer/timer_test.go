package timer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arcana-app/arcana-go/internal/models"
)

func descriptor(resetAt time.Time) models.TimerData {
	return models.TimerData{
		ResetTime:      resetAt.Format(time.RFC3339),
		ResetTimestamp: resetAt.UnixMilli(),
	}
}

func TestRemaining(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	td := descriptor(now.Add(90 * time.Minute))

	require.Equal(t, 90*time.Minute, Remaining(td, now))
	require.Equal(t, time.Duration(0), Remaining(td, now.Add(2*time.Hour)), "floored at zero after reset")
}

func TestExpired(t *testing.T) {
	now := time.Now()
	require.False(t, Expired(descriptor(now.Add(time.Minute)), now))
	require.True(t, Expired(descriptor(now.Add(-time.Second)), now))
}

func TestSplit(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want Breakdown
	}{
		{0, Breakdown{0, 0, 0}},
		{59 * time.Second, Breakdown{0, 0, 59}},
		{61 * time.Second, Breakdown{0, 1, 1}},
		{3*time.Hour + 12*time.Minute + 5*time.Second, Breakdown{3, 12, 5}},
		{-time.Minute, Breakdown{0, 0, 0}},
		{1500 * time.Millisecond, Breakdown{0, 0, 1}},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, Split(tc.d), "duration %v", tc.d)
	}
}

func TestFormat(t *testing.T) {
	require.Equal(t, "3h 12m", Format(3*time.Hour+12*time.Minute+5*time.Second))
	require.Equal(t, "12m 05s", Format(12*time.Minute+5*time.Second))
	require.Equal(t, "45s", Format(45*time.Second))
	require.Equal(t, "0s", Format(0))
}

func TestFormatRemaining(t *testing.T) {
	now := time.Now()
	td := descriptor(now.Add(2*time.Hour + 30*time.Minute))
	require.Equal(t, "2h 30m", FormatRemaining(td, now))
}
