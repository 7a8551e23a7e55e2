package apperr

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arcana-app/arcana-go/internal/models"
)

func TestErrorLogBounded(t *testing.T) {
	log := NewErrorLog(DefaultLogCapacity)
	for i := 0; i < 75; i++ {
		log.Log(&models.AppError{
			Type:    models.ErrorTypeAPI,
			Message: fmt.Sprintf("error %d", i),
			Code:    models.CodeAPIError,
		})
	}

	got := log.Errors()
	require.Len(t, got, 50)
	// Oldest-first: entries 25..74 survive.
	require.Equal(t, "error 25", got[0].Message)
	require.Equal(t, "error 74", got[49].Message)
}

func TestErrorLogSnapshotIsolated(t *testing.T) {
	log := NewErrorLog(0) // falls back to default capacity
	log.Log(&models.AppError{Message: "one", Type: models.ErrorTypeUnknown})

	snap := log.Errors()
	require.Len(t, snap, 1)
	require.False(t, snap[0].Timestamp.IsZero())

	log.Log(&models.AppError{Message: "two", Type: models.ErrorTypeUnknown})
	require.Len(t, snap, 1, "snapshot must not grow after later logs")
}

func TestErrorLogClear(t *testing.T) {
	log := NewErrorLog(10)
	log.Log(&models.AppError{Message: "x", Type: models.ErrorTypeUnknown})
	log.Log(nil) // ignored
	require.Len(t, log.Errors(), 1)

	log.Clear()
	require.Empty(t, log.Errors())
}
