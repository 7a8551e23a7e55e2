package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arcana-app/arcana-go/internal/httpclient"
)

func newTestAPI(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(httpclient.New(httpclient.Options{
		BaseURL:        srv.URL,
		Timeout:        2 * time.Second,
		RetryBaseDelay: time.Millisecond,
	}))
}

func TestCreatePaymentIntent(t *testing.T) {
	client := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/payments/intent", r.URL.Path)

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "pkg_yearly", req["package_id"])
		require.Equal(t, "price_1", req["price_id"])
		require.NotEmpty(t, req["idempotency_key"])

		_, _ = w.Write([]byte(`{"client_secret":"pi_1_secret_a","payment_intent_id":"pi_1","subscription_id":"sub_1"}`))
	})

	record, err := client.CreatePaymentIntent(context.Background(), "pkg_yearly", "price_1")
	require.NoError(t, err)
	require.Equal(t, "pi_1", record.PaymentIntentID)
	require.Equal(t, "pi_1_secret_a", record.ClientSecret)
	require.Equal(t, "sub_1", record.SubscriptionID)
}

func TestCreatePaymentIntentIncomplete(t *testing.T) {
	client := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})

	record, err := client.CreatePaymentIntent(context.Background(), "pkg_yearly", "price_1")
	require.Error(t, err)
	require.Nil(t, record)
}

func TestCurrentSubscriptionForceRefresh(t *testing.T) {
	client := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/subscription", r.URL.Path)
		require.Equal(t, "true", r.URL.Query().Get("refresh"))
		_, _ = w.Write([]byte(`{"package_id":"pkg_yearly","status":"active"}`))
	})

	snap, err := client.CurrentSubscription(context.Background(), true)
	require.NoError(t, err)
	require.Equal(t, "pkg_yearly", snap.PackageID)
	require.False(t, snap.FetchedAt.IsZero())
}

func TestDailyLimit(t *testing.T) {
	client := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/limits/daily", r.URL.Path)
		_, _ = w.Write([]byte(`{"hours":3,"minutes":12,"seconds":5,"total_seconds":11525,"reset_timestamp":1750000000000}`))
	})

	td, err := client.DailyLimit(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, td.Hours)
	require.Equal(t, int64(1750000000000), td.ResetTimestamp)
}

func TestVerifyPayment(t *testing.T) {
	client := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/payments/verify", r.URL.Path)
		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "pi_1", req["payment_intent_id"])
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, client.VerifyPayment(context.Background(), "pi_1"))
}
