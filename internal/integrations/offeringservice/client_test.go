package offeringservice

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SessionBookingService/pkg/logger"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/internal/offerings/5", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":5,"practitioner_id":9,"title":"Tarot reading","price":"80.00","currency":"USD","is_active":true}`))
	})
	mux.HandleFunc("/internal/offerings/7", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":7,"practitioner_id":9,"title":"Reiki","price":"40.00","is_active":true}`))
	})
	mux.HandleFunc("/internal/practitioners/9/payout-account", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"practitioner_id":9,"account_id":"acct_123","payouts_enabled":true}`))
	})
	mux.HandleFunc("/internal/offerings/500", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestGetOffering(t *testing.T) {
	srv := newTestServer(t)
	client := NewClient(srv.URL+"/", time.Second, logger.Nop())

	offering, err := client.GetOffering(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, int64(9), offering.PractitionerID)
	assert.Equal(t, "usd", offering.Currency)
	assert.True(t, offering.Price.Equal(decimal.RequireFromString("80")))
	assert.True(t, offering.IsActive)
}

func TestGetOffering_DefaultCurrency(t *testing.T) {
	srv := newTestServer(t)
	client := NewClient(srv.URL, time.Second, logger.Nop()).WithDefaultCurrency("EUR")

	offering, err := client.GetOffering(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "eur", offering.Currency)
}

func TestGetOffering_NotFound(t *testing.T) {
	srv := newTestServer(t)
	client := NewClient(srv.URL, time.Second, logger.Nop())

	_, err := client.GetOffering(context.Background(), 6)
	require.ErrorIs(t, err, ErrOfferingNotFound)
}

func TestGetOffering_UnexpectedStatus(t *testing.T) {
	srv := newTestServer(t)
	client := NewClient(srv.URL, time.Second, logger.Nop())

	_, err := client.GetOffering(context.Background(), 500)
	require.ErrorIs(t, err, ErrInvalidResponse)
}

func TestGetPayoutAccount(t *testing.T) {
	srv := newTestServer(t)
	client := NewClient(srv.URL, time.Second, logger.Nop())

	account, err := client.GetPayoutAccount(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, "acct_123", account.DestinationAccount)
	assert.True(t, account.IsPayable())
}
