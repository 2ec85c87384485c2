package mercadopago

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/verduraria/backend/pkg/config"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(context.Background(), config.MercadoPagoConfig{
		AccessToken: "TEST-token",
		BaseURL:     srv.URL,
		Timeout:     2 * time.Second,
	}, nil)
	require.NoError(t, err)
	return client
}

func TestNewClientRequiresAccessToken(t *testing.T) {
	t.Parallel()

	_, err := NewClient(context.Background(), config.MercadoPagoConfig{}, nil)
	require.ErrorIs(t, err, errAccessTokenRequired)
}

func TestCreatePreference(t *testing.T) {
	t.Parallel()

	var captured PreferenceRequest
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/checkout/preferences", r.URL.Path)
		require.Equal(t, "Bearer TEST-token", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(Preference{ID: "pref-1", InitPoint: "https://mp.test/init"})
	}))

	pref, err := client.CreatePreference(context.Background(), PreferenceRequest{
		Items: []PreferenceItem{
			{Title: "Tomate", Quantity: 1, UnitPrice: decimal.RequireFromString("12.50")},
		},
		ExternalReference: "order-123",
		BackURLs:          BackURLs{Success: "https://loja.test/ok"},
	})
	require.NoError(t, err)
	require.Equal(t, "pref-1", pref.ID)
	require.Equal(t, "https://mp.test/init", pref.InitPoint)
	require.Equal(t, "order-123", captured.ExternalReference)
}

func TestCreatePreferenceRejectsEmptyItems(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	}))

	_, err := client.CreatePreference(context.Background(), PreferenceRequest{ExternalReference: "order-1"})
	require.Error(t, err)
}

func TestGetPayment(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/payments/987", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(Payment{
			ID:                987,
			Status:            "approved",
			ExternalReference: "order-123",
			TransactionAmount: decimal.RequireFromString("130.00"),
		})
	}))

	payment, err := client.GetPayment(context.Background(), "987")
	require.NoError(t, err)
	require.Equal(t, "approved", payment.Status)
	require.Equal(t, "order-123", payment.ExternalReference)
}

func TestGetPaymentSurfacesGatewayError(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"not found"}`, http.StatusNotFound)
	}))

	_, err := client.GetPayment(context.Background(), "missing")
	require.Error(t, err)
	require.Contains(t, err.Error(), "404")
}
