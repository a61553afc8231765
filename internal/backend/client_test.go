package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/regalflowers/storefront-BE/internal/checkout"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 5*time.Second)
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, body map[string]any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(body))
}

func TestGetOrder(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/orders/ord_123", r.URL.Path)
		require.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		writeJSON(t, w, http.StatusOK, map[string]any{
			"error":   false,
			"message": "ok",
			"data": map[string]any{
				"id":             "ord_123",
				"order_number":   "RF20260301",
				"amount":         140000,
				"payment_status": "not paid",
			},
		})
	})

	order, err := client.GetOrder(context.Background(), "tok", "ord_123")
	require.NoError(t, err)
	require.Equal(t, "ord_123", order.ID)
	require.Equal(t, int64(140000), order.Amount)
}

func TestGetOrderNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusNotFound, map[string]any{
			"error": true, "message": "order not found",
		})
	})

	_, err := client.GetOrder(context.Background(), "", "ord_gone")
	require.ErrorIs(t, err, ErrOrderNotFound)
}

func TestGetOrderGuestOmitsAuthHeader(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Empty(t, r.Header.Get("Authorization"))
		writeJSON(t, w, http.StatusOK, map[string]any{
			"error": false, "data": map[string]any{"id": "ord_123"},
		})
	})

	_, err := client.GetOrder(context.Background(), "", "ord_123")
	require.NoError(t, err)
}

func TestUpdateCheckoutStateUserExists(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusBadRequest, map[string]any{
			"error": true, "message": "A user with this email already exists",
		})
	})

	form := checkout.Form{SenderEmail: "ada@example.com"}
	payload := AdaptCheckoutForm(form, time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC), "NGN")

	_, err := client.UpdateCheckoutState(context.Background(), "", "ord_123", payload)
	require.ErrorIs(t, err, ErrUserExists)
}

func TestAdaptCheckoutForm(t *testing.T) {
	altDate := time.Date(2026, time.February, 14, 0, 0, 0, 0, time.UTC)
	form := checkout.Form{
		SenderName:     "Ada Obi",
		SenderEmail:    "ada@example.com",
		SenderPhone:    checkout.PhoneNumber{CountryCode: "234", Number: "8011112222"},
		DeliveryMethod: checkout.MethodDelivery,
		State:          "lagos",
		Zone:           "high-lagos",
		ReceiverName:   "Bola Ade",
		ReceiverPhone:  checkout.PhoneNumber{CountryCode: "234", Number: "8032221111"},
		SaveAddress:    true,
	}

	payload := AdaptCheckoutForm(form, altDate, "NGN")

	require.Equal(t, "2026-02-14", payload.OrderData.DeliveryDate)
	require.Equal(t, "delivery", payload.OrderData.DeliveryMethod)
	require.Equal(t, "2348032221111", payload.OrderData.RecipientPhone)
	require.Empty(t, payload.OrderData.RecipientAltPhone)
	require.Equal(t, "2348011112222", payload.UserData.Phone)
	require.Equal(t, "NGN", payload.CurrencyCode)
}

func TestVerifyPaymentFlaggedStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/payments/paystack/verify", r.URL.Path)
		writeJSON(t, w, http.StatusOK, map[string]any{
			"error":   false,
			"message": "flagged for review",
			"status":  214,
			"data":    true,
		})
	})

	result, err := client.VerifyPayment(context.Background(), "", "paystack", "ref_1", "ord_123")
	require.NoError(t, err)
	require.Equal(t, StatusFlagged, result.Status)
	require.True(t, result.Data)
}
