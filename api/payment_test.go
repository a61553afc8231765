package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/regalflowers/storefront-BE/internal/checkout"
	"github.com/regalflowers/storefront-BE/internal/notification"
	"github.com/regalflowers/storefront-BE/internal/payment"
	"github.com/stretchr/testify/require"
)

type verifyPaymentResponse struct {
	Result       payment.Result            `json:"result"`
	Notification notification.Notification `json:"notification"`
}

func TestVerifyPaymentRefusedBeforePaymentStage(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no backend call expected for a details-stage session")
	})

	// A reset session back at the details stage still holds no right to
	// replay a previously issued reference.
	token := seedSession(t, server, nil)

	recorder := doJSON(t, server, http.MethodPost, "/v1/payment/paystack/verify", token, gin.H{"reference": "ref_1"})
	require.Equal(t, http.StatusConflict, recorder.Code)

	state := loadTestState(t, server)
	require.False(t, state.Paid)
	require.Equal(t, checkout.StageDetails, state.Stage)
}

func TestVerifyPaymentFlaggedNotification(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/payments/paystack/verify", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error":   false,
			"message": "Payment received but flagged for review",
			"status":  214,
			"data":    true,
		})
	})

	token := seedSession(t, server, func(state *checkout.State) {
		state.Stage = checkout.StagePayment
		state.OrderID = "ord_123"
	})

	recorder := doJSON(t, server, http.MethodPost, "/v1/payment/paystack/verify", token, gin.H{"reference": "ref_1"})
	require.Equal(t, http.StatusOK, recorder.Code)

	var resp verifyPaymentResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	require.Equal(t, payment.StatusFlagged, resp.Result.Status)
	require.Equal(t, notification.TypeInfo, resp.Notification.Type)
	require.Equal(t, "Payment received but flagged for review", resp.Notification.Message)

	state := loadTestState(t, server)
	require.True(t, state.Paid)
	require.Equal(t, checkout.StageComplete, state.Stage)
	require.Empty(t, state.OrderID)
}

func TestVerifyPaymentPaidNotification(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error":   false,
			"message": "Payment verified",
			"status":  200,
			"data":    true,
		})
	})

	token := seedSession(t, server, func(state *checkout.State) {
		state.Stage = checkout.StagePayment
		state.OrderID = "ord_123"
	})

	recorder := doJSON(t, server, http.MethodPost, "/v1/payment/paystack/verify", token, gin.H{"reference": "ref_1"})
	require.Equal(t, http.StatusOK, recorder.Code)

	var resp verifyPaymentResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	require.Equal(t, payment.StatusPaid, resp.Result.Status)
	require.Equal(t, notification.TypeSuccess, resp.Notification.Type)
}

func TestVerifyPaymentFailedLeavesStage(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error":   true,
			"message": "Transaction not found",
			"status":  400,
		})
	})

	token := seedSession(t, server, func(state *checkout.State) {
		state.Stage = checkout.StagePayment
		state.OrderID = "ord_123"
	})

	recorder := doJSON(t, server, http.MethodPost, "/v1/payment/paystack/verify", token, gin.H{"reference": "ref_1"})
	require.Equal(t, http.StatusPaymentRequired, recorder.Code)

	var resp verifyPaymentResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	require.Equal(t, notification.TypeError, resp.Notification.Type)

	state := loadTestState(t, server)
	require.False(t, state.Paid)
	require.Equal(t, checkout.StagePayment, state.Stage)
	require.Equal(t, "ord_123", state.OrderID)
}
