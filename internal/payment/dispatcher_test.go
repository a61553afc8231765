package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/regalflowers/storefront-BE/internal/backend"
	"github.com/regalflowers/storefront-BE/internal/pricing"
	"github.com/regalflowers/storefront-BE/internal/util"
	"github.com/stretchr/testify/require"
	"github.com/zpmep/hmacutil"
)

func testConfig() *util.Config {
	return &util.Config{
		PaystackPublicKey:   "pk_test_xxx",
		PaystackSecretKey:   "sk_test_xxx",
		MonnifyAPIKey:       "mk_test_xxx",
		MonnifyContractCode: "1234567890",
		PaypalClientID:      "paypal_test_xxx",
		BankName:            "Test Bank",
		BankAccountName:     "Regal Flowers Ltd",
		BankAccountNumber:   "0123456789",
		BitcoinWallet:       "bc1qtestwallet",
	}
}

// newTestDispatcher stands up a fake commerce backend and a dispatcher
// pointed at it. The handler decides each response from the request path.
func newTestDispatcher(t *testing.T, handler http.HandlerFunc) *Dispatcher {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := backend.NewClient(srv.URL, 5*time.Second)
	return NewDispatcher(client, testConfig())
}

func envelopeJSON(t *testing.T, w http.ResponseWriter, envelope map[string]any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(envelope))
}

func testOrder() *backend.Order {
	return &backend.Order{
		ID:          "ord_123",
		OrderNumber: "RF20260301",
		Amount:      140000,
		SenderName:  "Ada Obi",
		SenderEmail: "ada@example.com",
	}
}

func TestMethodOptions(t *testing.T) {
	options := MethodOptions("NGN")
	require.Len(t, options, 5)

	byName := make(map[Method]MethodOption)
	for _, o := range options {
		byName[o.Name] = o
	}

	require.True(t, byName[MethodPaystack].Supported)
	require.True(t, byName[MethodMonnify].Supported)
	require.False(t, byName[MethodPaypal].Supported)
	require.NotEmpty(t, byName[MethodPaypal].Reason)
	require.True(t, byName[MethodBankTransfer].Manual)
	require.True(t, byName[MethodBitcoinTransfer].Supported)

	usd := MethodOptions("USD")
	for _, o := range usd {
		switch o.Name {
		case MethodPaypal, MethodBitcoinTransfer:
			require.True(t, o.Supported, o.Name)
		default:
			require.False(t, o.Supported, o.Name)
		}
	}
}

func TestInitiateRejectsBadInput(t *testing.T) {
	d := newTestDispatcher(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no backend call expected")
	})

	_, err := d.Initiate(context.Background(), "", Method("cowries"), testOrder(), pricing.NGN)
	require.ErrorIs(t, err, ErrUnknownMethod)

	_, err = d.Initiate(context.Background(), "", MethodPaystack, testOrder(), pricing.USD)
	require.ErrorIs(t, err, ErrCurrencyNotSupported)
}

func TestInitiatePaystack(t *testing.T) {
	d := newTestDispatcher(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/api/v1/orders/ord_123/payment-method", r.URL.Path)
		envelopeJSON(t, w, map[string]any{"error": false, "message": "ok"})
	})

	initiation, err := d.Initiate(context.Background(), "token", MethodPaystack, testOrder(), pricing.NGN)
	require.NoError(t, err)
	require.Equal(t, MethodPaystack, initiation.Method)
	require.NotNil(t, initiation.Paystack)
	require.Nil(t, initiation.Monnify)

	require.Equal(t, "pk_test_xxx", initiation.Paystack.PublicKey)
	require.Equal(t, "ada@example.com", initiation.Paystack.Email)
	require.Equal(t, int64(140000*100), initiation.Paystack.AmountMinor)
	require.NotEmpty(t, initiation.Paystack.Reference)
}

func TestInitiatePaypalConvertsAmount(t *testing.T) {
	d := newTestDispatcher(t, func(w http.ResponseWriter, r *http.Request) {
		envelopeJSON(t, w, map[string]any{"error": false, "message": "ok"})
	})

	// ₦140,000 at 1,400 naira to the dollar is exactly $100.
	initiation, err := d.Initiate(context.Background(), "token", MethodPaypal, testOrder(), pricing.USD)
	require.NoError(t, err)
	require.NotNil(t, initiation.Paypal)
	require.Equal(t, "100.00", initiation.Paypal.PurchaseUnits[0].Amount.Value)
}

func TestInitiateBankTransferInstructions(t *testing.T) {
	d := newTestDispatcher(t, func(w http.ResponseWriter, r *http.Request) {
		envelopeJSON(t, w, map[string]any{"error": false, "message": "ok"})
	})

	initiation, err := d.Initiate(context.Background(), "token", MethodBankTransfer, testOrder(), pricing.NGN)
	require.NoError(t, err)
	require.NotNil(t, initiation.Instructions)
	require.Equal(t, "Test Bank", initiation.Instructions.BankName)
	require.Equal(t, "₦140,000", initiation.Instructions.Amount)
	require.Contains(t, initiation.Instructions.Note, "RF20260301")
}

func TestVerifyPaid(t *testing.T) {
	d := newTestDispatcher(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/payments/paystack/verify", r.URL.Path)
		envelopeJSON(t, w, map[string]any{
			"error": false, "message": "Payment verified", "status": 200, "data": true,
		})
	})

	result := d.Verify(context.Background(), "token", MethodPaystack, "ref_1", "ord_123")
	require.Equal(t, StatusPaid, result.Status)
	require.True(t, result.Succeeded())
}

func TestVerifyFlagged(t *testing.T) {
	d := newTestDispatcher(t, func(w http.ResponseWriter, r *http.Request) {
		envelopeJSON(t, w, map[string]any{
			"error":   false,
			"message": "Payment received but flagged for review",
			"status":  214,
			"data":    true,
		})
	})

	// Flagged still counts as paid, but keeps the reviewer's message.
	result := d.Verify(context.Background(), "token", MethodPaystack, "ref_1", "ord_123")
	require.Equal(t, StatusFlagged, result.Status)
	require.True(t, result.Succeeded())
	require.Equal(t, "Payment received but flagged for review", result.Message)
}

func TestVerifyFailed(t *testing.T) {
	d := newTestDispatcher(t, func(w http.ResponseWriter, r *http.Request) {
		envelopeJSON(t, w, map[string]any{
			"error": true, "message": "Transaction not found", "status": 400,
		})
	})

	result := d.Verify(context.Background(), "token", MethodPaystack, "ref_1", "ord_123")
	require.Equal(t, StatusFailed, result.Status)
	require.False(t, result.Succeeded())
	require.Contains(t, result.Message, "Transaction not found")
}

func TestVerifyManualMethodFails(t *testing.T) {
	d := newTestDispatcher(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no backend call expected")
	})

	result := d.Verify(context.Background(), "token", MethodBankTransfer, "ref_1", "ord_123")
	require.Equal(t, StatusFailed, result.Status)
}

func TestSubmitClaimPending(t *testing.T) {
	d := newTestDispatcher(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/payments/manual-transfer", r.URL.Path)
		envelopeJSON(t, w, map[string]any{"error": false, "message": "ok"})
	})

	result := d.SubmitClaim(context.Background(), "token", TransferClaim{
		Method:      MethodBankTransfer,
		OrderID:     "ord_123",
		Amount:      140000,
		AccountName: "Ada Obi",
		Reference:   "TRF-1",
		Currency:    "NGN",
	})
	require.Equal(t, StatusPending, result.Status)
	require.False(t, result.Succeeded())
}

func TestVerifyWebhookMAC(t *testing.T) {
	d := newTestDispatcher(t, func(w http.ResponseWriter, r *http.Request) {})

	body := []byte(`{"event":"charge.success","data":{"reference":"ref_1","status":"success","amount":14000000}}`)
	mac := hmacutil.HexStringEncode(hmacutil.SHA256, "sk_test_xxx", string(body))

	require.True(t, d.VerifyWebhookMAC(body, mac))
	require.False(t, d.VerifyWebhookMAC(body, "deadbeef"))

	event, err := ParseWebhookEvent(body)
	require.NoError(t, err)
	require.Equal(t, "charge.success", event.Event)
	require.Equal(t, "ref_1", event.Data.Reference)
}
