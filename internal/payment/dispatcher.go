package payment

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/regalflowers/storefront-BE/internal/backend"
	"github.com/regalflowers/storefront-BE/internal/pricing"
	"github.com/regalflowers/storefront-BE/internal/util"
	"github.com/rs/zerolog/log"
)

// Method identifies one payment route.
type Method string

const (
	MethodPaystack        Method = "paystack"
	MethodMonnify         Method = "monnify"
	MethodPaypal          Method = "paypal"
	MethodBankTransfer    Method = "bankTransfer"
	MethodBitcoinTransfer Method = "bitcoinTransfer"
)

var ErrUnknownMethod = errors.New("unknown payment method")
var ErrCurrencyNotSupported = errors.New("payment method does not support the selected currency")

// methodInfo is the static registry entry for one provider.
type methodInfo struct {
	Label      string
	Currencies []string
	Manual     bool
}

var methods = map[Method]methodInfo{
	MethodPaystack:        {Label: "Pay with card, bank or USSD", Currencies: []string{"NGN"}},
	MethodMonnify:         {Label: "Pay with card or bank account", Currencies: []string{"NGN"}},
	MethodPaypal:          {Label: "Pay with PayPal", Currencies: []string{"USD", "GBP"}},
	MethodBankTransfer:    {Label: "Manual bank transfer", Currencies: []string{"NGN"}, Manual: true},
	MethodBitcoinTransfer: {Label: "Bitcoin transfer", Currencies: []string{"NGN", "USD", "GBP"}, Manual: true},
}

// methodOrder keeps the listing stable for the UI.
var methodOrder = []Method{MethodPaystack, MethodMonnify, MethodPaypal, MethodBankTransfer, MethodBitcoinTransfer}

// SupportsCurrency reports whether a method accepts the currency.
func (m Method) SupportsCurrency(code string) bool {
	for _, c := range methods[m].Currencies {
		if c == code {
			return true
		}
	}
	return false
}

// IsManual reports whether the method settles through a self-reported
// transfer claim instead of a provider SDK.
func (m Method) IsManual() bool {
	return methods[m].Manual
}

// MethodOption is one entry in the payment method listing, with the
// unsupported-currency reason for the UI tooltip.
type MethodOption struct {
	Name      Method `json:"name"`
	Label     string `json:"label"`
	Manual    bool   `json:"manual"`
	Supported bool   `json:"supported"`
	Reason    string `json:"reason,omitempty"`
}

// MethodOptions lists every method with its availability for the currency.
func MethodOptions(currency string) []MethodOption {
	options := make([]MethodOption, 0, len(methodOrder))
	for _, m := range methodOrder {
		info := methods[m]
		option := MethodOption{
			Name:      m,
			Label:     info.Label,
			Manual:    info.Manual,
			Supported: m.SupportsCurrency(currency),
		}
		if !option.Supported {
			option.Reason = fmt.Sprintf("%s is not available when paying in %s", info.Label, currency)
		}
		options = append(options, option)
	}
	return options
}

// Status classifies a verification outcome.
type Status string

const (
	StatusPaid    Status = "paid"
	StatusFlagged Status = "flagged" // paid, but pending manual reconciliation
	StatusPending Status = "pending" // manual transfer claim submitted
	StatusFailed  Status = "failed"
)

// Result is the uniform outcome every provider flow funnels into, so the
// completion logic is written once rather than per provider.
type Result struct {
	Status  Status `json:"status"`
	Message string `json:"message"`
}

// Succeeded reports whether the order should be treated as paid.
func (r Result) Succeeded() bool {
	return r.Status == StatusPaid || r.Status == StatusFlagged
}

// Dispatcher maps a chosen method to its provider-specific initiation
// routine and funnels every verification into a Result.
type Dispatcher struct {
	backend *backend.Client
	config  *util.Config
}

func NewDispatcher(backendClient *backend.Client, config *util.Config) *Dispatcher {
	return &Dispatcher{backend: backendClient, config: config}
}

// Initiation carries the provider-specific payload the client needs to
// launch the flow. Exactly one field is set, matching the method.
type Initiation struct {
	Method       Method                `json:"method"`
	Paystack     *PaystackInit         `json:"paystack,omitempty"`
	Monnify      *MonnifyInit          `json:"monnify,omitempty"`
	Paypal       *PaypalInit           `json:"paypal,omitempty"`
	Instructions *TransferInstructions `json:"instructions,omitempty"`
}

// Initiate pre-registers the chosen method against the order, then builds
// the provider payload. The pre-registration call runs first so abandoned
// attempts remain traceable server-side.
func (d *Dispatcher) Initiate(ctx context.Context, token string, method Method, order *backend.Order, currency pricing.Currency) (*Initiation, error) {
	if _, ok := methods[method]; !ok {
		return nil, ErrUnknownMethod
	}
	if !method.SupportsCurrency(currency.Code) {
		return nil, fmt.Errorf("%w: %s in %s", ErrCurrencyNotSupported, method, currency.Code)
	}

	err := d.backend.RecordPaymentMethod(ctx, token, backend.PaymentMethodParams{
		OrderID:  order.ID,
		Currency: currency.Code,
		Method:   string(method),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record payment method: %w", err)
	}

	initiation := &Initiation{Method: method}
	switch method {
	case MethodPaystack:
		initiation.Paystack = d.paystackInit(order, currency)
	case MethodMonnify:
		initiation.Monnify = d.monnifyInit(order, currency)
	case MethodPaypal:
		initiation.Paypal = d.paypalInit(order, currency)
	case MethodBankTransfer, MethodBitcoinTransfer:
		initiation.Instructions = d.transferInstructions(method, order, currency)
	}

	log.Info().
		Str("order_id", order.ID).
		Str("method", string(method)).
		Str("currency", currency.Code).
		Msg("payment flow initiated")
	return initiation, nil
}

var verifyPaths = map[Method]string{
	MethodPaystack: "paystack",
	MethodMonnify:  "monnify",
	MethodPaypal:   "paypal",
}

// Verify confirms a provider transaction reference with the backend. Status
// 214 with a message is flagged success: paid for state purposes, but
// surfaced as an informational notice. Errors never advance the stage.
func (d *Dispatcher) Verify(ctx context.Context, token string, method Method, reference, orderID string) Result {
	provider, ok := verifyPaths[method]
	if !ok {
		return Result{Status: StatusFailed, Message: fmt.Sprintf("%s payments are confirmed by transfer claim, not verification", method)}
	}

	result, err := d.backend.VerifyPayment(ctx, token, provider, reference, orderID)
	if err != nil {
		log.Err(err).Str("method", string(method)).Str("reference", reference).Msg("payment verification failed")
		return Result{Status: StatusFailed, Message: err.Error()}
	}

	if result.Status == backend.StatusFlagged && result.Message != "" {
		return Result{Status: StatusFlagged, Message: result.Message}
	}
	return Result{Status: StatusPaid, Message: result.Message}
}

// convertAmount expresses a naira amount in the display currency, rounded to
// the nearest whole unit.
func convertAmount(amount int64, currency pricing.Currency) int64 {
	return int64(math.Round(float64(amount) / currency.ConversionRate))
}
