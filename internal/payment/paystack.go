package payment

import (
	"encoding/json"

	"github.com/regalflowers/storefront-BE/internal/backend"
	"github.com/regalflowers/storefront-BE/internal/pricing"
	"github.com/regalflowers/storefront-BE/internal/util"
	"github.com/zpmep/hmacutil"
)

// PaystackInit is everything the embedded card gateway widget needs: a fresh
// reference, the amount in minor units of the adjusted currency, and the
// channel allow-list.
type PaystackInit struct {
	PublicKey   string   `json:"public_key"`
	Reference   string   `json:"reference"`
	Email       string   `json:"email"`
	AmountMinor int64    `json:"amount"`
	Currency    string   `json:"currency"`
	Channels    []string `json:"channels"`
}

var paystackChannels = []string{"card", "bank", "ussd", "qr", "bank_transfer"}

func (d *Dispatcher) paystackInit(order *backend.Order, currency pricing.Currency) *PaystackInit {
	return &PaystackInit{
		PublicKey:   d.config.PaystackPublicKey,
		Reference:   util.GeneratePaymentReference(),
		Email:       order.SenderEmail,
		AmountMinor: convertAmount(order.Amount, currency) * 100,
		Currency:    currency.Code,
		Channels:    paystackChannels,
	}
}

// WebhookEvent is the card gateway's callback body.
type WebhookEvent struct {
	Event string `json:"event"`
	Data  struct {
		Reference string `json:"reference"`
		Status    string `json:"status"`
		Amount    int64  `json:"amount"`
	} `json:"data"`
}

// VerifyWebhookMAC checks the gateway's signature header against an HMAC of
// the raw body keyed with the secret key.
func (d *Dispatcher) VerifyWebhookMAC(body []byte, signature string) bool {
	mac := hmacutil.HexStringEncode(hmacutil.SHA256, d.config.PaystackSecretKey, string(body))
	return mac == signature
}

// ParseWebhookEvent decodes a verified callback body.
func ParseWebhookEvent(body []byte) (*WebhookEvent, error) {
	var event WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, err
	}
	return &event, nil
}
