package payment

import (
	"github.com/regalflowers/storefront-BE/internal/backend"
	"github.com/regalflowers/storefront-BE/internal/pricing"
	"github.com/regalflowers/storefront-BE/internal/util"
)

// MonnifyInit carries the second card/bank gateway's checkout parameters.
// The gateway takes amounts in major units and identifies the merchant by
// API key plus contract code.
type MonnifyInit struct {
	Amount        int64  `json:"amount"`
	Currency      string `json:"currency"`
	Reference     string `json:"reference"`
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	APIKey        string `json:"api_key"`
	ContractCode  string `json:"contract_code"`
}

func (d *Dispatcher) monnifyInit(order *backend.Order, currency pricing.Currency) *MonnifyInit {
	return &MonnifyInit{
		Amount:        convertAmount(order.Amount, currency),
		Currency:      currency.Code,
		Reference:     util.GeneratePaymentReference(),
		CustomerName:  order.SenderName,
		CustomerEmail: order.SenderEmail,
		APIKey:        d.config.MonnifyAPIKey,
		ContractCode:  d.config.MonnifyContractCode,
	}
}
