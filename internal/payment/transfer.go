package payment

import (
	"context"
	"fmt"

	"github.com/regalflowers/storefront-BE/internal/backend"
	"github.com/regalflowers/storefront-BE/internal/pricing"
	"github.com/regalflowers/storefront-BE/internal/util"
	"github.com/rs/zerolog/log"
)

// TransferInstructions is the informational payload for the manual methods.
// No provider SDK is involved; payment is asserted later through a claim.
type TransferInstructions struct {
	Method        Method `json:"method"`
	Title         string `json:"title"`
	Amount        string `json:"amount"`
	BankName      string `json:"bank_name,omitempty"`
	AccountName   string `json:"account_name,omitempty"`
	AccountNumber string `json:"account_number,omitempty"`
	WalletAddress string `json:"wallet_address,omitempty"`
	Note          string `json:"note"`
}

func (d *Dispatcher) transferInstructions(method Method, order *backend.Order, currency pricing.Currency) *TransferInstructions {
	amount := util.FormatMoney(currency.Sign, convertAmount(order.Amount, currency))
	note := fmt.Sprintf("Use your order number %s as the transfer narration, then submit the transfer details below so we can confirm your payment.", order.OrderNumber)

	if method == MethodBitcoinTransfer {
		return &TransferInstructions{
			Method:        method,
			Title:         "Pay by Bitcoin transfer",
			Amount:        amount,
			WalletAddress: d.config.BitcoinWallet,
			Note:          note,
		}
	}

	return &TransferInstructions{
		Method:        method,
		Title:         "Pay by bank transfer",
		Amount:        amount,
		BankName:      d.config.BankName,
		AccountName:   d.config.BankAccountName,
		AccountNumber: d.config.BankAccountNumber,
		Note:          note,
	}
}

// TransferClaim is the shopper's self-reported transfer: amount sent, the
// account or wallet it came from, and their reference.
type TransferClaim struct {
	Method      Method `json:"method"`
	OrderID     string `json:"order_id"`
	Amount      int64  `json:"amount"`
	AccountName string `json:"account_name"`
	Reference   string `json:"reference"`
	Currency    string `json:"currency"`
}

// SubmitClaim forwards the claim to the backend as unverified. The success
// signal here is weaker than gateway verification, so the result is Pending
// rather than Paid and downstream labels the order "pending confirmation".
func (d *Dispatcher) SubmitClaim(ctx context.Context, token string, claim TransferClaim) Result {
	err := d.backend.SubmitTransferClaim(ctx, token, backend.TransferClaimParams{
		OrderID:     claim.OrderID,
		Method:      string(claim.Method),
		Amount:      claim.Amount,
		AccountName: claim.AccountName,
		Reference:   claim.Reference,
		Currency:    claim.Currency,
	})
	if err != nil {
		log.Err(err).Str("order_id", claim.OrderID).Msg("failed to submit transfer claim")
		return Result{Status: StatusFailed, Message: err.Error()}
	}

	return Result{
		Status:  StatusPending,
		Message: "Transfer details received. Your order will be confirmed once the payment is reconciled.",
	}
}
