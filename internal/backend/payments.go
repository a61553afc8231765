package backend

import (
	"context"
	"errors"
)

// VerifyResult is the backend's payment verification response. Status 214
// paired with a message is the "paid but flagged" case: treated as paid but
// surfaced as an informational notice because reconciliation is pending.
type VerifyResult struct {
	Data    bool   `json:"data"`
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// StatusFlagged marks a verification that succeeded but needs manual review.
const StatusFlagged = 214

type PaymentMethodParams struct {
	OrderID  string `json:"orderId"`
	Currency string `json:"currency"`
	Method   string `json:"paymentMethod"`
}

// RecordPaymentMethod registers the shopper's chosen method against the
// order before the provider flow starts, so abandoned attempts are traceable.
func (c *Client) RecordPaymentMethod(ctx context.Context, token string, params PaymentMethodParams) error {
	envelope, err := c.put(ctx, "/api/v1/orders/"+params.OrderID+"/payment-method", token, params)
	if err != nil {
		return err
	}
	if envelope.Error {
		return errors.New(envelope.Message)
	}
	return nil
}

type verifyRequest struct {
	Reference string `json:"ref"`
	OrderID   string `json:"orderId,omitempty"`
}

// VerifyPayment asks the backend to confirm a provider transaction
// reference. Provider names map to per-provider verification endpoints.
func (c *Client) VerifyPayment(ctx context.Context, token, provider, reference, orderID string) (*VerifyResult, error) {
	envelope, err := c.post(ctx, "/api/v1/payments/"+provider+"/verify", token, verifyRequest{
		Reference: reference,
		OrderID:   orderID,
	})
	if err != nil {
		return nil, err
	}
	if envelope.Error {
		return nil, errors.New(envelope.Message)
	}

	result := VerifyResult{Status: envelope.Status, Message: envelope.Message}
	if len(envelope.Data) > 0 {
		_ = decodeData(envelope, &result.Data)
	}
	return &result, nil
}

type TransferClaimParams struct {
	OrderID     string `json:"orderId"`
	Method      string `json:"paymentMethod"`
	Amount      int64  `json:"amount"`
	AccountName string `json:"accountName"`
	Reference   string `json:"reference"`
	Currency    string `json:"currency"`
}

// SubmitTransferClaim forwards a shopper's self-reported manual transfer as
// an unverified claim pending reconciliation. The order becomes "pending
// confirmation", not "paid".
func (c *Client) SubmitTransferClaim(ctx context.Context, token string, params TransferClaimParams) error {
	envelope, err := c.post(ctx, "/api/v1/payments/manual-transfer", token, params)
	if err != nil {
		return err
	}
	if envelope.Error {
		return errors.New(envelope.Message)
	}
	return nil
}
