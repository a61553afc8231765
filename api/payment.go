package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/regalflowers/storefront-BE/internal/backend"
	"github.com/regalflowers/storefront-BE/internal/checkout"
	"github.com/regalflowers/storefront-BE/internal/notification"
	"github.com/regalflowers/storefront-BE/internal/payment"
	"github.com/regalflowers/storefront-BE/internal/pricing"
	"github.com/rs/zerolog/log"
)

// listPaymentMethods returns every method with its availability for the
// session's currency, so unsupported entries render disabled with a reason.
func (server *Server) listPaymentMethods(ctx *gin.Context) {
	state, ok := server.loadState(ctx)
	if !ok {
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"currency": state.Currency,
		"methods":  payment.MethodOptions(state.Currency),
	})
}

// initiatePayment starts a provider flow. Payment is gated on the stage, not
// on the client having hidden a button: a session still on the details stage
// is refused outright.
func (server *Server) initiatePayment(ctx *gin.Context) {
	method := payment.Method(ctx.Param("method"))

	state, ok := server.loadState(ctx)
	if !ok {
		return
	}
	if state.Stage != checkout.StagePayment {
		ctx.JSON(http.StatusConflict, gin.H{
			"error":        ErrPaymentStageOnly.Error(),
			"notification": notification.Error(ErrPaymentStageOnly.Error()),
		})
		return
	}
	if state.OrderID == "" {
		ctx.JSON(http.StatusConflict, errorResponse(ErrNoOrderInSession))
		return
	}

	action := "payment:" + string(method)
	if !server.acquirePending(ctx, action) {
		return
	}
	defer server.releasePending(ctx, action)

	authToken := server.authToken(ctx)
	order, err := server.backendClient.GetOrder(ctx, authToken, state.OrderID)
	if err != nil {
		if errors.Is(err, backend.ErrOrderNotFound) {
			server.resetSession(ctx, state)
			return
		}
		log.Err(err).Str("order_id", state.OrderID).Msg("failed to fetch order for payment")
		ctx.JSON(http.StatusBadGateway, gin.H{
			"error":        err.Error(),
			"notification": notification.Error(err.Error()),
		})
		return
	}

	initiation, err := server.dispatcher.Initiate(ctx, authToken, method, order, pricing.CurrencyByCode(state.Currency))
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, payment.ErrUnknownMethod) || errors.Is(err, payment.ErrCurrencyNotSupported) {
			status = http.StatusUnprocessableEntity
		}
		ctx.JSON(status, gin.H{
			"error":        err.Error(),
			"notification": notification.Error(err.Error()),
		})
		return
	}

	ctx.JSON(http.StatusOK, initiation)
}

type verifyPaymentRequest struct {
	Reference string `json:"reference" binding:"required"`
}

// verifyPayment confirms a provider transaction and, on success, runs the
// idempotent completion handler. Verification is gated on the payment stage
// like initiation: a reset session cannot replay a still-valid reference to
// jump straight to completion. A flagged verification still completes the
// order but surfaces an informational notice instead of a success one.
func (server *Server) verifyPayment(ctx *gin.Context) {
	method := payment.Method(ctx.Param("method"))

	req := new(verifyPaymentRequest)
	if err := ctx.ShouldBindJSON(req); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	state, ok := server.loadState(ctx)
	if !ok {
		return
	}
	if state.Stage != checkout.StagePayment {
		ctx.JSON(http.StatusConflict, gin.H{
			"error":        ErrPaymentStageOnly.Error(),
			"notification": notification.Error(ErrPaymentStageOnly.Error()),
		})
		return
	}

	action := "verify:" + string(method)
	if !server.acquirePending(ctx, action) {
		return
	}
	defer server.releasePending(ctx, action)

	result := server.dispatcher.Verify(ctx, server.authToken(ctx), method, req.Reference, state.OrderID)
	if !result.Succeeded() {
		ctx.JSON(http.StatusPaymentRequired, gin.H{
			"result":       result,
			"notification": notification.Error(result.Message),
		})
		return
	}

	checkout.Complete(state)
	if !server.saveState(ctx, state) {
		return
	}

	notice := notification.Success("Payment confirmed. Thank you for your order!")
	if result.Status == payment.StatusFlagged {
		notice = notification.Info(result.Message)
	}

	ctx.JSON(http.StatusOK, gin.H{
		"result":       result,
		"state":        state,
		"notification": notice,
	})
}

type transferClaimRequest struct {
	Method      payment.Method `json:"method" binding:"required,oneof=bankTransfer bitcoinTransfer"`
	Amount      int64          `json:"amount" binding:"required,min=1"`
	AccountName string         `json:"account_name" binding:"required"`
	Reference   string         `json:"reference" binding:"required"`
}

// submitTransferClaim records a self-reported manual transfer. This path
// never marks the order paid; it stays pending until reconciliation.
func (server *Server) submitTransferClaim(ctx *gin.Context) {
	req := new(transferClaimRequest)
	if err := ctx.ShouldBindJSON(req); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	state, ok := server.loadState(ctx)
	if !ok {
		return
	}
	if state.OrderID == "" {
		ctx.JSON(http.StatusConflict, errorResponse(ErrNoOrderInSession))
		return
	}

	if !server.acquirePending(ctx, "transfer-claim") {
		return
	}
	defer server.releasePending(ctx, "transfer-claim")

	result := server.dispatcher.SubmitClaim(ctx, server.authToken(ctx), payment.TransferClaim{
		Method:      req.Method,
		OrderID:     state.OrderID,
		Amount:      req.Amount,
		AccountName: req.AccountName,
		Reference:   req.Reference,
		Currency:    state.Currency,
	})
	if result.Status == payment.StatusFailed {
		ctx.JSON(http.StatusBadGateway, gin.H{
			"result":       result,
			"notification": notification.Error(result.Message),
		})
		return
	}

	ctx.JSON(http.StatusAccepted, gin.H{
		"result":       result,
		"notification": notification.Info(result.Message),
	})
}

// handleGatewayWebhook receives the card gateway's server-to-server
// callback. The MAC is checked before anything is parsed; an invalid
// signature is answered 401 without detail.
func (server *Server) handleGatewayWebhook(ctx *gin.Context) {
	body, err := io.ReadAll(ctx.Request.Body)
	if err != nil {
		ctx.Status(http.StatusBadRequest)
		return
	}

	signature := ctx.GetHeader("X-Gateway-Signature")
	if !server.dispatcher.VerifyWebhookMAC(body, signature) {
		log.Warn().Msg("gateway webhook rejected: bad signature")
		ctx.Status(http.StatusUnauthorized)
		return
	}

	event, err := payment.ParseWebhookEvent(body)
	if err != nil {
		log.Err(err).Msg("failed to parse gateway webhook")
		ctx.Status(http.StatusBadRequest)
		return
	}

	if event.Event == "charge.success" {
		// Forward to backend verification so the order flips even if the
		// shopper closed the tab before the client-side verify ran.
		result := server.dispatcher.Verify(ctx, "", payment.MethodPaystack, event.Data.Reference, "")
		log.Info().
			Str("reference", event.Data.Reference).
			Str("status", string(result.Status)).
			Msg("gateway webhook processed")
	}

	ctx.JSON(http.StatusOK, gin.H{"received": true})
}
