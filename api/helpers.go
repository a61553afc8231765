package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/regalflowers/storefront-BE/internal/backend"
	"github.com/regalflowers/storefront-BE/internal/checkout"
	"github.com/regalflowers/storefront-BE/internal/notification"
	"github.com/regalflowers/storefront-BE/internal/pricing"
	"github.com/regalflowers/storefront-BE/internal/token"
	"github.com/rs/zerolog/log"
)

// sessionID extracts the shopper session id set by the middleware.
func sessionID(ctx *gin.Context) string {
	return ctx.MustGet(sessionPayloadKey).(*token.Payload).Subject
}

// loadState fetches the session's checkout state, answering 500 itself on
// failure. Callers bail out when the second return is false.
func (server *Server) loadState(ctx *gin.Context) (*checkout.State, bool) {
	state, err := server.sessionStore.GetState(ctx, sessionID(ctx))
	if err != nil {
		log.Err(err).Msg("failed to load session state")
		ctx.JSON(http.StatusInternalServerError, errorResponse(ErrInternalServer))
		return nil, false
	}
	return state, true
}

// saveState persists the state, answering 500 itself on failure.
func (server *Server) saveState(ctx *gin.Context, state *checkout.State) bool {
	if err := server.sessionStore.SaveState(ctx, sessionID(ctx), state); err != nil {
		log.Err(err).Msg("failed to save session state")
		ctx.JSON(http.StatusInternalServerError, errorResponse(ErrInternalServer))
		return false
	}
	return true
}

// authToken returns the persisted backend bearer token, empty for guests.
func (server *Server) authToken(ctx *gin.Context) string {
	tok, err := server.sessionStore.GetAuthToken(ctx, sessionID(ctx))
	if err != nil {
		log.Err(err).Msg("failed to read auth token")
		return ""
	}
	return tok
}

// acquirePending marks an action in-flight for the session, answering 409
// itself when the same action is already running. Loading flags are
// per-action, not a global lock.
func (server *Server) acquirePending(ctx *gin.Context, action string) bool {
	ok, err := server.sessionStore.AcquirePending(ctx, sessionID(ctx), action)
	if err != nil {
		log.Err(err).Msg("failed to acquire pending flag")
		ctx.JSON(http.StatusInternalServerError, errorResponse(ErrInternalServer))
		return false
	}
	if !ok {
		ctx.JSON(http.StatusConflict, gin.H{
			"error":        ErrActionPending.Error(),
			"notification": notification.Error(ErrActionPending.Error()),
		})
		return false
	}
	return true
}

func (server *Server) releasePending(ctx *gin.Context, action string) {
	server.sessionStore.ReleasePending(ctx, sessionID(ctx), action)
}

// formEnv derives the reducer environment from the session state.
func formEnv(state *checkout.State) checkout.Env {
	return checkout.Env{
		Subtotal:     checkout.Subtotal(state.CartItems),
		Currency:     pricing.CurrencyByCode(state.Currency),
		DeliveryDate: state.DeliveryDate,
	}
}

// ensureOrder creates the draft order on first need and persists its id.
func (server *Server) ensureOrder(ctx context.Context, authToken string, state *checkout.State) (*backend.Order, error) {
	if state.OrderID != "" {
		return nil, nil
	}

	deliveryDate := ""
	if state.DeliveryDate != nil {
		deliveryDate = state.DeliveryDate.Format("2006-01-02")
	}

	order, err := server.backendClient.CreateOrder(ctx, authToken, backend.CreateOrderParams{
		CartItems:    state.CartItems,
		DeliveryDate: deliveryDate,
		Currency:     state.Currency,
	})
	if err != nil {
		return nil, err
	}

	state.OrderID = order.ID
	log.Info().Str("order_id", order.ID).Msg("draft order created")
	return order, nil
}

// reconcileCart applies the order-wins rule: the fetched order's items
// replace the cached cart unless the cart was modified more recently than
// the order snapshot and the order is still unpaid.
func reconcileCart(state *checkout.State, order *backend.Order) {
	cartNewer := state.CartModifiedAt.After(order.UpdatedAt)
	if cartNewer && !checkout.IsPaidStatus(order.PaymentStatus) {
		return
	}

	items := make([]checkout.CartItem, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, checkout.CartItem{
			Key:      item.SKU,
			Name:     item.Name,
			Price:    item.Price,
			Quantity: item.Quantity,
			Size:     item.Size,
			Design:   item.Design,
			SKU:      item.SKU,
			Image:    item.Image,
		})
	}
	state.CartItems = items
	state.CartModifiedAt = order.UpdatedAt
}
