package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/regalflowers/storefront-BE/internal/backend"
	"github.com/regalflowers/storefront-BE/internal/checkout"
	"github.com/rs/zerolog/log"
)

type addCartItemRequest struct {
	Key      string           `json:"key" binding:"required"`
	Name     string           `json:"name" binding:"required"`
	Price    int64            `json:"price" binding:"required,min=0"`
	Quantity int              `json:"quantity" binding:"required,min=1"`
	Size     string           `json:"size"`
	Design   *checkout.Design `json:"design"`
	SKU      string           `json:"sku"`
	Image    string           `json:"image"`
}

func (server *Server) addCartItem(ctx *gin.Context) {
	req := new(addCartItemRequest)

	if err := ctx.ShouldBindJSON(req); err != nil {
		log.Error().Err(err).Msg("failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	state, ok := server.loadState(ctx)
	if !ok {
		return
	}

	item := checkout.CartItem{
		Key:      req.Key,
		Name:     req.Name,
		Price:    req.Price,
		Quantity: req.Quantity,
		Size:     req.Size,
		Design:   req.Design,
		SKU:      req.SKU,
		Image:    req.Image,
	}

	merged := false
	for i, existing := range state.CartItems {
		if existing.Key == item.Key {
			state.CartItems[i].Quantity += item.Quantity
			merged = true
			break
		}
	}
	if !merged {
		state.CartItems = append(state.CartItems, item)
	}
	state.CartModifiedAt = time.Now()

	server.syncOrderCart(ctx, state)

	if !server.saveState(ctx, state) {
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"cart_items": state.CartItems,
		"subtotal":   checkout.Subtotal(state.CartItems),
	})
}

func (server *Server) listCartItems(ctx *gin.Context) {
	state, ok := server.loadState(ctx)
	if !ok {
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"cart_items": state.CartItems,
		"subtotal":   checkout.Subtotal(state.CartItems),
	})
}

func (server *Server) removeCartItem(ctx *gin.Context) {
	itemKey := ctx.Param("key")

	state, ok := server.loadState(ctx)
	if !ok {
		return
	}

	items := state.CartItems[:0]
	for _, item := range state.CartItems {
		if item.Key != itemKey {
			items = append(items, item)
		}
	}
	state.CartItems = items
	state.CartModifiedAt = time.Now()

	server.syncOrderCart(ctx, state)

	if !server.saveState(ctx, state) {
		return
	}

	ctx.Status(http.StatusNoContent)
}

// syncOrderCart pushes the cached cart to the draft order when one exists.
// Failures are logged, not surfaced: the cart cache stays authoritative
// until the next reconciliation.
func (server *Server) syncOrderCart(ctx *gin.Context, state *checkout.State) {
	if state.OrderID == "" {
		return
	}

	_, err := server.backendClient.UpdateOrder(ctx, server.authToken(ctx), state.OrderID, backend.UpdateOrderParams{
		CartItems: state.CartItems,
	})
	if err != nil {
		log.Err(err).Str("order_id", state.OrderID).Msg("failed to sync cart to order")
	}
}
