package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/regalflowers/storefront-BE/internal/backend"
	"github.com/regalflowers/storefront-BE/internal/checkout"
	"github.com/regalflowers/storefront-BE/internal/notification"
	"github.com/regalflowers/storefront-BE/internal/pricing"
	"github.com/rs/zerolog/log"
)

func (server *Server) getCheckout(ctx *gin.Context) {
	state, ok := server.loadState(ctx)
	if !ok {
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"state":    state,
		"subtotal": checkout.Subtotal(state.CartItems),
	})
}

// formCommand is the wire shape of one update command. Type selects the
// variant; the other fields are that variant's payload.
type formCommand struct {
	Type string `json:"type" binding:"required"`

	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	FreeAccount bool   `json:"free_account"`

	CountryCode string `json:"country_code"`
	Number      string `json:"number"`
	Alt         bool   `json:"alt"`

	Method   string `json:"method"`
	State    string `json:"state"`
	Zone     string `json:"zone"`
	Location string `json:"location"`

	ResidenceType       string `json:"residence_type"`
	HomeAddress         string `json:"home_address"`
	DeliveryInstruction string `json:"delivery_instruction"`

	Message string `json:"message"`
	Purpose string `json:"purpose"`
	Save    bool   `json:"save"`
	Code    string `json:"code"`

	Recipient *checkout.Recipient `json:"recipient"`
}

func (c formCommand) toCommand() (checkout.Command, error) {
	switch c.Type {
	case "sender_info":
		return checkout.SetSenderInfo{Name: c.Name, Email: c.Email, Password: c.Password, FreeAccount: c.FreeAccount}, nil
	case "sender_phone":
		return checkout.SetSenderPhone{CountryCode: c.CountryCode, Number: c.Number}, nil
	case "delivery_method":
		return checkout.SetDeliveryMethod{Method: checkout.DeliveryMethod(c.Method)}, nil
	case "state":
		return checkout.SetState{State: c.State}, nil
	case "pickup_state":
		return checkout.SetPickupState{State: c.State}, nil
	case "pickup_location":
		return checkout.SetPickupLocation{Name: c.Location}, nil
	case "zone":
		return checkout.SetZone{Zone: c.Zone}, nil
	case "receiver_info":
		return checkout.SetReceiverInfo{Name: c.Name, ResidenceType: c.ResidenceType, HomeAddress: c.HomeAddress, DeliveryInstruction: c.DeliveryInstruction}, nil
	case "receiver_phone":
		return checkout.SetReceiverPhone{CountryCode: c.CountryCode, Number: c.Number, Alt: c.Alt}, nil
	case "customization":
		return checkout.SetCustomization{Message: c.Message, Purpose: c.Purpose}, nil
	case "save_address":
		return checkout.SetSaveAddress{Save: c.Save}, nil
	case "coupon_code":
		return checkout.SetCouponCode{Code: c.Code}, nil
	case "recipient":
		if c.Recipient == nil {
			return nil, errors.New("recipient payload is required")
		}
		return checkout.SetRecipient{Recipient: *c.Recipient}, nil
	}
	return nil, fmt.Errorf("unknown form command %q", c.Type)
}

type updateFormRequest struct {
	Commands []formCommand `json:"commands" binding:"required,min=1"`
}

// updateForm applies one or more update commands to the checkout form.
// Cascading rules (zone/location recomputation, branch clearing) live in the
// reducer, not here.
func (server *Server) updateForm(ctx *gin.Context) {
	req := new(updateFormRequest)
	if err := ctx.ShouldBindJSON(req); err != nil {
		log.Error().Err(err).Msg("failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	state, ok := server.loadState(ctx)
	if !ok {
		return
	}

	env := formEnv(state)
	for _, raw := range req.Commands {
		cmd, err := raw.toCommand()
		if err != nil {
			ctx.JSON(http.StatusBadRequest, errorResponse(err))
			return
		}
		state.Form.Apply(cmd, env)
	}

	if !server.saveState(ctx, state) {
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"state": state})
}

type setDeliveryDateRequest struct {
	DeliveryDate string `json:"delivery_date" binding:"required"`
}

// setDeliveryDate changes the delivery date and recomputes the resolved
// delivery location, since promo windows are date-sensitive.
func (server *Server) setDeliveryDate(ctx *gin.Context) {
	req := new(setDeliveryDateRequest)
	if err := ctx.ShouldBindJSON(req); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	deliveryDate, err := time.Parse("2006-01-02", req.DeliveryDate)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse(fmt.Errorf("invalid delivery date: %w", err)))
		return
	}

	state, ok := server.loadState(ctx)
	if !ok {
		return
	}

	state.DeliveryDate = &deliveryDate
	server.recomputeLocation(state)

	if state.OrderID != "" {
		_, err = server.backendClient.UpdateOrder(ctx, server.authToken(ctx), state.OrderID, backend.UpdateOrderParams{
			DeliveryDate: req.DeliveryDate,
		})
		if err != nil {
			log.Err(err).Str("order_id", state.OrderID).Msg("failed to update order delivery date")
		}
	}

	if !server.saveState(ctx, state) {
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"state": state})
}

type setCurrencyRequest struct {
	Currency string `json:"currency" binding:"required,oneof=NGN USD GBP"`
}

// setCurrency switches the display currency; fee tables are currency-keyed
// so the resolved location is recomputed as well.
func (server *Server) setCurrency(ctx *gin.Context) {
	req := new(setCurrencyRequest)
	if err := ctx.ShouldBindJSON(req); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	state, ok := server.loadState(ctx)
	if !ok {
		return
	}

	state.Currency = req.Currency
	server.recomputeLocation(state)

	if state.OrderID != "" {
		_, err := server.backendClient.UpdateOrder(ctx, server.authToken(ctx), state.OrderID, backend.UpdateOrderParams{
			Currency: req.Currency,
		})
		if err != nil {
			log.Err(err).Str("order_id", state.OrderID).Msg("failed to update order currency")
		}
	}

	if !server.saveState(ctx, state) {
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"state": state})
}

// recomputeLocation re-runs the zone cascade after a date or currency
// change so the stored fee never disagrees with the current inputs.
func (server *Server) recomputeLocation(state *checkout.State) {
	if state.Form.Zone == "" || state.Form.DeliveryMethod != checkout.MethodDelivery {
		return
	}
	state.Form.Apply(checkout.SetZone{Zone: state.Form.Zone}, formEnv(state))
}

// deliveryOptions returns the zone and location options for the form's
// state (or an explicit ?state= override). An empty set means the region
// has no zone table and the shopper should contact support.
func (server *Server) deliveryOptions(ctx *gin.Context) {
	state, ok := server.loadState(ctx)
	if !ok {
		return
	}

	deliveryState := ctx.DefaultQuery("state", state.Form.State)
	env := formEnv(state)

	zones := pricing.ZoneOptions(deliveryState, env.Subtotal, env.Currency, env.Date())
	locations := pricing.LocationOptions(deliveryState, env.Currency, env.Date())

	response := gin.H{
		"zones":     zones,
		"locations": locations,
	}
	if len(zones) == 0 {
		response["notification"] = notification.Info(ErrUnsupportedCountry.Error())
	}

	ctx.JSON(http.StatusOK, response)
}

// saveSenderInfo persists just the sender section against the draft order,
// creating the order on first use.
func (server *Server) saveSenderInfo(ctx *gin.Context) {
	if !server.acquirePending(ctx, "sender-info") {
		return
	}
	defer server.releasePending(ctx, "sender-info")

	state, ok := server.loadState(ctx)
	if !ok {
		return
	}

	authToken := server.authToken(ctx)
	if _, err := server.ensureOrder(ctx, authToken, state); err != nil {
		log.Err(err).Msg("failed to create draft order")
		ctx.JSON(http.StatusBadGateway, gin.H{
			"error":        err.Error(),
			"notification": notification.Error(err.Error()),
		})
		return
	}

	deliveryDate := ""
	if state.DeliveryDate != nil {
		deliveryDate = state.DeliveryDate.Format("2006-01-02")
	}

	order, err := server.backendClient.SaveSenderInfo(ctx, authToken, state.OrderID, backend.SenderInfoParams{
		Name:         state.Form.SenderName,
		Email:        state.Form.SenderEmail,
		Phone:        state.Form.SenderPhone.CountryCode + state.Form.SenderPhone.Number,
		DeliveryDate: deliveryDate,
	})
	if err != nil {
		log.Err(err).Msg("failed to save sender info")
		ctx.JSON(http.StatusBadGateway, gin.H{
			"error":        err.Error(),
			"notification": notification.Error(err.Error()),
		})
		return
	}

	if !server.saveState(ctx, state) {
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"order": order})
}

type advanceStageRequest struct {
	ContinueAsGuest bool `json:"continue_as_guest"`
}

// advanceStage runs the stage 1 → 2 gate: completeness predicates first,
// then the full checkout-state save. The backend's "user already exists"
// response becomes a structured choice instead of an error; retrying with
// continue_as_guest re-submits with the free-account flag off.
func (server *Server) advanceStage(ctx *gin.Context) {
	// The body is optional; it only carries the guest-continuation flag.
	req := new(advanceStageRequest)
	_ = ctx.ShouldBindJSON(req)

	if !server.acquirePending(ctx, "advance") {
		return
	}
	defer server.releasePending(ctx, "advance")

	state, ok := server.loadState(ctx)
	if !ok {
		return
	}

	if err := checkout.ValidateDetails(&state.Form, state.DeliveryDate); err != nil {
		var validationErr *checkout.ValidationError
		response := gin.H{
			"error":        err.Error(),
			"notification": notification.Error(err.Error()),
		}
		if errors.As(err, &validationErr) {
			response["validation"] = failedValidationError([]*FieldViolation{
				fieldViolation(validationErr.Group, err),
			})
		}
		ctx.JSON(http.StatusUnprocessableEntity, response)
		return
	}

	if req.ContinueAsGuest {
		state.Form.FreeAccount = false
	}

	authToken := server.authToken(ctx)
	if _, err := server.ensureOrder(ctx, authToken, state); err != nil {
		log.Err(err).Msg("failed to create draft order")
		ctx.JSON(http.StatusBadGateway, gin.H{
			"error":        err.Error(),
			"notification": notification.Error(err.Error()),
		})
		return
	}

	payload := backend.AdaptCheckoutForm(state.Form, *state.DeliveryDate, state.Currency)
	order, err := server.backendClient.UpdateCheckoutState(ctx, authToken, state.OrderID, payload)
	if err != nil {
		if errors.Is(err, backend.ErrUserExists) {
			ctx.JSON(http.StatusConflict, gin.H{
				"error":   err.Error(),
				"choices": []string{"login", "continue-as-guest"},
				"notification": notification.Info(
					"An account with this email already exists. Log in, or continue as a guest."),
			})
			return
		}
		if errors.Is(err, backend.ErrOrderNotFound) {
			server.resetSession(ctx, state)
			return
		}
		log.Err(err).Msg("failed to update checkout state")
		ctx.JSON(http.StatusBadGateway, gin.H{
			"error":        err.Error(),
			"notification": notification.Error(err.Error()),
		})
		return
	}

	nextStage, err := state.Stage.Next(checkout.EventDetailsSaved)
	if err != nil {
		ctx.JSON(http.StatusConflict, errorResponse(err))
		return
	}
	state.Stage = nextStage

	if !server.saveState(ctx, state) {
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"state": state,
		"order": order,
	})
}

// resumeOrder re-enters the flow with an order id carried in the URL or the
// session. A vanished order resets the local session instead of crashing.
func (server *Server) resumeOrder(ctx *gin.Context) {
	state, ok := server.loadState(ctx)
	if !ok {
		return
	}

	orderID := ctx.DefaultQuery("order_id", state.OrderID)
	if orderID == "" {
		ctx.JSON(http.StatusNotFound, errorResponse(ErrNoOrderInSession))
		return
	}

	order, err := server.backendClient.GetOrder(ctx, server.authToken(ctx), orderID)
	if err != nil {
		if errors.Is(err, backend.ErrOrderNotFound) {
			server.resetSession(ctx, state)
			return
		}
		log.Err(err).Str("order_id", orderID).Msg("failed to fetch order")
		ctx.JSON(http.StatusBadGateway, gin.H{
			"error":        err.Error(),
			"notification": notification.Error(err.Error()),
		})
		return
	}

	state.OrderID = order.ID
	reconcileCart(state, order)

	env := formEnv(state)
	stage, resumeStep := checkout.ResumePoint(order.PaymentStatus, &state.Form, env.Subtotal, env.Currency, env.Date())
	state.Stage = stage
	state.ResumeStep = resumeStep
	if stage == checkout.StageComplete {
		checkout.Complete(state)
	}

	if !server.saveState(ctx, state) {
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"state": state,
		"order": order,
	})
}

// resetSession clears local artifacts after a 404 on the persisted order id
// and tells the client to start over at the home page.
func (server *Server) resetSession(ctx *gin.Context, state *checkout.State) {
	checkout.Reset(state)
	if !server.saveState(ctx, state) {
		return
	}

	ctx.JSON(http.StatusGone, gin.H{
		"reset":        true,
		"redirect":     "/",
		"notification": notification.Info("Your previous order could not be found, so the checkout was restarted."),
	})
}
