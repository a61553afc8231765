package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/regalflowers/storefront-BE/internal/checkout"
)

// OrderItem is one authoritative line on a backend order.
type OrderItem struct {
	Name     string           `json:"name"`
	Price    int64            `json:"price"`
	Quantity int              `json:"quantity"`
	Size     string           `json:"size,omitempty"`
	SKU      string           `json:"sku,omitempty"`
	Image    string           `json:"image,omitempty"`
	Design   *checkout.Design `json:"design,omitempty"`
}

// Order is the backend-owned order snapshot. The storefront only reads it
// and issues partial updates.
type Order struct {
	ID             string      `json:"id"`
	OrderNumber    string      `json:"order_number"`
	Items          []OrderItem `json:"order_products"`
	Amount         int64       `json:"amount"`
	DeliveryState  string      `json:"delivery_state"`
	DeliveryZone   string      `json:"delivery_zone"`
	RecipientName  string      `json:"recipient_name"`
	RecipientPhone string      `json:"recipient_phone"`
	SenderName     string      `json:"sender_name"`
	SenderEmail    string      `json:"sender_email"`
	PaymentStatus  string      `json:"payment_status"`
	DeliveryStatus string      `json:"delivery_status"`
	DeliveryDate   string      `json:"delivery_date"`
	Currency       string      `json:"currency"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// GetOrder fetches an order by id. A 404 maps to ErrOrderNotFound, which the
// caller handles by resetting the local session.
func (c *Client) GetOrder(ctx context.Context, token, orderID string) (*Order, error) {
	envelope, err := c.get(ctx, "/api/v1/orders/"+orderID, token)
	if err != nil {
		return nil, err
	}
	if envelope.Error {
		if envelope.Status == http.StatusNotFound {
			return nil, ErrOrderNotFound
		}
		return nil, errors.New(envelope.Message)
	}

	var order Order
	if err = decodeData(envelope, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

type CreateOrderParams struct {
	CartItems    []checkout.CartItem `json:"cartItems"`
	DeliveryDate string              `json:"deliveryDate"`
	Currency     string              `json:"currency"`
}

// CreateOrder opens a draft order from the cart. The returned id is
// persisted locally and drives every later checkout call.
func (c *Client) CreateOrder(ctx context.Context, token string, params CreateOrderParams) (*Order, error) {
	envelope, err := c.post(ctx, "/api/v1/orders", token, params)
	if err != nil {
		return nil, err
	}
	if envelope.Error {
		return nil, errors.New(envelope.Message)
	}

	var order Order
	if err = decodeData(envelope, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

type UpdateOrderParams struct {
	CartItems    []checkout.CartItem `json:"cartItems,omitempty"`
	DeliveryDate string              `json:"deliveryDate,omitempty"`
	Currency     string              `json:"currency,omitempty"`
}

// UpdateOrder patches the draft order's cart, delivery date or currency.
func (c *Client) UpdateOrder(ctx context.Context, token, orderID string, params UpdateOrderParams) (*Order, error) {
	envelope, err := c.put(ctx, "/api/v1/orders/"+orderID, token, params)
	if err != nil {
		return nil, err
	}
	if envelope.Error {
		if envelope.Status == http.StatusNotFound {
			return nil, ErrOrderNotFound
		}
		return nil, errors.New(envelope.Message)
	}

	var order Order
	if err = decodeData(envelope, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// CheckoutStatePayload is the nested shape the backend expects for the full
// checkout-state save.
type CheckoutStatePayload struct {
	OrderData        orderData        `json:"orderData"`
	UserData         userData         `json:"userData"`
	DeliveryLocation deliveryLocation `json:"deliveryLocation"`
	CurrencyCode     string           `json:"currency"`
}

type orderData struct {
	DeliveryDate        string `json:"deliveryDate"`
	Message             string `json:"message"`
	Purpose             string `json:"purpose"`
	DeliveryMethod      string `json:"deliveryMethod"`
	PickupState         string `json:"pickupState,omitempty"`
	PickupLocation      string `json:"pickupLocation,omitempty"`
	State               string `json:"state,omitempty"`
	Zone                string `json:"zone,omitempty"`
	RecipientName       string `json:"recipientName"`
	RecipientPhone      string `json:"recipientPhone"`
	RecipientAltPhone   string `json:"recipientAltPhone,omitempty"`
	ResidenceType       string `json:"residenceType,omitempty"`
	HomeAddress         string `json:"homeAddress,omitempty"`
	DeliveryInstruction string `json:"deliveryInstruction,omitempty"`
	SaveAddress         bool   `json:"shouldSaveAddress"`
}

type userData struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Password    string `json:"password,omitempty"`
	FreeAccount bool   `json:"freeAccount"`
}

type deliveryLocation struct {
	Name   string `json:"name"`
	Label  string `json:"label"`
	Amount int64  `json:"amount"`
}

// AdaptCheckoutForm flattens the session form into the backend's nested
// orderData/userData/deliveryLocation payload.
func AdaptCheckoutForm(f checkout.Form, deliveryDate time.Time, currency string) CheckoutStatePayload {
	payload := CheckoutStatePayload{
		OrderData: orderData{
			DeliveryDate:        deliveryDate.Format("2006-01-02"),
			Message:             f.Message,
			Purpose:             f.Purpose,
			DeliveryMethod:      string(f.DeliveryMethod),
			PickupState:         f.PickupState,
			PickupLocation:      f.PickupLocation,
			State:               f.State,
			Zone:                f.Zone,
			RecipientName:       f.ReceiverName,
			RecipientPhone:      f.ReceiverPhone.CountryCode + f.ReceiverPhone.Number,
			RecipientAltPhone:   f.ReceiverAltPhone.CountryCode + f.ReceiverAltPhone.Number,
			ResidenceType:       f.ResidenceType,
			HomeAddress:         f.HomeAddress,
			DeliveryInstruction: f.DeliveryInstruction,
			SaveAddress:         f.SaveAddress,
		},
		UserData: userData{
			Name:        f.SenderName,
			Email:       f.SenderEmail,
			Phone:       f.SenderPhone.CountryCode + f.SenderPhone.Number,
			Password:    f.SenderPassword,
			FreeAccount: f.FreeAccount,
		},
		CurrencyCode: currency,
	}
	if f.ReceiverAltPhone.Number == "" {
		payload.OrderData.RecipientAltPhone = ""
	}
	if f.DeliveryLocation != nil {
		payload.DeliveryLocation = deliveryLocation{
			Name:   f.DeliveryLocation.Name,
			Label:  f.DeliveryLocation.Label,
			Amount: f.DeliveryLocation.Amount,
		}
	}
	return payload
}

// UpdateCheckoutState saves the accumulated form against the order. The
// backend's structured "user already exists" failure maps to ErrUserExists so
// the caller can offer the login-or-guest choice.
func (c *Client) UpdateCheckoutState(ctx context.Context, token, orderID string, payload CheckoutStatePayload) (*Order, error) {
	envelope, err := c.put(ctx, "/api/v1/orders/"+orderID+"/checkout-state", token, payload)
	if err != nil {
		return nil, err
	}
	if envelope.Error {
		if strings.Contains(strings.ToLower(envelope.Message), "already exists") {
			return nil, fmt.Errorf("%w: %s", ErrUserExists, envelope.Message)
		}
		if envelope.Status == http.StatusNotFound {
			return nil, ErrOrderNotFound
		}
		return nil, errors.New(envelope.Message)
	}

	var order Order
	if err = decodeData(envelope, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

type SenderInfoParams struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	DeliveryDate string `json:"deliveryDate"`
}

// SaveSenderInfo persists only the sender section, issued as the shopper
// completes the first field group so abandoned carts stay reachable.
func (c *Client) SaveSenderInfo(ctx context.Context, token, orderID string, params SenderInfoParams) (*Order, error) {
	envelope, err := c.put(ctx, "/api/v1/orders/"+orderID+"/sender-info", token, params)
	if err != nil {
		return nil, err
	}
	if envelope.Error {
		if envelope.Status == http.StatusNotFound {
			return nil, ErrOrderNotFound
		}
		return nil, errors.New(envelope.Message)
	}

	var order Order
	if err = decodeData(envelope, &order); err != nil {
		return nil, err
	}
	return &order, nil
}
