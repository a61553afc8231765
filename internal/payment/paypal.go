package payment

import (
	"fmt"
	"strconv"

	"github.com/regalflowers/storefront-BE/internal/backend"
	"github.com/regalflowers/storefront-BE/internal/pricing"
)

// PaypalAmount is a currency-tagged decimal string, the shape the provider's
// order API expects.
type PaypalAmount struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

type PaypalItem struct {
	Name       string       `json:"name"`
	Quantity   string       `json:"quantity"`
	SKU        string       `json:"sku,omitempty"`
	UnitAmount PaypalAmount `json:"unit_amount"`
}

type PaypalShipping struct {
	FullName string `json:"full_name"`
	Region   string `json:"region"`
	Country  string `json:"country_code"`
}

// PaypalPurchaseUnit is one purchase unit with its item and shipping
// breakdown. The breakdown totals must sum to the unit amount or the
// provider rejects the create call.
type PaypalPurchaseUnit struct {
	ReferenceID string         `json:"reference_id"`
	Amount      PaypalAmount   `json:"amount"`
	ItemTotal   PaypalAmount   `json:"item_total"`
	Shipping    PaypalAmount   `json:"shipping"`
	Items       []PaypalItem   `json:"items"`
	ShipTo      PaypalShipping `json:"ship_to"`
}

// PaypalInit is consumed in two phases client-side: a create call built from
// the purchase units, then an approve/capture callback whose capture id is
// sent back for verification.
type PaypalInit struct {
	ClientID      string               `json:"client_id"`
	Intent        string               `json:"intent"`
	PurchaseUnits []PaypalPurchaseUnit `json:"purchase_units"`
}

func paypalValue(amount int64, currency pricing.Currency) PaypalAmount {
	return PaypalAmount{
		CurrencyCode: currency.Code,
		Value:        fmt.Sprintf("%.2f", float64(amount)/currency.ConversionRate),
	}
}

func (d *Dispatcher) paypalInit(order *backend.Order, currency pricing.Currency) *PaypalInit {
	var itemsTotal int64
	items := make([]PaypalItem, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, PaypalItem{
			Name:       item.Name,
			Quantity:   strconv.Itoa(item.Quantity),
			SKU:        item.SKU,
			UnitAmount: paypalValue(item.Price, currency),
		})
		itemsTotal += item.Price * int64(item.Quantity)
		if item.Design != nil {
			items = append(items, PaypalItem{
				Name:       item.Design.Name,
				Quantity:   strconv.Itoa(item.Design.Quantity),
				UnitAmount: paypalValue(item.Design.Price, currency),
			})
			itemsTotal += item.Design.Price * int64(item.Design.Quantity)
		}
	}

	shippingFee := order.Amount - itemsTotal
	if shippingFee < 0 {
		shippingFee = 0
	}

	unit := PaypalPurchaseUnit{
		ReferenceID: order.OrderNumber,
		Amount:      paypalValue(order.Amount, currency),
		ItemTotal:   paypalValue(itemsTotal, currency),
		Shipping:    paypalValue(shippingFee, currency),
		Items:       items,
		ShipTo: PaypalShipping{
			FullName: order.RecipientName,
			Region:   order.DeliveryState,
			Country:  "NG",
		},
	}

	return &PaypalInit{
		ClientID:      d.config.PaypalClientID,
		Intent:        "CAPTURE",
		PurchaseUnits: []PaypalPurchaseUnit{unit},
	}
}
