package checkout

import (
	"time"

	"github.com/rs/zerolog/log"
)

// State is the per-session checkout snapshot persisted across requests: the
// form, the stage, and the device-local values shared across page loads.
type State struct {
	Form           Form       `json:"form"`
	Stage          Stage      `json:"stage"`
	ResumeStep     ResumeStep `json:"resume_step,omitempty"`
	Paid           bool       `json:"paid"`
	OrderID        string     `json:"order_id"`
	DeliveryDate   *time.Time `json:"delivery_date"`
	CartItems      []CartItem `json:"cart_items"`
	CartModifiedAt time.Time  `json:"cart_modified_at"`
	Currency       string     `json:"currency"`
}

// NewState returns the initial checkout state for a fresh session.
func NewState() *State {
	return &State{
		Stage:    StageDetails,
		Currency: "NGN",
		Form: Form{
			DeliveryMethod: MethodDelivery,
			SaveAddress:    true,
		},
	}
}

// Complete marks the order paid and clears the cart, order id and delivery
// date. It is idempotent: provider callbacks can race, so the paid flag is
// checked before any side effect runs and the second caller is a no-op.
// Returns whether this call performed the cleanup.
func Complete(st *State) bool {
	if st.Paid {
		return false
	}

	st.Paid = true
	st.CartItems = nil
	st.Stage = StageComplete
	orderID := st.OrderID
	st.OrderID = ""
	st.DeliveryDate = nil

	log.Info().Str("order_id", orderID).Msg("order completed, session artifacts cleared")
	return true
}

// Reset returns the session to a fresh details stage, used when the backend
// reports the persisted order id no longer exists.
func Reset(st *State) {
	currency := st.Currency
	*st = *NewState()
	st.Currency = currency
}
