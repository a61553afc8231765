package checkout

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/regalflowers/storefront-BE/internal/phonefmt"
	"github.com/regalflowers/storefront-BE/internal/pricing"
)

// Stage is the checkout page's position in the flow.
type Stage int

const (
	StageDetails  Stage = 1 // sender, delivery, receiver and message capture
	StagePayment  Stage = 2
	StageComplete Stage = 3
)

func (s Stage) String() string {
	switch s {
	case StageDetails:
		return "details"
	case StagePayment:
		return "payment"
	case StageComplete:
		return "complete"
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// Event drives stage transitions.
type Event string

const (
	EventDetailsSaved     Event = "details_saved"
	EventPaymentConfirmed Event = "payment_confirmed"
	EventOrderReset       Event = "order_reset"
)

var ErrInvalidTransition = errors.New("invalid stage transition")

// transitions is the full table; anything absent is illegal.
var transitions = map[Stage]map[Event]Stage{
	StageDetails: {
		EventDetailsSaved: StagePayment,
		EventOrderReset:   StageDetails,
	},
	StagePayment: {
		EventPaymentConfirmed: StageComplete,
		EventOrderReset:       StageDetails,
	},
	StageComplete: {
		EventOrderReset: StageDetails,
	},
}

// Next returns the stage after applying an event, or ErrInvalidTransition.
func (s Stage) Next(e Event) (Stage, error) {
	if next, ok := transitions[s][e]; ok {
		return next, nil
	}
	return s, fmt.Errorf("%w: %s on %s", ErrInvalidTransition, e, s)
}

// ValidationError identifies the first incomplete field group blocking a
// stage advance.
type ValidationError struct {
	Group   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ValidateDetails runs the stage 1 → 2 completeness predicates in order:
// delivery date, then the branch-specific delivery fields, then receiver
// fields when the method is delivery.
func ValidateDetails(f *Form, deliveryDate *time.Time) error {
	if deliveryDate == nil {
		return &ValidationError{Group: "delivery-date", Message: "Please select a delivery date"}
	}

	switch f.DeliveryMethod {
	case MethodPickup:
		if f.PickupLocation == "" {
			return &ValidationError{Group: "pickup", Message: "Please select a pickup location"}
		}
	case MethodDelivery:
		if f.State == "" || f.Zone == "" || f.DeliveryLocation == nil {
			return &ValidationError{Group: "delivery", Message: "Please complete the delivery state, zone and location"}
		}
		if f.ReceiverName == "" || f.ReceiverPhone.Number == "" || f.ResidenceType == "" || f.HomeAddress == "" {
			return &ValidationError{Group: "receiver", Message: "Please complete the receiver's name, phone, residence type and address"}
		}
		if !phonefmt.IsValid(f.ReceiverPhone.Number) {
			return &ValidationError{Group: "receiver", Message: "Please enter a valid receiver phone number"}
		}
		if f.ReceiverAltPhone.Number != "" && !phonefmt.IsValid(f.ReceiverAltPhone.Number) {
			return &ValidationError{Group: "receiver", Message: "Please enter a valid alternative phone number"}
		}
	default:
		return &ValidationError{Group: "delivery-method", Message: "Please choose delivery or pick-up"}
	}

	return nil
}

// IsPaidStatus matches the backend's free-text payment status against the
// patterns that denote a settled order.
func IsPaidStatus(status string) bool {
	lowered := strings.ToLower(status)
	return strings.Contains(lowered, "go ahead") || strings.HasPrefix(lowered, "paid")
}

// IsProcessingStatus reports whether delivery and receiver info were already
// saved against the order.
func IsProcessingStatus(status string) bool {
	return strings.Contains(strings.ToLower(status), "processing")
}

// ResumeStep is the sub-step of stage 1 a returning shopper lands on.
type ResumeStep string

const (
	ResumeCustomization ResumeStep = "customization"
	ResumeDeliveryType  ResumeStep = "delivery-type"
)

// ResumePoint decides where a re-entered order resumes. A processing order
// resumes at the delivery-type sub-step only if its saved zone is still a
// valid option for the current date; promotions can retire a zone between
// visits.
func ResumePoint(paymentStatus string, f *Form, subtotal int64, currency pricing.Currency, date time.Time) (Stage, ResumeStep) {
	if IsPaidStatus(paymentStatus) {
		return StageComplete, ""
	}
	if !IsProcessingStatus(paymentStatus) {
		return StageDetails, ResumeCustomization
	}
	for _, option := range pricing.ZoneOptions(f.State, subtotal, currency, date) {
		if option.Value == f.Zone {
			return StageDetails, ResumeDeliveryType
		}
	}
	return StageDetails, ResumeCustomization
}
