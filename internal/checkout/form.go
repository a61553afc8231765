package checkout

import (
	"time"

	"github.com/regalflowers/storefront-BE/internal/phonefmt"
	"github.com/regalflowers/storefront-BE/internal/pricing"
)

type DeliveryMethod string

const (
	MethodDelivery DeliveryMethod = "delivery"
	MethodPickup   DeliveryMethod = "pick-up"
)

// PhoneNumber keeps the dialing code separate from the subscriber number.
type PhoneNumber struct {
	CountryCode string `json:"country_code"`
	Number      string `json:"number"`
}

// Design is an optional add-on chosen for a cart item (e.g. a wrapping or
// vase upgrade).
type Design struct {
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Quantity int    `json:"quantity"`
}

// CartItem is a client-side cart line, cached per session and reconciled
// against the authoritative order's items whenever an order is fetched.
type CartItem struct {
	Key      string  `json:"key"`
	Name     string  `json:"name"`
	Price    int64   `json:"price"`
	Quantity int     `json:"quantity"`
	Size     string  `json:"size,omitempty"`
	Design   *Design `json:"design,omitempty"`
	SKU      string  `json:"sku,omitempty"`
	Image    string  `json:"image,omitempty"`
}

// Subtotal sums the cart in naira, including design add-ons.
func Subtotal(items []CartItem) int64 {
	var total int64
	for _, item := range items {
		total += item.Price * int64(item.Quantity)
		if item.Design != nil {
			total += item.Design.Price * int64(item.Design.Quantity)
		}
	}
	return total
}

// Form is the mutable checkout record. All writes go through Apply so the
// cascading rules between state, zone, pickup and the resolved delivery
// location cannot be bypassed.
type Form struct {
	// Sender
	SenderName     string      `json:"sender_name"`
	SenderEmail    string      `json:"sender_email"`
	SenderPhone    PhoneNumber `json:"sender_phone"`
	SenderPassword string      `json:"sender_password,omitempty"`
	FreeAccount    bool        `json:"free_account"`

	// Delivery
	DeliveryMethod   DeliveryMethod    `json:"delivery_method"`
	State            string            `json:"state"`
	Zone             string            `json:"zone"`
	DeliveryLocation *pricing.Location `json:"delivery_location"`
	PickupState      string            `json:"pickup_state"`
	PickupLocation   string            `json:"pickup_location"`
	SaveAddress      bool              `json:"save_address"`

	// Receiver
	ReceiverName        string      `json:"receiver_name"`
	ReceiverPhone       PhoneNumber `json:"receiver_phone"`
	ReceiverAltPhone    PhoneNumber `json:"receiver_alt_phone"`
	ResidenceType       string      `json:"residence_type"`
	HomeAddress         string      `json:"home_address"`
	DeliveryInstruction string      `json:"delivery_instruction"`

	// Customization
	Message string `json:"message"`
	Purpose string `json:"purpose"`

	// Meta
	CouponCode string `json:"coupon_code"`
}

// Env carries the inputs the cascading rules derive from but do not own.
type Env struct {
	Subtotal     int64
	Currency     pricing.Currency
	DeliveryDate *time.Time
}

// Date returns the delivery date, zero when none is chosen yet.
func (e Env) Date() time.Time {
	if e.DeliveryDate != nil {
		return *e.DeliveryDate
	}
	return time.Time{}
}

// Command is one variant of the checkout update union. Each variant owns the
// side effects of its field group; there is no string-keyed dispatch.
type Command interface {
	apply(f *Form, env Env)
}

// Apply runs one update command against the form.
func (f *Form) Apply(cmd Command, env Env) {
	cmd.apply(f, env)
}

type SetSenderInfo struct {
	Name        string
	Email       string
	Password    string
	FreeAccount bool
}

func (c SetSenderInfo) apply(f *Form, _ Env) {
	f.SenderName = c.Name
	f.SenderEmail = c.Email
	f.SenderPassword = c.Password
	f.FreeAccount = c.FreeAccount
}

type SetSenderPhone struct {
	CountryCode string
	Number      string
}

func (c SetSenderPhone) apply(f *Form, _ Env) {
	f.SenderPhone = PhoneNumber{
		CountryCode: c.CountryCode,
		Number:      phonefmt.Format(c.Number, c.CountryCode),
	}
}

// SetDeliveryMethod switches between the delivery and pickup branches.
// Exactly one branch may be populated, so the other branch's fields are
// cleared on every switch.
type SetDeliveryMethod struct {
	Method DeliveryMethod
}

func (c SetDeliveryMethod) apply(f *Form, _ Env) {
	f.DeliveryMethod = c.Method
	switch c.Method {
	case MethodPickup:
		f.DeliveryLocation = nil
		f.State = ""
		f.Zone = ""
	case MethodDelivery:
		f.PickupState = ""
		f.PickupLocation = ""
		f.SaveAddress = true
	}
}

// SetState picks the delivery region. During a promotional window the free or
// reduced-fee location for the region is auto-selected together with its zone
// value; otherwise zone and location are cleared and only the region tag
// remains until the shopper picks a zone.
type SetState struct {
	State string
}

func (c SetState) apply(f *Form, env Env) {
	f.State = c.State
	if loc, zone, ok := pricing.FreeLocation(c.State, env.Subtotal, env.Currency, env.Date()); ok {
		f.DeliveryLocation = &loc
		f.Zone = zone
		return
	}
	f.Zone = ""
	f.DeliveryLocation = nil
}

// SetPickupState auto-selects the store when the state has exactly one.
type SetPickupState struct {
	State string
}

func (c SetPickupState) apply(f *Form, _ Env) {
	f.PickupState = c.State
	locations := pricing.PickupLocationsByState(c.State)
	if len(locations) == 1 {
		f.PickupLocation = locations[0].Name
		f.Zone = locations[0].Zone
		return
	}
	f.PickupLocation = ""
}

type SetPickupLocation struct {
	Name string
}

func (c SetPickupLocation) apply(f *Form, _ Env) {
	f.PickupLocation = c.Name
	if zone, ok := pricing.PickupZone(c.Name); ok {
		f.Zone = zone
	}
}

// SetZone resolves the delivery location whose name prefixes the composite
// zone value. An unresolvable zone nulls the location rather than leaving a
// stale fee behind.
type SetZone struct {
	Zone string
}

func (c SetZone) apply(f *Form, env Env) {
	f.Zone = c.Zone
	if loc, ok := pricing.LocationByZone(c.Zone, f.State, env.Subtotal, env.Currency, env.Date()); ok {
		f.DeliveryLocation = &loc
		return
	}
	f.DeliveryLocation = nil
}

type SetReceiverInfo struct {
	Name                string
	ResidenceType       string
	HomeAddress         string
	DeliveryInstruction string
}

func (c SetReceiverInfo) apply(f *Form, _ Env) {
	f.ReceiverName = c.Name
	f.ResidenceType = c.ResidenceType
	f.HomeAddress = c.HomeAddress
	f.DeliveryInstruction = c.DeliveryInstruction
}

type SetReceiverPhone struct {
	CountryCode string
	Number      string
	Alt         bool
}

func (c SetReceiverPhone) apply(f *Form, _ Env) {
	phone := PhoneNumber{
		CountryCode: c.CountryCode,
		Number:      phonefmt.Format(c.Number, c.CountryCode),
	}
	if c.Alt {
		f.ReceiverAltPhone = phone
	} else {
		f.ReceiverPhone = phone
	}
}

type SetCustomization struct {
	Message string
	Purpose string
}

func (c SetCustomization) apply(f *Form, _ Env) {
	f.Message = c.Message
	f.Purpose = c.Purpose
}

type SetSaveAddress struct {
	Save bool
}

func (c SetSaveAddress) apply(f *Form, _ Env) {
	f.SaveAddress = c.Save
}

type SetCouponCode struct {
	Code string
}

func (c SetCouponCode) apply(f *Form, _ Env) {
	f.CouponCode = c.Code
}

// Recipient is an address-book entry from the shopper's account. Selecting
// one overwrites the receiver section wholesale.
type Recipient struct {
	Name          string      `json:"name"`
	Phone         PhoneNumber `json:"phone"`
	AltPhone      PhoneNumber `json:"alt_phone"`
	ResidenceType string      `json:"residence_type"`
	HomeAddress   string      `json:"home_address"`
}

type SetRecipient struct {
	Recipient Recipient
}

func (c SetRecipient) apply(f *Form, _ Env) {
	f.ReceiverName = c.Recipient.Name
	f.ReceiverPhone = c.Recipient.Phone
	f.ReceiverAltPhone = c.Recipient.AltPhone
	f.ResidenceType = c.Recipient.ResidenceType
	f.HomeAddress = c.Recipient.HomeAddress
}
