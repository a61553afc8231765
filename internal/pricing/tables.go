package pricing

import (
	"time"
)

// Currency describes a supported display currency. ConversionRate is the
// number of naira per unit of the currency; product prices are stored in NGN.
type Currency struct {
	Code           string  `json:"code"`
	Sign           string  `json:"sign"`
	ConversionRate float64 `json:"conversion_rate"`
}

var (
	NGN = Currency{Code: "NGN", Sign: "₦", ConversionRate: 1}
	USD = Currency{Code: "USD", Sign: "$", ConversionRate: 1400}
	GBP = Currency{Code: "GBP", Sign: "£", ConversionRate: 1800}
)

var SupportedCurrencies = []Currency{NGN, USD, GBP}

// CurrencyByCode returns the currency for a code, defaulting to NGN.
func CurrencyByCode(code string) Currency {
	for _, c := range SupportedCurrencies {
		if c.Code == code {
			return c
		}
	}
	return NGN
}

// feeTable holds the standard zone fees and free-delivery threshold for one
// currency. Amounts are whole units of that currency.
type feeTable struct {
	Unconfirmed   int64
	Outer         int64
	Inner         int64
	FreeThreshold int64
}

// promoTable replaces feeTable for delivery dates inside a promotional
// window. There is no outer/inner split during promos, only a single "high"
// tier below the promotional threshold.
type promoTable struct {
	Unconfirmed   int64
	High          int64
	FreeThreshold int64
}

var standardFees = map[string]feeTable{
	"NGN": {Unconfirmed: 15000, Outer: 9000, Inner: 5500, FreeThreshold: 100000},
	"USD": {Unconfirmed: 20, Outer: 12, Inner: 8, FreeThreshold: 120},
	"GBP": {Unconfirmed: 15, Outer: 10, Inner: 6, FreeThreshold: 100},
}

var promoFees = map[string]promoTable{
	"NGN": {Unconfirmed: 25000, High: 15000, FreeThreshold: 250000},
	"USD": {Unconfirmed: 35, High: 20, FreeThreshold: 300},
	"GBP": {Unconfirmed: 28, High: 16, FreeThreshold: 240},
}

// promoWindow is a fixed day/month range, year-independent. Both bounds are
// inclusive and a window never crosses a month boundary.
type promoWindow struct {
	Month    time.Month
	FirstDay int
	LastDay  int
}

var promoWindows = []promoWindow{
	{Month: time.February, FirstDay: 13, LastDay: 15}, // Valentine
	{Month: time.December, FirstDay: 24, LastDay: 26}, // festive season
}

// Regions with a defined zone table. Anything else is "other locations" and
// resolves to an empty option list.
var supportedStates = []string{"lagos", "abuja"}

var stateLabels = map[string]string{
	"lagos": "Lagos",
	"abuja": "Abuja",
}

// PickupLocation is a physical store a shopper can collect from.
type PickupLocation struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	Zone  string `json:"zone"`
}

var pickupLocations = map[string][]PickupLocation{
	"lagos": {
		{Name: "ikoyi-store", Label: "Ikoyi Store, 81b Lafiaji Way, Dolphin Estate", Zone: "pickup-lagos"},
		{Name: "silverbird-store", Label: "Silverbird Galleria, 133 Ahmadu Bello Way, Victoria Island", Zone: "pickup-lagos"},
	},
	"abuja": {
		{Name: "wuse-store", Label: "Wuse II Store, 5 Nairobi Street, Wuse 2", Zone: "pickup-abuja"},
	},
}

// PickupLocationsByState returns the stores available in a pickup state.
func PickupLocationsByState(state string) []PickupLocation {
	return pickupLocations[state]
}

// PickupZone returns the zone code mapped to a pickup location name.
func PickupZone(name string) (string, bool) {
	for _, locations := range pickupLocations {
		for _, loc := range locations {
			if loc.Name == name {
				return loc.Zone, true
			}
		}
	}
	return "", false
}
