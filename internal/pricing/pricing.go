package pricing

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Location is a resolved delivery-location fee option.
type Location struct {
	Name   string `json:"name"`
	Label  string `json:"label"`
	Amount int64  `json:"amount"`
}

// ZoneOption pairs a composite zone value ("<name>-<suffix>") with a
// human-readable label.
type ZoneOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// InPromoWindow reports whether the delivery date falls inside a fixed
// promotional window, checked by day and month only.
func InPromoWindow(date time.Time) bool {
	for _, w := range promoWindows {
		if date.Month() == w.Month && date.Day() >= w.FirstDay && date.Day() <= w.LastDay {
			return true
		}
	}
	return false
}

// Threshold returns the free-delivery threshold active for the currency on
// the given delivery date.
func Threshold(currency Currency, date time.Time) int64 {
	if InPromoWindow(date) {
		return promoFees[currency.Code].FreeThreshold
	}
	return standardFees[currency.Code].FreeThreshold
}

// IsSupportedState reports whether the state has a defined zone table.
func IsSupportedState(state string) bool {
	for _, s := range supportedStates {
		if s == state {
			return true
		}
	}
	return false
}

// convertedSubtotal expresses a naira subtotal in the active currency.
func convertedSubtotal(subtotal int64, currency Currency) float64 {
	return float64(subtotal) / currency.ConversionRate
}

func feeLabel(name string, currency Currency, amount int64) string {
	if amount == 0 {
		return fmt.Sprintf("%s (Free)", name)
	}
	return fmt.Sprintf("%s (%s%s)", name, currency.Sign, humanize.Comma(amount))
}

// LocationOptions returns the ordered delivery-location fee options for a
// state. A state without a zone table yields nil, which upstream renders as
// "contact us for a quote".
func LocationOptions(state string, currency Currency, date time.Time) []Location {
	if !IsSupportedState(state) {
		return nil
	}
	label := stateLabels[state]

	if InPromoWindow(date) {
		table := promoFees[currency.Code]
		return []Location{
			{Name: "unconfirmed", Label: feeLabel("Unconfirmed or unlisted address", currency, table.Unconfirmed), Amount: table.Unconfirmed},
			{Name: "high", Label: feeLabel(label+" festive delivery", currency, table.High), Amount: table.High},
			{Name: "free", Label: fmt.Sprintf("%s festive delivery above %s%s (Free)", label, currency.Sign, humanize.Comma(table.FreeThreshold)), Amount: 0},
		}
	}

	table := standardFees[currency.Code]
	return []Location{
		{Name: "unconfirmed", Label: feeLabel("Unconfirmed or unlisted address", currency, table.Unconfirmed), Amount: table.Unconfirmed},
		{Name: "outer", Label: feeLabel("Outer "+label, currency, table.Outer), Amount: table.Outer},
		{Name: "inner", Label: feeLabel("Inner "+label, currency, table.Inner), Amount: table.Inner},
	}
}

// ZoneOptions returns the ordered zone options for a state, with the inner
// zone collapsed to a free tier once the converted subtotal clears the active
// threshold. Zone values are composite "<locationName>-<state>" strings so a
// zone can later be resolved back to its fee option by prefix.
func ZoneOptions(state string, subtotal int64, currency Currency, date time.Time) []ZoneOption {
	if !IsSupportedState(state) {
		return nil
	}
	label := stateLabels[state]

	if InPromoWindow(date) {
		table := promoFees[currency.Code]
		options := []ZoneOption{
			{Value: "unconfirmed-" + state, Label: feeLabel("Unconfirmed or unlisted address", currency, table.Unconfirmed)},
		}
		if convertedSubtotal(subtotal, currency) >= float64(table.FreeThreshold) {
			options = append(options, ZoneOption{Value: "free-" + state, Label: label + " festive delivery (Free)"})
		} else {
			options = append(options, ZoneOption{Value: "high-" + state, Label: feeLabel(label+" festive delivery", currency, table.High)})
		}
		return options
	}

	table := standardFees[currency.Code]
	options := []ZoneOption{
		{Value: "unconfirmed-" + state, Label: feeLabel("Unconfirmed or unlisted address", currency, table.Unconfirmed)},
		{Value: "outer-" + state, Label: feeLabel("Outer "+label, currency, table.Outer)},
	}
	if convertedSubtotal(subtotal, currency) >= float64(table.FreeThreshold) {
		options = append(options, ZoneOption{Value: "inner-" + state, Label: "Inner " + label + " (Free)"})
	} else {
		options = append(options, ZoneOption{Value: "inner-" + state, Label: feeLabel("Inner "+label, currency, table.Inner)})
	}
	return options
}

// LocationByZone resolves the fee option matching a composite zone value by
// prefix. The inner zone resolves to a zero fee once the converted subtotal
// clears the active threshold; a stored free zone stops resolving when the
// subtotal drops back below the promotional threshold, so the caller nulls
// the location instead of keeping an unearned zero fee.
func LocationByZone(zone, state string, subtotal int64, currency Currency, date time.Time) (Location, bool) {
	for _, loc := range LocationOptions(state, currency, date) {
		if strings.HasPrefix(zone, loc.Name+"-") {
			if loc.Name == "inner" && convertedSubtotal(subtotal, currency) >= float64(standardFees[currency.Code].FreeThreshold) && !InPromoWindow(date) {
				loc.Amount = 0
				loc.Label = "Inner " + stateLabels[state] + " (Free)"
			}
			if loc.Name == "free" && convertedSubtotal(subtotal, currency) < float64(promoFees[currency.Code].FreeThreshold) {
				return Location{}, false
			}
			return loc, true
		}
	}
	return Location{}, false
}

// FreeLocation returns the cheapest applicable option for a state during a
// promotional window, used to auto-select the delivery location when the
// shopper picks a state. The second return is the matching zone value.
func FreeLocation(state string, subtotal int64, currency Currency, date time.Time) (Location, string, bool) {
	if !IsSupportedState(state) || !InPromoWindow(date) {
		return Location{}, "", false
	}
	table := promoFees[currency.Code]
	if convertedSubtotal(subtotal, currency) >= float64(table.FreeThreshold) {
		return Location{
			Name:   "free",
			Label:  stateLabels[state] + " festive delivery (Free)",
			Amount: 0,
		}, "free-" + state, true
	}
	return Location{
		Name:   "high",
		Label:  feeLabel(stateLabels[state]+" festive delivery", currency, table.High),
		Amount: table.High,
	}, "high-" + state, true
}
