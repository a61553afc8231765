package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var (
	ordinaryDate  = time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	valentineDate = time.Date(2026, time.February, 14, 0, 0, 0, 0, time.UTC)
	festiveDate   = time.Date(2026, time.December, 25, 0, 0, 0, 0, time.UTC)
)

func TestInPromoWindow(t *testing.T) {
	require.False(t, InPromoWindow(ordinaryDate))
	require.True(t, InPromoWindow(valentineDate))
	require.True(t, InPromoWindow(festiveDate))

	// Window bounds are inclusive, checked by day and month only.
	require.True(t, InPromoWindow(time.Date(2030, time.February, 13, 23, 0, 0, 0, time.UTC)))
	require.True(t, InPromoWindow(time.Date(2030, time.February, 15, 0, 0, 0, 0, time.UTC)))
	require.False(t, InPromoWindow(time.Date(2030, time.February, 16, 0, 0, 0, 0, time.UTC)))
	require.False(t, InPromoWindow(time.Date(2030, time.December, 23, 0, 0, 0, 0, time.UTC)))
}

func TestLocationOptionsStandard(t *testing.T) {
	options := LocationOptions("lagos", NGN, ordinaryDate)
	require.Len(t, options, 3)

	require.Equal(t, "unconfirmed", options[0].Name)
	require.Equal(t, int64(15000), options[0].Amount)
	require.Equal(t, "outer", options[1].Name)
	require.Equal(t, int64(9000), options[1].Amount)
	require.Equal(t, "inner", options[2].Name)
	require.Equal(t, int64(5500), options[2].Amount)

	// Fees never increase as the zone gets closer.
	require.GreaterOrEqual(t, options[0].Amount, options[1].Amount)
	require.GreaterOrEqual(t, options[1].Amount, options[2].Amount)
}

func TestLocationOptionsUnsupportedState(t *testing.T) {
	require.Nil(t, LocationOptions("kano", NGN, ordinaryDate))
	require.Nil(t, ZoneOptions("kano", 50000, NGN, ordinaryDate))
}

func TestZoneOptionsBelowThreshold(t *testing.T) {
	options := ZoneOptions("lagos", 50000, NGN, ordinaryDate)
	require.Len(t, options, 3)
	require.Equal(t, "unconfirmed-lagos", options[0].Value)
	require.Equal(t, "outer-lagos", options[1].Value)
	require.Equal(t, "inner-lagos", options[2].Value)
	require.Equal(t, "Inner Lagos (₦5,500)", options[2].Label)
}

func TestZoneOptionsAboveThreshold(t *testing.T) {
	options := ZoneOptions("lagos", 120000, NGN, ordinaryDate)
	require.Len(t, options, 3)
	require.Equal(t, "inner-lagos", options[2].Value)
	require.Equal(t, "Inner Lagos (Free)", options[2].Label)
}

func TestLocationByZoneStandard(t *testing.T) {
	// ₦50,000 subtotal stays below the ₦100,000 threshold: inner costs ₦5,500.
	loc, ok := LocationByZone("inner-lagos", "lagos", 50000, NGN, ordinaryDate)
	require.True(t, ok)
	require.Equal(t, int64(5500), loc.Amount)

	// ₦120,000 clears the threshold: inner Lagos becomes free.
	loc, ok = LocationByZone("inner-lagos", "lagos", 120000, NGN, ordinaryDate)
	require.True(t, ok)
	require.Equal(t, int64(0), loc.Amount)
	require.Equal(t, "Inner Lagos (Free)", loc.Label)

	// Outer and unconfirmed fees are unaffected by the threshold.
	loc, ok = LocationByZone("outer-lagos", "lagos", 120000, NGN, ordinaryDate)
	require.True(t, ok)
	require.Equal(t, int64(9000), loc.Amount)

	_, ok = LocationByZone("nonsense-lagos", "lagos", 50000, NGN, ordinaryDate)
	require.False(t, ok)
}

func TestLocationByZoneConvertedSubtotal(t *testing.T) {
	// $90 at 1,400 naira to the dollar is below the $120 threshold.
	loc, ok := LocationByZone("inner-lagos", "lagos", 90*1400, USD, ordinaryDate)
	require.True(t, ok)
	require.Equal(t, int64(8), loc.Amount)

	// $130 equivalent clears it.
	loc, ok = LocationByZone("inner-lagos", "lagos", 130*1400, USD, ordinaryDate)
	require.True(t, ok)
	require.Equal(t, int64(0), loc.Amount)
}

func TestPromoOverridesStandardThreshold(t *testing.T) {
	// ₦120,000 clears the standard threshold but not the promotional one, so
	// on a Valentine date the shopper still pays the high tier.
	loc, zone, ok := FreeLocation("lagos", 120000, NGN, valentineDate)
	require.True(t, ok)
	require.Equal(t, "high", loc.Name)
	require.Equal(t, "high-lagos", zone)
	require.Equal(t, int64(15000), loc.Amount)

	options := ZoneOptions("lagos", 120000, NGN, valentineDate)
	require.Len(t, options, 2)
	require.Equal(t, "high-lagos", options[1].Value)
}

func TestLocationByZoneFreeZoneRecheck(t *testing.T) {
	// Above the promotional threshold the stored free zone keeps its zero fee.
	loc, ok := LocationByZone("free-lagos", "lagos", 300000, NGN, valentineDate)
	require.True(t, ok)
	require.Equal(t, int64(0), loc.Amount)

	// Below it the zone no longer resolves, so the stale fee cannot survive a
	// re-resolution after the cart shrank.
	_, ok = LocationByZone("free-lagos", "lagos", 120000, NGN, valentineDate)
	require.False(t, ok)

	// The high tier is unaffected by the re-check.
	loc, ok = LocationByZone("high-lagos", "lagos", 120000, NGN, valentineDate)
	require.True(t, ok)
	require.Equal(t, int64(15000), loc.Amount)
}

func TestPromoFreeAboveThreshold(t *testing.T) {
	loc, zone, ok := FreeLocation("abuja", 300000, NGN, festiveDate)
	require.True(t, ok)
	require.Equal(t, "free", loc.Name)
	require.Equal(t, "free-abuja", zone)
	require.Equal(t, int64(0), loc.Amount)

	options := ZoneOptions("abuja", 300000, NGN, festiveDate)
	require.Len(t, options, 2)
	require.Equal(t, "free-abuja", options[1].Value)
}

func TestFreeLocationOutsidePromo(t *testing.T) {
	_, _, ok := FreeLocation("lagos", 300000, NGN, ordinaryDate)
	require.False(t, ok)

	_, _, ok = FreeLocation("kano", 300000, NGN, valentineDate)
	require.False(t, ok)
}

func TestThreshold(t *testing.T) {
	require.Equal(t, int64(100000), Threshold(NGN, ordinaryDate))
	require.Equal(t, int64(250000), Threshold(NGN, valentineDate))
	require.Equal(t, int64(120), Threshold(USD, ordinaryDate))
}

func TestCurrencyByCode(t *testing.T) {
	require.Equal(t, USD, CurrencyByCode("USD"))
	require.Equal(t, NGN, CurrencyByCode("XYZ"))
}

func TestPickupLocations(t *testing.T) {
	lagos := PickupLocationsByState("lagos")
	require.Len(t, lagos, 2)

	abuja := PickupLocationsByState("abuja")
	require.Len(t, abuja, 1)
	require.Equal(t, "wuse-store", abuja[0].Name)

	zone, ok := PickupZone("ikoyi-store")
	require.True(t, ok)
	require.Equal(t, "pickup-lagos", zone)

	_, ok = PickupZone("no-such-store")
	require.False(t, ok)
}
