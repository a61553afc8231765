package util

import (
	"github.com/dustin/go-humanize"
)

// FormatMoney renders an amount with its currency sign and thousands
// separators. Example: 100000 with sign "₦" -> "₦100,000".
func FormatMoney(sign string, amount int64) string {
	return sign + humanize.Comma(amount)
}
