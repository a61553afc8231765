package util

import (
	"fmt"
	"strings"
	"time"

	"github.com/lithammer/shortuuid/v4"
)

// GeneratePaymentReference builds a unique provider transaction reference in
// the format yymmdd_<shortid>, date-prefixed so references sort by day.
func GeneratePaymentReference() string {
	datePrefix := time.Now().Format("060102")
	shortID := strings.ToLower(shortuuid.New()[:10])

	return fmt.Sprintf("%s_%s", datePrefix, shortID)
}

// GenerateSessionID returns an opaque shopper session identifier.
func GenerateSessionID() string {
	return shortuuid.New()
}
