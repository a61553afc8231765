// Package notification defines the single app-wide message shape the
// storefront surfaces to shoppers. There are no modal error dialogs for
// recoverable failures; everything flows through one of these.
package notification

import (
	"time"
)

type Type string

const (
	TypeSuccess Type = "success"
	TypeInfo    Type = "info"
	TypeError   Type = "error"
)

// Auto-dismiss durations by type. Informational notices linger longest since
// they carry reconciliation caveats the shopper should actually read.
var durations = map[Type]time.Duration{
	TypeSuccess: 3 * time.Second,
	TypeInfo:    8 * time.Second,
	TypeError:   5 * time.Second,
}

type Notification struct {
	Type       Type   `json:"type"`
	Message    string `json:"message"`
	DurationMS int64  `json:"duration_ms"`
}

func New(t Type, message string) Notification {
	return Notification{
		Type:       t,
		Message:    message,
		DurationMS: durations[t].Milliseconds(),
	}
}

func Success(message string) Notification { return New(TypeSuccess, message) }
func Info(message string) Notification    { return New(TypeInfo, message) }
func Error(message string) Notification   { return New(TypeError, message) }
