package model

import (
	"strings"
	"time"
)

// Relays the node exposes. Wire names are case-insensitive; storage uses the
// canonical upper-case form.
const (
	Relay1 = "RELAY1"
	Relay2 = "RELAY2"
)

// KnownDevice reports whether name (any case) is one of the node's relays.
func KnownDevice(name string) bool {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case Relay1, Relay2:
		return true
	}
	return false
}

// DeviceStateEvent is one relay status change. Status is 0 or 1 once
// validated; decoders may leave any other value for the validator to reject.
type DeviceStateEvent struct {
	Device    string    `json:"device"`
	Status    int       `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}
