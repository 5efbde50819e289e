package ingest

import (
	"strings"

	"github.com/Jeraldsarte/lehydrosys-server/internal/model"
)

// PayloadKind is the closed set of wire shapes a message can take.
type PayloadKind int

const (
	// Unrecognized payloads are logged and dropped; this is a defined
	// terminal state, not an error.
	Unrecognized PayloadKind = iota
	// DeviceState is a "<DEVICE>:<0|1>" relay status message.
	DeviceState
	// KeyValueReading is a field1=..&field2=.. query-string reading.
	KeyValueReading
	// DelimitedReading is a comma-separated six-value reading.
	DelimitedReading
)

func (k PayloadKind) String() string {
	switch k {
	case DeviceState:
		return "device_state"
	case KeyValueReading:
		return "key_value_reading"
	case DelimitedReading:
		return "delimited_reading"
	default:
		return "unrecognized"
	}
}

// Classify decides which wire shape the payload uses. Pure function of the
// payload content; the topic plays no part in the decision.
func Classify(payload string) PayloadKind {
	p := strings.TrimSpace(payload)
	if p == "" {
		return Unrecognized
	}
	if device, _, ok := strings.Cut(p, ":"); ok && model.KnownDevice(device) {
		return DeviceState
	}
	if strings.Contains(p, "=") && strings.Contains(p, "field") {
		return KeyValueReading
	}
	if strings.Contains(p, ",") {
		return DelimitedReading
	}
	return Unrecognized
}
