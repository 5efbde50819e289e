package model

import "fmt"

// AlertEvent is one threshold breach derived from a valid reading. It is
// handed to the notifier, never persisted here.
type AlertEvent struct {
	Metric  string  `json:"metric"`
	Value   float64 `json:"value"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Message string  `json:"message"`
}

// NewAlertEvent builds the event with its human-readable message.
func NewAlertEvent(metric string, value float64, band Range) AlertEvent {
	return AlertEvent{
		Metric: metric,
		Value:  value,
		Min:    band.Min,
		Max:    band.Max,
		Message: fmt.Sprintf("%s out of range: value %.2f is outside optimal [%.2f, %.2f]",
			metric, value, band.Min, band.Max),
	}
}
