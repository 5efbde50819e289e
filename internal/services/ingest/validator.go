package ingest

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/Jeraldsarte/lehydrosys-server/internal/model"
)

var (
	// ErrInvalidReading marks a reading with one or more non-finite fields.
	ErrInvalidReading = errors.New("invalid reading")
	// ErrInvalidDeviceState marks a relay status that is not 0 or 1.
	ErrInvalidDeviceState = errors.New("invalid device state")
)

// ValidateReading accepts a reading iff all six fields are finite. The check
// runs over every field so the error names each offender.
func ValidateReading(r model.Reading) error {
	names := [6]string{
		model.MetricTemperature,
		model.MetricHumidity,
		model.MetricWaterTemperature,
		model.MetricTotalDissolvedSolids,
		model.MetricPH,
		model.MetricWaterLevelDistance,
	}
	var bad []string
	for i, v := range r.Values() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			bad = append(bad, names[i])
		}
	}
	if len(bad) > 0 {
		return fmt.Errorf("%w: non-finite fields: %s", ErrInvalidReading, strings.Join(bad, ", "))
	}
	return nil
}

// ValidateDeviceState accepts an event iff its status is exactly 0 or 1.
func ValidateDeviceState(e model.DeviceStateEvent) error {
	if e.Status != 0 && e.Status != 1 {
		return fmt.Errorf("%w: status %d for %s", ErrInvalidDeviceState, e.Status, e.Device)
	}
	return nil
}
