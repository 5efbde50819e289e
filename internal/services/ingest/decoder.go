package ingest

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Jeraldsarte/lehydrosys-server/internal/model"
)

// ErrMalformedFieldCount marks a delimited payload whose token count is not
// exactly six. A structural parse failure, distinct from validation.
var ErrMalformedFieldCount = errors.New("malformed field count")

// DecodeKeyValue parses the field1..field6 query-string encoding. A missing
// or unparsable field decodes to NaN; the validator rejects the reading.
// Decoding never fails here.
func DecodeKeyValue(payload string, at time.Time) model.Reading {
	values, err := url.ParseQuery(strings.TrimSpace(payload))
	if err != nil {
		values = url.Values{}
	}
	field := func(n int) float64 {
		return parseFloatOrNaN(values.Get("field" + strconv.Itoa(n)))
	}
	return model.Reading{
		Temperature:          field(1),
		Humidity:             field(2),
		WaterTemperature:     field(3),
		TotalDissolvedSolids: field(4),
		PH:                   field(5),
		WaterLevelDistance:   field(6),
		Timestamp:            at,
	}
}

// DecodeDelimited parses the comma-separated encoding. Exactly six tokens
// are required; an unparsable token decodes to NaN for the validator.
func DecodeDelimited(payload string, at time.Time) (model.Reading, error) {
	tokens := strings.Split(strings.TrimSpace(payload), ",")
	if len(tokens) != 6 {
		return model.Reading{}, fmt.Errorf("%w: expected 6 tokens, got %d", ErrMalformedFieldCount, len(tokens))
	}
	return model.Reading{
		Temperature:          parseFloatOrNaN(tokens[0]),
		Humidity:             parseFloatOrNaN(tokens[1]),
		WaterTemperature:     parseFloatOrNaN(tokens[2]),
		TotalDissolvedSolids: parseFloatOrNaN(tokens[3]),
		PH:                   parseFloatOrNaN(tokens[4]),
		WaterLevelDistance:   parseFloatOrNaN(tokens[5]),
		Timestamp:            at,
	}, nil
}

// DecodeDeviceState parses "<DEVICE>:<value>". The device name is upper-case
// normalized; a status token that is not an integer decodes to -1 and is
// left for the validator.
func DecodeDeviceState(payload string, at time.Time) model.DeviceStateEvent {
	device, value, _ := strings.Cut(strings.TrimSpace(payload), ":")
	status, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		status = -1
	}
	return model.DeviceStateEvent{
		Device:    strings.ToUpper(strings.TrimSpace(device)),
		Status:    status,
		Timestamp: at,
	}
}

func parseFloatOrNaN(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
