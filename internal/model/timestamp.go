package model

import (
	"fmt"
	"time"
)

// TimestampLayout is the second-precision format every stored timestamp uses.
const TimestampLayout = "2006-01-02 15:04:05"

// DefaultTimezoneOffset is the fixed UTC offset (hours) readings are
// normalized to before storage.
const DefaultTimezoneOffset = 8

// Timezone returns the fixed zone for the given UTC offset in hours.
func Timezone(offsetHours int) *time.Location {
	return time.FixedZone(fmt.Sprintf("UTC%+d", offsetHours), offsetHours*3600)
}

// FormatTimestamp normalizes t into loc at second precision.
func FormatTimestamp(t time.Time, loc *time.Location) string {
	return t.In(loc).Truncate(time.Second).Format(TimestampLayout)
}
