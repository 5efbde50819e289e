package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		payload string
		want    PayloadKind
	}{
		{"relay on", "RELAY1:1", DeviceState},
		{"relay off lower case", "relay2:0", DeviceState},
		{"relay padded", " Relay1 : 1 ", DeviceState},
		{"key value", "field1=23&field2=60&field3=20&field4=700&field5=6.0&field6=40", KeyValueReading},
		{"key value partial", "field1=23&field3=20", KeyValueReading},
		{"delimited", "23,60,20,700,6.0,40", DelimitedReading},
		{"delimited short", "23,60,20", DelimitedReading},
		{"unknown device prefix", "PUMP1:1", Unrecognized},
		{"free text", "hello world", Unrecognized},
		{"empty", "", Unrecognized},
		{"blank", "   ", Unrecognized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.payload))
		})
	}
}

func TestClassifyIsPure(t *testing.T) {
	t.Parallel()

	// same payload, same answer, no state between calls
	for i := 0; i < 3; i++ {
		assert.Equal(t, DelimitedReading, Classify("1,2,3,4,5,6"))
	}
}
