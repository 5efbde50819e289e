package model

// Range is the inclusive [Min, Max] band considered healthy for a metric.
type Range struct {
	Min float64 `mapstructure:"min"`
	Max float64 `mapstructure:"max"`
}

// Contains reports whether v sits inside the band (inclusive on both ends).
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Metric names used in alerts, metrics labels and the ranges config section.
const (
	MetricTemperature          = "temperature"
	MetricHumidity             = "humidity"
	MetricWaterTemperature     = "water_temperature"
	MetricPH                   = "ph"
	MetricTotalDissolvedSolids = "tds"
	MetricWaterLevelDistance   = "water_level_distance"
)

// RangeTable maps each of the six metrics to its optimal band. Built once at
// startup and read-only afterwards.
type RangeTable struct {
	Temperature          Range
	Humidity             Range
	WaterTemperature     Range
	PH                   Range
	TotalDissolvedSolids Range
	WaterLevelDistance   Range
}

// DefaultRanges are the stock hydroponic bands, overridable per metric in
// the ranges config section.
func DefaultRanges() RangeTable {
	return RangeTable{
		Temperature:          Range{Min: 18, Max: 24},
		Humidity:             Range{Min: 40, Max: 70},
		WaterTemperature:     Range{Min: 18, Max: 22},
		PH:                   Range{Min: 5.5, Max: 6.5},
		TotalDissolvedSolids: Range{Min: 500, Max: 800},
		WaterLevelDistance:   Range{Min: 30, Max: 50},
	}
}
