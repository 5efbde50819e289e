package model

import (
	"math"
	"time"
)

// Reading is one fully decoded sensor sample. Field order follows the wire
// order of the field1..field6 encoding.
type Reading struct {
	Temperature          float64   `json:"temperature"`
	Humidity             float64   `json:"humidity"`
	WaterTemperature     float64   `json:"water_temp"`
	TotalDissolvedSolids float64   `json:"tds"`
	PH                   float64   `json:"ph"`
	WaterLevelDistance   float64   `json:"distance"`
	Timestamp            time.Time `json:"timestamp"`
}

// Values returns the six metric values in wire order.
func (r Reading) Values() [6]float64 {
	return [6]float64{
		r.Temperature,
		r.Humidity,
		r.WaterTemperature,
		r.TotalDissolvedSolids,
		r.PH,
		r.WaterLevelDistance,
	}
}

// Finite reports whether every metric of the reading is a real number.
func (r Reading) Finite() bool {
	for _, v := range r.Values() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
