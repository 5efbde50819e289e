package ingest

import "github.com/Jeraldsarte/lehydrosys-server/internal/model"

// Evaluator compares valid readings against the optimal bands. Evaluation is
// side-effect free; delivery of the resulting alerts happens elsewhere.
type Evaluator struct {
	ranges model.RangeTable
}

func NewEvaluator(ranges model.RangeTable) *Evaluator {
	return &Evaluator{ranges: ranges}
}

// Evaluate checks all six metrics independently and returns one alert per
// breached band, in fixed order: temperature, humidity, water temperature,
// pH, TDS, water level distance.
func (e *Evaluator) Evaluate(r model.Reading) []model.AlertEvent {
	checks := []struct {
		metric string
		value  float64
		band   model.Range
	}{
		{model.MetricTemperature, r.Temperature, e.ranges.Temperature},
		{model.MetricHumidity, r.Humidity, e.ranges.Humidity},
		{model.MetricWaterTemperature, r.WaterTemperature, e.ranges.WaterTemperature},
		{model.MetricPH, r.PH, e.ranges.PH},
		{model.MetricTotalDissolvedSolids, r.TotalDissolvedSolids, e.ranges.TotalDissolvedSolids},
		{model.MetricWaterLevelDistance, r.WaterLevelDistance, e.ranges.WaterLevelDistance},
	}

	var alerts []model.AlertEvent
	for _, c := range checks {
		if !c.band.Contains(c.value) {
			alerts = append(alerts, model.NewAlertEvent(c.metric, c.value, c.band))
		}
	}
	return alerts
}
