// Package mirror streams valid readings into InfluxDB as a secondary
// time-series sink for dashboards. The relational store stays the system of
// record; mirror failures never touch persistence or alerting.
package mirror

import (
	"log"
	"sync"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/Jeraldsarte/lehydrosys-server/internal/model"
)

// Writer wraps the non-blocking WriteAPI and tracks the last asynchronous
// write error for /healthz and /readyz.
type Writer struct {
	api     api.WriteAPI
	mu      sync.RWMutex
	lastErr time.Time
}

// NewWriter starts the listener for the API's asynchronous error channel.
func NewWriter(w api.WriteAPI) *Writer {
	mw := &Writer{
		api: w,
		// start "healthy": no recent error
		lastErr: time.Now().Add(-24 * time.Hour),
	}
	go func() {
		for err := range w.Errors() {
			if err != nil {
				mw.mu.Lock()
				mw.lastErr = time.Now()
				mw.mu.Unlock()
				log.Printf("mirror: influx write error: %v", err)
			}
		}
	}()
	return mw
}

// WriteReading enqueues one point; the underlying API batches and flushes.
func (w *Writer) WriteReading(topic string, r model.Reading) {
	if w == nil {
		return
	}
	w.api.WritePoint(readingToPoint(topic, r))
}

// LastErrorAge returns how long the mirror has been error free. Nil-safe so
// health handlers work with the mirror disabled.
func (w *Writer) LastErrorAge() time.Duration {
	if w == nil {
		return 99999 * time.Hour
	}
	w.mu.RLock()
	t := w.lastErr
	w.mu.RUnlock()
	return time.Since(t)
}

func readingToPoint(topic string, r model.Reading) *write.Point {
	tags := map[string]string{}
	if topic != "" {
		tags["topic"] = topic
	}
	fields := map[string]interface{}{
		"temperature": r.Temperature,
		"humidity":    r.Humidity,
		"water_temp":  r.WaterTemperature,
		"tds":         r.TotalDissolvedSolids,
		"ph":          r.PH,
		"distance":    r.WaterLevelDistance,
	}
	return influxdb2.NewPoint("sensor_reading", tags, fields, r.Timestamp)
}
