package ingest

import (
	"context"
	"log"

	"github.com/Jeraldsarte/lehydrosys-server/internal/model"
)

// Store is the slice of the relational store the pipeline needs.
type Store interface {
	InsertReading(ctx context.Context, r model.Reading) error
	InsertDeviceState(ctx context.Context, e model.DeviceStateEvent) error
	LatestToken(ctx context.Context) (string, error)
}

// Cache receives the latest persisted reading, best effort.
type Cache interface {
	SetLatestReading(ctx context.Context, r model.Reading) error
}

// Mirror receives valid readings for the time-series sink, non-blocking.
type Mirror interface {
	WriteReading(topic string, r model.Reading)
}

// Dispatcher issues the store writes for the pipeline. Each write is
// at-most-once; a failure is logged and counted, never retried, and never
// affects the sibling alert path. Cache and mirror are optional side sinks.
type Dispatcher struct {
	store  Store
	cache  Cache
	mirror Mirror
}

func NewDispatcher(store Store, cache Cache, mirror Mirror) *Dispatcher {
	return &Dispatcher{store: store, cache: cache, mirror: mirror}
}

// WriteReading persists one reading row and feeds the side sinks.
func (d *Dispatcher) WriteReading(ctx context.Context, topic string, r model.Reading) {
	if err := d.store.InsertReading(ctx, r); err != nil {
		storeWriteFailuresTotal.WithLabelValues("reading").Inc()
		log.Printf("ingest: reading insert failed: %v", err)
	}
	if d.cache != nil {
		if err := d.cache.SetLatestReading(ctx, r); err != nil {
			log.Printf("ingest: latest-reading cache update failed: %v", err)
		}
	}
	if d.mirror != nil {
		d.mirror.WriteReading(topic, r)
	}
}

// WriteDeviceState persists one relay status change row.
func (d *Dispatcher) WriteDeviceState(ctx context.Context, e model.DeviceStateEvent) {
	if err := d.store.InsertDeviceState(ctx, e); err != nil {
		storeWriteFailuresTotal.WithLabelValues("device_state").Inc()
		log.Printf("ingest: device state insert failed: %v", err)
	}
}
