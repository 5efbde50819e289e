package ingest

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	messagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lehydro_ingest_messages_total",
			Help: "Inbound MQTT messages by classified payload kind",
		},
		[]string{"kind"},
	)

	dropsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lehydro_ingest_drops_total",
			Help: "Messages dropped before persistence, by reason",
		},
		[]string{"reason"},
	)

	storeWriteFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lehydro_store_write_failures_total",
			Help: "Failed store writes by row kind",
		},
		[]string{"kind"},
	)

	alertsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lehydro_alerts_total",
			Help: "Threshold alerts raised, by metric",
		},
		[]string{"metric"},
	)

	alertDeliveriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lehydro_alert_deliveries_total",
			Help: "Push notification dispatch outcomes",
		},
		[]string{"status"},
	)

	republishTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lehydro_republish_total",
			Help: "Republish attempts by rate limiter decision",
		},
		[]string{"decision"},
	)
)

const (
	dropUnrecognized        = "unrecognized_payload"
	dropMalformedFieldCount = "malformed_field_count"
	dropInvalidReading      = "invalid_reading"
	dropInvalidDeviceState  = "invalid_device_state"
)
