package ingest

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/Jeraldsarte/lehydrosys-server/internal/mirror"
)

// Pinger is the store's liveness probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

type healthHandler struct {
	mqtt   mqtt.Client
	store  Pinger
	mirror *mirror.Writer
}

// NewHealthHandler reports ok / degraded / down from the broker connection,
// the store ping and the mirror's recent write errors. A nil mirror always
// reads healthy.
func NewHealthHandler(m mqtt.Client, store Pinger, mw *mirror.Writer) http.Handler {
	return &healthHandler{mqtt: m, store: store, mirror: mw}
}

func (h *healthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	type status struct {
		Status          string  `json:"status"`
		MQTTConnected   bool    `json:"mqtt_connected"`
		StoreOK         bool    `json:"store_ok"`
		MirrorErrorAgeS float64 `json:"mirror_error_age_sec"`
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	st := status{
		MQTTConnected:   h.mqtt != nil && h.mqtt.IsConnectionOpen(),
		StoreOK:         h.store != nil && h.store.Ping(ctx) == nil,
		MirrorErrorAgeS: h.mirror.LastErrorAge().Seconds(),
	}

	switch {
	case st.MQTTConnected && st.StoreOK && h.mirror.LastErrorAge() > 30*time.Second:
		st.Status = "ok"
	case st.MQTTConnected || st.StoreOK:
		st.Status = "degraded"
	default:
		st.Status = "down"
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(st)
}

type readyHandler struct {
	mqtt     mqtt.Client
	store    Pinger
	mirror   *mirror.Writer
	minError time.Duration
}

// NewReadyHandler answers 200 only when every dependency is up.
func NewReadyHandler(m mqtt.Client, store Pinger, mw *mirror.Writer, minOkErrorAge time.Duration) http.Handler {
	return &readyHandler{mqtt: m, store: store, mirror: mw, minError: minOkErrorAge}
}

func (h *readyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	ready := h.mqtt != nil && h.mqtt.IsConnectionOpen() &&
		h.store != nil && h.store.Ping(ctx) == nil &&
		h.mirror.LastErrorAge() > h.minError
	if !ready {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	w.Header().Set("Content-Type", "application/json")
	type resp struct {
		Ready bool `json:"ready"`
	}
	_ = json.NewEncoder(w).Encode(resp{Ready: ready})
}
