// Package api serves the query and control surface: latest reading, ranged
// history, relay state, the node's command poll, and recipient token
// registration. Thin wrappers over the row store.
package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/Jeraldsarte/lehydrosys-server/internal/model"
	"github.com/Jeraldsarte/lehydrosys-server/internal/storage"
)

// Store is the slice of the relational store the API reads and updates.
type Store interface {
	LatestReading(ctx context.Context) (model.Reading, error)
	ReadingsSince(ctx context.Context, start time.Time) ([]model.Reading, error)
	RelayState(ctx context.Context) (storage.RelayState, error)
	UpdateRelayState(ctx context.Context, relay1, relay2 bool) error
	SaveToken(ctx context.Context, token string) error
}

// Cache is the optional latest-reading fast path.
type Cache interface {
	LatestReading(ctx context.Context) (model.Reading, bool, error)
}

type Server struct {
	store Store
	cache Cache
	loc   *time.Location
}

func NewServer(store Store, cache Cache, loc *time.Location) *Server {
	if loc == nil {
		loc = model.Timezone(model.DefaultTimezoneOffset)
	}
	return &Server{store: store, cache: cache, loc: loc}
}

// Routes mounts the handlers under /api.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/data/latest", s.latestData)
	mux.HandleFunc("GET /api/get_sensor_data", s.sensorData)
	mux.HandleFunc("GET /api/relay", s.relayGet)
	mux.HandleFunc("POST /api/relay", s.relayPost)
	mux.HandleFunc("GET /api/get_commands", s.getCommands)
	mux.HandleFunc("POST /api/device_token", s.deviceToken)
	return mux
}

// readingDTO is the shape the mobile app charts expect.
type readingDTO struct {
	AirTemp    float64 `json:"air_temp"`
	Humidity   float64 `json:"humidity"`
	WaterTemp  float64 `json:"water_temp"`
	WaterLevel float64 `json:"water_level"`
	PH         float64 `json:"ph"`
	TDS        float64 `json:"tds"`
	Timestamp  string  `json:"timestamp"`
}

func (s *Server) toDTO(r model.Reading) readingDTO {
	return readingDTO{
		AirTemp:    r.Temperature,
		Humidity:   r.Humidity,
		WaterTemp:  r.WaterTemperature,
		WaterLevel: r.WaterLevelDistance,
		PH:         r.PH,
		TDS:        r.TotalDissolvedSolids,
		Timestamp:  model.FormatTimestamp(r.Timestamp, s.loc),
	}
}

func (s *Server) latestData(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if s.cache != nil {
		if reading, ok, err := s.cache.LatestReading(ctx); err != nil {
			log.Printf("api: cache read failed: %v", err)
		} else if ok {
			writeJSON(w, s.toDTO(reading))
			return
		}
	}
	reading, err := s.store.LatestReading(ctx)
	if err != nil {
		serverError(w, "latest reading", err)
		return
	}
	writeJSON(w, s.toDTO(reading))
}

func (s *Server) sensorData(w http.ResponseWriter, r *http.Request) {
	start := rangeStart(r.URL.Query().Get("range"), time.Now().In(s.loc))
	readings, err := s.store.ReadingsSince(r.Context(), start)
	if err != nil {
		serverError(w, "sensor data", err)
		return
	}
	out := make([]readingDTO, 0, len(readings))
	for _, reading := range readings {
		out = append(out, s.toDTO(reading))
	}
	writeJSON(w, out)
}

func (s *Server) relayGet(w http.ResponseWriter, r *http.Request) {
	state, err := s.store.RelayState(r.Context())
	if err != nil {
		serverError(w, "relay state", err)
		return
	}
	writeJSON(w, state)
}

func (s *Server) relayPost(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Relay1 int `json:"relay1"`
		Relay2 int `json:"relay2"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if !validBit(body.Relay1) || !validBit(body.Relay2) {
		http.Error(w, "relay values must be 0 or 1", http.StatusBadRequest)
		return
	}
	if err := s.store.UpdateRelayState(r.Context(), body.Relay1 == 1, body.Relay2 == 1); err != nil {
		serverError(w, "update relay state", err)
		return
	}
	writeJSON(w, map[string]string{"status": "relay state updated"})
}

func (s *Server) getCommands(w http.ResponseWriter, r *http.Request) {
	state, err := s.store.RelayState(r.Context())
	if err != nil {
		serverError(w, "relay commands", err)
		return
	}
	writeJSON(w, map[string]string{
		"relay1": command("relay1", state.Relay1),
		"relay2": command("relay2", state.Relay2),
	})
}

func (s *Server) deviceToken(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Token == "" {
		http.Error(w, "token is required", http.StatusBadRequest)
		return
	}
	if err := s.store.SaveToken(r.Context(), body.Token); err != nil {
		serverError(w, "save token", err)
		return
	}
	writeJSON(w, map[string]string{"status": "token registered"})
}

// rangeStart maps the query range to its window start: day is midnight of
// today in the server zone, the others are calendar offsets from now.
func rangeStart(rng string, now time.Time) time.Time {
	switch rng {
	case "week":
		return now.AddDate(0, 0, -7)
	case "month":
		return now.AddDate(0, -1, 0)
	case "year":
		return now.AddDate(-1, 0, 0)
	default: // day
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	}
}

func command(relay string, on bool) string {
	if on {
		return relay + "_on"
	}
	return relay + "_off"
}

func validBit(v int) bool { return v == 0 || v == 1 }

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func serverError(w http.ResponseWriter, op string, err error) {
	log.Printf("api: %s failed: %v", op, err)
	http.Error(w, "internal server error", http.StatusInternalServerError)
}
