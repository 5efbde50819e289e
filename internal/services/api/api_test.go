package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jeraldsarte/lehydrosys-server/internal/model"
	"github.com/Jeraldsarte/lehydrosys-server/internal/storage"
)

type stubStore struct {
	latest     model.Reading
	latestErr  error
	history    []model.Reading
	sinceStart time.Time
	relay      storage.RelayState
	updated    *[2]bool
	tokens     []string
}

func (s *stubStore) LatestReading(context.Context) (model.Reading, error) {
	return s.latest, s.latestErr
}

func (s *stubStore) ReadingsSince(_ context.Context, start time.Time) ([]model.Reading, error) {
	s.sinceStart = start
	return s.history, nil
}

func (s *stubStore) RelayState(context.Context) (storage.RelayState, error) {
	return s.relay, nil
}

func (s *stubStore) UpdateRelayState(_ context.Context, relay1, relay2 bool) error {
	s.updated = &[2]bool{relay1, relay2}
	return nil
}

func (s *stubStore) SaveToken(_ context.Context, token string) error {
	s.tokens = append(s.tokens, token)
	return nil
}

type stubCache struct {
	reading model.Reading
	hit     bool
}

func (c *stubCache) LatestReading(context.Context) (model.Reading, bool, error) {
	return c.reading, c.hit, nil
}

func testReading() model.Reading {
	return model.Reading{
		Temperature:          23,
		Humidity:             60,
		WaterTemperature:     20,
		TotalDissolvedSolids: 700,
		PH:                   6.0,
		WaterLevelDistance:   40,
		Timestamp:            time.Date(2026, 3, 14, 17, 30, 0, 0, model.Timezone(8)),
	}
}

func doRequest(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, req)
	return rec
}

func TestLatestDataFromStore(t *testing.T) {
	store := &stubStore{latest: testReading()}
	s := NewServer(store, nil, model.Timezone(8))

	rec := doRequest(t, s, http.MethodGet, "/api/data/latest", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var dto map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dto))
	assert.Equal(t, 23.0, dto["air_temp"])
	assert.Equal(t, 40.0, dto["water_level"])
	assert.Equal(t, 700.0, dto["tds"])
	assert.Equal(t, "2026-03-14 17:30:00", dto["timestamp"])
}

func TestLatestDataPrefersCache(t *testing.T) {
	cached := testReading()
	cached.Temperature = 99
	store := &stubStore{latest: testReading()}
	s := NewServer(store, &stubCache{reading: cached, hit: true}, model.Timezone(8))

	rec := doRequest(t, s, http.MethodGet, "/api/data/latest", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var dto map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dto))
	assert.Equal(t, 99.0, dto["air_temp"])
}

func TestLatestDataCacheMissFallsBack(t *testing.T) {
	store := &stubStore{latest: testReading()}
	s := NewServer(store, &stubCache{hit: false}, model.Timezone(8))

	rec := doRequest(t, s, http.MethodGet, "/api/data/latest", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var dto map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dto))
	assert.Equal(t, 23.0, dto["air_temp"])
}

func TestSensorDataRangeWindows(t *testing.T) {
	loc := model.Timezone(8)
	now := time.Now().In(loc)

	tests := []struct {
		rng   string
		check func(t *testing.T, start time.Time)
	}{
		{"day", func(t *testing.T, start time.Time) {
			assert.Equal(t, 0, start.Hour())
			assert.Equal(t, now.Day(), start.Day())
		}},
		{"week", func(t *testing.T, start time.Time) {
			assert.WithinDuration(t, now.AddDate(0, 0, -7), start, time.Minute)
		}},
		{"year", func(t *testing.T, start time.Time) {
			assert.Equal(t, now.Year()-1, start.Year())
		}},
	}
	for _, tt := range tests {
		t.Run(tt.rng, func(t *testing.T) {
			store := &stubStore{history: []model.Reading{testReading()}}
			s := NewServer(store, nil, loc)

			rec := doRequest(t, s, http.MethodGet, "/api/get_sensor_data?range="+tt.rng, "")
			require.Equal(t, http.StatusOK, rec.Code)
			tt.check(t, store.sinceStart)

			var out []map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
			require.Len(t, out, 1)
		})
	}
}

func TestRelayPost(t *testing.T) {
	store := &stubStore{}
	s := NewServer(store, nil, nil)

	rec := doRequest(t, s, http.MethodPost, "/api/relay", `{"relay1":1,"relay2":0}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, store.updated)
	assert.Equal(t, [2]bool{true, false}, *store.updated)
}

func TestRelayPostRejectsBadValues(t *testing.T) {
	s := NewServer(&stubStore{}, nil, nil)

	rec := doRequest(t, s, http.MethodPost, "/api/relay", `{"relay1":2,"relay2":0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, s, http.MethodPost, "/api/relay", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetCommands(t *testing.T) {
	store := &stubStore{relay: storage.RelayState{Relay1: true, Relay2: false}}
	s := NewServer(store, nil, nil)

	rec := doRequest(t, s, http.MethodGet, "/api/get_commands", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var out map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "relay1_on", out["relay1"])
	assert.Equal(t, "relay2_off", out["relay2"])
}

func TestDeviceToken(t *testing.T) {
	store := &stubStore{}
	s := NewServer(store, nil, nil)

	rec := doRequest(t, s, http.MethodPost, "/api/device_token", `{"token":"fcm-1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"fcm-1"}, store.tokens)

	rec = doRequest(t, s, http.MethodPost, "/api/device_token", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLatestDataStoreError(t *testing.T) {
	store := &stubStore{latestErr: assert.AnError}
	s := NewServer(store, nil, nil)

	rec := doRequest(t, s, http.MethodGet, "/api/data/latest", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
