package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/Jeraldsarte/lehydrosys-server/internal/model"
)

const (
	sensorDataTable = `
CREATE TABLE IF NOT EXISTS sensor_data (
    id BIGSERIAL PRIMARY KEY,
    temperature DOUBLE PRECISION NOT NULL,
    humidity DOUBLE PRECISION NOT NULL,
    water_temp DOUBLE PRECISION NOT NULL,
    tds DOUBLE PRECISION NOT NULL,
    ph DOUBLE PRECISION NOT NULL,
    distance DOUBLE PRECISION NOT NULL,
    ts TIMESTAMP NOT NULL
)`
	sensorDataIndex = `
CREATE INDEX IF NOT EXISTS sensor_data_ts_idx ON sensor_data (ts DESC)`
	relayStateTable = `
CREATE TABLE IF NOT EXISTS relay_state (
    id INT PRIMARY KEY,
    relay1 BOOLEAN NOT NULL DEFAULT FALSE,
    relay2 BOOLEAN NOT NULL DEFAULT FALSE,
    updated_at TIMESTAMP NOT NULL
)`
	relayStateSeed = `
INSERT INTO relay_state (id, relay1, relay2, updated_at)
VALUES (1, FALSE, FALSE, NOW()) ON CONFLICT (id) DO NOTHING`
	deviceStateLogTable = `
CREATE TABLE IF NOT EXISTS device_state_log (
    id BIGSERIAL PRIMARY KEY,
    device TEXT NOT NULL,
    status SMALLINT NOT NULL,
    ts TIMESTAMP NOT NULL
)`
	deviceTokensTable = `
CREATE TABLE IF NOT EXISTS device_tokens (
    token TEXT PRIMARY KEY,
    created_at TIMESTAMP NOT NULL
)`
)

// RelayState is the single control row the node polls for commands.
type RelayState struct {
	Relay1    bool      `json:"relay1"`
	Relay2    bool      `json:"relay2"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store is the relational store behind both the ingestion pipeline and the
// query API. All access is parameterized; callers treat failures as generic
// store errors and never retry here.
type Store struct {
	db  *sql.DB
	loc *time.Location
}

// Open connects to Postgres with the given DSN.
func Open(dsn string, loc *time.Location) (*Store, error) {
	if dsn == "" {
		return nil, errors.New("storage: DSN is required")
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("storage: open: %w", err)
	}
	return New(db, loc), nil
}

// New wraps an existing handle; used by Open and by tests.
func New(db *sql.DB, loc *time.Location) *Store {
	if loc == nil {
		loc = model.Timezone(model.DefaultTimezoneOffset)
	}
	return &Store{db: db, loc: loc}
}

// EnsureSchema creates the tables the server expects.
func (s *Store) EnsureSchema(ctx context.Context) error {
	for _, stmt := range []string{
		sensorDataTable,
		sensorDataIndex,
		relayStateTable,
		relayStateSeed,
		deviceStateLogTable,
		deviceTokensTable,
	} {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("storage: ensure schema: %w", err)
		}
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}

// InsertReading writes one reading row with its timestamp normalized to the
// store's fixed zone at second precision.
func (s *Store) InsertReading(ctx context.Context, r model.Reading) error {
	const q = `
INSERT INTO sensor_data (temperature, humidity, water_temp, tds, ph, distance, ts)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := s.db.ExecContext(ctx, q,
		r.Temperature, r.Humidity, r.WaterTemperature,
		r.TotalDissolvedSolids, r.PH, r.WaterLevelDistance,
		model.FormatTimestamp(r.Timestamp, s.loc))
	if err != nil {
		return fmt.Errorf("storage: insert reading: %w", err)
	}
	return nil
}

// InsertDeviceState writes one relay status change.
func (s *Store) InsertDeviceState(ctx context.Context, e model.DeviceStateEvent) error {
	const q = `INSERT INTO device_state_log (device, status, ts) VALUES ($1, $2, $3)`
	_, err := s.db.ExecContext(ctx, q, e.Device, e.Status, model.FormatTimestamp(e.Timestamp, s.loc))
	if err != nil {
		return fmt.Errorf("storage: insert device state: %w", err)
	}
	return nil
}

// LatestReading returns the most recent row, or sql.ErrNoRows.
func (s *Store) LatestReading(ctx context.Context) (model.Reading, error) {
	const q = `
SELECT temperature, humidity, water_temp, tds, ph, distance, ts
FROM sensor_data ORDER BY ts DESC LIMIT 1`
	var r model.Reading
	err := s.db.QueryRowContext(ctx, q).Scan(
		&r.Temperature, &r.Humidity, &r.WaterTemperature,
		&r.TotalDissolvedSolids, &r.PH, &r.WaterLevelDistance, &r.Timestamp)
	if err != nil {
		return model.Reading{}, fmt.Errorf("storage: latest reading: %w", err)
	}
	r.Timestamp = r.Timestamp.In(s.loc)
	return r, nil
}

// ReadingsSince returns all rows from start onward in arrival order.
func (s *Store) ReadingsSince(ctx context.Context, start time.Time) ([]model.Reading, error) {
	const q = `
SELECT temperature, humidity, water_temp, tds, ph, distance, ts
FROM sensor_data WHERE ts >= $1 ORDER BY ts`
	rows, err := s.db.QueryContext(ctx, q, model.FormatTimestamp(start, s.loc))
	if err != nil {
		return nil, fmt.Errorf("storage: readings since: %w", err)
	}
	defer rows.Close()

	var out []model.Reading
	for rows.Next() {
		var r model.Reading
		if err := rows.Scan(
			&r.Temperature, &r.Humidity, &r.WaterTemperature,
			&r.TotalDissolvedSolids, &r.PH, &r.WaterLevelDistance, &r.Timestamp); err != nil {
			return nil, fmt.Errorf("storage: scan reading: %w", err)
		}
		r.Timestamp = r.Timestamp.In(s.loc)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: readings since: %w", err)
	}
	return out, nil
}

// RelayState reads the control row.
func (s *Store) RelayState(ctx context.Context) (RelayState, error) {
	const q = `SELECT relay1, relay2, updated_at FROM relay_state WHERE id = 1`
	var st RelayState
	if err := s.db.QueryRowContext(ctx, q).Scan(&st.Relay1, &st.Relay2, &st.UpdatedAt); err != nil {
		return RelayState{}, fmt.Errorf("storage: relay state: %w", err)
	}
	st.UpdatedAt = st.UpdatedAt.In(s.loc)
	return st, nil
}

// UpdateRelayState updates the control row the node polls.
func (s *Store) UpdateRelayState(ctx context.Context, relay1, relay2 bool) error {
	const q = `UPDATE relay_state SET relay1 = $1, relay2 = $2, updated_at = $3 WHERE id = 1`
	_, err := s.db.ExecContext(ctx, q, relay1, relay2, model.FormatTimestamp(time.Now(), s.loc))
	if err != nil {
		return fmt.Errorf("storage: update relay state: %w", err)
	}
	return nil
}

// SaveToken registers (or refreshes) an FCM recipient token.
func (s *Store) SaveToken(ctx context.Context, token string) error {
	if token == "" {
		return errors.New("storage: empty token")
	}
	const q = `
INSERT INTO device_tokens (token, created_at) VALUES ($1, $2)
ON CONFLICT (token) DO UPDATE SET created_at = EXCLUDED.created_at`
	_, err := s.db.ExecContext(ctx, q, token, model.FormatTimestamp(time.Now(), s.loc))
	if err != nil {
		return fmt.Errorf("storage: save token: %w", err)
	}
	return nil
}

// LatestToken returns the most recently registered recipient token, or ""
// when none is registered.
func (s *Store) LatestToken(ctx context.Context) (string, error) {
	const q = `SELECT token FROM device_tokens ORDER BY created_at DESC LIMIT 1`
	var token string
	err := s.db.QueryRowContext(ctx, q).Scan(&token)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("storage: latest token: %w", err)
	}
	return token, nil
}
