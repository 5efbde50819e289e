package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jeraldsarte/lehydrosys-server/internal/model"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.MQTT.Broker)
	assert.Equal(t, 1883, cfg.MQTT.Port)
	assert.Equal(t, "lehydro/sensor", cfg.MQTT.Topic)
	assert.False(t, cfg.Republish.Enabled)
	assert.Equal(t, 1000, cfg.Republish.IntervalMS)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, model.DefaultTimezoneOffset, cfg.TimezoneOffsetHours)
	assert.Equal(t, model.DefaultRanges(), cfg.RangeTable())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	yaml := `
mqtt:
  broker: broker.example.com
  port: 8883
  tls: true
  insecure_skip_verify: true
republish:
  enabled: true
  interval_ms: 250
ranges:
  temperature:
    min: 15
    max: 28
  ph:
    min: 5.0
    max: 7.0
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "broker.example.com", cfg.MQTT.Broker)
	assert.Equal(t, 8883, cfg.MQTT.Port)
	assert.True(t, cfg.MQTT.TLS)
	assert.True(t, cfg.MQTT.InsecureSkipVerify)
	assert.True(t, cfg.Republish.Enabled)

	table := cfg.RangeTable()
	assert.Equal(t, model.Range{Min: 15, Max: 28}, table.Temperature)
	assert.Equal(t, model.Range{Min: 5.0, Max: 7.0}, table.PH)
	// untouched metrics keep their defaults
	assert.Equal(t, model.DefaultRanges().Humidity, table.Humidity)
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("LEHYDRO_MQTT_BROKER", "env-broker")
	t.Setenv("LEHYDRO_HTTP_PORT", "9090")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "env-broker", cfg.MQTT.Broker)
	assert.Equal(t, 9090, cfg.HTTP.Port)
}

func TestRepublishInterval(t *testing.T) {
	cfg := Config{Republish: RepublishConfig{IntervalMS: 250}}
	assert.Equal(t, "250ms", cfg.RepublishInterval().String())

	cfg.Republish.IntervalMS = 0
	assert.Equal(t, "1s", cfg.RepublishInterval().String())
}
