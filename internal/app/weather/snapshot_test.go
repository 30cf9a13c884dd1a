package weather

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDemoSnapshot(t *testing.T) {
	s := Demo()

	assert.Equal(t, 22.0, s.TemperatureC)
	assert.Equal(t, 45.0, s.HumidityPct)
	assert.Equal(t, 18.0, s.WindKph)
	assert.Equal(t, 0.0, s.PrecipitationMm)
	assert.Equal(t, "Demo City, US", s.LocationLabel)
}

func TestNormalize(t *testing.T) {
	raw := []byte(`{
		"name": "Madurai",
		"sys": {"country": "IN"},
		"main": {"temp": 31.4, "humidity": 62},
		"wind": {"speed": 5},
		"rain": {"1h": 0.8}
	}`)

	s, err := Normalize(raw, "9.93", "78.12")
	require.NoError(t, err)

	assert.Equal(t, 31.4, s.TemperatureC)
	assert.Equal(t, 62.0, s.HumidityPct)
	assert.Equal(t, 18.0, s.WindKph, "5 m/s is 18 km/h")
	assert.Equal(t, 0.8, s.PrecipitationMm)
	assert.Equal(t, "Madurai, IN", s.LocationLabel)
}

func TestNormalizeWindRounding(t *testing.T) {
	raw := []byte(`{"wind": {"speed": 3.33}}`)

	s, err := Normalize(raw, "0", "0")
	require.NoError(t, err)
	assert.Equal(t, 12.0, s.WindKph, "11.988 km/h rounds to one decimal")
}

func TestNormalizeSnowFallback(t *testing.T) {
	raw := []byte(`{
		"main": {"temp": -3, "humidity": 80},
		"snow": {"1h": 2.5}
	}`)

	s, err := Normalize(raw, "0", "0")
	require.NoError(t, err)
	assert.Equal(t, 2.5, s.PrecipitationMm)
}

func TestNormalizeRainPreferredOverSnow(t *testing.T) {
	raw := []byte(`{"rain": {"1h": 1.1}, "snow": {"1h": 9.9}}`)

	s, err := Normalize(raw, "0", "0")
	require.NoError(t, err)
	assert.Equal(t, 1.1, s.PrecipitationMm)
}

func TestNormalizeLabelFallsBackToCoordinates(t *testing.T) {
	raw := []byte(`{"main": {"temp": 20, "humidity": 50}}`)

	s, err := Normalize(raw, "10.96", "78.08")
	require.NoError(t, err)
	assert.Equal(t, "Lat: 10.96, Lon: 78.08", s.LocationLabel)
}

func TestNormalizeRejectsGarbage(t *testing.T) {
	_, err := Normalize([]byte("not json"), "0", "0")
	assert.Error(t, err)
}
