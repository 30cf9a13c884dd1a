/*
Package weather normalizes upstream weather payloads into the snapshot shape
the client renders.

A snapshot is recomputed on every fetch and never cached. When the upstream
call fails for any reason the gateway substitutes the fixed demo snapshot
instead of propagating an error.
*/
package weather

import (
	"encoding/json"
	"fmt"
	"math"
)

// Snapshot is the normalized weather view returned by GET /api/weather.
type Snapshot struct {
	TemperatureC    float64 `json:"temperatureC"`
	HumidityPct     float64 `json:"humidityPct"`
	WindKph         float64 `json:"windKph"`
	PrecipitationMm float64 `json:"precipitationMm"`
	LocationLabel   string  `json:"locationLabel"`
}

// Demo returns the fixed snapshot served whenever the upstream provider is
// unavailable or unconfigured.
func Demo() Snapshot {
	return Snapshot{
		TemperatureC:    22,
		HumidityPct:     45,
		WindKph:         18,
		PrecipitationMm: 0,
		LocationLabel:   "Demo City, US",
	}
}

// openWeatherPayload mirrors the fields of the provider's current-weather
// response that the snapshot needs.
type openWeatherPayload struct {
	Name string `json:"name"`
	Sys  struct {
		Country string `json:"country"`
	} `json:"sys"`
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity float64 `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Rain struct {
		OneH float64 `json:"1h"`
	} `json:"rain"`
	Snow struct {
		OneH float64 `json:"1h"`
	} `json:"snow"`
}

// Normalize converts a raw OpenWeather payload into a Snapshot. Wind speed
// arrives in m/s and is converted to km/h. Precipitation prefers rain over
// snow. lat and lon label the location when the payload names none.
func Normalize(raw []byte, lat, lon string) (Snapshot, error) {
	var payload openWeatherPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return Snapshot{}, fmt.Errorf("decode weather payload: %w", err)
	}

	precip := payload.Rain.OneH
	if precip == 0 {
		precip = payload.Snow.OneH
	}

	label := payload.Name
	if label != "" && payload.Sys.Country != "" {
		label = payload.Name + ", " + payload.Sys.Country
	}
	if label == "" {
		label = fmt.Sprintf("Lat: %s, Lon: %s", lat, lon)
	}

	return Snapshot{
		TemperatureC:    payload.Main.Temp,
		HumidityPct:     payload.Main.Humidity,
		WindKph:         round1(payload.Wind.Speed * 3.6),
		PrecipitationMm: precip,
		LocationLabel:   label,
	}, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
