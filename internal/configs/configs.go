/*
Package configs loads the application's configuration from environment
variables, after an optional .env file.

Two configurations exist: AppConfig for the gateway process and ClientConfig
for the terminal client. Missing upstream credentials are not a load error;
their absence surfaces later as a ConfigurationError on the first call that
needs them, which the gateway degrades exactly like an upstream failure.
*/
package configs

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig contains the gateway's settings.
type AppConfig struct {
	// General server settings.
	Environment string
	Port        int

	// CORS allowed origins. Empty means same-origin only outside development.
	AllowedOrigins []string

	// Upstream provider settings. Either key may be absent.
	OpenAIAPIKey  string
	OpenAIModel   string
	WeatherAPIKey string
}

// LoadServer reads and validates the gateway configuration.
func LoadServer() (*AppConfig, error) {
	loadDotenv()

	cfg := &AppConfig{}

	cfg.Environment = os.Getenv("ENVIRONMENT")
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	portStr := os.Getenv("PORT")
	if portStr == "" {
		portStr = "5000"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT environment variable: %w", err)
	}
	cfg.Port = port

	if cfg.Port < 1024 || cfg.Port > 65535 {
		return nil, fmt.Errorf("port number %d is outside the allowed range (1024-65535)", cfg.Port)
	}

	if originsStr := os.Getenv("ALLOWED_ORIGINS"); originsStr != "" {
		for _, origin := range strings.Split(originsStr, ",") {
			if trimmed := strings.TrimSpace(origin); trimmed != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, trimmed)
			}
		}
	}

	cfg.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	cfg.OpenAIModel = os.Getenv("OPENAI_MODEL")
	cfg.WeatherAPIKey = os.Getenv("WEATHER_API_KEY")

	return cfg, nil
}

// ClientConfig contains the terminal client's settings.
type ClientConfig struct {
	// BackendURL is the gateway base URL.
	BackendURL string

	// Default coordinates for weather lookups, kept as strings because the
	// protocol passes them through unvalidated.
	DefaultLatitude  string
	DefaultLongitude string

	// ProbeInterval is how often the connectivity monitor polls /health.
	ProbeInterval time.Duration

	// SessionTTL is the client-side session expiry convention. The gateway
	// never enforces expiry.
	SessionTTL time.Duration

	// StatePath is the session store file.
	StatePath string
}

// LoadClient reads the client configuration, defaulting the state file to
// the user's home directory.
func LoadClient() (*ClientConfig, error) {
	loadDotenv()

	cfg := &ClientConfig{
		BackendURL:       getenvDefault("AGROW_BACKEND_URL", "http://localhost:5000"),
		DefaultLatitude:  getenvDefault("AGROW_DEFAULT_LATITUDE", "10.96"),
		DefaultLongitude: getenvDefault("AGROW_DEFAULT_LONGITUDE", "78.08"),
	}

	probeStr := getenvDefault("AGROW_PROBE_INTERVAL", "30s")
	probe, err := time.ParseDuration(probeStr)
	if err != nil {
		return nil, fmt.Errorf("invalid AGROW_PROBE_INTERVAL: %w", err)
	}
	cfg.ProbeInterval = probe

	ttlStr := getenvDefault("AGROW_SESSION_TTL", "24h")
	ttl, err := time.ParseDuration(ttlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid AGROW_SESSION_TTL: %w", err)
	}
	cfg.SessionTTL = ttl

	cfg.StatePath = os.Getenv("AGROW_STATE_PATH")
	if cfg.StatePath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory for state path: %w", err)
		}
		cfg.StatePath = filepath.Join(home, ".agrow", "session.db")
	}

	return cfg, nil
}

// loadDotenv loads a .env file when present. Absence is not an error.
func loadDotenv() {
	_ = godotenv.Load()
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
