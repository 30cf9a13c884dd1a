/*
Package upstream wraps the two third-party providers behind the gateway: the
OpenAI chat-completion API and the OpenWeather current-weather API.

Every call is a single attempt with no retries; the resilience burden sits
entirely in the client-side fallback layer. A missing credential fails with
a ConfigurationError before any network traffic; a transport failure or
non-2xx answer fails with an UpstreamError.
*/
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"agrow/internal/app/chat"
	"agrow/internal/pkg/errs"
)

const (
	defaultChatURL    = "https://api.openai.com/v1/chat/completions"
	defaultWeatherURL = "https://api.openweathermap.org/data/2.5/weather"

	// DefaultModel is used when a chat request names no model.
	DefaultModel = "gpt-3.5-turbo"

	requestTimeout = 30 * time.Second

	// maxErrorBody caps how much of a failed upstream response is kept for
	// the error message.
	maxErrorBody = 2 << 10
)

// ErrEmptyHistory is returned when a chat completion is requested with no turns.
var ErrEmptyHistory = errors.New("chat history must not be empty")

// Config carries the provider settings the client needs. Empty URLs fall
// back to the real provider endpoints; tests point them at local servers.
type Config struct {
	OpenAIAPIKey  string
	WeatherAPIKey string
	DefaultModel  string
	ChatURL       string
	WeatherURL    string
	HTTPClient    *http.Client
}

// Client is the thin HTTP client for both providers.
type Client struct {
	httpClient   *http.Client
	chatURL      string
	weatherURL   string
	openAIKey    string
	weatherKey   string
	defaultModel string
}

// New creates a Client from cfg, filling in defaults for anything unset.
func New(cfg Config) *Client {
	c := &Client{
		httpClient:   cfg.HTTPClient,
		chatURL:      cfg.ChatURL,
		weatherURL:   cfg.WeatherURL,
		openAIKey:    cfg.OpenAIAPIKey,
		weatherKey:   cfg.WeatherAPIKey,
		defaultModel: cfg.DefaultModel,
	}

	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: requestTimeout}
	}
	if c.chatURL == "" {
		c.chatURL = defaultChatURL
	}
	if c.weatherURL == "" {
		c.weatherURL = defaultWeatherURL
	}
	if c.defaultModel == "" {
		c.defaultModel = DefaultModel
	}

	return c
}

// chatRequest is the body sent to the completion provider. The history is
// replayed in full on every call.
type chatRequest struct {
	Model    string      `json:"model"`
	Messages []chat.Turn `json:"messages"`
}

// SendChatCompletion posts the conversation history to the completion
// provider and returns the raw completion payload unmodified. Callers
// extract the text themselves.
func (c *Client) SendChatCompletion(ctx context.Context, history []chat.Turn, model string) (json.RawMessage, error) {
	if c.openAIKey == "" {
		return nil, &errs.ConfigurationError{Setting: "OPENAI_API_KEY"}
	}
	if len(history) == 0 {
		return nil, ErrEmptyHistory
	}
	if model == "" {
		model = c.defaultModel
	}

	body, err := json.Marshal(chatRequest{Model: model, Messages: history})
	if err != nil {
		return nil, fmt.Errorf("encode chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.chatURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create chat request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.openAIKey)
	req.Header.Set("Content-Type", "application/json")

	return c.do(req)
}

// FetchWeather gets the current weather for the given coordinates and
// returns the provider's raw payload. Coordinates pass through unchanged;
// malformed values surface as upstream 4xx errors.
func (c *Client) FetchWeather(ctx context.Context, lat, lon string) (json.RawMessage, error) {
	if c.weatherKey == "" {
		return nil, &errs.ConfigurationError{Setting: "WEATHER_API_KEY"}
	}

	values := url.Values{}
	values.Set("lat", lat)
	values.Set("lon", lon)
	values.Set("appid", c.weatherKey)
	values.Set("units", "metric")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.weatherURL+"?"+values.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create weather request: %w", err)
	}

	return c.do(req)
}

// do executes a single attempt and maps every failure to an UpstreamError.
func (c *Client) do(req *http.Request) (json.RawMessage, error) {
	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &errs.UpstreamError{Message: err.Error()}
	}
	defer res.Body.Close()

	payload, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, &errs.UpstreamError{Message: err.Error()}
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, &errs.UpstreamError{
			Status:  res.StatusCode,
			Message: trimBody(payload),
		}
	}

	return payload, nil
}

func trimBody(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxErrorBody {
		s = s[:maxErrorBody]
	}
	return s
}
