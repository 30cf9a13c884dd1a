package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agrow/internal/app/auth"
	"agrow/internal/app/upstream"
	"agrow/internal/app/user"
	"agrow/internal/app/weather"
	"agrow/internal/configs"
)

func newTestRouter(t *testing.T, upstreamCfg upstream.Config) http.Handler {
	t.Helper()

	deps := &AppDeps{
		Config:   &configs.AppConfig{Environment: "development", Port: 5000},
		Auth:     auth.NewService(),
		Upstream: upstream.New(upstreamCfg),
	}
	return Router(deps)
}

func postJSON(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	h := newTestRouter(t, upstream.Config{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Status    string `json:"status"`
		Timestamp string `json:"timestamp"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)

	_, err := time.Parse(time.RFC3339, body.Timestamp)
	assert.NoError(t, err)
}

func TestLogin(t *testing.T) {
	h := newTestRouter(t, upstream.Config{})

	rec := postJSON(t, h, "/auth/login", `{"email":"test@example.com","password":"password"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var sess user.Session
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sess))
	assert.Equal(t, user.PlanPremium, sess.User.Plan)
	assert.Equal(t, int64(1), sess.User.ID)
	assert.True(t, strings.HasPrefix(sess.Token, "tok-"))
}

func TestLoginUnknownCredentialsStillSucceeds(t *testing.T) {
	h := newTestRouter(t, upstream.Config{})

	rec := postJSON(t, h, "/auth/login", `{"email":"someone@farm.example","password":"x"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var sess user.Session
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sess))
	assert.Equal(t, user.PlanDemo, sess.User.Plan)
	assert.Equal(t, "someone", sess.User.FirstName)
}

func TestLoginBadBody(t *testing.T) {
	h := newTestRouter(t, upstream.Config{})

	rec := postJSON(t, h, "/auth/login", `{"email":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body["error"])
}

func TestRegister(t *testing.T) {
	h := newTestRouter(t, upstream.Config{})

	rec := postJSON(t, h, "/auth/register",
		`{"firstName":"Asha","lastName":"Patel","email":"asha@farm.example","password":"pw"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var sess user.Session
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sess))
	assert.Equal(t, user.PlanFree, sess.User.Plan)
	assert.Equal(t, "Asha", sess.User.FirstName)
	assert.GreaterOrEqual(t, sess.User.ID, int64(1000))
}

func TestChatProxyPassThrough(t *testing.T) {
	completion := `{"choices":[{"message":{"role":"assistant","content":"Water deeply."}}]}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(completion))
	}))
	defer srv.Close()

	h := newTestRouter(t, upstream.Config{OpenAIAPIKey: "sk-test", ChatURL: srv.URL})

	rec := postJSON(t, h, "/api/openai/chat",
		`{"messages":[{"role":"user","content":"How often should I water tomatoes?"}]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, completion, rec.Body.String())
}

func TestChatProxyFailsLoud(t *testing.T) {
	// No API key configured: the proxy must answer 500 with the fallback flag.
	h := newTestRouter(t, upstream.Config{})

	rec := postJSON(t, h, "/api/openai/chat",
		`{"messages":[{"role":"user","content":"hi"}]}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var body struct {
		Error    string `json:"error"`
		Details  string `json:"details"`
		Fallback bool   `json:"fallback"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "OpenAI API Error", body.Error)
	assert.True(t, body.Fallback)
	assert.NotEmpty(t, body.Details)
}

func TestChatProxyUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	h := newTestRouter(t, upstream.Config{OpenAIAPIKey: "sk-test", ChatURL: srv.URL})

	rec := postJSON(t, h, "/api/openai/chat",
		`{"messages":[{"role":"user","content":"hi"}]}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `"fallback":true`)
}

func TestChatProxyRateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer srv.Close()

	h := newTestRouter(t, upstream.Config{OpenAIAPIKey: "sk-test", ChatURL: srv.URL})

	body := `{"messages":[{"role":"user","content":"hi"}]}`

	// The burst is spent by the first ChatBurst requests from one IP; the
	// refill rate is far too slow to matter within a single test run.
	for i := 0; i < ChatBurst; i++ {
		rec := postJSON(t, h, "/api/openai/chat", body)
		require.Equal(t, http.StatusOK, rec.Code, "request %d within the burst", i+1)
	}

	rec := postJSON(t, h, "/api/openai/chat", body)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)

	var errBody map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errBody))
	assert.Equal(t, "rate limit exceeded", errBody["error"])

	// Other routes stay unlimited for the same client.
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	healthRec := httptest.NewRecorder()
	h.ServeHTTP(healthRec, req)
	assert.Equal(t, http.StatusOK, healthRec.Code)
}

func TestWeatherProxyNormalized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"name": "Trichy",
			"sys": {"country": "IN"},
			"main": {"temp": 30, "humidity": 70},
			"wind": {"speed": 2.5},
			"rain": {"1h": 0.2}
		}`))
	}))
	defer srv.Close()

	h := newTestRouter(t, upstream.Config{WeatherAPIKey: "wk-test", WeatherURL: srv.URL})

	req := httptest.NewRequest(http.MethodGet, "/api/weather?lat=10.96&lon=78.08", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var snap weather.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, 30.0, snap.TemperatureC)
	assert.Equal(t, 9.0, snap.WindKph)
	assert.Equal(t, "Trichy, IN", snap.LocationLabel)
}

func TestWeatherProxyFailsQuiet(t *testing.T) {
	// No API key configured: the proxy must answer 200 with the demo snapshot.
	h := newTestRouter(t, upstream.Config{})

	req := httptest.NewRequest(http.MethodGet, "/api/weather?lat=1&lon=2", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var snap weather.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, weather.Demo(), snap)
}

func TestWeatherProxyDegradesOnBadPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>gateway error</html>"))
	}))
	defer srv.Close()

	h := newTestRouter(t, upstream.Config{WeatherAPIKey: "wk-test", WeatherURL: srv.URL})

	req := httptest.NewRequest(http.MethodGet, "/api/weather", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var snap weather.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, weather.Demo(), snap)
}
