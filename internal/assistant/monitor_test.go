package assistant

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMonitorStartsInDemo(t *testing.T) {
	m := NewMonitor("http://localhost:5000", nil)
	assert.Equal(t, StatusDemo, m.Status())
}

func TestMonitorProbeHealthyGateway(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()

	m := NewMonitor(srv.URL, srv.Client())

	got := m.Probe(context.Background())
	assert.Equal(t, StatusConnected, got)
	assert.Equal(t, StatusConnected, m.Status())

	// Repeated probes are idempotent.
	assert.Equal(t, StatusConnected, m.Probe(context.Background()))
}

func TestMonitorProbeUnreachableGateway(t *testing.T) {
	m := NewMonitor("http://127.0.0.1:1", nil)
	m.SetConnected()

	got := m.Probe(context.Background())
	assert.Equal(t, StatusDemo, got)
	assert.Equal(t, StatusDemo, m.Status())
}

func TestMonitorProbeErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	m := NewMonitor(srv.URL, srv.Client())
	m.SetConnected()

	assert.Equal(t, StatusDemo, m.Probe(context.Background()))
}

func TestMonitorFeatureCallOverrides(t *testing.T) {
	m := NewMonitor("http://localhost:5000", nil)

	m.SetConnected()
	assert.Equal(t, StatusConnected, m.Status())

	m.SetDemo()
	assert.Equal(t, StatusDemo, m.Status())

	// No hysteresis: a single success flips straight back.
	m.SetConnected()
	assert.Equal(t, StatusConnected, m.Status())
}
