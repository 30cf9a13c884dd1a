/*
Package assistant implements the client side of the farming assistant: the
resilient request client, the connectivity monitor, the session store and
the tool surface.

Everything here degrades instead of failing: when the gateway or an upstream
provider is unreachable, features synthesize a locally plausible response
and flag it as offline-derived. The user is never shown a raw network error.
*/
package assistant

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
)

// Status is the two-valued connectivity state consumed by the UI shell.
type Status string

const (
	StatusConnected Status = "connected"
	StatusDemo      Status = "demo"
)

// Monitor tracks gateway reachability. It starts in demo and flips to
// connected only after a successful health probe. Both the periodic probe
// and the outcome of real feature calls write the status; every write
// overwrites unconditionally, with no hysteresis, so the state always
// reflects the freshest signal.
type Monitor struct {
	baseURL    string
	httpClient *http.Client

	mu     sync.Mutex
	status Status

	scheduler *gocron.Scheduler
}

// NewMonitor creates a Monitor probing the gateway at baseURL. A nil
// httpClient gets a short-timeout default.
func NewMonitor(baseURL string, httpClient *http.Client) *Monitor {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Second}
	}
	return &Monitor{
		baseURL:    baseURL,
		httpClient: httpClient,
		status:     StatusDemo,
	}
}

// Status returns the current connectivity state.
func (m *Monitor) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// Probe performs one health check and records the result. A 2xx answer
// means connected; a transport error or any other status means demo.
func (m *Monitor) Probe(ctx context.Context) Status {
	status := StatusDemo

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.baseURL+"/health", nil)
	if err == nil {
		res, err := m.httpClient.Do(req)
		if err == nil {
			if res.StatusCode >= 200 && res.StatusCode < 300 {
				status = StatusConnected
			}
			res.Body.Close()
		}
	}

	m.set(status)
	return status
}

// SetConnected records a successful feature call against the gateway.
func (m *Monitor) SetConnected() {
	m.set(StatusConnected)
}

// SetDemo records a failed feature call against the gateway.
func (m *Monitor) SetDemo() {
	m.set(StatusDemo)
}

func (m *Monitor) set(s Status) {
	m.mu.Lock()
	m.status = s
	m.mu.Unlock()
}

// Start schedules the periodic probe at the given interval. The probe runs
// independently of user action until Stop is called.
func (m *Monitor) Start(interval time.Duration) error {
	seconds := int(interval.Seconds())
	if seconds <= 0 {
		seconds = 30
	}

	s := gocron.NewScheduler(time.UTC)
	_, err := s.Every(seconds).Seconds().Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		m.Probe(ctx)
	})
	if err != nil {
		return err
	}

	s.StartAsync()
	m.scheduler = s
	return nil
}

// Stop cancels the periodic probe.
func (m *Monitor) Stop() {
	if m.scheduler != nil {
		m.scheduler.Stop()
	}
}
