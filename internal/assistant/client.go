package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"agrow/internal/app/chat"
	"agrow/internal/app/user"
	"agrow/internal/app/weather"
	"agrow/internal/pkg/errs"
	"agrow/internal/pkg/logx"
	"agrow/internal/pkg/randx"
)

// demoFallbackUserID matches the id the original frontend assigned to
// offline-synthesized sessions.
const demoFallbackUserID = 1

// Options configures a Client. Zero values get working defaults; tests
// inject their own HTTP client and seeded RNG.
type Options struct {
	BaseURL    string
	HTTPClient *http.Client
	Monitor    *Monitor
	Store      *SessionStore
	Rand       *rand.Rand
	Model      string
}

// Client wraps every network call with a fallback path. A real attempt runs
// first; only after it settles (success or failure) does the fallback
// synthesize a substitute, so the user always receives a usable result.
type Client struct {
	baseURL    string
	httpClient *http.Client
	monitor    *Monitor
	store      *SessionStore
	rng        *rand.Rand
	model      string

	mu       sync.Mutex
	session  *user.Session
	conv     chat.Conversation
	messages []chat.Message
}

// New creates a Client from opts.
func New(opts Options) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		httpClient: opts.HTTPClient,
		monitor:    opts.Monitor,
		store:      opts.Store,
		rng:        opts.Rand,
		model:      opts.Model,
	}

	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	if c.rng == nil {
		c.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if c.model == "" {
		c.model = "gpt-4o-mini"
	}

	return c
}

// Session returns the current session, nil when logged out.
func (c *Client) Session() *user.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// Restore loads a persisted session at startup. Returns nil when none is
// stored or the stored one has expired.
func (c *Client) Restore() (*user.Session, error) {
	if c.store == nil {
		return nil, nil
	}

	sess, err := c.store.Load()
	if err != nil {
		return nil, err
	}
	if sess != nil {
		c.mu.Lock()
		c.session = sess
		c.mu.Unlock()
	}
	return sess, nil
}

// AuthResult is the outcome of a login or registration. Offline marks a
// session synthesized client-side because the gateway was unreachable;
// Banner carries the demo-mode notice in that case.
type AuthResult struct {
	Session *user.Session
	Offline bool
	Banner  string
}

// Login attempts a real login and falls back to a client-synthesized demo
// session on any failure. The returned error covers only local persistence;
// network failures never surface.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	body := map[string]string{"email": email, "password": password}

	sess, err := c.postAuth(ctx, "/auth/login", body)
	if err != nil {
		logx.Warn("login falling back to demo session", "error", err.Error())
		sess = &user.Session{
			Token: randx.DemoToken(),
			User: user.Profile{
				ID:        demoFallbackUserID,
				FirstName: localPart(email),
				LastName:  "User",
				Email:     email,
				Plan:      user.PlanDemo,
			},
		}
		return c.adopt(sess, true)
	}

	return c.adopt(sess, false)
}

// Register attempts a real registration and falls back to a demo session
// keeping the submitted names.
func (c *Client) Register(ctx context.Context, firstName, lastName, email, password string) (*AuthResult, error) {
	body := map[string]string{
		"firstName": firstName,
		"lastName":  lastName,
		"email":     email,
		"password":  password,
	}

	sess, err := c.postAuth(ctx, "/auth/register", body)
	if err != nil {
		logx.Warn("registration falling back to demo session", "error", err.Error())
		sess = &user.Session{
			Token: randx.DemoToken(),
			User: user.Profile{
				ID:        demoFallbackUserID,
				FirstName: firstName,
				LastName:  lastName,
				Email:     email,
				Plan:      user.PlanDemo,
			},
		}
		return c.adopt(sess, true)
	}

	return c.adopt(sess, false)
}

// adopt installs the session, persists it, and shapes the result.
func (c *Client) adopt(sess *user.Session, offline bool) (*AuthResult, error) {
	c.mu.Lock()
	c.session = sess
	c.conv.Reset()
	c.messages = nil
	c.mu.Unlock()

	if c.store != nil {
		if err := c.store.Save(sess); err != nil {
			// Roll back so the in-memory state never claims a session the
			// store does not hold.
			c.mu.Lock()
			c.session = nil
			c.mu.Unlock()
			return nil, fmt.Errorf("persist session: %w", err)
		}
	}

	result := &AuthResult{Session: sess, Offline: offline}
	if offline {
		result.Banner = DemoModeBanner
	}
	return result, nil
}

// Logout clears the session and the conversation. In-flight requests are
// not cancelled.
func (c *Client) Logout() error {
	c.mu.Lock()
	c.session = nil
	c.conv.Reset()
	c.messages = nil
	c.mu.Unlock()

	if c.store != nil {
		return c.store.Clear()
	}
	return nil
}

func (c *Client) postAuth(ctx context.Context, path string, body map[string]string) (*user.Session, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &errs.TransportError{Op: path, Err: err}
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: unexpected status %d", path, res.StatusCode)
	}

	var sess user.Session
	if err := json.NewDecoder(res.Body).Decode(&sess); err != nil {
		return nil, fmt.Errorf("%s: malformed session payload: %w", path, err)
	}
	if sess.Token == "" {
		return nil, fmt.Errorf("%s: session payload missing token", path)
	}

	return &sess, nil
}

// ChatReply is the outcome of a chat send. Offline marks a synthesized
// reply.
type ChatReply struct {
	Text    string
	Offline bool
}

// SendChat sends one user message, replaying the full turn history to the
// gateway. On success the reply joins the history and the monitor flips to
// connected; on any failure a synthesized reply is returned (kept out of
// the upstream history) and the monitor flips to demo. The typing
// placeholder inserted before the call is removed on every exit path before
// the reply is appended. SendChat is total: it never returns an error.
func (c *Client) SendChat(ctx context.Context, message string) ChatReply {
	c.mu.Lock()
	c.conv.Append(chat.RoleUser, message)
	history := c.conv.History()
	c.messages = append(c.messages,
		chat.Message{Sender: chat.SenderUser, Content: message},
		chat.Message{Sender: chat.SenderBot, Content: "...", Typing: true},
	)
	token := ""
	if c.session != nil {
		token = c.session.Token
	}
	c.mu.Unlock()

	text, err := c.postChat(ctx, history, token)
	if err != nil {
		logx.Warn("chat falling back to local synthesis", "error", err.Error())

		reply := synthesizeChatReply(message, c.rng)

		c.mu.Lock()
		c.removeTypingLocked()
		c.messages = append(c.messages, chat.Message{Sender: chat.SenderBot, Content: reply, Offline: true})
		c.mu.Unlock()

		if c.monitor != nil {
			c.monitor.SetDemo()
		}
		return ChatReply{Text: reply, Offline: true}
	}

	c.mu.Lock()
	c.removeTypingLocked()
	c.conv.Append(chat.RoleAssistant, text)
	c.messages = append(c.messages, chat.Message{Sender: chat.SenderBot, Content: text})
	c.mu.Unlock()

	if c.monitor != nil {
		c.monitor.SetConnected()
	}
	return ChatReply{Text: text}
}

// Messages returns a copy of the rendered message list.
func (c *Client) Messages() []chat.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]chat.Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// removeTypingLocked drops any pending typing placeholders. Callers hold
// c.mu.
func (c *Client) removeTypingLocked() {
	kept := c.messages[:0]
	for _, m := range c.messages {
		if !m.Typing {
			kept = append(kept, m)
		}
	}
	c.messages = kept
}

type chatProxyRequest struct {
	Model    string      `json:"model"`
	Messages []chat.Turn `json:"messages"`
}

// completionPayload covers the completion shapes the gateway passes
// through.
type completionPayload struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		Text string `json:"text"`
	} `json:"choices"`
}

func (c *Client) postChat(ctx context.Context, history []chat.Turn, token string) (string, error) {
	payload, err := json.Marshal(chatProxyRequest{Model: c.model, Messages: history})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/openai/chat", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return "", &errs.TransportError{Op: "chat", Err: err}
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return "", &errs.TransportError{Op: "chat", Err: err}
	}

	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("chat proxy failed with status %d", res.StatusCode)
	}

	var completion completionPayload
	if err := json.Unmarshal(raw, &completion); err != nil || len(completion.Choices) == 0 {
		return "", fmt.Errorf("chat proxy returned unusable payload")
	}

	text := completion.Choices[0].Message.Content
	if text == "" {
		text = completion.Choices[0].Text
	}
	if text == "" {
		text = string(raw)
	}

	return text, nil
}

// WeatherResult is the outcome of a weather fetch. Unavailable is set only
// when the gateway itself could not be reached or answered unusable data;
// upstream failures are absorbed by the gateway and arrive here as the demo
// snapshot with Unavailable false.
type WeatherResult struct {
	Snapshot    weather.Snapshot
	Unavailable bool
}

// FetchWeather renders whatever the gateway returns. The gateway never
// answers an error status for this operation, so any local failure is
// transport-level and degrades to the demo snapshot with the error flag
// set.
func (c *Client) FetchWeather(ctx context.Context, lat, lon string) WeatherResult {
	values := url.Values{}
	values.Set("lat", lat)
	values.Set("lon", lon)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/weather?"+values.Encode(), nil)
	if err != nil {
		return WeatherResult{Snapshot: weather.Demo(), Unavailable: true}
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		logx.Warn("weather fetch failed at transport level", "error", err.Error())
		return WeatherResult{Snapshot: weather.Demo(), Unavailable: true}
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return WeatherResult{Snapshot: weather.Demo(), Unavailable: true}
	}

	var snapshot weather.Snapshot
	if err := json.NewDecoder(res.Body).Decode(&snapshot); err != nil {
		return WeatherResult{Snapshot: weather.Demo(), Unavailable: true}
	}

	return WeatherResult{Snapshot: snapshot}
}

// localPart returns the substring of email before the first "@".
func localPart(email string) string {
	if i := strings.Index(email, "@"); i >= 0 {
		return email[:i]
	}
	return email
}
