package service

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/fastn-ai/fastn-community-sub000/pkg/client"
	"github.com/fastn-ai/fastn-community-sub000/pkg/config"
	"github.com/fastn-ai/fastn-community-sub000/pkg/credentials"
	"github.com/fastn-ai/fastn-community-sub000/pkg/dedup"
	"github.com/fastn-ai/fastn-community-sub000/pkg/fallback"
	"github.com/fastn-ai/fastn-community-sub000/pkg/normalize"
	json "github.com/json-iterator/go"
)

var testNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

// handler answers one action with a status code and body
type handler func(data map[string]interface{}) (int, string)

type call struct {
	action string
	data   map[string]interface{}
	header http.Header
}

// fakeBackend routes requests on the action field of the envelope
type fakeBackend struct {
	t   *testing.T
	srv *httptest.Server

	mu       sync.Mutex
	handlers map[string]handler
	calls    []call
	delay    time.Duration
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	b := &fakeBackend{t: t, handlers: make(map[string]handler)}
	b.srv = httptest.NewServer(http.HandlerFunc(b.serve))
	t.Cleanup(b.srv.Close)
	return b
}

func (b *fakeBackend) serve(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	var env struct {
		Input struct {
			Action string                 `json:"action"`
			Data   map[string]interface{} `json:"data"`
		} `json:"input"`
	}
	_ = json.Unmarshal(raw, &env)

	b.mu.Lock()
	b.calls = append(b.calls, call{action: env.Input.Action, data: env.Input.Data, header: r.Header.Clone()})
	h, ok := b.handlers[env.Input.Action]
	delay := b.delay
	b.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}

	status, body := http.StatusNotFound, `{"message":"unknown action"}`
	if ok {
		status, body = h(env.Input.Data)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func (b *fakeBackend) on(action string, h handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[action] = h
}

func (b *fakeBackend) reply(action string, status int, body string) {
	b.on(action, func(map[string]interface{}) (int, string) { return status, body })
}

func (b *fakeBackend) setDelay(d time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.delay = d
}

func (b *fakeBackend) count(action string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, c := range b.calls {
		if c.action == action {
			n++
		}
	}
	return n
}

func (b *fakeBackend) callsFor(action string) []call {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []call
	for _, c := range b.calls {
		if c.action == action {
			out = append(out, c)
		}
	}
	return out
}

func (b *fakeBackend) total() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.calls)
}

type option func(*Deps)

func withoutSession() option {
	return func(d *Deps) { d.Session = credentials.Static{} }
}

func withAPIKey(key string) option {
	return func(d *Deps) { d.Settings.APIKey = key }
}

func offline() option {
	return func(d *Deps) { d.Settings.Offline = true }
}

func withDeps(fn func(*Deps)) option {
	return fn
}

func testSession() *credentials.Credentials {
	return &credentials.Credentials{
		AccessToken: "session-token",
		UserID:      "u-1",
		Username:    "ada",
		Email:       "ada@example.com",
		AvatarURL:   "https://example.com/ada.png",
	}
}

func newTestServices(t *testing.T, b *fakeBackend, opts ...option) *Services {
	t.Helper()
	now := func() time.Time { return testNow }
	d := Deps{
		Transport:  client.New(client.Options{SpaceID: "space-test"}),
		Dedup:      dedup.New(),
		Normalizer: normalize.New(now),
		Fallback:   fallback.NewProvider(),
		Session:    credentials.Static{Creds: testSession()},
		Settings: config.Settings{
			BaseURL: b.srv.URL,
			TTL: config.TTLs{
				Topics:     time.Minute,
				Replies:    time.Minute,
				Tags:       time.Minute,
				Categories: time.Minute,
				Users:      time.Minute,
				Analytics:  time.Minute,
			},
			DefaultRoleID: 2,
		},
		Now: now,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return New(d)
}
