package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/fastn-ai/fastn-community-sub000/pkg/api"
	"github.com/fastn-ai/fastn-community-sub000/pkg/credentials"
	apperrors "github.com/fastn-ai/fastn-community-sub000/pkg/errors"
	json "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captured struct {
	method string
	header http.Header
	body   map[string]interface{}
}

func newServer(t *testing.T, status int, respBody string) (*httptest.Server, *captured) {
	t.Helper()
	got := &captured{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.method = r.Method
		got.header = r.Header.Clone()
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &got.body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, respBody)
	}))
	t.Cleanup(srv.Close)
	return srv, got
}

func TestInvokeSendsEnvelopeAndHeaders(t *testing.T) {
	srv, got := newServer(t, http.StatusOK, `{"data":[]}`)
	tr := New(Options{SpaceID: "space-1"})

	body, err := tr.Invoke(context.Background(), Request{
		URL:     srv.URL,
		Payload: api.Payload{Action: api.ActionGetTopicByID, Data: map[string]string{"id": "7"}},
		Auth:    Auth{Token: "tok"},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"data":[]}`, string(body))

	assert.Equal(t, http.MethodPost, got.method)
	assert.Equal(t, "application/json", got.header.Get("Content-Type"))
	assert.Equal(t, "space-1", got.header.Get(HeaderSpaceID))
	assert.Equal(t, "DRAFT", got.header.Get(HeaderStage))
	assert.Equal(t, "Bearer tok", got.header.Get("Authorization"))
	assert.Equal(t, "forumctl/"+Version, got.header.Get("User-Agent"))
	assert.Empty(t, got.header.Get("Cache-Control"))

	input, ok := got.body["input"].(map[string]interface{})
	require.True(t, ok, "body must be wrapped in input")
	assert.Equal(t, api.ActionGetTopicByID, input["action"])
	assert.Equal(t, map[string]interface{}{"id": "7"}, input["data"])
}

func TestInvokeForceRefreshAddsCacheBusting(t *testing.T) {
	srv, got := newServer(t, http.StatusOK, `[]`)
	tr := New(Options{})

	_, err := tr.Invoke(context.Background(), Request{
		URL:          srv.URL,
		Payload:      api.Payload{Action: api.ActionGetAllTopics},
		ForceRefresh: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "no-cache, no-store, must-revalidate", got.header.Get("Cache-Control"))
	assert.Equal(t, "no-cache", got.header.Get("Pragma"))
	assert.Equal(t, "0", got.header.Get("Expires"))
}

func TestSelectAuthHeaders(t *testing.T) {
	tests := []struct {
		name string
		auth Auth
		want map[string]string
	}{
		{
			name: "custom auth wins",
			auth: Auth{
				Token:  "tok",
				APIKey: "key",
				Cookies: credentials.Cookies{
					CustomAuth:      true,
					CustomAuthToken: "raw-token",
					TenantID:        "tenant-9",
				},
			},
			want: map[string]string{
				"Authorization":  "raw-token",
				HeaderCustomAuth: "true",
				HeaderTenantID:   "tenant-9",
			},
		},
		{
			name: "custom auth flag without token falls through",
			auth: Auth{Token: "tok", Cookies: credentials.Cookies{CustomAuth: true}},
			want: map[string]string{"Authorization": "Bearer tok"},
		},
		{
			name: "api key with token",
			auth: Auth{Token: "tok", APIKey: "key"},
			want: map[string]string{HeaderAPIKey: "key", "Authorization": "Bearer tok"},
		},
		{
			name: "api key alone",
			auth: Auth{APIKey: "key"},
			want: map[string]string{HeaderAPIKey: "key"},
		},
		{
			name: "bearer only",
			auth: Auth{Token: "tok"},
			want: map[string]string{"Authorization": "Bearer tok"},
		},
		{
			name: "nothing",
			auth: Auth{},
			want: map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, selectAuthHeaders(tt.auth))
		})
	}
}

func TestInvokeCustomAuthOnTheWire(t *testing.T) {
	srv, got := newServer(t, http.StatusOK, `{}`)
	tr := New(Options{})

	_, err := tr.Invoke(context.Background(), Request{
		URL:     srv.URL,
		Payload: api.Payload{Action: api.ActionGetAllTags},
		Auth: Auth{Cookies: credentials.Cookies{
			CustomAuth:      true,
			CustomAuthToken: "raw",
		}},
	})
	require.NoError(t, err)
	assert.Equal(t, "raw", got.header.Get("Authorization"))
	assert.Equal(t, "true", got.header.Get(HeaderCustomAuth))
	assert.Empty(t, got.header.Get(HeaderTenantID))
}

func TestInvokeNon2xxBecomesTransportError(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"message field", 400, `{"message":"bad input"}`, "bad input"},
		{"error string", 403, `{"error":"forbidden here"}`, "forbidden here"},
		{"error object", 500, `{"error":{"message":"db down"}}`, "db down"},
		{"plain text", 502, `upstream exploded`, "upstream exploded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newServer(t, tt.status, tt.body)
			tr := New(Options{})

			_, err := tr.Invoke(context.Background(), Request{
				URL:     srv.URL,
				Payload: api.Payload{Action: api.ActionDeleteTopic},
			})
			require.Error(t, err)

			var te *apperrors.TransportError
			require.True(t, errors.As(err, &te))
			assert.Equal(t, tt.status, te.StatusCode)
			assert.Equal(t, http.StatusText(tt.status), te.Status)
			assert.Equal(t, tt.wantMsg, te.Message)
			assert.Equal(t, api.ActionDeleteTopic, te.Action)
		})
	}
}

func TestInvokeNetworkErrorHasZeroStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	tr := New(Options{Timeout: 2 * time.Second})
	_, err := tr.Invoke(context.Background(), Request{
		URL:     url,
		Payload: api.Payload{Action: api.ActionGetAllTopics},
	})

	var te *apperrors.TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, 0, te.StatusCode)
	assert.NotNil(t, te.Cause)
}

func TestExtractMessageTruncatesLongText(t *testing.T) {
	long := make([]byte, maxErrorText+50)
	for i := range long {
		long[i] = 'x'
	}
	msg := extractMessage(long)
	assert.Len(t, msg, maxErrorText+3)
}

func TestExtractMessageTruncatesOnRuneBoundary(t *testing.T) {
	body := strings.Repeat("x", maxErrorText-1) + strings.Repeat("é", 40)
	msg := extractMessage([]byte(body))

	assert.True(t, utf8.ValidString(msg))
	assert.True(t, strings.HasSuffix(msg, "..."))
	assert.Equal(t, strings.Repeat("x", maxErrorText-1)+"...", msg)
}

type countingRecorder struct {
	requests []int
}

func (c *countingRecorder) RecordRequest(action string, status int, d time.Duration) {
	c.requests = append(c.requests, status)
}
func (c *countingRecorder) RecordDedup(string, bool)       {}
func (c *countingRecorder) RecordFallback(string, string) {}

func TestInvokeRecordsMetrics(t *testing.T) {
	srv, _ := newServer(t, http.StatusTeapot, `{}`)
	rec := &countingRecorder{}
	tr := New(Options{Metrics: rec})

	_, _ = tr.Invoke(context.Background(), Request{URL: srv.URL, Payload: api.Payload{Action: "x"}})
	assert.Equal(t, []int{http.StatusTeapot}, rec.requests)
}
