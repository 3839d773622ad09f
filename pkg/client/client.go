package client

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/fastn-ai/fastn-community-sub000/pkg/api"
	"github.com/fastn-ai/fastn-community-sub000/pkg/credentials"
	apperrors "github.com/fastn-ai/fastn-community-sub000/pkg/errors"
	"github.com/fastn-ai/fastn-community-sub000/pkg/logger"
	"github.com/fastn-ai/fastn-community-sub000/pkg/metrics"
	"github.com/fastn-ai/fastn-community-sub000/pkg/telemetry"
	"github.com/go-resty/resty/v2"
	json "github.com/json-iterator/go"
)

// Version is sent in the User-Agent header
const Version = "0.1.0"

// Header names understood by the backend gateway
const (
	HeaderSpaceID    = "x-fastn-space-id"
	HeaderTenantID   = "x-fastn-space-tenantid"
	HeaderCustomAuth = "x-fastn-custom-auth"
	HeaderAPIKey     = "x-fastn-api-key"
	HeaderStage      = "stage"
)

// Auth carries every credential a call might use. The transport picks one
// scheme per call; see selectAuthHeaders.
type Auth struct {
	Token   string
	APIKey  string
	Cookies credentials.Cookies
}

// Request is a single backend action
type Request struct {
	URL          string
	Payload      api.Payload
	Auth         Auth
	ForceRefresh bool
}

// Options configures a Transport
type Options struct {
	SpaceID string
	// Timeout of zero leaves requests unbounded
	Timeout time.Duration
	Metrics metrics.Recorder
	// HTTPClient overrides the instrumented default
	HTTPClient *http.Client
}

// Transport posts action envelopes to the backend
type Transport struct {
	http    *resty.Client
	spaceID string
	metrics metrics.Recorder
}

// New creates a Transport
func New(opts Options) *Transport {
	hc := opts.HTTPClient
	if hc == nil {
		hc = telemetry.NewInstrumentedHTTPClient(opts.Timeout)
	}
	rec := opts.Metrics
	if rec == nil {
		rec = metrics.Nop{}
	}

	httpClient := resty.NewWithClient(hc)
	if opts.Timeout > 0 {
		httpClient.SetTimeout(opts.Timeout)
	}
	httpClient.SetHeader("User-Agent", "forumctl/"+Version)

	httpClient.OnBeforeRequest(func(c *resty.Client, req *resty.Request) error {
		logger.Debug("HTTP Request", "method", req.Method, "url", req.URL)
		return nil
	})

	httpClient.OnAfterResponse(func(c *resty.Client, resp *resty.Response) error {
		logger.Debug("HTTP Response", "status", resp.StatusCode(), "elapsed", resp.Time())
		return nil
	})

	return &Transport{
		http:    httpClient,
		spaceID: opts.SpaceID,
		metrics: rec,
	}
}

// Invoke posts {"input": payload} to req.URL and returns the raw response
// body. Any non-2xx status or network failure is a *errors.TransportError.
func (t *Transport) Invoke(ctx context.Context, req Request) ([]byte, error) {
	action := req.Payload.Action
	ctx, span := telemetry.StartAction(ctx, action, req.ForceRefresh)
	start := time.Now()

	body, err := json.Marshal(api.Envelope{Input: req.Payload})
	if err != nil {
		telemetry.EndAction(span, 0, err)
		return nil, fmt.Errorf("encode %s payload: %w", action, err)
	}

	r := t.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader(HeaderSpaceID, t.spaceID).
		SetHeader(HeaderStage, "DRAFT").
		SetHeaders(selectAuthHeaders(req.Auth)).
		SetBody(body)

	if req.ForceRefresh {
		r.SetHeaders(cacheBustHeaders)
	}

	resp, err := r.Post(req.URL)
	if err != nil {
		t.metrics.RecordRequest(action, 0, time.Since(start))
		transportErr := &apperrors.TransportError{Action: action, Cause: err}
		telemetry.EndAction(span, 0, transportErr)
		return nil, transportErr
	}

	t.metrics.RecordRequest(action, resp.StatusCode(), time.Since(start))

	if !resp.IsSuccess() {
		transportErr := parseError(action, resp.StatusCode(), resp.Body())
		telemetry.EndAction(span, resp.StatusCode(), transportErr)
		return nil, transportErr
	}

	telemetry.EndAction(span, resp.StatusCode(), nil)
	return resp.Body(), nil
}

var cacheBustHeaders = map[string]string{
	"Cache-Control": "no-cache, no-store, must-revalidate",
	"Pragma":        "no-cache",
	"Expires":       "0",
}

// selectAuthHeaders applies the credential precedence:
// custom-auth cookies, then API key (plus bearer token when present),
// then bearer token alone.
func selectAuthHeaders(a Auth) map[string]string {
	h := make(map[string]string)

	if a.Cookies.CustomAuth && a.Cookies.CustomAuthToken != "" {
		h["Authorization"] = a.Cookies.CustomAuthToken
		h[HeaderCustomAuth] = "true"
		if a.Cookies.TenantID != "" {
			h[HeaderTenantID] = a.Cookies.TenantID
		}
		return h
	}

	if a.APIKey != "" {
		h[HeaderAPIKey] = a.APIKey
		if a.Token != "" {
			h["Authorization"] = "Bearer " + a.Token
		}
		return h
	}

	if a.Token != "" {
		h["Authorization"] = "Bearer " + a.Token
	}
	return h
}

// parseError builds a TransportError from a failed response. The body is
// only treated as JSON if it parses; otherwise its text is the message.
func parseError(action string, statusCode int, body []byte) *apperrors.TransportError {
	return &apperrors.TransportError{
		Action:     action,
		StatusCode: statusCode,
		Status:     http.StatusText(statusCode),
		Message:    extractMessage(body),
	}
}

const maxErrorText = 300

func extractMessage(body []byte) string {
	var obj map[string]interface{}
	if err := json.Unmarshal(body, &obj); err == nil {
		if msg, ok := obj["message"].(string); ok && msg != "" {
			return msg
		}
		switch e := obj["error"].(type) {
		case string:
			if e != "" {
				return e
			}
		case map[string]interface{}:
			if msg, ok := e["message"].(string); ok {
				return msg
			}
		}
	}

	text := strings.TrimSpace(string(body))
	if len(text) > maxErrorText {
		cut := maxErrorText
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut] + "..."
	}
	return text
}
