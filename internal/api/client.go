package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"frameops/internal/config"
	"frameops/internal/logging"
)

// HTTPDoer describes the HTTP client used by the gateway.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// maxBodyBytes bounds how much of a response the gateway will buffer.
const maxBodyBytes = 8 << 20

// Client is the request gateway for the Asset Training System backend.
type Client struct {
	baseURL   string
	http      HTTPDoer
	sessionID string
	log       *slog.Logger

	refresher     Refresher
	mutationDelay time.Duration
	trainingDelay time.Duration
}

// New constructs a gateway client from configuration. The session identifier
// accompanies every request so the backend can route push events.
func New(cfg *config.Config, sessionID string, log *slog.Logger) *Client {
	timeout := time.Duration(cfg.Backend.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:       strings.TrimRight(cfg.Backend.URL, "/"),
		http:          &http.Client{Timeout: timeout},
		sessionID:     sessionID,
		log:           logging.OrNop(log),
		mutationDelay: time.Duration(cfg.Refresh.MutationDelay) * time.Millisecond,
		trainingDelay: time.Duration(cfg.Refresh.TrainingDelay) * time.Millisecond,
	}
}

// NewWithDoer constructs a client around a custom HTTP doer. Used by tests
// and by callers that need instrumented transports.
func NewWithDoer(baseURL, sessionID string, doer HTTPDoer, log *slog.Logger) *Client {
	return &Client{
		baseURL:       strings.TrimRight(baseURL, "/"),
		http:          doer,
		sessionID:     sessionID,
		log:           logging.OrNop(log),
		mutationDelay: 500 * time.Millisecond,
		trainingDelay: time.Second,
	}
}

// SetRefresher wires the screen registry that receives post-mutation
// refresh triggers. Without one, mutations simply skip the side effect.
func (c *Client) SetRefresher(r Refresher) {
	c.refresher = r
}

// SessionID returns the session identifier the client stamps on requests.
func (c *Client) SessionID() string {
	return c.sessionID
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return transportError(fmt.Sprintf("encode request for %s", path), err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return transportError(fmt.Sprintf("build request for %s", path), err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Client-Session-Id", c.sessionID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.send(req, method, path, out)
}

// doForm posts a pre-assembled form body, typically multipart. The content
// type carries the boundary, so the caller supplies it.
func (c *Client) doForm(ctx context.Context, path, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return transportError(fmt.Sprintf("build request for %s", path), err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Client-Session-Id", c.sessionID)
	req.Header.Set("Content-Type", contentType)
	return c.send(req, http.MethodPost, path, out)
}

func (c *Client) send(req *http.Request, method, path string, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return transportError(fmt.Sprintf("%s %s", method, path), err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return transportError(fmt.Sprintf("read response from %s", path), err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return protocolError(resp.StatusCode, raw)
	}

	if out != nil && isJSON(resp.Header.Get("Content-Type")) {
		if err := json.Unmarshal(raw, out); err != nil {
			return transportError(fmt.Sprintf("decode response from %s", path), err)
		}
	}

	c.scheduleRefresh(method, path)
	return nil
}

func isJSON(contentType string) bool {
	if contentType == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}
