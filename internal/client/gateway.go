// Package client is the API gateway used by fintrack clients. Every call
// reports one of three outcomes: the server's answer, the server's refusal,
// or a fallback to the local cache when the server cannot be reached.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"fintrack/internal/client/cache"
	"fintrack/internal/logger"
)

// Defaults applied by New.
const (
	DefaultTimeout = 10 * time.Second
	DefaultRetries = 0
)

// Options configures a Gateway.
type Options struct {
	BaseURL string
	// Timeout bounds each attempt.
	Timeout time.Duration
	// Retries is the number of extra attempts made after a connectivity
	// failure. Server responses are never retried.
	Retries int
	// OfflineUsers are accepted by Login and Register while the server is
	// unreachable. Nil means DefaultOfflineUsers.
	OfflineUsers []OfflineUser
	HTTPClient   *http.Client
}

// Gateway calls the fintrack API and falls back to a local cache.
type Gateway struct {
	baseURL      string
	httpClient   *http.Client
	cache        cache.Cache
	timeout      time.Duration
	retries      int
	offlineUsers []OfflineUser

	offline atomic.Bool
	// mu serializes read-modify-write cycles on cached collections.
	mu  sync.Mutex
	now func() time.Time
}

// New creates a Gateway over c.
func New(c cache.Cache, opts Options) *Gateway {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Retries < 0 {
		opts.Retries = DefaultRetries
	}
	if opts.OfflineUsers == nil {
		opts.OfflineUsers = DefaultOfflineUsers
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{}
	}
	return &Gateway{
		baseURL:      strings.TrimRight(opts.BaseURL, "/"),
		httpClient:   opts.HTTPClient,
		cache:        c,
		timeout:      opts.Timeout,
		retries:      opts.Retries,
		offlineUsers: opts.OfflineUsers,
		now:          time.Now,
	}
}

// IsOffline reports whether the last call failed to reach the server.
func (g *Gateway) IsOffline() bool { return g.offline.Load() }

// Cache returns the cache the gateway reads and writes.
func (g *Gateway) Cache() cache.Cache { return g.cache }

// ForceHealthCheck checks the server and updates the reachability flag.
func (g *Gateway) ForceHealthCheck(ctx context.Context) bool {
	var health struct {
		Status string `json:"status"`
	}
	unreachable, err := g.do(ctx, http.MethodGet, "/api/health", nil, &health)
	return !unreachable && err == nil
}

// do performs one API call. It reports unreachable=true when no attempt got
// an HTTP response; err then is an *UnreachableError. Otherwise err is nil,
// an *APIError, or a local failure.
func (g *Gateway) do(ctx context.Context, method, path string, body, out interface{}) (unreachable bool, err error) {
	var payload []byte
	if body != nil {
		if payload, err = json.Marshal(body); err != nil {
			return false, fmt.Errorf("encoding request: %w", err)
		}
	}

	var lastErr error
	for attempt := 0; attempt <= g.retries; attempt++ {
		if attempt > 0 {
			logger.Get().Debugw("retrying request", "method", method, "path", path, "attempt", attempt)
		}

		status, respBody, err := g.attempt(ctx, method, path, payload)
		if err != nil {
			if ctx.Err() != nil {
				return false, ctx.Err()
			}
			var ue *UnreachableError
			if !errors.As(err, &ue) {
				return false, err
			}
			lastErr = err
			continue
		}

		g.offline.Store(false)
		if status >= http.StatusBadRequest {
			return false, parseAPIError(status, respBody)
		}
		if out != nil && len(respBody) > 0 {
			if err := json.Unmarshal(respBody, out); err != nil {
				return false, fmt.Errorf("decoding %s %s response: %w", method, path, err)
			}
		}
		return false, nil
	}

	g.offline.Store(true)
	logger.Get().Infow("server unreachable", "method", method, "path", path, "error", lastErr)
	return true, lastErr
}

func (g *Gateway) attempt(ctx context.Context, method, path string, payload []byte) (int, []byte, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(attemptCtx, method, g.baseURL+path, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token, ok := g.cache.Token(); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return 0, nil, &UnreachableError{Timeout: errors.Is(err, context.DeadlineExceeded), Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, &UnreachableError{Timeout: errors.Is(err, context.DeadlineExceeded), Err: err}
	}
	return resp.StatusCode, respBody, nil
}
