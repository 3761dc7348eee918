package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrInvalidOfflineCredentials is returned by Login and Register when the
	// server is unreachable and the credentials match no built-in user.
	ErrInvalidOfflineCredentials = errors.New("invalid offline credentials")
	// ErrNoSession is returned by Restore when nothing is cached.
	ErrNoSession = errors.New("no saved session")
	// ErrNotCached is returned by offline updates of an entry the cache
	// does not hold.
	ErrNotCached = errors.New("entry not found in local cache")
)

// Validation errors for records written while offline. The server rejects
// the same input with the matching error codes.
var (
	ErrMissingFields    = errors.New("all fields are required")
	ErrInvalidEntryType = errors.New("unsupported entry type")
	ErrInvalidValue     = errors.New("value must be a positive number")
	ErrInvalidDate      = errors.New("date must be an ISO date (YYYY-MM-DD)")
	ErrBlankDescription = errors.New("description is required")
	ErrBlankName        = errors.New("name is required")
)

// APIError is an error response from the server.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s (%s)", e.Message, e.Code)
	}
	return e.Message
}

// UnreachableError describes why the server could not be reached.
type UnreachableError struct {
	Timeout bool
	Err     error
}

func (e *UnreachableError) Error() string {
	if e.Timeout {
		return "timeout: server did not respond"
	}
	return fmt.Sprintf("server unreachable: %v", e.Err)
}

func (e *UnreachableError) Unwrap() error { return e.Err }

// parseAPIError reads the server's error body. Both {"error":{"code","message"}}
// and the older {"error":"message"} are understood.
func parseAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status}

	var envelope struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && len(envelope.Error) > 0 {
		var detail struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		}
		var text string
		switch {
		case json.Unmarshal(envelope.Error, &detail) == nil && detail.Message != "":
			apiErr.Code, apiErr.Message = detail.Code, detail.Message
		case json.Unmarshal(envelope.Error, &text) == nil && strings.TrimSpace(text) != "":
			apiErr.Message = text
		}
	}

	if apiErr.Message == "" {
		apiErr.Message = fmt.Sprintf("status %d: %s", status, http.StatusText(status))
	}
	return apiErr
}

var errServerDown = errors.New("health check failed")
