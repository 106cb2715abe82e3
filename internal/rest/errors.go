package rest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/mesh-intelligence/planka/pkg/types"
)

// Planka error codes.
const (
	CodeNotFound     = "E_NOT_FOUND"
	CodeUnauthorized = "E_UNAUTHORIZED"
	CodeForbidden    = "E_FORBIDDEN"
	CodeConflict     = "E_CONFLICT"
	CodeInvalidInput = "E_MISSING_OR_INVALID_PARAMS"
)

// APIError is a non-2xx response. It unwraps to types.ErrNotFound for 404
// and to types.ErrTransport otherwise.
type APIError struct {
	Status   int
	Code     string
	Message  string
	Problems []string
}

func (e *APIError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "planka returned status %d", e.Status)
	if e.Code != "" {
		fmt.Fprintf(&b, " (%s)", e.Code)
	}
	if e.Message != "" {
		fmt.Fprintf(&b, ": %s", e.Message)
	}
	if len(e.Problems) > 0 {
		fmt.Fprintf(&b, " [%s]", strings.Join(e.Problems, "; "))
	}
	return b.String()
}

func (e *APIError) Unwrap() error {
	if e.Status == http.StatusNotFound || e.Code == CodeNotFound {
		return types.ErrNotFound
	}
	return types.ErrTransport
}

// Retryable reports whether the request may succeed if repeated.
func (e *APIError) Retryable() bool {
	return e.Status >= 500 || e.Status == http.StatusTooManyRequests
}

func newAPIError(status int, body []byte) *APIError {
	e := &APIError{Status: status}
	var payload struct {
		Code     string   `json:"code"`
		Message  string   `json:"message"`
		Problems []string `json:"problems"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		e.Code = payload.Code
		e.Message = payload.Message
		e.Problems = payload.Problems
	} else if len(body) > 0 {
		e.Message = strings.TrimSpace(string(body))
	}
	return e
}
