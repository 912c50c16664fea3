package supabase

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"regexp"
	"strings"
)

// APIError is a failed table call. Status is the HTTP status PostgREST
// documents for Code; gateway and network failures carry a 5xx.
type APIError struct {
	Status  int
	Code    string
	Message string

	cause error
}

func (e *APIError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "supabase: status %d", e.Status)
	if e.Code != "" {
		fmt.Fprintf(&b, " code %s", e.Code)
	}
	if e.Message != "" {
		b.WriteString(": " + e.Message)
	}
	return b.String()
}

func (e *APIError) Unwrap() error { return e.cause }

// Temporary reports whether the failure is on the server side.
func (e *APIError) Temporary() bool { return e.Status >= 500 }

// IsAPIError unwraps err into an *APIError.
func IsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// postgrest-go reports error bodies as "(code) message" and non-JSON bodies
// (gateway pages) as a parse failure; the HTTP status itself is not exposed.
var (
	codedErrRe       = regexp.MustCompile(`^\(([^)]*)\) (.*)$`)
	unparsableErrPfx = "error parsing error response"
)

func fromPostgrest(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return &APIError{Status: http.StatusServiceUnavailable, Message: "backend unreachable", cause: err}
	}
	msg := err.Error()
	if strings.HasPrefix(msg, unparsableErrPfx) {
		return &APIError{Status: http.StatusBadGateway, Message: "unreadable error response", cause: err}
	}
	if m := codedErrRe.FindStringSubmatch(msg); m != nil {
		return &APIError{Status: statusForCode(m[1]), Code: m[1], Message: m[2], cause: err}
	}
	return err
}

// statusForCode follows PostgREST's error code table. An empty code means the
// answer came from the gateway in front of PostgREST, not PostgREST itself.
func statusForCode(code string) int {
	switch code {
	case "":
		return http.StatusBadGateway
	case "PGRST000", "PGRST001", "PGRST002":
		return http.StatusServiceUnavailable
	case "PGRST003":
		return http.StatusGatewayTimeout
	case "PGRST300":
		return http.StatusInternalServerError
	case "PGRST116":
		return http.StatusNotAcceptable
	case "PGRST202", "PGRST205", "42883", "42P01":
		return http.StatusNotFound
	case "23503", "23505":
		return http.StatusConflict
	case "42501":
		return http.StatusForbidden
	case "P0001":
		return http.StatusBadRequest
	}
	switch {
	case strings.HasPrefix(code, "PGRST1"), strings.HasPrefix(code, "PGRST2"):
		return http.StatusBadRequest
	case strings.HasPrefix(code, "PGRST3"):
		return http.StatusUnauthorized
	case strings.HasPrefix(code, "08"), strings.HasPrefix(code, "53"):
		return http.StatusServiceUnavailable
	case strings.HasPrefix(code, "22"), strings.HasPrefix(code, "23"), strings.HasPrefix(code, "42"):
		return http.StatusBadRequest
	case strings.HasPrefix(code, "28"), strings.HasPrefix(code, "0L"), strings.HasPrefix(code, "0P"):
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}
