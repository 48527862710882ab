package apiclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"
)

// Sentinel errors callers can match with errors.Is.
var (
	// ErrNetwork wraps transport failures: DNS, refused connections,
	// timeouts, TLS errors.  The request may or may not have reached the
	// server.
	ErrNetwork = errors.New("network error")
	// ErrUnauthorized matches an APIError with status 401 that survived the
	// refresh-and-replay path.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden matches an APIError with status 403.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound matches an APIError with status 404.
	ErrNotFound = errors.New("not found")
)

// Default user-facing texts.
const (
	NetworkMessage = "Network error. Please check your connection and try again."
	TimeoutMessage = "The request timed out. Please try again."
)

// APIError is a non-2xx response from the booking API.
type APIError struct {
	Method string
	Path   string
	Status int
	// Detail is the server supplied message, shown to the user verbatim.
	Detail string
	Body   []byte
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, e.Detail)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, http.StatusText(e.Status))
}

// Is maps status codes onto the package sentinels.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case ErrForbidden:
		return e.Status == http.StatusForbidden
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	}
	return false
}

// newAPIError extracts the detail message from the response body.  The
// backend answers in FastAPI style ({"detail": "..."} or a list of
// validation errors); other deployments use {"error": "..."} or
// {"message": "..."}.
func newAPIError(method, path string, status int, body []byte) *APIError {
	return &APIError{Method: method, Path: path, Status: status, Detail: extractDetail(body), Body: body}
}

func extractDetail(body []byte) string {
	if len(body) == 0 || !gjson.ValidBytes(body) {
		return ""
	}
	detail := gjson.GetBytes(body, "detail")
	switch {
	case detail.Type == gjson.String:
		return detail.String()
	case detail.IsArray():
		if msg := detail.Get("0.msg"); msg.Exists() {
			return msg.String()
		}
	case detail.IsObject():
		if msg := detail.Get("message"); msg.Exists() {
			return msg.String()
		}
	}
	for _, key := range []string{"error", "message"} {
		if v := gjson.GetBytes(body, key); v.Type == gjson.String && v.String() != "" {
			return v.String()
		}
	}
	return ""
}

// Message converts any error into the text a screen should show.
//
//   - transport failures get a generic retry-suggesting message;
//   - API errors show the server detail verbatim, else fallback;
//   - everything else (local validation errors) shows its own text.
func Message(err error, fallback string) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return TimeoutMessage
	}
	if errors.Is(err, ErrNetwork) {
		return NetworkMessage
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Detail != "" {
			return apiErr.Detail
		}
		if fallback != "" {
			return fallback
		}
		return http.StatusText(apiErr.Status)
	}
	return err.Error()
}
