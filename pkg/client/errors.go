package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/charlie0129/steamcalc/pkg/steam"
)

var (
	// ErrDaemonNotRunning is returned when the daemon socket does not exist
	ErrDaemonNotRunning = errors.New("daemon not running")

	// ErrPermissionDenied is returned when the socket is not accessible to the current user
	ErrPermissionDenied = errors.New("permission denied")

	// ErrNotFound is returned when 404 is returned from the daemon
	ErrNotFound = errors.New("404 not found")
)

// StatusError is returned for non-2xx responses that carry no classified
// error.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("got %d: %s", e.Code, e.Body)
}

// responseError turns an error response into an error. Classified errors
// from the daemon keep their class.
func responseError(code int, body []byte) error {
	var r steam.ErrorReport
	if err := json.Unmarshal(body, &r); err == nil && r.Class != "" {
		return r.Err()
	}
	if code == http.StatusNotFound {
		return ErrNotFound
	}
	return &StatusError{Code: code, Body: strings.TrimSpace(string(body))}
}
