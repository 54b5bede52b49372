package booru

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrPostNotFound is returned when a view page carries no post.
	ErrPostNotFound = errors.New("post not found")
	// ErrUserNotFound is returned when a profile page has no profile heading.
	ErrUserNotFound = errors.New("user not found")
)

// StatusError is returned for a terminal non-2xx response, after all
// retry attempts are used up.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request to %s failed with status %d", e.URL, e.Code)
}

// IsRateLimit reports whether the request kept being answered with 429.
func (e *StatusError) IsRateLimit() bool {
	return e.Code == http.StatusTooManyRequests
}
