package preview

import (
	"errors"
	"fmt"
	"net/http"
)

var ErrNotHTML = errors.New("response is not an HTML page")

// HTTPError is returned when a product page answers with a non-200 status.
type HTTPError struct {
	StatusCode int
	URL        string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d for %s", e.StatusCode, e.URL)
}

// Retryable reports statuses worth another attempt.
func (e *HTTPError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}
