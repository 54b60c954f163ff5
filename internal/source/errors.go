package source

import (
	"errors"
	"fmt"
	"net/http"
)

// Common errors returned by the loader.
var (
	// ErrNotFound indicates the document does not exist at the location.
	ErrNotFound = errors.New("document not found")

	// ErrFetch indicates the document could not be retrieved.
	ErrFetch = errors.New("fetching document")

	// ErrTooLarge indicates the document exceeds MaxDocumentSize.
	ErrTooLarge = errors.New("document too large")

	// ErrNoLocation indicates an empty location was given.
	ErrNoLocation = errors.New("no document location configured")
)

// HTTPError is a non-success HTTP response.
type HTTPError struct {
	URL        string
	StatusCode int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("GET %s: HTTP %d", e.URL, e.StatusCode)
}

// Is lets errors.Is match HTTPError against the package sentinels.
func (e *HTTPError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrFetch:
		return true
	}
	return false
}

// IsNotFound returns true if the error indicates a missing document.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
