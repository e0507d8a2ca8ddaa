// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package publications

import (
	"errors"
	"fmt"
)

// ErrInvalidPayload is wrapped by a TransportError when the response body
// is not valid JSON.
var ErrInvalidPayload = errors.New("response body is not valid JSON")

// TransportError reports a failed request: connection errors, timeouts,
// non-2xx responses and unreadable payloads.
type TransportError struct {
	URL string
	// StatusCode is the HTTP status, or 0 when no response arrived.
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetching %s: HTTP %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// PersistenceError reports a failure writing the output file.
type PersistenceError struct {
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("writing %s: %v", e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
