// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package publications

import (
	"context"

	"github.com/pdiddy/cpic-data/pkg/types"
)

// Completion is the outcome of a background fetch.
type Completion struct {
	Result types.FetchResult
	Err    error
}

// Start runs Fetch in the background and returns immediately. The channel
// receives exactly one Completion and is then closed. It is buffered, so
// a caller that never reads it does not leak the goroutine. Cancel ctx to
// abort the request.
func (f *Fetcher) Start(ctx context.Context, baseDirectory string) <-chan Completion {
	ch := make(chan Completion, 1)
	go func() {
		defer close(ch)
		res, err := f.Fetch(ctx, baseDirectory)
		ch <- Completion{Result: res, Err: err}
	}()
	return ch
}
