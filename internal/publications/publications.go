// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package publications fetches the CPIC guideline publication list and
// writes it to publications.json in a caller-supplied directory.
package publications

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/pdiddy/cpic-data/internal/httputil"
	"github.com/pdiddy/cpic-data/internal/logging"
	"github.com/pdiddy/cpic-data/pkg/types"
)

const (
	// DefaultFilename is the file written under the target directory.
	DefaultFilename = "publications.json"

	guidelinePath = "/guideline"
	indent        = "  "
)

// guidelineQuery selects every guideline with its nested publications,
// ordered by guideline name.
var guidelineQuery = httputil.Query{
	{Key: "select", Value: "id,name,url,publication(*)"},
	{Key: "order", Value: "name"},
}

// Resolver turns a resource path into a full API URL.
type Resolver interface {
	APIURL(path string) string
}

// Recorder stores a ledger entry for a written file.
type Recorder interface {
	Record(ctx context.Context, e types.HistoryEntry) (types.HistoryEntry, error)
}

// Fetcher downloads the guideline publication list.
type Fetcher struct {
	resolver        Resolver
	client          *http.Client
	logger          *zap.Logger
	userAgent       string
	transportErrors types.TransportErrorMode
	recorder        Recorder
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient sets the client used for the request.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) { f.client = c }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *zap.Logger) Option {
	return func(f *Fetcher) { f.logger = logging.OrNop(l) }
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) { f.userAgent = ua }
}

// WithTransportErrors selects how transport failures are handled. Unknown
// modes are ignored and the default, report, stays in effect.
func WithTransportErrors(m types.TransportErrorMode) Option {
	return func(f *Fetcher) {
		if m.Valid() {
			f.transportErrors = m
		}
	}
}

// WithRecorder records every successful write in a history ledger.
func WithRecorder(r Recorder) Option {
	return func(f *Fetcher) { f.recorder = r }
}

// New returns a Fetcher that resolves API URLs with resolver.
func New(resolver Resolver, opts ...Option) *Fetcher {
	f := &Fetcher{
		resolver:        resolver,
		client:          &http.Client{},
		logger:          zap.NewNop(),
		transportErrors: types.TransportErrorsReport,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// OutputPath returns the file Fetch writes for baseDirectory.
func OutputPath(baseDirectory string) string {
	return filepath.Join(baseDirectory, DefaultFilename)
}

// Fetch requests the guideline list and writes it, indented by two
// spaces, to publications.json in baseDirectory, replacing any previous
// file. baseDirectory must already exist.
//
// Write failures are logged and returned as *PersistenceError. Transport
// failures are logged and returned as *TransportError in report mode; in
// ignore mode they produce a Skipped result and a nil error.
func (f *Fetcher) Fetch(ctx context.Context, baseDirectory string) (types.FetchResult, error) {
	uri := f.resolver.APIURL(guidelinePath)
	reqURL := httputil.WithQuery(uri, guidelineQuery)
	filePath := OutputPath(baseDirectory)
	log := f.logger.With(zap.String("url", reqURL), zap.String("path", filePath))

	body, err := httputil.GetJSON(ctx, f.client, uri, guidelineQuery, f.userAgent)
	if err != nil {
		return f.transportFailure(log, transportError(reqURL, err))
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, bytes.TrimSpace(body), "", indent); err != nil {
		return f.transportFailure(log, &TransportError{
			URL: reqURL,
			Err: fmt.Errorf("%w: %v", ErrInvalidPayload, err),
		})
	}
	out := buf.Bytes()

	if err := writeFile(filePath, out); err != nil {
		perr := &PersistenceError{Path: filePath, Err: err}
		log.Error("writing publications failed", zap.Error(perr))
		return types.FetchResult{}, perr
	}

	result := types.FetchResult{
		Path:  filePath,
		URL:   reqURL,
		Bytes: len(out),
	}
	result.Guidelines, result.Publications = countRecords(body)

	log.Info("done writing",
		zap.Int("bytes", result.Bytes),
		zap.Int("guidelines", result.Guidelines),
		zap.Int("publications", result.Publications),
	)

	f.record(ctx, log, result)
	return result, nil
}

func (f *Fetcher) transportFailure(log *zap.Logger, terr *TransportError) (types.FetchResult, error) {
	if f.transportErrors == types.TransportErrorsIgnore {
		log.Debug("ignoring transport failure", zap.Error(terr))
		return types.FetchResult{URL: terr.URL, Skipped: true}, nil
	}
	log.Error("fetching publications failed", zap.Int("status", terr.StatusCode), zap.Error(terr.Err))
	return types.FetchResult{}, terr
}

func (f *Fetcher) record(ctx context.Context, log *zap.Logger, r types.FetchResult) {
	if f.recorder == nil {
		return
	}
	_, err := f.recorder.Record(ctx, types.HistoryEntry{
		FileName: filepath.Base(r.Path),
		Action:   types.ActionFetch,
		Location: r.Path,
		Bytes:    int64(r.Bytes),
	})
	if err != nil {
		log.Warn("recording file history failed", zap.Error(err))
	}
}

func transportError(reqURL string, err error) *TransportError {
	terr := &TransportError{URL: reqURL, Err: err}
	var se *httputil.StatusError
	if errors.As(err, &se) {
		terr.StatusCode = se.StatusCode
	}
	return terr
}

// writeFile writes data to a temp file next to path and renames it over
// path. The directory is not created.
func writeFile(path string, data []byte) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(path), ".publications-*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmpFile.Name()

	_, writeErr := tmpFile.Write(data)
	closeErr := tmpFile.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return writeErr
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return closeErr
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}

// countRecords returns the number of guidelines and nested publications
// when body is a JSON array, and zeros otherwise.
func countRecords(body []byte) (guidelines, pubs int) {
	root := gjson.ParseBytes(body)
	if !root.IsArray() {
		return 0, 0
	}
	root.ForEach(func(_, g gjson.Result) bool {
		guidelines++
		if p := g.Get("publication"); p.IsArray() {
			pubs += len(p.Array())
		}
		return true
	})
	return guidelines, pubs
}
