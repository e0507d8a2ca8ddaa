// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the configuration and record types shared across
// cpic-data components.
package types

import "time"

// FetchResult describes a completed publications fetch.
type FetchResult struct {
	// Path is the file that was written.
	Path string `json:"path" yaml:"path"`

	// URL is the request URL including the query string.
	URL string `json:"url" yaml:"url"`

	// Bytes is the size of the written file.
	Bytes int `json:"bytes" yaml:"bytes"`

	// Guidelines is the number of guideline records in the payload, when
	// the payload is an array.
	Guidelines int `json:"guidelines" yaml:"guidelines"`

	// Publications is the total number of publication records nested
	// under the guidelines.
	Publications int `json:"publications" yaml:"publications"`

	// Skipped is set when a transport failure was ignored and nothing
	// was written.
	Skipped bool `json:"skipped,omitempty" yaml:"skipped,omitempty"`
}

// HistoryAction labels a file history entry.
type HistoryAction string

const (
	ActionFetch  HistoryAction = "fetch"
	ActionUpload HistoryAction = "upload"
)

// HistoryEntry is one row of the file history ledger.
type HistoryEntry struct {
	ID         int64         `json:"id" yaml:"id"`
	FileName   string        `json:"file_name" yaml:"file_name"`
	Action     HistoryAction `json:"action" yaml:"action"`
	Location   string        `json:"location" yaml:"location"`
	Bytes      int64         `json:"bytes" yaml:"bytes"`
	RecordedAt time.Time     `json:"recorded_at" yaml:"recorded_at"`
}
