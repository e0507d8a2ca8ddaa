// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by components that call the
// CPIC API.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout. Zero leaves the transport
	// defaults in place.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "cpic-data/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// APIConfig locates the CPIC API.
type APIConfig struct {
	// BaseURL is the service root that resource paths are appended to
	// (e.g. "https://api.cpicpgx.org/v1").
	BaseURL string `json:"base_url" yaml:"base_url"`
}

// TransportErrorMode selects how the publication fetch treats network and
// HTTP failures.
type TransportErrorMode string

const (
	// TransportErrorsReport logs transport failures and returns them.
	TransportErrorsReport TransportErrorMode = "report"

	// TransportErrorsIgnore drops transport failures silently, for
	// best-effort refresh jobs. No file is written.
	TransportErrorsIgnore TransportErrorMode = "ignore"
)

// Valid reports whether m is a known mode.
func (m TransportErrorMode) Valid() bool {
	return m == TransportErrorsReport || m == TransportErrorsIgnore
}

// PublicationsConfig holds settings for the publications fetch.
type PublicationsConfig struct {
	HTTPConfig `yaml:",inline"`

	// Dir is the existing directory publications.json is written to.
	Dir string `json:"dir" yaml:"dir"`

	// TransportErrors selects report (default) or ignore.
	TransportErrors TransportErrorMode `json:"transport_errors" yaml:"transport_errors"`

	// Archive writes into a dated cpic_information_YYYY-MM-DD subdirectory of Dir.
	Archive bool `json:"archive" yaml:"archive"`

	// Upload pushes the written file to the object store.
	Upload bool `json:"upload" yaml:"upload"`
}

// HistoryConfig locates the file history ledger.
type HistoryConfig struct {
	// DBPath is the SQLite database file. Empty disables the ledger.
	DBPath string `json:"db_path" yaml:"db_path"`
}

// ObjectStoreConfig configures the S3-compatible artifact store.
type ObjectStoreConfig struct {
	Endpoint  string `json:"endpoint" yaml:"endpoint"`
	Bucket    string `json:"bucket" yaml:"bucket"`
	Region    string `json:"region,omitempty" yaml:"region,omitempty"`
	AccessKey string `json:"-" yaml:"-"`
	SecretKey string `json:"-" yaml:"-"`

	// Prefix is prepended to every object key (default "data/").
	Prefix string `json:"prefix" yaml:"prefix"`

	// PublicURLBase is the public address objects are served from
	// (default "http://<bucket>/").
	PublicURLBase string `json:"public_url_base" yaml:"public_url_base"`

	UseSSL    bool `json:"use_ssl" yaml:"use_ssl"`
	PathStyle bool `json:"path_style" yaml:"path_style"`
}

// LogConfig selects the logger level and encoding.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level" yaml:"level"`

	// Format is "console" or "json".
	Format string `json:"format" yaml:"format"`
}

// Config groups every component configuration.
type Config struct {
	API          APIConfig          `json:"api" yaml:"api"`
	Publications PublicationsConfig `json:"publications" yaml:"publications"`
	History      HistoryConfig      `json:"history" yaml:"history"`
	ObjectStore  ObjectStoreConfig  `json:"object_store" yaml:"object_store"`
	Log          LogConfig          `json:"log" yaml:"log"`
}
