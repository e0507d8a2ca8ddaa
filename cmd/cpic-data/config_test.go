// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/cpic-data/internal/cpicapi"
	"github.com/pdiddy/cpic-data/internal/secrets"
	"github.com/pdiddy/cpic-data/pkg/types"
)

func newTestViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

func TestBuildConfig_Defaults(t *testing.T) {
	cfg, err := buildConfig(newTestViper(), nil)
	require.NoError(t, err)

	assert.Equal(t, cpicapi.DefaultBaseURL, cfg.API.BaseURL)
	assert.Equal(t, ".", cfg.Publications.Dir)
	assert.Equal(t, types.TransportErrorsReport, cfg.Publications.TransportErrors)
	assert.Equal(t, defaultUserAgent, cfg.Publications.UserAgent)
	assert.Zero(t, cfg.Publications.Timeout)
	assert.Empty(t, cfg.History.DBPath)
	assert.Equal(t, "data/", cfg.ObjectStore.Prefix)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestBuildConfig_Overrides(t *testing.T) {
	v := newTestViper()
	v.Set("api.base_url", "http://localhost:3000/v1")
	v.Set("http.timeout", "30s")
	v.Set("publications.dir", "/srv/out")
	v.Set("publications.transport_errors", "IGNORE")
	v.Set("publications.archive", true)
	v.Set("object_store.bucket", "files.cpicpgx.org")
	v.Set("object_store.access_key", "from-config")

	s := secrets.Secrets{
		secrets.ObjectStoreAccessKey: "from-file",
		secrets.ObjectStoreSecretKey: "secret-from-file",
	}
	cfg, err := buildConfig(v, s)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:3000/v1", cfg.API.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Publications.Timeout)
	assert.Equal(t, "/srv/out", cfg.Publications.Dir)
	assert.Equal(t, types.TransportErrorsIgnore, cfg.Publications.TransportErrors)
	assert.True(t, cfg.Publications.Archive)
	assert.Equal(t, "files.cpicpgx.org", cfg.ObjectStore.Bucket)
	// Explicit configuration wins over secret files.
	assert.Equal(t, "from-config", cfg.ObjectStore.AccessKey)
	assert.Equal(t, "secret-from-file", cfg.ObjectStore.SecretKey)
}

func TestBuildConfig_InvalidTransportMode(t *testing.T) {
	v := newTestViper()
	v.Set("publications.transport_errors", "retry")

	_, err := buildConfig(v, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid transport error mode "retry"`)
}

func TestBuildConfig_EmptyDir(t *testing.T) {
	v := newTestViper()
	v.Set("publications.dir", "")

	_, err := buildConfig(v, nil)
	assert.Error(t, err)
}
