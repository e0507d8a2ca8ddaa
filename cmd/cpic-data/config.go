// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pdiddy/cpic-data/internal/cpicapi"
	"github.com/pdiddy/cpic-data/internal/secrets"
	"github.com/pdiddy/cpic-data/pkg/types"
)

const defaultUserAgent = "cpic-data/0.1"

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", cpicapi.DefaultBaseURL)
	v.SetDefault("http.user_agent", defaultUserAgent)
	v.SetDefault("publications.dir", ".")
	v.SetDefault("publications.transport_errors", string(types.TransportErrorsReport))
	v.SetDefault("object_store.prefix", "data/")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("secrets_dir", ".secrets/")
}

func mustBind(key string, flag *pflag.Flag) {
	if err := viper.BindPFlag(key, flag); err != nil {
		panic(fmt.Sprintf("binding flag for %s: %v", key, err))
	}
}

// buildConfig assembles the effective configuration from v, filling
// object store credentials from s when v has none.
func buildConfig(v *viper.Viper, s secrets.Secrets) (types.Config, error) {
	mode := types.TransportErrorMode(strings.ToLower(strings.TrimSpace(v.GetString("publications.transport_errors"))))
	if mode == "" {
		mode = types.TransportErrorsReport
	}
	if !mode.Valid() {
		return types.Config{}, fmt.Errorf("invalid transport error mode %q: want %q or %q",
			mode, types.TransportErrorsReport, types.TransportErrorsIgnore)
	}

	cfg := types.Config{
		API: types.APIConfig{
			BaseURL: v.GetString("api.base_url"),
		},
		Publications: types.PublicationsConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   v.GetDuration("http.timeout"),
				UserAgent: v.GetString("http.user_agent"),
			},
			Dir:             v.GetString("publications.dir"),
			TransportErrors: mode,
			Archive:         v.GetBool("publications.archive"),
			Upload:          v.GetBool("publications.upload"),
		},
		History: types.HistoryConfig{
			DBPath: v.GetString("history.db_path"),
		},
		ObjectStore: types.ObjectStoreConfig{
			Endpoint:      v.GetString("object_store.endpoint"),
			Bucket:        v.GetString("object_store.bucket"),
			Region:        v.GetString("object_store.region"),
			AccessKey:     s.Lookup(secrets.ObjectStoreAccessKey, v.GetString("object_store.access_key")),
			SecretKey:     s.Lookup(secrets.ObjectStoreSecretKey, v.GetString("object_store.secret_key")),
			Prefix:        v.GetString("object_store.prefix"),
			PublicURLBase: v.GetString("object_store.public_url_base"),
			UseSSL:        v.GetBool("object_store.use_ssl"),
			PathStyle:     v.GetBool("object_store.path_style"),
		},
		Log: types.LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
	}
	if cfg.Publications.Dir == "" {
		return types.Config{}, fmt.Errorf("no output directory configured")
	}
	return cfg, nil
}
