// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cpicapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAPIURL(t *testing.T) {
	tests := []struct {
		name string
		base string
		path string
		want string
	}{
		{"plain join", "https://api.example.org/v1", "/guideline", "https://api.example.org/v1/guideline"},
		{"trailing slash on base", "https://api.example.org/v1/", "/guideline", "https://api.example.org/v1/guideline"},
		{"path without leading slash", "https://api.example.org/v1", "guideline", "https://api.example.org/v1/guideline"},
		{"empty path", "https://api.example.org/v1", "", "https://api.example.org/v1"},
		{"empty base falls back to default", "", "/guideline", DefaultBaseURL + "/guideline"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolver{BaseURL: tt.base}.APIURL(tt.path))
		})
	}
}

func TestNewResolver_DefaultsBlankBase(t *testing.T) {
	assert.Equal(t, DefaultBaseURL, NewResolver("  ").BaseURL)
	assert.Equal(t, "http://localhost:3000", NewResolver("http://localhost:3000").BaseURL)
}
