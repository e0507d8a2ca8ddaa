// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cpicapi resolves resource paths against the CPIC API base URL.
package cpicapi

import "strings"

// DefaultBaseURL is the public CPIC API root.
const DefaultBaseURL = "https://api.cpicpgx.org/v1"

// Resolver turns relative resource paths such as "/guideline" into fully
// qualified URLs.
type Resolver struct {
	BaseURL string
}

// NewResolver returns a Resolver for baseURL, or for DefaultBaseURL when
// baseURL is blank.
func NewResolver(baseURL string) Resolver {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return Resolver{BaseURL: baseURL}
}

// APIURL prefixes path with the configured base URL. Exactly one slash
// separates the two.
func (r Resolver) APIURL(path string) string {
	base := strings.TrimRight(r.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	if path == "" {
		return base
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}
