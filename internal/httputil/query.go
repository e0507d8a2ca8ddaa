// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers for calling the CPIC API.
package httputil

import (
	"net/url"
	"strings"
)

// reservedLiterals undoes query escaping for the characters PostgREST uses
// in select and order expressions, so requests read the same on the wire
// as the API documentation.
var reservedLiterals = strings.NewReplacer(
	"%2C", ",",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// Param is a single query parameter.
type Param struct {
	Key   string
	Value string
}

// Query is an ordered list of query parameters. Unlike url.Values it keeps
// insertion order when encoded.
type Query []Param

// Encode returns the query string without the leading "?".
func (q Query) Encode() string {
	parts := make([]string, 0, len(q))
	for _, p := range q {
		parts = append(parts, escape(p.Key)+"="+escape(p.Value))
	}
	return strings.Join(parts, "&")
}

// Values returns q as url.Values.
func (q Query) Values() url.Values {
	v := make(url.Values, len(q))
	for _, p := range q {
		v.Add(p.Key, p.Value)
	}
	return v
}

func escape(s string) string {
	return reservedLiterals.Replace(url.QueryEscape(s))
}
