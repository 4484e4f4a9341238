package main

import (
	"net/http"
	"strings"
)

// DefaultObjectPathExtractor maps request paths onto object paths
type DefaultObjectPathExtractor struct {
	indexObject string
}

// NewDefaultObjectPathExtractor creates a new extractor that resolves the
// root to indexObject
func NewDefaultObjectPathExtractor(indexObject string) *DefaultObjectPathExtractor {
	return &DefaultObjectPathExtractor{indexObject: indexObject}
}

// Extract returns the URL path without its leading slash, or the index
// object when nothing is left
func (e *DefaultObjectPathExtractor) Extract(r *http.Request) string {
	path := strings.TrimLeft(r.URL.Path, "/")
	if path == "" {
		return e.indexObject
	}
	return path
}
