package main

import (
	"fmt"
)

// DefaultResponseFormatter handles formatting HTTP responses
type DefaultResponseFormatter struct{}

// NewDefaultResponseFormatter creates a new response formatter
func NewDefaultResponseFormatter() *DefaultResponseFormatter {
	return &DefaultResponseFormatter{}
}

// FormatBlobResponse returns the decoded object for a successful fetch and an
// empty body for anything else
func (f *DefaultResponseFormatter) FormatBlobResponse(result FetchResult) ([]byte, error) {
	if result.Outcome != FetchFound {
		return []byte{}, nil
	}
	return result.Body, nil
}

// FormatInternalError is the plaintext body sent with a 500
func FormatInternalError(err error) string {
	return fmt.Sprintf("An internal error occurred: %v\nSee logs for full stacktrace.\n", err)
}
