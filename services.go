package main

import (
	"context"
	"net/http"
)

// ObjectPathExtractor maps an HTTP request onto an object path
type ObjectPathExtractor interface {
	Extract(r *http.Request) string
}

// ContentDecoder turns stored bytes into response bytes using the object's
// encoding label
type ContentDecoder interface {
	Decode(data []byte, label string) ([]byte, error)
}

// BlobService fetches and decodes one object per call
type BlobService interface {
	Fetch(ctx context.Context, path string) FetchResult
}

// ResponseFormatter formats HTTP responses
type ResponseFormatter interface {
	FormatBlobResponse(result FetchResult) ([]byte, error)
}

// FetchOutcome classifies the result of a fetch
type FetchOutcome int

const (
	FetchFound FetchOutcome = iota
	FetchNotFound
	FetchStorageError
	FetchDecodeError
)

func (o FetchOutcome) String() string {
	switch o {
	case FetchFound:
		return "found"
	case FetchNotFound:
		return "not_found"
	case FetchStorageError:
		return "storage_error"
	case FetchDecodeError:
		return "decode_error"
	default:
		return "unknown"
	}
}

// Status is the HTTP status reported for the outcome when fetch errors are
// not masked.
func (o FetchOutcome) Status() int {
	switch o {
	case FetchFound:
		return http.StatusOK
	case FetchNotFound:
		return http.StatusNotFound
	case FetchStorageError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// FetchResult is what the blob service hands back to the HTTP handler
type FetchResult struct {
	Outcome FetchOutcome
	Bucket  string
	Backend string
	Path    string
	Body    []byte
	Err     error
}
