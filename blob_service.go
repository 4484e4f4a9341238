package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/ahmad-alkadri/bucket-site/internal/services"
)

// DefaultBlobService is the single boundary between the handler and the
// object store
type DefaultBlobService struct {
	storage StorageService
	decoder ContentDecoder
}

// NewDefaultBlobService creates a new blob service with all dependencies
func NewDefaultBlobService(storage StorageService, decoder ContentDecoder) *DefaultBlobService {
	return &DefaultBlobService{
		storage: storage,
		decoder: decoder,
	}
}

// Fetch reads the object at path and decodes it. It never returns an error
// directly: every failure, including a panic inside the storage client, is
// reported through the result's Outcome and Err.
func (s *DefaultBlobService) Fetch(ctx context.Context, path string) (result FetchResult) {
	result = FetchResult{
		Bucket:  s.storage.Bucket(),
		Backend: s.storage.Backend(),
		Path:    path,
	}

	defer func() {
		if rec := recover(); rec != nil {
			result.Outcome = FetchStorageError
			result.Body = nil
			result.Err = fmt.Errorf("panic while fetching %s: %v", path, rec)
		}
	}()

	blob, err := s.storage.GetBlob(ctx, path)
	switch {
	case errors.Is(err, services.ErrBlobNotFound):
		result.Outcome = FetchNotFound
		result.Err = err
		return result
	case err != nil:
		result.Outcome = FetchStorageError
		result.Err = err
		return result
	case blob == nil:
		result.Outcome = FetchNotFound
		result.Err = fmt.Errorf("%s: %w", path, services.ErrBlobNotFound)
		return result
	}

	body, err := s.decoder.Decode(blob.Data, blob.ContentEncoding)
	if err != nil {
		result.Outcome = FetchDecodeError
		result.Err = fmt.Errorf("failed to decode %s: %w", path, err)
		return result
	}

	result.Outcome = FetchFound
	result.Body = body
	return result
}
