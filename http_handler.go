package main

import (
	"fmt"
	"net/http"

	"github.com/ahmad-alkadri/bucket-site/internal/log"
)

// HTTPHandler handles HTTP requests and responses
type HTTPHandler struct {
	blobService       BlobService
	responseFormatter ResponseFormatter
	pathExtractor     ObjectPathExtractor
	maskFetchErrors   bool
}

// NewHTTPHandler creates a new HTTP handler with dependencies. With
// maskFetchErrors set, a failed fetch is answered with an empty 200.
func NewHTTPHandler(
	blobService BlobService,
	responseFormatter ResponseFormatter,
	pathExtractor ObjectPathExtractor,
	maskFetchErrors bool,
) *HTTPHandler {
	return &HTTPHandler{
		blobService:       blobService,
		responseFormatter: responseFormatter,
		pathExtractor:     pathExtractor,
		maskFetchErrors:   maskFetchErrors,
	}
}

// ServeBlob answers any method on any path with the object stored there
func (h *HTTPHandler) ServeBlob(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	path := h.pathExtractor.Extract(r)
	log.Debug(ctx).Str("path", path).Str("method", r.Method).Msg("blob requested")

	result := h.blobService.Fetch(ctx, path)
	if result.Outcome != FetchFound {
		log.Error(ctx).
			Err(result.Err).
			Str("path", result.Path).
			Str("bucket", result.Bucket).
			Str("backend", result.Backend).
			Stringer("outcome", result.Outcome).
			Msg("couldn't get blob")
		if !h.maskFetchErrors {
			return NewError(result.Outcome.Status(), result.Err)
		}
	}

	body, err := h.responseFormatter.FormatBlobResponse(result)
	if err != nil {
		return fmt.Errorf("format response for %s: %w", path, err)
	}

	if _, err := w.Write(body); err != nil {
		log.Warn(ctx).Err(err).Str("path", path).Msg("failed to write response")
	}
	return nil
}
