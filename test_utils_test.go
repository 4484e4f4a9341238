package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/ahmad-alkadri/bucket-site/internal/config"
	"github.com/ahmad-alkadri/bucket-site/internal/services"
)

// MockStorageService implements a mock version of StorageService for testing
type MockStorageService struct {
	mu         sync.Mutex
	blobs      map[string]*services.Blob
	getError   error
	panicValue any
	requested  []string
}

func NewMockStorageService() *MockStorageService {
	return &MockStorageService{
		blobs: make(map[string]*services.Blob),
	}
}

func (m *MockStorageService) Put(path string, data []byte, contentEncoding string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[path] = &services.Blob{
		Bucket:          m.Bucket(),
		Path:            path,
		Data:            data,
		ContentEncoding: contentEncoding,
	}
}

func (m *MockStorageService) SetGetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getError = err
}

func (m *MockStorageService) SetPanic(v any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.panicValue = v
}

func (m *MockStorageService) Requested() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.requested...)
}

func (m *MockStorageService) GetBlob(_ context.Context, path string) (*services.Blob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requested = append(m.requested, path)
	if m.panicValue != nil {
		panic(m.panicValue)
	}
	if m.getError != nil {
		return nil, m.getError
	}
	blob, ok := m.blobs[path]
	if !ok {
		return nil, services.ErrBlobNotFound
	}
	return blob, nil
}

func (m *MockStorageService) Bucket() string  { return "test-bucket" }
func (m *MockStorageService) Backend() string { return config.BackendGCS }

// createTestHandler creates a handler with all dependencies for testing
func createTestHandler(storage StorageService, maskFetchErrors bool) *HTTPHandler {
	return NewHTTPHandler(
		NewDefaultBlobService(storage, NewDefaultContentDecoder()),
		NewDefaultResponseFormatter(),
		NewDefaultObjectPathExtractor("index.html"),
		maskFetchErrors,
	)
}

// newTestLogger returns a JSON logger writing into the returned buffer
func newTestLogger() (zerolog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return zerolog.New(&buf).Level(zerolog.DebugLevel), &buf
}

// logEntries decodes every JSON line in buf that has the given level
func logEntries(t *testing.T, buf *bytes.Buffer, level string) []map[string]any {
	t.Helper()

	var entries []map[string]any
	s := bufio.NewScanner(bytes.NewReader(buf.Bytes()))
	for s.Scan() {
		var entry map[string]any
		if err := json.Unmarshal(s.Bytes(), &entry); err != nil {
			t.Fatalf("invalid log line %q: %v", s.Text(), err)
		}
		if entry["level"] == level {
			entries = append(entries, entry)
		}
	}
	return entries
}

func newDiscardLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}
