package services

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"
)

type fakeS3Object struct {
	data            []byte
	contentType     string
	contentEncoding string
}

// fakeS3 is a path-style S3 endpoint that only answers GetObject.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string]fakeS3Object
	denied  map[string]bool
}

func newFakeS3(t *testing.T) (*fakeS3, *httptest.Server) {
	t.Helper()

	f := &fakeS3{
		objects: make(map[string]fakeS3Object),
		denied:  make(map[string]bool),
	}
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeS3) put(bucket, key string, obj fakeS3Object) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[bucket+"/"+key] = obj
}

func (f *fakeS3) deny(bucket, key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.denied[bucket+"/"+key] = true
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		writeS3Error(w, http.StatusMethodNotAllowed, "MethodNotAllowed", "method not allowed")
		return
	}

	name := strings.TrimPrefix(r.URL.Path, "/")

	f.mu.Lock()
	obj, ok := f.objects[name]
	denied := f.denied[name]
	f.mu.Unlock()

	if denied {
		writeS3Error(w, http.StatusForbidden, "AccessDenied", "Access Denied")
		return
	}
	if !ok {
		writeS3Error(w, http.StatusNotFound, "NoSuchKey", "The specified key does not exist.")
		return
	}

	sum := md5.Sum(obj.data)
	contentType := obj.contentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(obj.data)))
	w.Header().Set("ETag", `"`+hex.EncodeToString(sum[:])+`"`)
	w.Header().Set("Last-Modified", time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC).Format(http.TimeFormat))
	if obj.contentEncoding != "" {
		w.Header().Set("Content-Encoding", obj.contentEncoding)
	}
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodGet {
		_, _ = w.Write(obj.data)
	}
}

func writeS3Error(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(status)
	fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8"?>
<Error><Code>%s</Code><Message>%s</Message><RequestId>fake</RequestId><HostId>fake</HostId></Error>`, code, message)
}
