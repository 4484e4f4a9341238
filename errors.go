package main

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/ahmad-alkadri/bucket-site/internal/log"
)

// HTTPError contains an HTTP status code and wrapped error.
type HTTPError struct {
	Status int
	Err    error
}

// NewError returns an error that contains a HTTP status and error.
func NewError(status int, err error) error {
	return &HTTPError{Status: status, Err: err}
}

func (e *HTTPError) Error() string {
	if e.Err == nil {
		return http.StatusText(e.Status)
	}
	return http.StatusText(e.Status) + ": " + e.Err.Error()
}

func (e *HTTPError) Unwrap() error { return e.Err }

// HandlerFunc is an http handler that may fail. A returned *HTTPError is sent
// with its status; any other error becomes a 500.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

func (f HandlerFunc) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	err := f(w, r)
	if err == nil {
		return
	}

	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		http.Error(w, http.StatusText(httpErr.Status), httpErr.Status)
		return
	}

	log.Error(r.Context()).Err(err).Msg("An error occurred during a request.")
	writeInternalError(w, err)
}

// Recoverer turns a panic anywhere below it into a logged 500. Once the
// response has started the panic is only logged.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			err, ok := rec.(error)
			if !ok {
				err = fmt.Errorf("%v", rec)
			}
			log.Error(r.Context()).
				Err(err).
				Str("stack", string(debug.Stack())).
				Int("written_status", ww.Status()).
				Msg("An error occurred during a request.")
			if ww.Status() == 0 {
				writeInternalError(ww, err)
			}
		}()
		next.ServeHTTP(ww, r)
	})
}

func writeInternalError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = w.Write([]byte(FormatInternalError(err)))
}
