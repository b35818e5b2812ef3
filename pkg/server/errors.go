package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/goliatone/go-schoolsite/pkg/forms"
	htmlrenderer "github.com/goliatone/go-schoolsite/pkg/renderers/html"
)

// HTTPError is an error that knows its response status.
type HTTPError interface {
	error
	StatusCode() int
}

// StatusError pairs an error with an HTTP status code.
type StatusError struct {
	Code int
	Err  error
}

func (e StatusError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

func (e StatusError) Unwrap() error { return e.Err }

func (e StatusError) StatusCode() int {
	if e.Code <= 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}

func badRequest(err error) error {
	return StatusError{Code: http.StatusBadRequest, Err: err}
}

// statusOf maps err onto a response status. Unknown forms and pages are 404,
// oversized bodies 413 and anything unclassified 500.
func statusOf(err error) int {
	if err == nil {
		return http.StatusOK
	}
	var httpErr HTTPError
	if errors.As(err, &httpErr) && httpErr != nil {
		return httpErr.StatusCode()
	}
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxErr):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, forms.ErrFormNotFound), errors.Is(err, htmlrenderer.ErrPageNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

type problem struct {
	Error string `json:"error"`
}

// writeProblem answers API requests with a JSON error body. Internal errors
// are not echoed to the client.
func writeProblem(w http.ResponseWriter, err error) {
	code := statusOf(err)
	message := http.StatusText(code)
	if code < http.StatusInternalServerError && err != nil {
		message = err.Error()
	}
	writeJSON(w, code, problem{Error: message})
}

func writeJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(true)
	_ = enc.Encode(payload)
}
