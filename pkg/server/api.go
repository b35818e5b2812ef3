package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/goliatone/go-schoolsite/pkg/validation"
)

// validationRequest is the body of the validate endpoint and of every live
// validation message.
type validationRequest struct {
	Field  string              `json:"field,omitempty"`
	Values map[string]string   `json:"values"`
	Files  map[string][]string `json:"files,omitempty"`
}

func (req validationRequest) values() validation.Values {
	return validation.FromMaps(req.Values, req.Files)
}

func (s *Server) handleListForms(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.forms.IDs())
}

func (s *Server) handleGetForm(w http.ResponseWriter, r *http.Request) {
	form, _, err := s.formFor(r)
	if err != nil {
		writeProblem(w, err)
		return
	}
	writeJSON(w, http.StatusOK, form)
}

// handleValidate runs the rules without submitting. With ?field=name only
// that field is checked and reported.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	form, validator, err := s.formFor(r)
	if err != nil {
		writeProblem(w, err)
		return
	}

	var req validationRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, defaultMaxAPIBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeProblem(w, classifyDecodeError(err))
		return
	}

	field := r.URL.Query().Get("field")
	if field == "" {
		field = req.Field
	}
	if field == "" {
		writeJSON(w, http.StatusOK, validator.Validate(req.values()))
		return
	}
	if _, ok := form.Field(field); !ok {
		writeProblem(w, badRequest(fmt.Errorf("form %q has no field %q", form.ID, field)))
		return
	}
	result := validation.Result{Valid: true}
	if message, ok := validator.ValidateField(field, req.values()); !ok {
		result = validation.Result{Errors: map[string]string{field: message}}
	}
	writeJSON(w, http.StatusOK, result)
}

func classifyDecodeError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return StatusError{Code: http.StatusRequestEntityTooLarge, Err: err}
	}
	return badRequest(fmt.Errorf("malformed body: %w", err))
}
