package forms

import (
	"errors"
	"fmt"
	"sync"

	"github.com/goliatone/go-schoolsite/pkg/model"
	"github.com/goliatone/go-schoolsite/pkg/validation"
)

// ErrFormNotFound reports an unknown form id.
var ErrFormNotFound = errors.New("forms: form not found")

// Store holds built form models and their compiled validators. A loaded store
// is read-only and safe for concurrent use.
type Store struct {
	forms      map[string]model.FormModel
	validators map[string]*validation.Validator
	sources    map[string]string
	order      []string
}

func newStore() *Store {
	return &Store{
		forms:      make(map[string]model.FormModel),
		validators: make(map[string]*validation.Validator),
		sources:    make(map[string]string),
	}
}

func (s *Store) add(form model.FormModel, validator *validation.Validator, source string) error {
	if prev, exists := s.sources[form.ID]; exists {
		return fmt.Errorf("forms: duplicate form %q (files %s and %s)", form.ID, prev, source)
	}
	s.forms[form.ID] = form
	s.validators[form.ID] = validator
	s.sources[form.ID] = source
	s.order = append(s.order, form.ID)
	return nil
}

// Form returns the model registered under id.
func (s *Store) Form(id string) (model.FormModel, error) {
	if s != nil {
		if form, ok := s.forms[id]; ok {
			return form, nil
		}
	}
	return model.FormModel{}, fmt.Errorf("%w: %q", ErrFormNotFound, id)
}

// Validator returns the compiled validator of form id.
func (s *Store) Validator(id string) (*validation.Validator, error) {
	if s != nil {
		if v, ok := s.validators[id]; ok {
			return v, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrFormNotFound, id)
}

// IDs lists form ids in load order.
func (s *Store) IDs() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.order...)
}

// Forms returns every form model in load order.
func (s *Store) Forms() []model.FormModel {
	if s == nil {
		return nil
	}
	out := make([]model.FormModel, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.forms[id])
	}
	return out
}

// Empty reports whether the store holds any forms.
func (s *Store) Empty() bool {
	return s == nil || len(s.forms) == 0
}

var loadDefault = sync.OnceValues(func() (*Store, error) {
	return LoadFS(EmbeddedFS())
})

// Default returns the store built from the embedded definitions.
func Default() *Store {
	store, err := loadDefault()
	if err != nil {
		panic(err)
	}
	return store
}
