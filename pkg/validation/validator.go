package validation

import (
	"fmt"
	"time"

	"github.com/goliatone/go-schoolsite/pkg/model"
)

// Option customises Compile.
type Option func(*compileConfig)

type compileConfig struct {
	registry *Registry
	now      func() time.Time
}

// WithRegistry compiles rules against registry instead of the defaults.
func WithRegistry(registry *Registry) Option {
	return func(cfg *compileConfig) {
		if registry != nil {
			cfg.registry = registry
		}
	}
}

// WithClock overrides the clock used by time-sensitive rules.
func WithClock(now func() time.Time) Option {
	return func(cfg *compileConfig) {
		if now != nil {
			cfg.now = now
		}
	}
}

type check struct {
	kind    string
	message string
	test    Predicate
}

type fieldChecks struct {
	name     string
	optional bool
	checks   []check
}

// first returns the message of the first failing rule.
func (f fieldChecks) first(value FieldValue) (string, bool) {
	if f.optional && value.Empty() {
		return "", true
	}
	for _, c := range f.checks {
		if !c.test(value) {
			return c.message, false
		}
	}
	return "", true
}

// Validator holds the compiled rule table of one form. It is immutable and
// safe for concurrent use.
type Validator struct {
	form   string
	fields []fieldChecks
	index  map[string]int
}

// Compile resolves every rule of form into a predicate.
func Compile(form model.FormModel, opts ...Option) (*Validator, error) {
	cfg := compileConfig{registry: DefaultRegistry(), now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	v := &Validator{
		form:  form.ID,
		index: make(map[string]int, len(form.Fields)),
	}
	for _, field := range form.Fields {
		if _, dup := v.index[field.Name]; dup {
			return nil, fmt.Errorf("validation: form %q declares field %q twice", form.ID, field.Name)
		}
		compiled := fieldChecks{name: field.Name, optional: !field.Required}
		for i, rule := range field.Validations {
			fn, err := cfg.registry.Get(rule.Kind)
			if err != nil {
				return nil, fmt.Errorf("validation: form %q field %q: %w", form.ID, field.Name, err)
			}
			test, err := fn(RuleContext{Field: field, Rule: rule, Now: cfg.now})
			if err != nil {
				return nil, fmt.Errorf("validation: form %q field %q rule #%d: %w", form.ID, field.Name, i+1, err)
			}
			compiled.checks = append(compiled.checks, check{kind: rule.Kind, message: rule.Message, test: test})
		}
		v.index[field.Name] = len(v.fields)
		v.fields = append(v.fields, compiled)
	}
	return v, nil
}

// Form returns the id of the compiled form.
func (v *Validator) Form() string {
	return v.form
}

// Validate checks every field of the form. Values for unknown fields are
// ignored; missing fields are treated as empty.
func (v *Validator) Validate(values Values) Result {
	errs := make(map[string]string)
	for _, field := range v.fields {
		if message, ok := field.first(values.Get(field.name)); !ok {
			errs[field.name] = message
		}
	}
	return newResult(errs)
}

// ValidateField checks a single field. It returns ok=true for valid input and
// for names the form does not declare.
func (v *Validator) ValidateField(name string, values Values) (string, bool) {
	idx, exists := v.index[name]
	if !exists {
		return "", true
	}
	return v.fields[idx].first(values.Get(name))
}

// Validate compiles form with the default rules and checks values once.
func Validate(form model.FormModel, values Values) (Result, error) {
	validator, err := Compile(form)
	if err != nil {
		return Result{}, err
	}
	return validator.Validate(values), nil
}
