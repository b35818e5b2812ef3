package validation

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/goliatone/go-schoolsite/pkg/model"
)

// ErrUnknownRule reports a rule kind with no registered compiler.
var ErrUnknownRule = errors.New("validation: unknown rule kind")

// Predicate reports whether a field value satisfies one rule.
type Predicate func(FieldValue) bool

// RuleContext carries the inputs a rule compiler needs.
type RuleContext struct {
	Field model.Field
	Rule  model.ValidationRule
	// Now is consulted every time a time-sensitive predicate runs.
	Now func() time.Time
}

// RuleFunc turns a declared rule into a predicate. Compilers reject malformed
// parameters with an error so misconfigured forms fail at startup.
type RuleFunc func(ctx RuleContext) (Predicate, error)

// Registry stores rule compilers by kind.
type Registry struct {
	mu    sync.RWMutex
	rules map[string]RuleFunc
}

// NewRegistry creates an empty registry instance.
func NewRegistry() *Registry {
	return &Registry{rules: make(map[string]RuleFunc)}
}

// DefaultRegistry returns a registry holding the built-in rule kinds.
func DefaultRegistry() *Registry {
	registry := NewRegistry()
	registry.MustRegister(model.ValidationRuleRequired, compileRequired)
	registry.MustRegister(model.ValidationRuleMinLength, compileMinLength)
	registry.MustRegister(model.ValidationRuleMaxLength, compileMaxLength)
	registry.MustRegister(model.ValidationRulePattern, compilePattern)
	registry.MustRegister(model.ValidationRuleEmail, compileEmail)
	registry.MustRegister(model.ValidationRuleDigitCount, compileDigitCount)
	registry.MustRegister(model.ValidationRulePastDate, compilePastDate)
	registry.MustRegister(model.ValidationRuleOneOf, compileOneOf)
	return registry
}

// Register adds a compiler for kind. Duplicate kinds return an error.
func (r *Registry) Register(kind string, fn RuleFunc) error {
	if kind == "" {
		return fmt.Errorf("validation: rule kind is required")
	}
	if fn == nil {
		return fmt.Errorf("validation: rule %q compiler is required", kind)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.rules[kind]; exists {
		return fmt.Errorf("validation: rule %q already registered", kind)
	}
	r.rules[kind] = fn
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(kind string, fn RuleFunc) {
	if err := r.Register(kind, fn); err != nil {
		panic(err)
	}
}

// Get retrieves the compiler for kind.
func (r *Registry) Get(kind string) (RuleFunc, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fn, ok := r.rules[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRule, kind)
	}
	return fn, nil
}

// Has reports whether kind is registered.
func (r *Registry) Has(kind string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.rules[kind]
	return ok
}

// List returns the registered kinds, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := make([]string, 0, len(r.rules))
	for kind := range r.rules {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds
}
