package validation

import "sort"

// Result is the outcome of a validation pass: Valid is true exactly when
// Errors is empty. Errors holds one message per invalid field.
type Result struct {
	Valid  bool              `json:"valid"`
	Errors map[string]string `json:"errors,omitempty"`
}

// Error returns the message recorded for field, or "".
func (r Result) Error(field string) string {
	if r.Errors == nil {
		return ""
	}
	return r.Errors[field]
}

// Fields returns the invalid field names, sorted.
func (r Result) Fields() []string {
	names := make([]string, 0, len(r.Errors))
	for name := range r.Errors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Messages adapts the result to the map[string][]string shape renderers
// consume for inline errors.
func (r Result) Messages() map[string][]string {
	if len(r.Errors) == 0 {
		return nil
	}
	out := make(map[string][]string, len(r.Errors))
	for name, message := range r.Errors {
		out[name] = []string{message}
	}
	return out
}

func newResult(errs map[string]string) Result {
	if len(errs) == 0 {
		return Result{Valid: true}
	}
	return Result{Valid: false, Errors: errs}
}
