package validation

import (
	"net/url"
	"sort"
	"strings"
)

// FieldValue is the raw value of one field. Text, select and date inputs use
// Raw; file inputs list the display names of the attached files.
type FieldValue struct {
	Raw   string   `json:"value,omitempty"`
	Files []string `json:"files,omitempty"`
}

// Empty reports whether nothing was entered or attached.
func (v FieldValue) Empty() bool {
	return v.Raw == "" && len(v.Files) == 0
}

// Values holds field values keyed by field name.
type Values map[string]FieldValue

// FromMaps builds Values from plain string values and attached file names.
func FromMaps(values map[string]string, files map[string][]string) Values {
	out := make(Values, len(values)+len(files))
	for name, raw := range values {
		out.Set(name, raw)
	}
	for name, names := range files {
		out.Attach(name, names...)
	}
	return out
}

// FromURLValues keeps the first value submitted for each key.
func FromURLValues(form url.Values) Values {
	out := make(Values, len(form))
	for name, raw := range form {
		if len(raw) == 0 {
			continue
		}
		out.Set(name, raw[0])
	}
	return out
}

// Get returns the value for name; missing fields yield the zero value.
func (v Values) Get(name string) FieldValue {
	if v == nil {
		return FieldValue{}
	}
	return v[name]
}

// Set stores the raw value of name.
func (v Values) Set(name, raw string) {
	name = strings.TrimSpace(name)
	if v == nil || name == "" {
		return
	}
	current := v[name]
	current.Raw = raw
	v[name] = current
}

// Attach records file display names for name. Blank names are ignored.
func (v Values) Attach(name string, files ...string) {
	name = strings.TrimSpace(name)
	if v == nil || name == "" {
		return
	}
	current := v[name]
	for _, file := range files {
		if file = strings.TrimSpace(file); file != "" {
			current.Files = append(current.Files, file)
		}
	}
	v[name] = current
}

// Raw returns the raw text values, skipping fields that only carry files.
func (v Values) Raw() map[string]string {
	out := make(map[string]string, len(v))
	for name, value := range v {
		if len(value.Files) > 0 && value.Raw == "" {
			continue
		}
		out[name] = value.Raw
	}
	return out
}

// FileNames returns the attached file names per field.
func (v Values) FileNames() map[string][]string {
	var out map[string][]string
	for name, value := range v {
		if len(value.Files) == 0 {
			continue
		}
		if out == nil {
			out = make(map[string][]string)
		}
		out[name] = append([]string(nil), value.Files...)
	}
	return out
}

// Names returns the field names present, sorted.
func (v Values) Names() []string {
	names := make([]string, 0, len(v))
	for name := range v {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
