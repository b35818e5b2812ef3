package model

// FieldKind enumerates the input kinds the site forms use.
type FieldKind string

const (
	FieldKindText   FieldKind = "text"
	FieldKindEmail  FieldKind = "email"
	FieldKindPhone  FieldKind = "phone"
	FieldKindDate   FieldKind = "date"
	FieldKindSelect FieldKind = "select"
	FieldKindFile   FieldKind = "file"
)

// Valid reports whether the kind is one of the known field kinds.
func (k FieldKind) Valid() bool {
	switch k {
	case FieldKindText, FieldKindEmail, FieldKindPhone, FieldKindDate, FieldKindSelect, FieldKindFile:
		return true
	default:
		return false
	}
}

const (
	ValidationRuleRequired   = "required"
	ValidationRuleMinLength  = "minLength"
	ValidationRuleMaxLength  = "maxLength"
	ValidationRulePattern    = "pattern"
	ValidationRuleEmail      = "email"
	ValidationRuleDigitCount = "digitCount"
	ValidationRulePastDate   = "pastDate"
	ValidationRuleOneOf      = "oneOf"
)

// ValidationRule is a single declarative constraint on a field. Numeric
// thresholds live in Params["value"] (or Params["min"]/Params["max"] for
// ranges), regular expressions in Params["pattern"] and enumerations in
// Params["values"] as a comma separated list. Message is shown verbatim
// when the rule fails.
type ValidationRule struct {
	Kind    string            `json:"kind" yaml:"kind"`
	Params  map[string]string `json:"params,omitempty" yaml:"params,omitempty"`
	Message string            `json:"message" yaml:"message"`
}

// Option is a selectable value for select fields.
type Option struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// Field models one input of a form. Rules are evaluated in order.
type Field struct {
	Name        string            `json:"name"`
	Kind        FieldKind         `json:"kind"`
	Label       string            `json:"label,omitempty"`
	Placeholder string            `json:"placeholder,omitempty"`
	Description string            `json:"description,omitempty"`
	Required    bool              `json:"required"`
	Options     []Option          `json:"options,omitempty"`
	Validations []ValidationRule  `json:"validations,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// Notice is the acknowledgment shown after an accepted submission.
type Notice struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// FormModel is the immutable description of a site form that renderers,
// validators and the submission pipeline share.
type FormModel struct {
	ID          string            `json:"id"`
	Endpoint    string            `json:"endpoint"`
	Method      string            `json:"method"`
	Title       string            `json:"title,omitempty"`
	Summary     string            `json:"summary,omitempty"`
	SubmitLabel string            `json:"submitLabel,omitempty"`
	Success     Notice            `json:"success"`
	Fields      []Field           `json:"fields"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// Field looks up a field by name.
func (f FormModel) Field(name string) (Field, bool) {
	for _, field := range f.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

// FieldNames returns field names in declaration order.
func (f FormModel) FieldNames() []string {
	names := make([]string, 0, len(f.Fields))
	for _, field := range f.Fields {
		names = append(names, field.Name)
	}
	return names
}

// OptionValues returns the option values of a select field.
func (f Field) OptionValues() []string {
	if len(f.Options) == 0 {
		return nil
	}
	values := make([]string, 0, len(f.Options))
	for _, opt := range f.Options {
		values = append(values, opt.Value)
	}
	return values
}
