package model

// FormDefinition is the on-disk shape of a form (JSON or YAML). The builder
// turns definitions into FormModel values, filling defaults along the way.
type FormDefinition struct {
	ID          string            `json:"id" yaml:"id"`
	Title       string            `json:"title" yaml:"title"`
	Summary     string            `json:"summary" yaml:"summary"`
	Endpoint    string            `json:"endpoint" yaml:"endpoint"`
	Method      string            `json:"method" yaml:"method"`
	SubmitLabel string            `json:"submitLabel" yaml:"submitLabel"`
	Success     Notice            `json:"success" yaml:"success"`
	Fields      []FieldDefinition `json:"fields" yaml:"fields"`
	Metadata    map[string]string `json:"metadata" yaml:"metadata"`
}

// FieldDefinition is the on-disk shape of a field.
type FieldDefinition struct {
	Name        string            `json:"name" yaml:"name"`
	Kind        string            `json:"kind" yaml:"kind"`
	Label       string            `json:"label" yaml:"label"`
	Placeholder string            `json:"placeholder" yaml:"placeholder"`
	Description string            `json:"description" yaml:"description"`
	Optional    bool              `json:"optional" yaml:"optional"`
	Options     []Option          `json:"options" yaml:"options"`
	Rules       []ValidationRule  `json:"rules" yaml:"rules"`
	Metadata    map[string]string `json:"metadata" yaml:"metadata"`
}
