package model

import (
	"strings"
)

const defaultSubmitLabel = "Submit"

// Builder converts form definitions into form models.
type Builder struct {
	opts Options
}

// New creates a Builder with the supplied options.
func New(options Options) *Builder {
	opts := defaultOptions()
	if options.Labeler != nil {
		opts.Labeler = options.Labeler
	}
	if strings.TrimSpace(options.EndpointPrefix) != "" {
		opts.EndpointPrefix = options.EndpointPrefix
	}
	return &Builder{opts: opts}
}

// Build validates a definition and returns the corresponding FormModel.
// Labels, endpoint and method fall back to defaults derived from the ids.
func (b *Builder) Build(def FormDefinition) (FormModel, error) {
	if err := validateDefinition(def); err != nil {
		return FormModel{}, err
	}

	id := strings.TrimSpace(def.ID)
	form := FormModel{
		ID:          id,
		Endpoint:    strings.TrimSpace(def.Endpoint),
		Method:      strings.ToUpper(strings.TrimSpace(def.Method)),
		Title:       strings.TrimSpace(def.Title),
		Summary:     strings.TrimSpace(def.Summary),
		SubmitLabel: strings.TrimSpace(def.SubmitLabel),
		Success: Notice{
			Title:   strings.TrimSpace(def.Success.Title),
			Message: strings.TrimSpace(def.Success.Message),
		},
		Metadata: copyStringMap(def.Metadata),
	}
	if form.Endpoint == "" {
		form.Endpoint = joinEndpoint(b.opts.EndpointPrefix, id)
	}
	if form.Method == "" {
		form.Method = "POST"
	}
	if form.Title == "" {
		form.Title = b.opts.Labeler(id)
	}
	if form.SubmitLabel == "" {
		form.SubmitLabel = defaultSubmitLabel
	}

	form.Fields = make([]Field, 0, len(def.Fields))
	for _, fd := range def.Fields {
		form.Fields = append(form.Fields, b.buildField(fd))
	}
	return form, nil
}

func (b *Builder) buildField(def FieldDefinition) Field {
	field := Field{
		Name:        strings.TrimSpace(def.Name),
		Kind:        FieldKind(strings.ToLower(strings.TrimSpace(def.Kind))),
		Label:       strings.TrimSpace(def.Label),
		Placeholder: def.Placeholder,
		Description: strings.TrimSpace(def.Description),
		Required:    !def.Optional && len(def.Rules) > 0,
		Metadata:    copyStringMap(def.Metadata),
	}
	if field.Kind == "" {
		field.Kind = FieldKindText
	}
	if field.Label == "" {
		field.Label = b.opts.Labeler(field.Name)
	}
	if len(def.Options) > 0 {
		field.Options = make([]Option, 0, len(def.Options))
		for _, opt := range def.Options {
			label := strings.TrimSpace(opt.Label)
			if label == "" {
				label = opt.Value
			}
			field.Options = append(field.Options, Option{Value: strings.TrimSpace(opt.Value), Label: label})
		}
	}

	field.Validations = make([]ValidationRule, 0, len(def.Rules))
	for _, rule := range def.Rules {
		built := ValidationRule{
			Kind:    strings.TrimSpace(rule.Kind),
			Params:  copyStringMap(rule.Params),
			Message: strings.TrimSpace(rule.Message),
		}
		if built.Kind == ValidationRuleOneOf && built.Params["values"] == "" && len(field.Options) > 0 {
			if built.Params == nil {
				built.Params = make(map[string]string, 1)
			}
			built.Params["values"] = strings.Join(field.OptionValues(), ",")
		}
		field.Validations = append(field.Validations, built)
	}
	if len(field.Validations) == 0 {
		field.Validations = nil
	}
	return field
}

func joinEndpoint(prefix, id string) string {
	prefix = strings.TrimRight(strings.TrimSpace(prefix), "/")
	if !strings.HasPrefix(prefix, "/") {
		prefix = "/" + prefix
	}
	if prefix == "/" {
		return "/" + id
	}
	return prefix + "/" + id
}

func copyStringMap(in map[string]string) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for key, value := range in {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		out[key] = value
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
