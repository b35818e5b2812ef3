package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	errFormIDMissing     = errors.New("model builder: form id is required")
	errFormFieldsMissing = errors.New("model builder: form declares no fields")
)

func validateDefinition(def FormDefinition) error {
	if strings.TrimSpace(def.ID) == "" {
		return errFormIDMissing
	}
	if len(def.Fields) == 0 {
		return fmt.Errorf("%w (form %q)", errFormFieldsMissing, def.ID)
	}

	seen := make(map[string]struct{}, len(def.Fields))
	for idx, field := range def.Fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			return fmt.Errorf("model builder: form %q field #%d has no name", def.ID, idx)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("model builder: form %q declares field %q twice", def.ID, name)
		}
		seen[name] = struct{}{}

		if err := validateField(field); err != nil {
			return fmt.Errorf("model builder: form %q field %q: %w", def.ID, name, err)
		}
	}
	return nil
}

func validateField(field FieldDefinition) error {
	kind := FieldKind(strings.ToLower(strings.TrimSpace(field.Kind)))
	if kind != "" && !kind.Valid() {
		return fmt.Errorf("unknown kind %q", field.Kind)
	}
	if kind == FieldKindSelect && len(field.Options) == 0 {
		return errors.New("select field requires options")
	}
	for idx, rule := range field.Rules {
		if strings.TrimSpace(rule.Kind) == "" {
			return fmt.Errorf("rule #%d has no kind", idx)
		}
		if strings.TrimSpace(rule.Message) == "" {
			return fmt.Errorf("rule #%d (%s) has no message", idx, rule.Kind)
		}
	}
	return nil
}
