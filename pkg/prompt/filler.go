// Package prompt fills a form interactively on the terminal, checking every
// answer with the same rules the website applies.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-schoolsite/pkg/model"
	"github.com/goliatone/go-schoolsite/pkg/validation"
)

const (
	defaultMaxAttempts = 5
	skipOption         = "(none)"
)

// Option configures a Filler.
type Option func(*Filler)

// WithDriver overrides the terminal driver.
func WithDriver(driver Driver) Option {
	return func(f *Filler) {
		if driver != nil {
			f.driver = driver
		}
	}
}

// WithMaxAttempts bounds how often a single field is asked again after a
// failed check. Zero or less keeps the default.
func WithMaxAttempts(n int) Option {
	return func(f *Filler) {
		if n > 0 {
			f.maxAttempts = n
		}
	}
}

// WithErrorPrefix sets the prefix printed before validation messages.
func WithErrorPrefix(prefix string) Option {
	return func(f *Filler) {
		f.errorPrefix = prefix
	}
}

// Filler walks the fields of a form and asks for each value.
type Filler struct {
	driver      Driver
	maxAttempts int
	errorPrefix string
}

// New returns a Filler using the survey driver unless overridden.
func New(opts ...Option) *Filler {
	f := &Filler{
		maxAttempts: defaultMaxAttempts,
		errorPrefix: "✗ ",
	}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	if f.driver == nil {
		f.driver = NewSurveyDriver(nil)
	}
	return f
}

// Fill asks for every field of form in order. Seed values become the
// defaults. Each answer is checked with validator before moving on.
func (f *Filler) Fill(ctx context.Context, form model.FormModel, validator *validation.Validator, seed validation.Values) (validation.Values, error) {
	if validator == nil {
		return nil, errors.New("prompt: validator is required")
	}
	if validator.Form() != form.ID {
		return nil, fmt.Errorf("prompt: validator compiled for %q, not %q", validator.Form(), form.ID)
	}

	values := make(validation.Values, len(form.Fields))
	for name, value := range seed {
		values[name] = value
	}

	if form.Title != "" {
		if err := f.driver.Info(ctx, form.Title); err != nil {
			return nil, err
		}
	}

	for _, field := range form.Fields {
		if err := f.fillField(ctx, field, validator, values); err != nil {
			return nil, err
		}
	}
	return values, nil
}

// Confirm asks a yes/no question, defaulting to yes.
func (f *Filler) Confirm(ctx context.Context, message string) (bool, error) {
	return f.driver.Confirm(ctx, ConfirmConfig{Message: message, Default: true})
}

func (f *Filler) fillField(ctx context.Context, field model.Field, validator *validation.Validator, values validation.Values) error {
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		var err error
		switch field.Kind {
		case model.FieldKindSelect:
			err = f.askSelect(ctx, field, values)
		case model.FieldKindFile:
			err = f.askFiles(ctx, field, values)
		default:
			err = f.askText(ctx, field, validator, values)
		}
		if err != nil {
			return err
		}

		message, ok := validator.ValidateField(field.Name, values)
		if ok {
			return nil
		}
		if err := f.driver.Info(ctx, f.errorPrefix+message); err != nil {
			return err
		}
		if attempt >= f.maxAttempts {
			return fmt.Errorf("%w: %s", ErrTooManyAttempts, field.Name)
		}
	}
}

func (f *Filler) askText(ctx context.Context, field model.Field, validator *validation.Validator, values validation.Values) error {
	answer, err := f.driver.Input(ctx, InputConfig{
		Message: label(field),
		Default: values.Get(field.Name).Raw,
		Help:    help(field),
		Validator: func(candidate string) error {
			probe := validation.Values{}
			probe.Set(field.Name, candidate)
			if message, ok := validator.ValidateField(field.Name, probe); !ok {
				return errors.New(message)
			}
			return nil
		},
	})
	if err != nil {
		return err
	}
	values.Set(field.Name, answer)
	return nil
}

func (f *Filler) askSelect(ctx context.Context, field model.Field, values validation.Values) error {
	var (
		labels  []string
		choices []string
	)
	if !field.Required {
		labels = append(labels, skipOption)
		choices = append(choices, "")
	}
	current := values.Get(field.Name).Raw
	defaultIdx := -1
	for _, opt := range field.Options {
		if opt.Value == current {
			defaultIdx = len(labels)
		}
		labels = append(labels, opt.Label)
		choices = append(choices, opt.Value)
	}

	idx, err := f.driver.Select(ctx, SelectConfig{
		Message:      label(field),
		Options:      labels,
		DefaultIndex: defaultIdx,
		Help:         help(field),
	})
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(choices) {
		values.Set(field.Name, "")
		return nil
	}
	values.Set(field.Name, choices[idx])
	return nil
}

// askFiles records the base names of the listed paths. File contents are
// never read.
func (f *Filler) askFiles(ctx context.Context, field model.Field, values validation.Values) error {
	current := values.Get(field.Name).Files
	answer, err := f.driver.Input(ctx, InputConfig{
		Message: label(field) + " (file paths, comma separated)",
		Default: strings.Join(current, ", "),
		Help:    help(field),
	})
	if err != nil {
		return err
	}

	delete(values, field.Name)
	for _, part := range strings.Split(answer, ",") {
		if part = strings.TrimSpace(part); part != "" {
			values.Attach(field.Name, filepath.Base(part))
		}
	}
	if _, ok := values[field.Name]; !ok {
		values[field.Name] = validation.FieldValue{}
	}
	return nil
}

func label(field model.Field) string {
	if field.Label != "" {
		if field.Required {
			return field.Label + " *"
		}
		return field.Label
	}
	return field.Name
}

func help(field model.Field) string {
	if field.Description != "" {
		return field.Description
	}
	if accept := field.Metadata["accept"]; accept != "" {
		return "Accepted: " + accept
	}
	return field.Placeholder
}
