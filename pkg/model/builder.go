package model

import (
	"github.com/goliatone/go-schoolsite/internal/model"
)

// Builder converts form definitions into form models.
type Builder interface {
	Build(def FormDefinition) (FormModel, error)
}

// BuilderOption configures the builder behaviour.
type BuilderOption func(*builderOptions)

type builderOptions struct {
	labeler        func(string) string
	endpointPrefix string
}

// WithLabeler overrides the default label generation function.
func WithLabeler(labeler func(string) string) BuilderOption {
	return func(opts *builderOptions) {
		opts.labeler = labeler
	}
}

// WithEndpointPrefix mounts forms without an explicit endpoint under prefix.
func WithEndpointPrefix(prefix string) BuilderOption {
	return func(opts *builderOptions) {
		opts.endpointPrefix = prefix
	}
}

// NewBuilder returns a Builder backed by the internal implementation.
func NewBuilder(options ...BuilderOption) Builder {
	cfg := builderOptions{}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	return model.New(model.Options{
		Labeler:        cfg.labeler,
		EndpointPrefix: cfg.endpointPrefix,
	})
}
