package forms

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-schoolsite/pkg/model"
	"github.com/goliatone/go-schoolsite/pkg/validation"
)

// Option customises LoadFS.
type Option func(*loadConfig)

type loadConfig struct {
	builder    model.Builder
	validation []validation.Option
}

// WithBuilder replaces the model builder used to turn definitions into forms.
func WithBuilder(builder model.Builder) Option {
	return func(cfg *loadConfig) {
		if builder != nil {
			cfg.builder = builder
		}
	}
}

// WithValidationOptions forwards options to validation.Compile for every form.
func WithValidationOptions(opts ...validation.Option) Option {
	return func(cfg *loadConfig) {
		cfg.validation = append(cfg.validation, opts...)
	}
}

// LoadFS walks fsys, parses every JSON/YAML form definition and compiles its
// rules. Any malformed definition or rule fails the whole load.
func LoadFS(fsys fs.FS, opts ...Option) (*Store, error) {
	cfg := loadConfig{builder: model.NewBuilder()}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	store := newStore()
	if fsys == nil {
		return store, nil
	}

	err := fs.WalkDir(fsys, ".", func(p string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isDefinitionFile(p) {
			return nil
		}

		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("forms: read %s: %w", p, err)
		}
		def, err := parseDefinition(data, p)
		if err != nil {
			return err
		}

		form, err := cfg.builder.Build(def)
		if err != nil {
			return fmt.Errorf("forms: build %s: %w", p, err)
		}
		validator, err := validation.Compile(form, cfg.validation...)
		if err != nil {
			return fmt.Errorf("forms: compile %s: %w", p, err)
		}
		return store.add(form, validator, p)
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

func parseDefinition(data []byte, source string) (model.FormDefinition, error) {
	var def model.FormDefinition
	if len(strings.TrimSpace(string(data))) == 0 {
		return def, fmt.Errorf("forms: file %s is empty", source)
	}

	if err := json.Unmarshal(data, &def); err == nil {
		return def, nil
	}

	def = model.FormDefinition{}
	if err := yaml.Unmarshal(data, &def); err != nil {
		return model.FormDefinition{}, fmt.Errorf("forms: parse %s: invalid JSON or YAML: %w", source, err)
	}
	return def, nil
}

func isDefinitionFile(p string) bool {
	switch strings.ToLower(path.Ext(p)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
