package theming

import (
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"

	theme "github.com/goliatone/go-theme"
)

var (
	// ErrThemeNotFound reports an unknown theme name.
	ErrThemeNotFound = errors.New("theming: theme not found")
	// ErrVariantNotFound reports a variant the theme does not declare.
	ErrVariantNotFound = errors.New("theming: variant not found")
)

// Catalog holds theme manifests and resolves selections into renderer
// configuration.
type Catalog struct {
	mu        sync.RWMutex
	manifests map[string]*theme.Manifest
	provider  theme.ThemeProvider
	fallbacks map[string]string
}

var _ theme.ThemeSelector = (*Catalog)(nil)

// NewCatalog registers manifests. Names must be unique.
func NewCatalog(manifests ...*theme.Manifest) (*Catalog, error) {
	registry := theme.NewRegistry()
	catalog := &Catalog{
		manifests: make(map[string]*theme.Manifest, len(manifests)),
		provider:  registry,
		fallbacks: EndeavourManifest().Templates,
	}
	for _, manifest := range manifests {
		if manifest == nil || strings.TrimSpace(manifest.Name) == "" {
			return nil, errors.New("theming: manifest name is required")
		}
		if _, exists := catalog.manifests[manifest.Name]; exists {
			return nil, fmt.Errorf("theming: manifest %q registered twice", manifest.Name)
		}
		if err := registry.Register(manifest); err != nil {
			return nil, fmt.Errorf("theming: register %q: %w", manifest.Name, err)
		}
		catalog.manifests[manifest.Name] = manifest
	}
	return catalog, nil
}

// Default returns a catalog holding the bundled theme.
func Default() *Catalog {
	catalog, err := NewCatalog(EndeavourManifest())
	if err != nil {
		panic(err)
	}
	return catalog
}

// Provider exposes the underlying go-theme registry.
func (c *Catalog) Provider() theme.ThemeProvider {
	return c.provider
}

// Names lists registered themes.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.manifests))
	for name := range c.manifests {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Select resolves a theme and variant. Empty arguments pick the defaults.
func (c *Catalog) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	name = strings.TrimSpace(name)
	variant = strings.TrimSpace(variant)
	if name == "" {
		name = DefaultTheme
	}

	c.mu.RLock()
	manifest, ok := c.manifests[name]
	c.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrThemeNotFound, name)
	}
	if variant == "" && name == DefaultTheme {
		variant = DefaultVariant
	}
	if variant != "" {
		if _, ok := manifest.Variants[variant]; !ok {
			return nil, fmt.Errorf("%w: %q has no variant %q", ErrVariantNotFound, name, variant)
		}
	}
	return &theme.Selection{Theme: name, Variant: variant, Manifest: manifest}, nil
}

// RendererConfig selects a theme and flattens it for renderers.
func (c *Catalog) RendererConfig(name, variant string) (*theme.RendererConfig, error) {
	selection, err := c.Select(name, variant)
	if err != nil {
		return nil, err
	}
	return BuildRendererConfig(selection, c.fallbacks), nil
}

// BuildRendererConfig merges base and variant tokens, templates and assets.
// Fallback partials fill template keys the manifest leaves out.
func BuildRendererConfig(selection *theme.Selection, fallbacks map[string]string) *theme.RendererConfig {
	if selection == nil || selection.Manifest == nil {
		return nil
	}
	manifest := selection.Manifest
	variant := manifest.Variants[selection.Variant]

	tokens := mergeMaps(manifest.Tokens, variant.Tokens)
	partials := mergeMaps(fallbacks, manifest.Templates, variant.Templates)
	files := mergeMaps(manifest.Assets.Files, variant.Assets.Files)
	prefix := manifest.Assets.Prefix
	if variant.Assets.Prefix != "" {
		prefix = variant.Assets.Prefix
	}

	cssVars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		cssVars["--"+key] = value
	}

	return &theme.RendererConfig{
		Theme:    selection.Theme,
		Variant:  selection.Variant,
		Partials: partials,
		Tokens:   tokens,
		CSSVars:  cssVars,
		AssetURL: func(key string) string {
			file, ok := files[key]
			if !ok {
				return ""
			}
			if strings.HasPrefix(file, "/") || strings.Contains(file, "://") {
				return file
			}
			return path.Join("/", prefix, file)
		},
	}
}

func mergeMaps(layers ...map[string]string) map[string]string {
	out := make(map[string]string)
	for _, layer := range layers {
		for key, value := range layer {
			out[key] = value
		}
	}
	return out
}
