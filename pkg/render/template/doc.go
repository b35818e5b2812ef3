// Package template defines the engine contract page and form renderers rely
// on. The gotemplate subpackage provides the pongo2-backed implementation.
package template
