package render

import (
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-schoolsite/pkg/model"
)

// RenderOptions carry per-request state into a renderer without touching the
// shared form model.
type RenderOptions struct {
	// Values pre-populates controls with the submitted raw values. A cleared
	// form after an accepted submission passes nil.
	Values map[string]string
	// Files lists attached file names per file field, used for the
	// "Selected:" hint.
	Files map[string][]string
	// Errors holds inline messages keyed by field name. Keys that do not name
	// a field are shown above the form.
	Errors map[string][]string
	// FormErrors are messages that belong to the form as a whole.
	FormErrors []string
	// Notice is the success acknowledgment to display, if any.
	Notice *model.Notice
	// Hidden inputs emitted inside the form element.
	Hidden map[string]string
	// Theme supplies tokens, partial overrides and asset URLs.
	Theme *theme.RendererConfig
	// LiveEndpoint enables per-field revalidation over a websocket.
	LiveEndpoint string
}

// HasErrors reports whether any field or form message is present.
func (o RenderOptions) HasErrors() bool {
	return len(o.Errors) > 0 || len(o.FormErrors) > 0
}
