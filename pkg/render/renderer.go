package render

import (
	"context"

	"github.com/goliatone/go-schoolsite/pkg/model"
)

// Renderer converts a FormModel into markup for one output format.
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, form model.FormModel, options RenderOptions) ([]byte, error)
}
