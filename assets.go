package schoolsite

import (
	"io/fs"

	htmlrenderer "github.com/goliatone/go-schoolsite/pkg/renderers/html"
)

// EmbeddedTemplates exposes the built-in page templates so callers can reuse
// or extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return htmlrenderer.TemplatesFS()
}

// AssetsFS exposes the stylesheet, logo and live validation script served
// under /assets.
//
// Typical mount:
//
//	mux.Handle("/assets/",
//	  http.StripPrefix("/assets/",
//	    http.FileServerFS(schoolsite.AssetsFS()),
//	  ),
//	)
func AssetsFS() fs.FS {
	return htmlrenderer.AssetsFS()
}
