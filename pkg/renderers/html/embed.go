package html

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.html templates/pages/*.html templates/partials/*.html
var embeddedTemplates embed.FS

//go:embed assets/*
var embeddedAssets embed.FS

const (
	StylesheetName = "site.css"
	LiveScriptName = "live.js"
	LogoName       = "logo.svg"
)

// TemplatesFS exposes the embedded page and form templates.
func TemplatesFS() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		return embeddedTemplates
	}
	return sub
}

// AssetsFS exposes the stylesheet, live validation script and logo so the
// server can mount them under the theme's asset prefix.
func AssetsFS() fs.FS {
	sub, err := fs.Sub(embeddedAssets, "assets")
	if err != nil {
		// Should never happen, but fall back to raw FS so assets remain usable.
		return embeddedAssets
	}
	return sub
}
