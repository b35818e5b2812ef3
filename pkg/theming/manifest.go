package theming

import theme "github.com/goliatone/go-theme"

// Asset keys resolved through RendererConfig.AssetURL.
const (
	AssetStylesheet = "site.stylesheet"
	AssetScript     = "site.live"
	AssetLogo       = "site.logo"
)

// Template keys resolved through RendererConfig.Partials.
const (
	PartialLayout = "page.layout"
	PartialForm   = "forms.form"
	PartialField  = "forms.field"
	PartialNotice = "forms.notice"
)

// DefaultTheme and DefaultVariant name the bundled look.
const (
	DefaultTheme   = "endeavour"
	DefaultVariant = "light"
)

// EndeavourManifest describes the bundled school theme. Token names become
// CSS custom properties prefixed with "--".
func EndeavourManifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    DefaultTheme,
		Version: "1.0.0",
		Tokens: map[string]string{
			"background":         "#ffffff",
			"foreground":         "#0f172a",
			"card":               "#ffffff",
			"primary":            "#1d4ed8",
			"primary-foreground": "#f8fafc",
			"secondary":          "#f1f5f9",
			"muted-foreground":   "#64748b",
			"border":             "#e2e8f0",
			"destructive":        "#dc2626",
			"success":            "#15803d",
			"radius":             "0.75rem",
			"font-sans":          "system-ui, -apple-system, \"Segoe UI\", Roboto, sans-serif",
		},
		Templates: map[string]string{
			PartialLayout: "layout.html",
			PartialForm:   "partials/form.html",
			PartialField:  "partials/field.html",
			PartialNotice: "partials/notice.html",
		},
		Assets: theme.Assets{
			Prefix: "/assets",
			Files: map[string]string{
				AssetStylesheet: "site.css",
				AssetScript:     "live.js",
				AssetLogo:       "logo.svg",
			},
		},
		Variants: map[string]theme.Variant{
			"light": {},
			"dark": {
				Tokens: map[string]string{
					"background":       "#0b1120",
					"foreground":       "#e2e8f0",
					"card":             "#111827",
					"primary":          "#60a5fa",
					"secondary":        "#1e293b",
					"muted-foreground": "#94a3b8",
					"border":           "#334155",
					"destructive":      "#f87171",
				},
			},
		},
	}
}
