package html

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-schoolsite/pkg/content"
	"github.com/goliatone/go-schoolsite/pkg/model"
	"github.com/goliatone/go-schoolsite/pkg/render"
	rendertemplate "github.com/goliatone/go-schoolsite/pkg/render/template"
	gotemplate "github.com/goliatone/go-schoolsite/pkg/render/template/gotemplate"
	"github.com/goliatone/go-schoolsite/pkg/theming"
)

// ErrPageNotFound is returned by RenderPage for page names missing from the
// site content.
var ErrPageNotFound = errors.New("html renderer: page not found")

const (
	homePage         = "home"
	homeTemplate     = "pages/home.html"
	pageTemplate     = "pages/page.html"
	formPageTemplate = "pages/form.html"
)

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	theme            *theme.RendererConfig
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithTheme sets the theme used when a call does not carry its own.
func WithTheme(cfg *theme.RendererConfig) Option {
	return func(c *config) {
		if cfg != nil {
			c.theme = cfg
		}
	}
}

// Renderer produces the site's HTML: full pages with the shared header and
// footer, and standalone form fragments.
type Renderer struct {
	templates rendertemplate.TemplateRenderer
	theme     *theme.RendererConfig
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the html renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".html"),
		)
		if err != nil {
			return nil, fmt.Errorf("html renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	if cfg.theme == nil {
		themeCfg, err := theming.Default().RendererConfig("", "")
		if err != nil {
			return nil, fmt.Errorf("html renderer: resolve default theme: %w", err)
		}
		cfg.theme = themeCfg
	}

	return &Renderer{templates: renderer, theme: cfg.theme}, nil
}

func (r *Renderer) Name() string {
	return "html"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render produces the form fragment: notice, form-level errors, every field
// with its inline error slot and the submit button.
func (r *Renderer) Render(ctx context.Context, form model.FormModel, opts render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("html renderer: template renderer is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	themeCfg := r.resolveTheme(opts.Theme)
	mapping := render.MapErrorPayload(form, opts.Errors)

	fields := make([]fieldView, 0, len(form.Fields))
	for _, field := range form.Fields {
		view := buildFieldView(field, opts, mapping.Fields)
		out, err := r.templates.RenderTemplate(partial(themeCfg, theming.PartialField), map[string]any{
			"field": view,
		})
		if err != nil {
			return nil, fmt.Errorf("html renderer: render field %q: %w", field.Name, err)
		}
		view.HTML = out
		fields = append(fields, view)
	}

	view := formView{
		ID:           form.ID,
		Title:        form.Title,
		Action:       form.Endpoint,
		Method:       form.Method,
		Enctype:      form.Metadata["enctype"],
		LiveEndpoint: opts.LiveEndpoint,
		SubmitLabel:  form.SubmitLabel,
		Hidden: render.SortedHiddenFields(render.MergeHiddenFields(
			opts.Hidden,
			render.Hidden(render.FormIDField, form.ID),
		)),
		Rows:       groupRows(fields),
		FormErrors: render.MergeFormErrors(opts.FormErrors, mapping.Form...),
	}
	if view.Method == "" {
		view.Method = "post"
	}
	if view.SubmitLabel == "" {
		view.SubmitLabel = defaultSubmitLabel
	}

	if opts.Notice != nil {
		out, err := r.templates.RenderTemplate(partial(themeCfg, theming.PartialNotice), map[string]any{
			"notice": opts.Notice,
		})
		if err != nil {
			return nil, fmt.Errorf("html renderer: render notice: %w", err)
		}
		view.NoticeHTML = out
	}

	out, err := r.templates.RenderTemplate(partial(themeCfg, theming.PartialForm), map[string]any{
		"form": view,
	})
	if err != nil {
		return nil, fmt.Errorf("html renderer: render form %q: %w", form.ID, err)
	}
	return []byte(out), nil
}

// Page describes one full page render.
type Page struct {
	// Name selects the page copy in Site.Pages.
	Name string
	// Path is the request path, used to mark the active navigation link.
	Path string
	Site *content.Site
	// Form, when set, is rendered below the page copy.
	Form        *model.FormModel
	FormOptions render.RenderOptions
	Theme       *theme.RendererConfig
	// Now stamps the footer year. Zero means time.Now.
	Now time.Time
}

// RenderPage renders the named page inside the site layout.
func (r *Renderer) RenderPage(ctx context.Context, page Page) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("html renderer: template renderer is nil")
	}
	if page.Site == nil {
		return nil, errors.New("html renderer: site content is nil")
	}
	entry, ok := page.Site.Page(page.Name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrPageNotFound, page.Name)
	}

	themeCfg := r.resolveTheme(page.Theme)
	themeData := buildThemeView(themeCfg)

	data := map[string]any{
		"page": entry,
	}
	bodyTemplate := pageTemplate
	switch {
	case page.Form != nil:
		formOpts := page.FormOptions
		if formOpts.Theme == nil {
			formOpts.Theme = themeCfg
		}
		formHTML, err := r.Render(ctx, *page.Form, formOpts)
		if err != nil {
			return nil, err
		}
		data["formHtml"] = string(formHTML)
		bodyTemplate = formPageTemplate
	case page.Name == homePage:
		bodyTemplate = homeTemplate
	}

	body, err := r.templates.RenderTemplate(bodyTemplate, data)
	if err != nil {
		return nil, fmt.Errorf("html renderer: render page %q: %w", page.Name, err)
	}

	now := page.Now
	if now.IsZero() {
		now = time.Now()
	}
	title := entry.Title
	if page.Name != homePage && page.Site.Name != "" {
		title = entry.Title + " | " + page.Site.Name
	}

	out, err := r.templates.RenderTemplate(partial(themeCfg, theming.PartialLayout), map[string]any{
		"title": title,
		"site":  buildSiteView(page.Site, page.Path, themeData.Logo),
		"theme": themeData,
		"body":  body,
		"year":  now.Year(),
	})
	if err != nil {
		return nil, fmt.Errorf("html renderer: render layout: %w", err)
	}
	return []byte(out), nil
}

func (r *Renderer) resolveTheme(override *theme.RendererConfig) *theme.RendererConfig {
	if override != nil {
		return override
	}
	return r.theme
}

var defaultPartials = map[string]string{
	theming.PartialLayout: "layout.html",
	theming.PartialForm:   "partials/form.html",
	theming.PartialField:  "partials/field.html",
	theming.PartialNotice: "partials/notice.html",
}

func partial(cfg *theme.RendererConfig, key string) string {
	if cfg != nil {
		if name := cfg.Partials[key]; name != "" {
			return name
		}
	}
	return defaultPartials[key]
}
