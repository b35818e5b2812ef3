package html

import (
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-schoolsite/pkg/content"
	"github.com/goliatone/go-schoolsite/pkg/model"
	"github.com/goliatone/go-schoolsite/pkg/render"
	"github.com/goliatone/go-schoolsite/pkg/theming"
)

const defaultSubmitLabel = "Submit"

type optionView struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

type fieldView struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Kind        string       `json:"kind"`
	InputType   string       `json:"inputType"`
	Label       string       `json:"label"`
	Placeholder string       `json:"placeholder"`
	Description string       `json:"description"`
	Required    bool         `json:"required"`
	Value       string       `json:"value"`
	Files       []string     `json:"files"`
	Error       string       `json:"error"`
	ErrorID     string       `json:"errorId"`
	Options     []optionView `json:"options"`
	Accept      string       `json:"accept"`
	InputMode   string       `json:"inputMode"`
	Strip       bool         `json:"strip"`
	Half        bool         `json:"-"`
	HTML        string       `json:"html"`
}

type rowView struct {
	Columns int         `json:"columns"`
	Fields  []fieldView `json:"fields"`
}

type formView struct {
	ID           string               `json:"id"`
	Title        string               `json:"title"`
	Action       string               `json:"action"`
	Method       string               `json:"method"`
	Enctype      string               `json:"enctype"`
	LiveEndpoint string               `json:"liveEndpoint"`
	SubmitLabel  string               `json:"submitLabel"`
	Hidden       []render.HiddenField `json:"hidden"`
	Rows         []rowView            `json:"rows"`
	FormErrors   []string             `json:"formErrors"`
	NoticeHTML   string               `json:"noticeHtml"`
}

type cssVar struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type themeView struct {
	Name       string   `json:"name"`
	Variant    string   `json:"variant"`
	CSSVars    []cssVar `json:"cssVars"`
	Stylesheet string   `json:"stylesheet"`
	Script     string   `json:"script"`
	Logo       string   `json:"logo"`
}

type navLink struct {
	Path    string `json:"path"`
	Label   string `json:"label"`
	Variant string `json:"variant,omitempty"`
	Active  bool   `json:"active"`
}

type siteView struct {
	Name   string         `json:"name"`
	Logo   string         `json:"logo"`
	Nav    []navLink      `json:"nav"`
	Footer content.Footer `json:"footer"`
}

func inputType(kind model.FieldKind) string {
	switch kind {
	case model.FieldKindEmail:
		return "email"
	case model.FieldKindPhone:
		return "tel"
	case model.FieldKindDate:
		return "date"
	default:
		return "text"
	}
}

func buildFieldView(field model.Field, opts render.RenderOptions, errs map[string][]string) fieldView {
	view := fieldView{
		ID:          field.Name,
		Name:        field.Name,
		Kind:        string(field.Kind),
		InputType:   inputType(field.Kind),
		Label:       field.Label,
		Placeholder: field.Placeholder,
		Description: field.Description,
		Required:    field.Required,
		Value:       opts.Values[field.Name],
		ErrorID:     field.Name + "-error",
		Accept:      field.Metadata["accept"],
		InputMode:   field.Metadata["inputMode"],
		Strip:       field.Metadata["stripWhitespace"] == "true",
		Half:        field.Metadata["column"] == "half",
	}
	if view.Label == "" {
		view.Label = field.Name
	}
	if files := opts.Files[field.Name]; len(files) > 0 {
		view.Files = append([]string(nil), files...)
	}
	if messages := errs[field.Name]; len(messages) > 0 {
		view.Error = messages[0]
	}
	for _, opt := range field.Options {
		view.Options = append(view.Options, optionView{
			Value:    opt.Value,
			Label:    opt.Label,
			Selected: opt.Value != "" && opt.Value == view.Value,
		})
	}
	return view
}

// groupRows pairs consecutive half-width fields into two column rows.
func groupRows(fields []fieldView) []rowView {
	rows := make([]rowView, 0, len(fields))
	for i := 0; i < len(fields); i++ {
		current := fields[i]
		if current.Half && i+1 < len(fields) && fields[i+1].Half {
			rows = append(rows, rowView{Columns: 2, Fields: []fieldView{current, fields[i+1]}})
			i++
			continue
		}
		rows = append(rows, rowView{Columns: 1, Fields: []fieldView{current}})
	}
	return rows
}

func buildThemeView(cfg *theme.RendererConfig) themeView {
	if cfg == nil {
		return themeView{}
	}
	view := themeView{Name: cfg.Theme, Variant: cfg.Variant}
	names := make([]string, 0, len(cfg.CSSVars))
	for name := range cfg.CSSVars {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		view.CSSVars = append(view.CSSVars, cssVar{Name: name, Value: cfg.CSSVars[name]})
	}
	if cfg.AssetURL != nil {
		view.Stylesheet = cfg.AssetURL(theming.AssetStylesheet)
		view.Script = cfg.AssetURL(theming.AssetScript)
		view.Logo = cfg.AssetURL(theming.AssetLogo)
	}
	return view
}

func buildSiteView(site *content.Site, currentPath, themeLogo string) siteView {
	view := siteView{Name: site.Name, Logo: site.Logo, Footer: site.Footer}
	if view.Logo == "" {
		view.Logo = themeLogo
	}
	for _, link := range site.Nav {
		view.Nav = append(view.Nav, navLink{
			Path:    link.Path,
			Label:   link.Label,
			Variant: link.Variant,
			Active:  isActive(link.Path, currentPath),
		})
	}
	return view
}

func isActive(linkPath, currentPath string) bool {
	if currentPath == "" {
		return false
	}
	if linkPath == "/" {
		return currentPath == "/"
	}
	return currentPath == linkPath || strings.HasPrefix(currentPath, strings.TrimSuffix(linkPath, "/")+"/")
}
