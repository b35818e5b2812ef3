package html_test

import (
	"context"
	"errors"
	"io/fs"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/goliatone/go-schoolsite/pkg/content"
	"github.com/goliatone/go-schoolsite/pkg/forms"
	"github.com/goliatone/go-schoolsite/pkg/model"
	"github.com/goliatone/go-schoolsite/pkg/render"
	htmlrenderer "github.com/goliatone/go-schoolsite/pkg/renderers/html"
	"github.com/goliatone/go-schoolsite/pkg/testsupport"
	"github.com/goliatone/go-schoolsite/pkg/theming"
)

func newRenderer(t *testing.T, opts ...htmlrenderer.Option) *htmlrenderer.Renderer {
	t.Helper()
	renderer, err := htmlrenderer.New(opts...)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	return renderer
}

func mustForm(t *testing.T, id string) model.FormModel {
	t.Helper()
	form, err := forms.Default().Form(id)
	if err != nil {
		t.Fatalf("form %q: %v", id, err)
	}
	return form
}

func mustSite(t *testing.T) *content.Site {
	t.Helper()
	site, err := content.LoadFS(content.EmbeddedFS(), content.DefaultFile)
	if err != nil {
		t.Fatalf("load site: %v", err)
	}
	return site
}

func assertContains(t *testing.T, output string, fragments ...string) {
	t.Helper()
	for _, fragment := range fragments {
		if !strings.Contains(output, fragment) {
			t.Errorf("expected output to contain %q", fragment)
		}
	}
}

func assertNotContains(t *testing.T, output string, fragments ...string) {
	t.Helper()
	for _, fragment := range fragments {
		if strings.Contains(output, fragment) {
			t.Errorf("expected output not to contain %q", fragment)
		}
	}
}

func TestRenderer_Metadata(t *testing.T) {
	renderer := newRenderer(t)
	if renderer.Name() != "html" {
		t.Fatalf("unexpected name %q", renderer.Name())
	}
	if renderer.ContentType() != "text/html; charset=utf-8" {
		t.Fatalf("unexpected content type %q", renderer.ContentType())
	}
}

func TestRender_AdmissionsPristine(t *testing.T) {
	renderer := newRenderer(t)
	out, err := renderer.Render(testsupport.Context(), mustForm(t, "admissions"), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(out)

	assertContains(t, html,
		`action="/admissions"`,
		`name="_form" value="admissions"`,
		`id="firstName"`,
		`id="firstName-error"`,
		`data-strip-whitespace`,
		`inputmode="tel"`,
		`type="date"`,
		`<option value="">Select gender</option>`,
		`<option value="nursery">Nursery</option>`,
		`form-row form-row--split`,
		`Submit Application`,
	)
	assertNotContains(t, html, `aria-invalid="true"`, `notice--success`)
	if got := strings.Count(html, `class="field__error"`); got != 9 {
		t.Fatalf("expected 9 error slots, got %d", got)
	}
}

func TestRender_InlineErrorsAndValues(t *testing.T) {
	renderer := newRenderer(t)
	form := mustForm(t, "admissions")

	out, err := renderer.Render(context.Background(), form, render.RenderOptions{
		Values: map[string]string{"firstName": "A", "gender": "female"},
		Errors: map[string][]string{
			"firstName":   {"First name must be at least 2 characters"},
			"/body/phone": {"Phone number is required"},
			"captcha":     {"Please try again"},
		},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(out)

	assertContains(t, html,
		`value="A"`,
		`aria-invalid="true" aria-describedby="firstName-error"`,
		`First name must be at least 2 characters`,
		`Phone number is required`,
		`<option value="female" selected>Female</option>`,
		`notice--error`,
		`Please try again`,
	)
}

func TestRender_NoticeAndLiveEndpoint(t *testing.T) {
	renderer := newRenderer(t)
	form := mustForm(t, "admissions")

	out, err := renderer.Render(context.Background(), form, render.RenderOptions{
		Notice:       &form.Success,
		LiveEndpoint: "/api/live",
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	assertContains(t, string(out),
		`notice--success`,
		`Application Submitted!`,
		`We will contact you soon regarding the admission process.`,
		`data-live-endpoint="/api/live"`,
	)
}

func TestRender_CareersFileField(t *testing.T) {
	renderer := newRenderer(t)
	form := mustForm(t, "careers")
	values, files := testsupport.CareersValues()

	out, err := renderer.Render(context.Background(), form, render.RenderOptions{
		Values: values,
		Files:  files,
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	assertContains(t, string(out),
		`enctype="multipart/form-data"`,
		`type="file"`,
		`accept=".pdf,.doc,.docx"`,
		`Selected: cv.pdf`,
		`value="John"`,
	)
}

func TestRender_CancelledContext(t *testing.T) {
	renderer := newRenderer(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := renderer.Render(ctx, mustForm(t, "admissions"), render.RenderOptions{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRenderPage_Home(t *testing.T) {
	renderer := newRenderer(t)
	out, err := renderer.RenderPage(context.Background(), htmlrenderer.Page{
		Name: "home",
		Path: "/",
		Site: mustSite(t),
		Now:  time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("render page: %v", err)
	}
	html := string(out)

	assertContains(t, html,
		`<!DOCTYPE html>`,
		`Welcome to Bright Future School`,
		`href="/" class="nav__link nav__link--active" aria-current="page"`,
		`href="tel:5551234567"`,
		`<svg`,
		`&copy; 2024`,
		`href="/assets/site.css"`,
		`src="/assets/live.js"`,
		`--primary: #1d4ed8;`,
		`data-theme="endeavour" data-variant="light"`,
		`class="card"`,
	)
}

func TestRenderPage_FormPage(t *testing.T) {
	renderer := newRenderer(t)
	form := mustForm(t, "admissions")

	out, err := renderer.RenderPage(context.Background(), htmlrenderer.Page{
		Name: "admissions",
		Path: "/admissions",
		Site: mustSite(t),
		Form: &form,
	})
	if err != nil {
		t.Fatalf("render page: %v", err)
	}
	assertContains(t, string(out),
		`<title>Admissions | `,
		`href="/admissions" class="nav__link nav__link--active"`,
		`data-form="admissions"`,
		`<option value="/admissions" selected>`,
	)
}

func TestRenderPage_DarkVariant(t *testing.T) {
	themeCfg, err := theming.Default().RendererConfig(theming.DefaultTheme, "dark")
	if err != nil {
		t.Fatalf("theme: %v", err)
	}
	renderer := newRenderer(t, htmlrenderer.WithTheme(themeCfg))

	out, err := renderer.RenderPage(context.Background(), htmlrenderer.Page{
		Name: "about",
		Path: "/about",
		Site: mustSite(t),
	})
	if err != nil {
		t.Fatalf("render page: %v", err)
	}
	assertContains(t, string(out), `data-variant="dark"`, `--primary: #60a5fa;`)
}

func TestRenderPage_UnknownPage(t *testing.T) {
	renderer := newRenderer(t)
	_, err := renderer.RenderPage(context.Background(), htmlrenderer.Page{Name: "missing", Site: mustSite(t)})
	if !errors.Is(err, htmlrenderer.ErrPageNotFound) {
		t.Fatalf("expected ErrPageNotFound, got %v", err)
	}
}

func TestNew_TemplateOverride(t *testing.T) {
	base := htmlrenderer.TemplatesFS()
	files := fstest.MapFS{}
	err := fs.WalkDir(base, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, readErr := fs.ReadFile(base, path)
		if readErr != nil {
			return readErr
		}
		files[path] = &fstest.MapFile{Data: data}
		return nil
	})
	if err != nil {
		t.Fatalf("copy templates: %v", err)
	}
	files["partials/notice.html"] = &fstest.MapFile{Data: []byte(`<aside class="custom">{{ notice.title }}</aside>`)}

	renderer := newRenderer(t, htmlrenderer.WithTemplatesFS(files))
	form := mustForm(t, "careers")
	out, err := renderer.Render(context.Background(), form, render.RenderOptions{Notice: &form.Success})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	assertContains(t, string(out), `<aside class="custom">Application Submitted!</aside>`)
}

func TestAssetsFS(t *testing.T) {
	for _, name := range []string{htmlrenderer.StylesheetName, htmlrenderer.LiveScriptName, htmlrenderer.LogoName} {
		if _, err := fs.Stat(htmlrenderer.AssetsFS(), name); err != nil {
			t.Errorf("asset %s: %v", name, err)
		}
	}
}
