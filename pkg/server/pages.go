package server

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/goliatone/go-schoolsite/pkg/apidoc"
	"github.com/goliatone/go-schoolsite/pkg/model"
	"github.com/goliatone/go-schoolsite/pkg/render"
	htmlrenderer "github.com/goliatone/go-schoolsite/pkg/renderers/html"
	"github.com/goliatone/go-schoolsite/pkg/validation"
)

const (
	homePage        = "home"
	maxFieldBytes   = 64 << 10
	contentTypeHTML = "text/html; charset=utf-8"
)

func pageName(r *http.Request) string {
	name := chi.URLParam(r, "page")
	if name == "" {
		return homePage
	}
	return name
}

func pagePath(name string) string {
	if name == homePage {
		return "/"
	}
	return "/" + name
}

func liveEndpoint(formID string) string {
	return strings.Replace(apidoc.LivePath, "{form}", formID, 1)
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	name := pageName(r)
	page := htmlrenderer.Page{Name: name, Path: pagePath(name)}
	if formID, ok := s.endpoints[page.Path]; ok {
		form, err := s.forms.Form(formID)
		if err != nil {
			s.pageError(w, r, err)
			return
		}
		page.Form = &form
	}
	s.renderPage(w, r, http.StatusOK, page)
}

// handleSubmit accepts urlencoded and multipart posts. Uploaded file bytes
// are read and discarded; only the file names reach validation.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	name := pageName(r)
	formID, ok := s.endpoints[pagePath(name)]
	if !ok {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}
	form, err := s.forms.Form(formID)
	if err != nil {
		s.pageError(w, r, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	values, err := readSubmission(r)
	if err != nil {
		s.pageError(w, r, err)
		return
	}

	outcome, err := s.processor.Submit(r.Context(), formID, values)
	if err != nil {
		s.pageError(w, r, err)
		return
	}

	page := htmlrenderer.Page{Name: name, Path: pagePath(name), Form: &form}
	status := http.StatusOK
	if outcome.Accepted {
		page.FormOptions.Notice = outcome.Notice
	} else {
		status = http.StatusUnprocessableEntity
		page.FormOptions.Values = outcome.Values.Raw()
		page.FormOptions.Files = outcome.Values.FileNames()
		page.FormOptions.Errors = outcome.Result.Messages()
	}
	s.renderPage(w, r, status, page)
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, status int, page htmlrenderer.Page) {
	page.Site = s.content.Site()
	page.Theme = s.theme
	page.Now = s.now()
	if page.Form != nil {
		page.FormOptions.LiveEndpoint = liveEndpoint(page.Form.ID)
	}

	out, err := s.renderer.RenderPage(r.Context(), page)
	if err != nil {
		s.pageError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentTypeHTML)
	w.WriteHeader(status)
	_, _ = w.Write(out)
}

func (s *Server) pageError(w http.ResponseWriter, r *http.Request, err error) {
	code := statusOf(err)
	if code >= http.StatusInternalServerError {
		s.logger.Error("page request failed",
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
	http.Error(w, http.StatusText(code), code)
}

// readSubmission decodes a form post into Values.
func readSubmission(r *http.Request) (validation.Values, error) {
	mediaType, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return nil, badRequest(fmt.Errorf("content type: %w", err))
	}
	switch mediaType {
	case "multipart/form-data":
		boundary := params["boundary"]
		if boundary == "" {
			return nil, badRequest(errors.New("multipart body without boundary"))
		}
		return readMultipart(multipart.NewReader(r.Body, boundary))
	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return nil, classifyBodyError(err)
		}
		values := validation.FromURLValues(r.PostForm)
		for name := range values {
			if render.IsHiddenName(name) {
				delete(values, name)
			}
		}
		return values, nil
	default:
		return nil, StatusError{
			Code: http.StatusUnsupportedMediaType,
			Err:  fmt.Errorf("unsupported content type %q", mediaType),
		}
	}
}

func readMultipart(reader *multipart.Reader) (validation.Values, error) {
	values := make(validation.Values)
	for {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			return values, nil
		}
		if err != nil {
			return nil, classifyBodyError(err)
		}
		name := part.FormName()
		if name == "" || render.IsHiddenName(name) {
			if _, err := io.Copy(io.Discard, part); err != nil {
				return nil, classifyBodyError(err)
			}
			continue
		}

		if filename := part.FileName(); filename != "" {
			if _, err := io.Copy(io.Discard, part); err != nil {
				return nil, classifyBodyError(err)
			}
			values.Attach(name, path.Base(strings.ReplaceAll(filename, "\\", "/")))
			continue
		}

		raw, err := io.ReadAll(io.LimitReader(part, maxFieldBytes+1))
		if err != nil {
			return nil, classifyBodyError(err)
		}
		if len(raw) > maxFieldBytes {
			return nil, StatusError{Code: http.StatusRequestEntityTooLarge, Err: fmt.Errorf("field %q too large", name)}
		}
		if _, exists := values[name]; !exists {
			values.Set(name, string(raw))
		}
	}
}

func classifyBodyError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return StatusError{Code: http.StatusRequestEntityTooLarge, Err: err}
	}
	return badRequest(fmt.Errorf("read body: %w", err))
}

// formFor resolves the {form} URL parameter.
func (s *Server) formFor(r *http.Request) (model.FormModel, *validation.Validator, error) {
	id := chi.URLParam(r, "form")
	form, err := s.forms.Form(id)
	if err != nil {
		return model.FormModel{}, nil, err
	}
	validator, err := s.forms.Validator(id)
	if err != nil {
		return model.FormModel{}, nil, err
	}
	return form, validator, nil
}
