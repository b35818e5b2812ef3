// Package apidoc describes the form API as an OpenAPI 3 document derived from
// the loaded form models, so the published contract always matches the rules
// the server enforces.
package apidoc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"unicode"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-schoolsite/pkg/model"
)

// Paths of the JSON form API.
const (
	FormsPath    = "/api/forms"
	FormPath     = FormsPath + "/{form}"
	ValidatePath = FormPath + "/validate"
	LivePath     = FormPath + "/live"
)

// Shared component schema names.
const (
	SchemaValidationRequest = "ValidationRequest"
	SchemaValidationResult  = "ValidationResult"
	SchemaFormModel         = "FormModel"
	SchemaProblem           = "Problem"
)

const (
	mimeJSON      = "application/json"
	mimeHTML      = "text/html"
	mimeURLForm   = "application/x-www-form-urlencoded"
	mimeMultipart = "multipart/form-data"
)

type Option func(*config)

type config struct {
	title       string
	version     string
	description string
	servers     []string
}

// WithInfo overrides the document title and version.
func WithInfo(title, version string) Option {
	return func(c *config) {
		if title != "" {
			c.title = title
		}
		if version != "" {
			c.version = version
		}
	}
}

// WithDescription sets the info description.
func WithDescription(description string) Option {
	return func(c *config) {
		c.description = description
	}
}

// WithServer adds a server URL.
func WithServer(url string) Option {
	return func(c *config) {
		if url = strings.TrimSpace(url); url != "" {
			c.servers = append(c.servers, url)
		}
	}
}

// Build assembles the document for forms. The result is validated before it
// is returned.
func Build(ctx context.Context, forms []model.FormModel, opts ...Option) (*openapi3.T, error) {
	cfg := config{title: "Endeavour forms API", version: "1.0.0"}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if len(forms) == 0 {
		return nil, fmt.Errorf("apidoc: no forms to describe")
	}

	ids := make([]any, 0, len(forms))
	for _, form := range forms {
		ids = append(ids, form.ID)
	}

	components := openapi3.NewComponents()
	components.Schemas = openapi3.Schemas{
		SchemaValidationRequest: openapi3.NewSchemaRef("", validationRequestSchema()),
		SchemaValidationResult:  openapi3.NewSchemaRef("", validationResultSchema()),
		SchemaFormModel:         openapi3.NewSchemaRef("", formModelSchema()),
		SchemaProblem:           openapi3.NewSchemaRef("", problemSchema()),
	}

	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       cfg.title,
			Version:     cfg.version,
			Description: cfg.description,
		},
		Components: &components,
		Paths:      openapi3.NewPaths(),
	}
	ref := func(name string) *openapi3.SchemaRef {
		return openapi3.NewSchemaRef("#/components/schemas/"+name, components.Schemas[name].Value)
	}
	for _, server := range cfg.servers {
		doc.Servers = append(doc.Servers, &openapi3.Server{URL: server})
	}

	formParam := &openapi3.ParameterRef{Value: openapi3.NewPathParameter("form").
		WithDescription("Form identifier").
		WithSchema(openapi3.NewStringSchema().WithEnum(ids...))}

	listOp := openapi3.NewOperation()
	listOp.OperationID = "listForms"
	listOp.Summary = "List form identifiers"
	listOp.Tags = []string{"forms"}
	listOp.Responses = openapi3.NewResponses(
		openapi3.WithStatus(http.StatusOK, jsonResponse("Form identifiers",
			openapi3.NewArraySchema().WithItems(openapi3.NewStringSchema()))),
	)
	doc.AddOperation(FormsPath, http.MethodGet, listOp)

	getOp := openapi3.NewOperation()
	getOp.OperationID = "getForm"
	getOp.Summary = "Describe a form and its rules"
	getOp.Tags = []string{"forms"}
	getOp.Parameters = openapi3.Parameters{formParam}
	getOp.Responses = openapi3.NewResponses(
		openapi3.WithStatus(http.StatusOK, jsonRefResponse("Form model", ref(SchemaFormModel))),
		openapi3.WithStatus(http.StatusNotFound, jsonRefResponse("Unknown form", ref(SchemaProblem))),
	)
	doc.AddOperation(FormPath, http.MethodGet, getOp)

	validateOp := openapi3.NewOperation()
	validateOp.OperationID = "validateForm"
	validateOp.Summary = "Validate values without submitting"
	validateOp.Description = "Runs every rule of the form, or only the field named by the field query parameter."
	validateOp.Tags = []string{"forms"}
	validateOp.Parameters = openapi3.Parameters{
		formParam,
		{Value: openapi3.NewQueryParameter("field").
			WithDescription("Restrict the result to one field").
			WithSchema(openapi3.NewStringSchema())},
	}
	validateOp.RequestBody = &openapi3.RequestBodyRef{Value: openapi3.NewRequestBody().
		WithRequired(true).
		WithJSONSchemaRef(ref(SchemaValidationRequest))}
	validateOp.Responses = openapi3.NewResponses(
		openapi3.WithStatus(http.StatusOK, jsonRefResponse("Validation result", ref(SchemaValidationResult))),
		openapi3.WithStatus(http.StatusBadRequest, jsonRefResponse("Malformed body", ref(SchemaProblem))),
		openapi3.WithStatus(http.StatusNotFound, jsonRefResponse("Unknown form", ref(SchemaProblem))),
	)
	doc.AddOperation(ValidatePath, http.MethodPost, validateOp)

	liveOp := openapi3.NewOperation()
	liveOp.OperationID = "liveValidation"
	liveOp.Summary = "Websocket channel for per-field revalidation"
	liveOp.Description = "Each text message is a ValidationRequest with a field member and is answered with the field's current message."
	liveOp.Tags = []string{"forms"}
	liveOp.Parameters = openapi3.Parameters{formParam}
	liveOp.Responses = openapi3.NewResponses(
		openapi3.WithStatus(http.StatusSwitchingProtocols, &openapi3.ResponseRef{Value: openapi3.NewResponse().WithDescription("Upgraded to websocket")}),
		openapi3.WithStatus(http.StatusNotFound, jsonRefResponse("Unknown form", ref(SchemaProblem))),
	)
	doc.AddOperation(LivePath, http.MethodGet, liveOp)

	for _, form := range forms {
		name := ValuesSchemaName(form.ID)
		components.Schemas[name] = openapi3.NewSchemaRef("", ValuesSchema(form))
		if form.Endpoint == "" {
			continue
		}
		doc.AddOperation(form.Endpoint, http.MethodPost, submitOperation(form, name, ref(name)))
	}

	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("apidoc: validate document: %w", err)
	}
	return doc, nil
}

// JSON renders the validated document as indented JSON.
func JSON(ctx context.Context, forms []model.FormModel, opts ...Option) ([]byte, error) {
	doc, err := Build(ctx, forms, opts...)
	if err != nil {
		return nil, err
	}
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("apidoc: marshal document: %w", err)
	}
	return out, nil
}

// ValuesSchemaName returns the component name of a form's values schema,
// e.g. "admissions" becomes "AdmissionsValues".
func ValuesSchemaName(formID string) string {
	var b strings.Builder
	upper := true
	for _, r := range formID {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			upper = true
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		b.WriteRune(r)
	}
	b.WriteString("Values")
	return b.String()
}

// ValuesSchema describes the submitted values of form as an object schema.
func ValuesSchema(form model.FormModel) *openapi3.Schema {
	schema := openapi3.NewObjectSchema()
	schema.Title = form.Title
	schema.Description = form.Summary
	var required []string
	for _, field := range form.Fields {
		schema.WithProperty(field.Name, FieldSchema(field))
		if field.Required {
			required = append(required, field.Name)
		}
	}
	if len(required) > 0 {
		schema.Required = required
	}
	return schema
}

// FieldSchema maps a field and its rules onto JSON Schema keywords. Rules
// without a keyword equivalent are listed under x-rules with their message.
func FieldSchema(field model.Field) *openapi3.Schema {
	schema := openapi3.NewStringSchema()
	schema.Title = field.Label
	schema.Description = field.Description

	switch field.Kind {
	case model.FieldKindEmail:
		schema.Format = "email"
	case model.FieldKindDate:
		schema.Format = "date"
	case model.FieldKindFile:
		schema.Format = "binary"
	}

	var rules []map[string]string
	for _, rule := range field.Validations {
		entry := map[string]string{"kind": rule.Kind, "message": rule.Message}
		for key, value := range rule.Params {
			entry[key] = value
		}
		rules = append(rules, entry)

		switch rule.Kind {
		case model.ValidationRuleMinLength:
			if n, ok := intParam(rule, "value"); ok {
				schema.WithMinLength(n)
			}
		case model.ValidationRuleMaxLength:
			if n, ok := intParam(rule, "value"); ok {
				schema.WithMaxLength(n)
			}
		case model.ValidationRulePattern:
			if pattern := rule.Params["pattern"]; pattern != "" && schema.Pattern == "" {
				schema.WithPattern(pattern)
			}
		case model.ValidationRuleEmail:
			schema.Format = "email"
		case model.ValidationRulePastDate:
			schema.Format = "date"
		case model.ValidationRuleOneOf:
			values := splitValues(rule.Params["values"])
			if len(values) == 0 {
				values = field.OptionValues()
			}
			enum := make([]any, 0, len(values))
			for _, value := range values {
				enum = append(enum, value)
			}
			if len(enum) > 0 {
				schema.WithEnum(enum...)
			}
		}
	}
	if len(rules) > 0 {
		schema.Extensions = map[string]any{"x-rules": rules}
	}
	return schema
}

func submitOperation(form model.FormModel, valuesSchema string, values *openapi3.SchemaRef) *openapi3.Operation {
	op := openapi3.NewOperation()
	op.OperationID = "submit" + strings.TrimSuffix(valuesSchema, "Values")
	op.Summary = "Submit the " + form.ID + " form"
	op.Description = form.Summary
	op.Tags = []string{"pages"}

	mime := mimeURLForm
	if form.Metadata["enctype"] == mimeMultipart {
		mime = mimeMultipart
	}
	op.RequestBody = &openapi3.RequestBodyRef{Value: openapi3.NewRequestBody().
		WithRequired(true).
		WithSchemaRef(values, []string{mime})}

	html := openapi3.NewContentWithSchema(openapi3.NewStringSchema(), []string{mimeHTML})
	op.Responses = openapi3.NewResponses(
		openapi3.WithStatus(http.StatusOK, &openapi3.ResponseRef{Value: openapi3.NewResponse().
			WithDescription(noticeDescription(form)).
			WithContent(html)}),
		openapi3.WithStatus(http.StatusUnprocessableEntity, &openapi3.ResponseRef{Value: openapi3.NewResponse().
			WithDescription("Rejected; the page repeats the submitted values with inline messages").
			WithContent(html)}),
		openapi3.WithStatus(http.StatusBadRequest, &openapi3.ResponseRef{Value: openapi3.NewResponse().
			WithDescription("Malformed body")}),
	)
	return op
}

func noticeDescription(form model.FormModel) string {
	if form.Success.Title == "" {
		return "Accepted"
	}
	return "Accepted; the page shows \"" + form.Success.Title + "\" and a cleared form"
}

func validationRequestSchema() *openapi3.Schema {
	values := openapi3.NewObjectSchema().WithAdditionalProperties(openapi3.NewStringSchema())
	files := openapi3.NewObjectSchema().WithAdditionalProperties(
		openapi3.NewArraySchema().WithItems(openapi3.NewStringSchema()))
	return openapi3.NewObjectSchema().
		WithProperty("field", openapi3.NewStringSchema()).
		WithProperty("values", values).
		WithProperty("files", files)
}

func validationResultSchema() *openapi3.Schema {
	return openapi3.NewObjectSchema().
		WithProperty("valid", openapi3.NewBoolSchema()).
		WithProperty("errors", openapi3.NewObjectSchema().WithAdditionalProperties(openapi3.NewStringSchema())).
		WithRequired([]string{"valid"})
}

func formModelSchema() *openapi3.Schema {
	option := openapi3.NewObjectSchema().
		WithProperty("value", openapi3.NewStringSchema()).
		WithProperty("label", openapi3.NewStringSchema())
	rule := openapi3.NewObjectSchema().
		WithProperty("kind", openapi3.NewStringSchema()).
		WithProperty("params", openapi3.NewObjectSchema().WithAdditionalProperties(openapi3.NewStringSchema())).
		WithProperty("message", openapi3.NewStringSchema())
	field := openapi3.NewObjectSchema().
		WithProperty("name", openapi3.NewStringSchema()).
		WithProperty("kind", openapi3.NewStringSchema().WithEnum(
			string(model.FieldKindText), string(model.FieldKindEmail), string(model.FieldKindPhone),
			string(model.FieldKindDate), string(model.FieldKindSelect), string(model.FieldKindFile))).
		WithProperty("label", openapi3.NewStringSchema()).
		WithProperty("placeholder", openapi3.NewStringSchema()).
		WithProperty("required", openapi3.NewBoolSchema()).
		WithProperty("options", openapi3.NewArraySchema().WithItems(option)).
		WithProperty("validations", openapi3.NewArraySchema().WithItems(rule))
	notice := openapi3.NewObjectSchema().
		WithProperty("title", openapi3.NewStringSchema()).
		WithProperty("message", openapi3.NewStringSchema())
	return openapi3.NewObjectSchema().
		WithProperty("id", openapi3.NewStringSchema()).
		WithProperty("endpoint", openapi3.NewStringSchema()).
		WithProperty("method", openapi3.NewStringSchema()).
		WithProperty("title", openapi3.NewStringSchema()).
		WithProperty("success", notice).
		WithProperty("fields", openapi3.NewArraySchema().WithItems(field)).
		WithRequired([]string{"id", "fields"})
}

func problemSchema() *openapi3.Schema {
	return openapi3.NewObjectSchema().
		WithProperty("error", openapi3.NewStringSchema()).
		WithRequired([]string{"error"})
}

func jsonResponse(description string, schema *openapi3.Schema) *openapi3.ResponseRef {
	return &openapi3.ResponseRef{Value: openapi3.NewResponse().
		WithDescription(description).
		WithJSONSchema(schema)}
}

func jsonRefResponse(description string, schema *openapi3.SchemaRef) *openapi3.ResponseRef {
	return &openapi3.ResponseRef{Value: openapi3.NewResponse().
		WithDescription(description).
		WithJSONSchemaRef(schema)}
}

func intParam(rule model.ValidationRule, key string) (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(rule.Params[key]), 10, 64)
	return n, err == nil && n >= 0
}

func splitValues(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
