package forms_test

import (
	"errors"
	"io/fs"
	"os"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-schoolsite/pkg/forms"
	"github.com/goliatone/go-schoolsite/pkg/model"
	"github.com/goliatone/go-schoolsite/pkg/validation"
)

func TestDefault_LoadsEmbeddedForms(t *testing.T) {
	store := forms.Default()
	if diff := cmp.Diff([]string{"admissions", "careers"}, store.IDs()); diff != "" {
		t.Fatalf("form ids mismatch (-want +got):\n%s", diff)
	}

	admissions, err := store.Form("admissions")
	if err != nil {
		t.Fatalf("admissions: %v", err)
	}
	wantFields := []string{
		"firstName", "lastName", "email", "phone", "studentBirthday",
		"gender", "classForAdmission", "parentName", "address",
	}
	if diff := cmp.Diff(wantFields, admissions.FieldNames()); diff != "" {
		t.Fatalf("admissions fields mismatch (-want +got):\n%s", diff)
	}
	if admissions.Endpoint != "/admissions" || admissions.Method != "POST" {
		t.Fatalf("unexpected endpoint %s %s", admissions.Method, admissions.Endpoint)
	}
	wantNotice := model.Notice{
		Title:   "Application Submitted!",
		Message: "We will contact you soon regarding the admission process.",
	}
	if diff := cmp.Diff(wantNotice, admissions.Success); diff != "" {
		t.Fatalf("notice mismatch (-want +got):\n%s", diff)
	}

	class, ok := admissions.Field("classForAdmission")
	if !ok {
		t.Fatalf("classForAdmission missing")
	}
	if got := len(class.Options); got != 13 {
		t.Fatalf("expected 13 class options, got %d", got)
	}
	if class.Validations[1].Params["values"] != "nursery,lkg,ukg,1,2,3,4,5,6,7,8,9,10" {
		t.Fatalf("oneOf values not derived from options: %#v", class.Validations[1].Params)
	}

	parent, _ := admissions.Field("parentName")
	if parent.Label != "Mother/Father Name" {
		t.Fatalf("parent label = %q", parent.Label)
	}
	if parent.Validations[1].Params["pattern"] != `^[A-Za-z\s'\-]+$` {
		t.Fatalf("pattern mangled by YAML: %q", parent.Validations[1].Params["pattern"])
	}
}

func TestDefault_CareersResumeHints(t *testing.T) {
	careers, err := forms.Default().Form("careers")
	if err != nil {
		t.Fatalf("careers: %v", err)
	}
	resume, ok := careers.Field("resume")
	if !ok {
		t.Fatalf("resume missing")
	}
	if resume.Kind != model.FieldKindFile || !resume.Required {
		t.Fatalf("unexpected resume field: %#v", resume)
	}
	if resume.Metadata["accept"] != ".pdf,.doc,.docx" {
		t.Fatalf("accept hint = %q", resume.Metadata["accept"])
	}
	if careers.Metadata["enctype"] != "multipart/form-data" {
		t.Fatalf("careers form must post multipart: %#v", careers.Metadata)
	}
	position, _ := careers.Field("position")
	if position.Label != "Post Applied For" {
		t.Fatalf("position label = %q", position.Label)
	}
}

func TestStore_FormNotFound(t *testing.T) {
	_, err := forms.Default().Form("library")
	if !errors.Is(err, forms.ErrFormNotFound) {
		t.Fatalf("expected ErrFormNotFound, got %v", err)
	}
	_, err = forms.Default().Validator("library")
	if !errors.Is(err, forms.ErrFormNotFound) {
		t.Fatalf("expected ErrFormNotFound from Validator, got %v", err)
	}
}

func TestLoadFS_JSONDefinition(t *testing.T) {
	store, err := forms.LoadFS(subDirFS(t, "extra"), forms.WithBuilder(model.NewBuilder(model.WithEndpointPrefix("/forms"))))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	form, err := store.Form("newsletter")
	if err != nil {
		t.Fatalf("newsletter: %v", err)
	}
	if form.Endpoint != "/forms/newsletter" || form.Title != "Newsletter" {
		t.Fatalf("defaults not applied: %s %q", form.Endpoint, form.Title)
	}
	grade, _ := form.Field("grade10")
	if grade.Label != "Grade 10" || grade.Required {
		t.Fatalf("unexpected grade field: %#v", grade)
	}

	validator, err := store.Validator("newsletter")
	if err != nil {
		t.Fatalf("validator: %v", err)
	}
	values := validation.Values{}
	values.Set("email", "news@school.org")
	if result := validator.Validate(values); !result.Valid {
		t.Fatalf("expected valid, got %#v", result.Errors)
	}
	values.Set("grade10", "maybe")
	if got := validator.Validate(values).Error("grade10"); got != "Pick yes or no" {
		t.Fatalf("grade10 message = %q", got)
	}
}

func TestLoadFS_Errors(t *testing.T) {
	if _, err := forms.LoadFS(subDirFS(t, "unknown_rule")); !errors.Is(err, validation.ErrUnknownRule) {
		t.Fatalf("expected ErrUnknownRule, got %v", err)
	}
	if _, err := forms.LoadFS(subDirFS(t, "duplicate")); err == nil {
		t.Fatalf("expected duplicate form error")
	}

	empty := fstest.MapFS{"blank.yaml": &fstest.MapFile{Data: []byte("  \n")}}
	if _, err := forms.LoadFS(empty); err == nil {
		t.Fatalf("expected empty file error")
	}
}

func TestLoadFS_NilFilesystem(t *testing.T) {
	store, err := forms.LoadFS(nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !store.Empty() {
		t.Fatalf("expected empty store")
	}
}

func subDirFS(t *testing.T, name string) fs.FS {
	t.Helper()

	sub, err := fs.Sub(os.DirFS("testdata"), name)
	if err != nil {
		t.Fatalf("sub fs: %v", err)
	}
	return sub
}
