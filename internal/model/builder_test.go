package model

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBuilder_AppliesDefaults(t *testing.T) {
	builder := New(Options{})

	form, err := builder.Build(FormDefinition{
		ID: "admissions",
		Fields: []FieldDefinition{
			{Name: "firstName", Rules: []ValidationRule{{Kind: "minLength", Params: map[string]string{"value": "2"}, Message: "too short"}}},
			{Name: "gender", Kind: "Select", Options: []Option{{Value: "male", Label: "Male"}, {Value: "female"}}, Rules: []ValidationRule{{Kind: "oneOf", Message: "pick one"}}},
			{Name: "notes", Optional: true},
		},
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	if form.Endpoint != "/admissions" || form.Method != "POST" {
		t.Fatalf("unexpected endpoint/method: %s %s", form.Method, form.Endpoint)
	}
	if form.Title != "Admissions" || form.SubmitLabel != defaultSubmitLabel {
		t.Fatalf("unexpected title/submit label: %q %q", form.Title, form.SubmitLabel)
	}

	want := []Field{
		{
			Name:        "firstName",
			Kind:        FieldKindText,
			Label:       "First Name",
			Required:    true,
			Validations: []ValidationRule{{Kind: "minLength", Params: map[string]string{"value": "2"}, Message: "too short"}},
		},
		{
			Name:        "gender",
			Kind:        FieldKindSelect,
			Label:       "Gender",
			Required:    true,
			Options:     []Option{{Value: "male", Label: "Male"}, {Value: "female", Label: "female"}},
			Validations: []ValidationRule{{Kind: "oneOf", Params: map[string]string{"values": "male,female"}, Message: "pick one"}},
		},
		{
			Name:  "notes",
			Kind:  FieldKindText,
			Label: "Notes",
		},
	}
	if diff := cmp.Diff(want, form.Fields); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
}

func TestBuilder_EndpointPrefix(t *testing.T) {
	builder := New(Options{EndpointPrefix: "apply/"})
	form, err := builder.Build(FormDefinition{ID: "careers", Fields: []FieldDefinition{{Name: "position"}}})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if form.Endpoint != "/apply/careers" {
		t.Fatalf("expected /apply/careers, got %s", form.Endpoint)
	}
}

func TestBuilder_RejectsInvalidDefinitions(t *testing.T) {
	cases := map[string]struct {
		def  FormDefinition
		want string
	}{
		"missing id": {
			def:  FormDefinition{Fields: []FieldDefinition{{Name: "a"}}},
			want: "form id is required",
		},
		"no fields": {
			def:  FormDefinition{ID: "x"},
			want: "no fields",
		},
		"duplicate field": {
			def:  FormDefinition{ID: "x", Fields: []FieldDefinition{{Name: "a"}, {Name: "a"}}},
			want: "declares field \"a\" twice",
		},
		"unknown kind": {
			def:  FormDefinition{ID: "x", Fields: []FieldDefinition{{Name: "a", Kind: "colour"}}},
			want: "unknown kind",
		},
		"select without options": {
			def:  FormDefinition{ID: "x", Fields: []FieldDefinition{{Name: "a", Kind: "select"}}},
			want: "requires options",
		},
		"rule without message": {
			def:  FormDefinition{ID: "x", Fields: []FieldDefinition{{Name: "a", Rules: []ValidationRule{{Kind: "required"}}}}},
			want: "has no message",
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := New(Options{}).Build(tc.def)
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestDefaultLabeler(t *testing.T) {
	cases := map[string]string{
		"":                  "",
		"firstName":         "First Name",
		"classForAdmission": "Class For Admission",
		"student_birthday":  "Student Birthday",
		"parent-name":       "Parent Name",
		"grade10":           "Grade 10",
	}
	for input, want := range cases {
		if got := DefaultLabeler(input); got != want {
			t.Fatalf("DefaultLabeler(%q) = %q, want %q", input, got, want)
		}
	}
}
