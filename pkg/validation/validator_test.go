package validation_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-schoolsite/pkg/forms"
	"github.com/goliatone/go-schoolsite/pkg/model"
	"github.com/goliatone/go-schoolsite/pkg/validation"
)

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func admissionsValues() validation.Values {
	return validation.FromMaps(map[string]string{
		"firstName":         "Asha",
		"lastName":          "Rao",
		"email":             "asha.rao@example.com",
		"phone":             "+91 98765 43210",
		"studentBirthday":   "2015-06-01",
		"gender":            "female",
		"classForAdmission": "3",
		"parentName":        "Meera Rao",
		"address":           "12 MG Road, Bengaluru",
	}, nil)
}

func careersValues() validation.Values {
	return validation.FromMaps(map[string]string{
		"firstName": "John",
		"lastName":  "Doe",
		"email":     "john@x.com",
		"phone":     "(555) 123-4567",
		"position":  "Math Teacher",
	}, map[string][]string{"resume": {"cv.pdf"}})
}

func compileForm(t *testing.T, id string) *validation.Validator {
	t.Helper()

	form, err := forms.Default().Form(id)
	if err != nil {
		t.Fatalf("load form %s: %v", id, err)
	}
	validator, err := validation.Compile(form, validation.WithClock(func() time.Time { return fixedNow }))
	if err != nil {
		t.Fatalf("compile %s: %v", id, err)
	}
	return validator
}

func TestValidate_AdmissionsAcceptsCanonicalExample(t *testing.T) {
	result := compileForm(t, "admissions").Validate(admissionsValues())
	if !result.Valid {
		t.Fatalf("expected valid result, got errors %#v", result.Errors)
	}
	if len(result.Errors) != 0 {
		t.Fatalf("valid result must not carry errors: %#v", result.Errors)
	}
}

func TestValidate_AdmissionsFieldMessages(t *testing.T) {
	validator := compileForm(t, "admissions")

	cases := []struct {
		name    string
		field   string
		value   string
		message string
	}{
		{"first name too short", "firstName", "A", "First name must be at least 2 characters"},
		{"first name with space", "firstName", "Asha R", "First name must not contain spaces or numbers"},
		{"first name with digit", "firstName", "Asha2", "First name must not contain spaces or numbers"},
		{"last name empty", "lastName", "", "Last name must be at least 2 characters"},
		{"email with space", "email", "bad email", "Please enter a valid email address"},
		{"email without tld", "email", "asha@example", "Please enter a valid email address"},
		{"phone empty", "phone", "", "Phone number is required"},
		{"phone too few digits", "phone", "123", "Phone must contain 10 to 15 digits (you can include spaces or punctuation)"},
		{"phone too many digits", "phone", "1234567890123456", "Phone must contain 10 to 15 digits (you can include spaces or punctuation)"},
		{"birthday empty", "studentBirthday", "", "Birthday is required"},
		{"birthday garbage", "studentBirthday", "not-a-date", "Please enter a valid birth date in the past"},
		{"birthday in future", "studentBirthday", "2024-06-02", "Please enter a valid birth date in the past"},
		{"gender empty", "gender", "", "Please select a gender"},
		{"gender unknown", "gender", "robot", "Please select a gender"},
		{"class empty", "classForAdmission", "", "Please select a class for admission"},
		{"class out of range", "classForAdmission", "11", "Please select a class for admission"},
		{"parent name too short", "parentName", "M", "Parent name must be at least 2 characters"},
		{"parent name with digits", "parentName", "Meera 2", "Parent name contains invalid characters"},
		{"address too short", "address", "Main St", "Address must be at least 10 characters"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			values := admissionsValues()
			values.Set(tc.field, tc.value)

			result := validator.Validate(values)
			if result.Valid {
				t.Fatalf("expected %s=%q to be rejected", tc.field, tc.value)
			}
			want := map[string]string{tc.field: tc.message}
			if diff := cmp.Diff(want, result.Errors); diff != "" {
				t.Fatalf("errors mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestValidate_AdmissionsAcceptsEdgeValues(t *testing.T) {
	validator := compileForm(t, "admissions")

	cases := map[string]string{
		"firstName":       "O'Neil-Smith",
		"phone":           "(555) 123-4567",
		"studentBirthday": "2024-06-01",
		"parentName":      "Anne-Marie O'Brien",
		"email":           "first+tag@mail.school.edu",
	}
	for field, value := range cases {
		values := admissionsValues()
		values.Set(field, value)
		if msg, ok := validator.ValidateField(field, values); !ok {
			t.Fatalf("%s=%q rejected: %s", field, value, msg)
		}
	}
}

func TestValidate_EmptyAdmissionsReportsEveryField(t *testing.T) {
	result := compileForm(t, "admissions").Validate(nil)
	if result.Valid {
		t.Fatalf("expected empty submission to be rejected")
	}
	want := []string{
		"address", "classForAdmission", "email", "firstName", "gender",
		"lastName", "parentName", "phone", "studentBirthday",
	}
	if diff := cmp.Diff(want, result.Fields()); diff != "" {
		t.Fatalf("invalid fields mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate_CareersRequiresResume(t *testing.T) {
	validator := compileForm(t, "careers")

	values := careersValues()
	if result := validator.Validate(values); !result.Valid {
		t.Fatalf("expected valid careers submission, got %#v", result.Errors)
	}

	delete(values, "resume")
	result := validator.Validate(values)
	want := map[string]string{"resume": "Resume is required"}
	if diff := cmp.Diff(want, result.Errors); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate_CareersPhoneCountsCharacters(t *testing.T) {
	validator := compileForm(t, "careers")

	values := careersValues()
	values.Set("phone", "555-12345")
	msg, ok := validator.ValidateField("phone", values)
	if ok || msg != "Phone number must be at least 10 digits" {
		t.Fatalf("unexpected phone result: ok=%v msg=%q", ok, msg)
	}

	values.Set("phone", "555-123456")
	if msg, ok := validator.ValidateField("phone", values); !ok {
		t.Fatalf("ten characters should pass, got %q", msg)
	}
}

func TestValidate_CareersEmailMessage(t *testing.T) {
	values := careersValues()
	values.Set("email", "bad email")
	result := compileForm(t, "careers").Validate(values)
	if got := result.Error("email"); got != "Invalid email address" {
		t.Fatalf("email message = %q", got)
	}
}

func TestValidateField_UnknownFieldIsValid(t *testing.T) {
	msg, ok := compileForm(t, "admissions").ValidateField("nickname", nil)
	if !ok || msg != "" {
		t.Fatalf("unknown field should be ignored, got ok=%v msg=%q", ok, msg)
	}
}

func TestValidate_IsDeterministic(t *testing.T) {
	validator := compileForm(t, "admissions")
	values := admissionsValues()
	values.Set("email", "bad email")
	values.Set("phone", "123")

	first := validator.Validate(values)
	for i := 0; i < 5; i++ {
		if diff := cmp.Diff(first, validator.Validate(values)); diff != "" {
			t.Fatalf("result changed between passes (-first +again):\n%s", diff)
		}
	}
}

func TestValidate_Convenience(t *testing.T) {
	form, err := forms.Default().Form("careers")
	if err != nil {
		t.Fatalf("form: %v", err)
	}
	result, err := validation.Validate(form, careersValues())
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !result.Valid {
		t.Fatalf("expected valid, got %#v", result.Errors)
	}
}

func TestValidate_OptionalFieldSkipsRulesWhenEmpty(t *testing.T) {
	form := model.FormModel{
		ID: "newsletter",
		Fields: []model.Field{{
			Name: "nickname",
			Kind: model.FieldKindText,
			Validations: []model.ValidationRule{{
				Kind:    model.ValidationRuleMinLength,
				Params:  map[string]string{"value": "3"},
				Message: "Nickname is too short",
			}},
		}},
	}
	validator, err := validation.Compile(form)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if result := validator.Validate(nil); !result.Valid {
		t.Fatalf("empty optional field should pass: %#v", result.Errors)
	}
	values := validation.Values{}
	values.Set("nickname", "ab")
	if got := validator.Validate(values).Error("nickname"); got != "Nickname is too short" {
		t.Fatalf("message = %q", got)
	}
}

func TestCompile_UnknownRule(t *testing.T) {
	form := model.FormModel{
		ID: "broken",
		Fields: []model.Field{{
			Name:        "name",
			Kind:        model.FieldKindText,
			Required:    true,
			Validations: []model.ValidationRule{{Kind: "palindrome", Message: "nope"}},
		}},
	}
	_, err := validation.Compile(form)
	if !errors.Is(err, validation.ErrUnknownRule) {
		t.Fatalf("expected ErrUnknownRule, got %v", err)
	}
}

func TestCompile_RejectsBadParams(t *testing.T) {
	cases := map[string]model.ValidationRule{
		"bad pattern":      {Kind: model.ValidationRulePattern, Params: map[string]string{"pattern": "[a-"}, Message: "x"},
		"missing pattern":  {Kind: model.ValidationRulePattern, Message: "x"},
		"missing length":   {Kind: model.ValidationRuleMinLength, Message: "x"},
		"negative length":  {Kind: model.ValidationRuleMaxLength, Params: map[string]string{"value": "-1"}, Message: "x"},
		"inverted range":   {Kind: model.ValidationRuleDigitCount, Params: map[string]string{"min": "9", "max": "3"}, Message: "x"},
		"oneOf no options": {Kind: model.ValidationRuleOneOf, Message: "x"},
	}
	for name, rule := range cases {
		t.Run(name, func(t *testing.T) {
			form := model.FormModel{ID: "broken", Fields: []model.Field{{
				Name: "value", Kind: model.FieldKindText, Required: true,
				Validations: []model.ValidationRule{rule},
			}}}
			if _, err := validation.Compile(form); err == nil {
				t.Fatalf("expected compile error")
			}
		})
	}
}

func TestCompile_CustomRegistry(t *testing.T) {
	registry := validation.DefaultRegistry()
	registry.MustRegister("uppercase", func(validation.RuleContext) (validation.Predicate, error) {
		return func(v validation.FieldValue) bool {
			return v.Raw != "" && v.Raw[0] >= 'A' && v.Raw[0] <= 'Z'
		}, nil
	})
	if err := registry.Register("uppercase", nil); err == nil {
		t.Fatalf("expected error for nil compiler")
	}

	form := model.FormModel{ID: "custom", Fields: []model.Field{{
		Name: "code", Kind: model.FieldKindText, Required: true,
		Validations: []model.ValidationRule{{Kind: "uppercase", Message: "Code must start with a capital"}},
	}}}
	validator, err := validation.Compile(form, validation.WithRegistry(registry))
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	values := validation.Values{}
	values.Set("code", "abc")
	if msg, ok := validator.ValidateField("code", values); ok || msg != "Code must start with a capital" {
		t.Fatalf("unexpected result ok=%v msg=%q", ok, msg)
	}
}
