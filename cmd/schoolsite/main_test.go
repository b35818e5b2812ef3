package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-schoolsite/pkg/prompt"
)

const admissionsYAML = `firstName: Asha
lastName: Rao
email: asha.rao@example.com
phone: "+91 98765 43210"
studentBirthday: 2015-06-01
gender: female
classForAdmission: 3
parentName: Meera Rao
address: 12 MG Road, Bengaluru
`

func writeFile(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

// asExitErr is a type-assertion helper for *exitErr.
func asExitErr(t *testing.T, err error, code int) {
	t.Helper()
	var ee *exitErr
	if !errors.As(err, &ee) {
		t.Fatalf("expected exitErr, got %T: %v", err, err)
	}
	if ee.code != code {
		t.Fatalf("expected exit code %d, got %d (%s)", code, ee.code, ee.msg)
	}
}

func TestRunValidate_Valid(t *testing.T) {
	var out bytes.Buffer
	path := writeFile(t, "admissions.yaml", admissionsYAML)

	if err := runValidate(nil, &out, "", "admissions", path, validateFlags{}); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !strings.Contains(out.String(), "all 9 fields valid") {
		t.Fatalf("unexpected output:\n%s", out.String())
	}
}

func TestRunValidate_InvalidExitsTwo(t *testing.T) {
	var out bytes.Buffer
	data := strings.Replace(admissionsYAML, "asha.rao@example.com", "asha at example", 1)
	path := writeFile(t, "admissions.yaml", data)

	err := runValidate(nil, &out, "", "admissions", path, validateFlags{})
	asExitErr(t, err, exitInvalid)

	for _, want := range []string{"1 field invalid", "email", "Please enter a valid email address"} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestRunValidate_JSONFromStdin(t *testing.T) {
	var out bytes.Buffer
	stdin := strings.NewReader(`{"firstName": "J", "lastName": "Doe", "email": "john@x.com", "phone": "(555) 123-4567", "position": "Math Teacher", "resume": ["cv.pdf"]}`)

	err := runValidate(stdin, &out, "", "careers", "-", validateFlags{asJSON: true})
	asExitErr(t, err, exitInvalid)

	var got struct {
		Valid  bool              `json:"valid"`
		Errors map[string]string `json:"errors"`
	}
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v\n%s", err, out.String())
	}
	want := map[string]string{"firstName": "First name must be at least 2 characters"}
	if got.Valid || !cmp.Equal(want, got.Errors) {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestRunValidate_UsageErrors(t *testing.T) {
	path := writeFile(t, "values.yaml", admissionsYAML)

	err := runValidate(nil, &bytes.Buffer{}, "", "newsletter", path, validateFlags{})
	asExitErr(t, err, exitUsage)

	err = runValidate(nil, &bytes.Buffer{}, "", "admissions", filepath.Join(t.TempDir(), "missing.yaml"), validateFlags{})
	asExitErr(t, err, exitUsage)

	bad := writeFile(t, "bad.yaml", "address:\n  street: MG Road\n")
	err = runValidate(nil, &bytes.Buffer{}, "", "admissions", bad, validateFlags{})
	asExitErr(t, err, exitUsage)
}

func TestParseValues(t *testing.T) {
	values, err := parseValues([]byte("classForAdmission: 3\nresume:\n  - cv.pdf\n  - cover.docx\nnotes:\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := values.Get("classForAdmission").Raw; got != "3" {
		t.Fatalf("expected numeric value as text, got %q", got)
	}
	if diff := cmp.Diff([]string{"cv.pdf", "cover.docx"}, values.Get("resume").Files); diff != "" {
		t.Fatalf("files mismatch (-want +got):\n%s", diff)
	}
	if _, ok := values["notes"]; !ok {
		t.Fatal("expected empty notes entry")
	}
}

func TestParseValues_KeepsScalarsVerbatim(t *testing.T) {
	values, err := parseValues([]byte("studentBirthday: 2015-06-01\nstartsAt: 2015-06-01T09:30:00Z\nphone: 5551234567\nconsent: yes\nratio: 1.50\nnickname: null\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := map[string]string{
		"studentBirthday": "2015-06-01",
		"startsAt":        "2015-06-01T09:30:00Z",
		"phone":           "5551234567",
		"consent":         "yes",
		"ratio":           "1.50",
		"nickname":        "",
	}
	if diff := cmp.Diff(want, values.Raw()); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}

	if _, err := parseValues([]byte("resume:\n  - name: cv.pdf\n")); err == nil {
		t.Fatal("expected error for nested list items")
	}
}

func TestRunValidate_UnquotedDateIsValid(t *testing.T) {
	var out bytes.Buffer
	path := writeFile(t, "admissions.yaml", admissionsYAML)

	err := runValidate(nil, &out, "", "admissions", path, validateFlags{asJSON: true})
	if err != nil {
		t.Fatalf("validate: %v\n%s", err, out.String())
	}
	if strings.Contains(out.String(), "studentBirthday") {
		t.Fatalf("birthday should pass:\n%s", out.String())
	}
}

func TestWriteValues_ReadsBack(t *testing.T) {
	values, err := parseValues([]byte(admissionsYAML + "resume:\n  - cv.pdf\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	var buf bytes.Buffer
	if err := writeValues(&buf, values); err != nil {
		t.Fatalf("write: %v", err)
	}
	again, err := parseValues(buf.Bytes())
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if diff := cmp.Diff(values, again); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestRunForms(t *testing.T) {
	var out bytes.Buffer
	if err := runForms(&out, ""); err != nil {
		t.Fatalf("forms: %v", err)
	}
	for _, want := range []string{"admissions", "POST /admissions", "careers", "POST /careers", "resume"} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestRunOpenAPI(t *testing.T) {
	var out bytes.Buffer
	if err := runOpenAPI(context.Background(), &out, "", openAPIFlags{server: "https://endeavour.example"}); err != nil {
		t.Fatalf("openapi: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(out.Bytes(), &doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if doc["openapi"] != "3.0.3" {
		t.Fatalf("unexpected openapi version %v", doc["openapi"])
	}
	if !strings.Contains(out.String(), "https://endeavour.example") {
		t.Fatal("expected server url in document")
	}

	path := filepath.Join(t.TempDir(), "openapi.json")
	if err := runOpenAPI(context.Background(), &bytes.Buffer{}, "", openAPIFlags{out: path}); err != nil {
		t.Fatalf("openapi to file: %v", err)
	}
	if data, err := os.ReadFile(path); err != nil || !bytes.Contains(data, []byte(`"/api/forms"`)) {
		t.Fatalf("unexpected file contents: %v", err)
	}
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if got := out.String(); got != "schoolsite dev\n" {
		t.Fatalf("unexpected version output %q", got)
	}
}

func TestValidateCommand_ConfigError(t *testing.T) {
	cfgPath := writeFile(t, "schoolsite.yaml", "logging:\n  level: loud\n")
	values := writeFile(t, "values.yaml", admissionsYAML)

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"validate", "--config", cfgPath, "admissions", values})
	asExitErr(t, cmd.Execute(), exitUsage)
}

type scriptedDriver struct {
	inputs  []string
	confirm bool
	pos     int
}

func (d *scriptedDriver) Input(_ context.Context, _ prompt.InputConfig) (string, error) {
	if d.pos >= len(d.inputs) {
		return "", errors.New("no input scripted")
	}
	d.pos++
	return d.inputs[d.pos-1], nil
}

func (d *scriptedDriver) Select(context.Context, prompt.SelectConfig) (int, error) {
	return -1, errors.New("no select scripted")
}

func (d *scriptedDriver) Confirm(context.Context, prompt.ConfirmConfig) (bool, error) {
	return d.confirm, nil
}

func (d *scriptedDriver) Info(context.Context, string) error { return nil }

func careersInputs() []string {
	return []string{"John", "Doe", "john@x.com", "(555) 123-4567", "Math Teacher", "/tmp/cv.pdf"}
}

func TestRunApply_Submits(t *testing.T) {
	var out bytes.Buffer
	output := filepath.Join(t.TempDir(), "careers.yaml")
	driver := &scriptedDriver{inputs: careersInputs(), confirm: true}

	if err := runApply(context.Background(), nil, &out, "", "careers", applyFlags{output: output}, driver); err != nil {
		t.Fatalf("apply: %v", err)
	}
	for _, want := range []string{"Summary", "cv.pdf", "Reference ", "Application Submitted!", "Thank you for your interest."} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("output missing %q:\n%s", want, out.String())
		}
	}

	saved, err := readValues(output, nil)
	if err != nil {
		t.Fatalf("read saved values: %v", err)
	}
	if diff := cmp.Diff([]string{"cv.pdf"}, saved.Get("resume").Files); diff != "" {
		t.Fatalf("saved files mismatch (-want +got):\n%s", diff)
	}
}

func TestRunApply_Declined(t *testing.T) {
	var out bytes.Buffer
	driver := &scriptedDriver{inputs: careersInputs(), confirm: false}

	if err := runApply(context.Background(), nil, &out, "", "careers", applyFlags{}, driver); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !strings.Contains(out.String(), "Not submitted.") || strings.Contains(out.String(), "Application Submitted!") {
		t.Fatalf("unexpected output:\n%s", out.String())
	}
}

func TestRunApply_TooManyAttempts(t *testing.T) {
	driver := &scriptedDriver{inputs: []string{"J", "J", "J", "J", "J"}}
	err := runApply(context.Background(), nil, &bytes.Buffer{}, "", "careers", applyFlags{yes: true}, driver)
	asExitErr(t, err, exitInvalid)
}
