package render_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/goliatone/go-schoolsite/pkg/model"
	"github.com/goliatone/go-schoolsite/pkg/render"
)

func TestMapErrorPayload(t *testing.T) {
	form := model.FormModel{
		Fields: []model.Field{
			{Name: "firstName", Kind: model.FieldKindText},
			{Name: "email", Kind: model.FieldKindEmail},
			{Name: "resume", Kind: model.FieldKindFile},
		},
	}

	payload := map[string][]string{
		"firstName":        {" First name must be at least 2 characters "},
		"/body/email":      {"Invalid email address"},
		"$.values.resume":  {"Resume is required", "Resume is required"},
		"non_field_errors": {"Try again later"},
		"nickname":         {"Unknown field"},
		"":                 {"   "},
	}

	mapped := render.MapErrorPayload(form, payload)

	wantFields := map[string][]string{
		"firstName": {"First name must be at least 2 characters"},
		"email":     {"Invalid email address"},
		"resume":    {"Resume is required"},
	}
	if diff := cmp.Diff(wantFields, mapped.Fields); diff != "" {
		t.Fatalf("field errors mismatch (-want +got):\n%s", diff)
	}

	wantForm := []string{"Try again later", "Unknown field"}
	if diff := cmp.Diff(wantForm, mapped.Form, cmpopts.SortSlices(func(a, b string) bool { return a < b })); diff != "" {
		t.Fatalf("form errors mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeFormErrors(t *testing.T) {
	merged := render.MergeFormErrors([]string{" First ", "Second"}, "Second", "third", "  ")
	want := []string{"First", "Second", "third"}
	if diff := cmp.Diff(want, merged); diff != "" {
		t.Fatalf("merged errors mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeAndSortHiddenFields(t *testing.T) {
	merged := render.MergeHiddenFields(
		map[string]string{" existing ": "keep", "": "ignored"},
		render.Hidden(render.FormIDField, "careers"),
		render.Hidden("attempt", 2),
		render.Hidden("  ", "skip"),
	)

	wantMerged := map[string]string{"existing": "keep", "_form": "careers", "attempt": "2"}
	if diff := cmp.Diff(wantMerged, merged); diff != "" {
		t.Fatalf("merged hidden fields mismatch (-want +got):\n%s", diff)
	}

	wantSorted := []render.HiddenField{
		{Name: "_form", Value: "careers"},
		{Name: "attempt", Value: "2"},
		{Name: "existing", Value: "keep"},
	}
	if diff := cmp.Diff(wantSorted, render.SortedHiddenFields(merged)); diff != "" {
		t.Fatalf("sorted hidden fields mismatch (-want +got):\n%s", diff)
	}
	if !render.IsHiddenName("_form") || render.IsHiddenName("email") {
		t.Fatalf("hidden name detection wrong")
	}
}
