package schoolsite

import (
	"io/fs"
	"strings"
	"testing"
)

func TestAssetsFSContainsLiveScript(t *testing.T) {
	data, err := fs.ReadFile(AssetsFS(), "live.js")
	if err != nil {
		t.Fatalf("expected live script to be readable: %v", err)
	}
	if !strings.Contains(string(data), "data-live-endpoint") {
		t.Fatalf("expected live script to look for live endpoints")
	}
}

func TestEmbeddedTemplatesIncludeLayout(t *testing.T) {
	for _, name := range []string{"layout.html", "partials/form.html", "partials/field.html", "pages/home.html"} {
		if _, err := fs.Stat(EmbeddedTemplates(), name); err != nil {
			t.Fatalf("expected %s: %v", name, err)
		}
	}
}
