package content

import (
	"embed"
	"io/fs"
)

// DefaultFile is the content file name looked up in content directories.
const DefaultFile = "site.yaml"

//go:embed data/site.yaml
var embeddedContent embed.FS

// EmbeddedFS returns the bundled site content.
func EmbeddedFS() fs.FS {
	sub, err := fs.Sub(embeddedContent, "data")
	if err != nil {
		panic(err)
	}
	return sub
}
