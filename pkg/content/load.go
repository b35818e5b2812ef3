package content

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"gopkg.in/yaml.v3"
)

var errNoPages = errors.New("content: no pages defined")

// LoadFS reads and prepares the content file name from fsys.
func LoadFS(fsys fs.FS, name string) (*Site, error) {
	if fsys == nil {
		return nil, errors.New("content: filesystem is required")
	}
	if strings.TrimSpace(name) == "" {
		name = DefaultFile
	}
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("content: read %s: %w", name, err)
	}
	site, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("content: %s: %w", name, err)
	}
	return site, nil
}

// Parse decodes YAML content, sanitises icons and renders Markdown prose.
func Parse(data []byte) (*Site, error) {
	var site Site
	if err := yaml.Unmarshal(data, &site); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if len(site.Pages) == 0 {
		return nil, errNoPages
	}
	if err := prepare(&site); err != nil {
		return nil, err
	}
	return &site, nil
}

func prepare(site *Site) error {
	icons := make(map[string]string, len(site.Icons))
	for name, raw := range site.Icons {
		if cleaned := SanitizeIcon(raw); cleaned != "" {
			icons[strings.TrimSpace(name)] = cleaned
		}
	}
	site.Icons = icons

	for i := range site.Footer.Social {
		social := &site.Footer.Social[i]
		social.IconSVG = icons[social.Icon]
	}

	for name, page := range site.Pages {
		if strings.TrimSpace(page.Title) == "" {
			return fmt.Errorf("page %q has no title", name)
		}
		page.LeadHTML = RenderMarkdown(page.Lead)
		for i := range page.Sections {
			section := &page.Sections[i]
			if section.Layout == "" {
				section.Layout = LayoutText
			}
			section.BodyHTML = RenderMarkdown(section.Body)
			for j := range section.Items {
				item := &section.Items[j]
				if item.Icon != "" {
					svg, ok := icons[item.Icon]
					if !ok {
						return fmt.Errorf("page %q section %q references unknown icon %q", name, section.ID, item.Icon)
					}
					item.IconSVG = svg
				}
				item.BodyHTML = RenderMarkdown(item.Body)
			}
		}
		site.Pages[name] = page
	}
	return nil
}
