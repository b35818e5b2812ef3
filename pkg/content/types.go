package content

// Site is the full content tree of the website.
type Site struct {
	Name    string            `yaml:"name" json:"name"`
	Tagline string            `yaml:"tagline" json:"tagline"`
	Logo    string            `yaml:"logo" json:"logo"`
	Nav     []Link            `yaml:"nav" json:"nav"`
	Footer  Footer            `yaml:"footer" json:"footer"`
	Icons   map[string]string `yaml:"icons" json:"icons"`
	Pages   map[string]Page   `yaml:"pages" json:"pages"`
}

// Link is a navigation entry or call to action.
type Link struct {
	Path    string `yaml:"path" json:"path"`
	Label   string `yaml:"label" json:"label"`
	Variant string `yaml:"variant,omitempty" json:"variant,omitempty"`
}

// Footer holds the contact block shared by every page.
type Footer struct {
	Address []string `yaml:"address" json:"address"`
	Phone   string   `yaml:"phone" json:"phone"`
	Email   string   `yaml:"email" json:"email"`
	Social  []Social `yaml:"social" json:"social"`
}

// Social is an outbound profile link rendered with an icon.
type Social struct {
	Label string `yaml:"label" json:"label"`
	URL   string `yaml:"url" json:"url"`
	Icon  string `yaml:"icon" json:"icon"`
	// IconSVG is filled from Site.Icons at load time.
	IconSVG string `yaml:"-" json:"iconSvg,omitempty"`
}

// Page is the copy of one route.
type Page struct {
	Title    string    `yaml:"title" json:"title"`
	Lead     string    `yaml:"lead" json:"-"`
	LeadHTML string    `yaml:"-" json:"leadHtml"`
	Actions  []Link    `yaml:"actions" json:"actions,omitempty"`
	Sections []Section `yaml:"sections" json:"sections,omitempty"`
}

// Section layouts understood by the page templates.
const (
	LayoutCards     = "cards"
	LayoutText      = "text"
	LayoutList      = "list"
	LayoutChecklist = "checklist"
	LayoutPrograms  = "programs"
	LayoutTags      = "tags"
	LayoutCTA       = "cta"
)

// Section is a block of a page.
type Section struct {
	ID       string `yaml:"id" json:"id"`
	Title    string `yaml:"title" json:"title,omitempty"`
	Layout   string `yaml:"layout" json:"layout"`
	Body     string `yaml:"body" json:"-"`
	BodyHTML string `yaml:"-" json:"bodyHtml,omitempty"`
	Items    []Item `yaml:"items" json:"items,omitempty"`
	Actions  []Link `yaml:"actions" json:"actions,omitempty"`
}

// Item is a card, list entry or tag inside a section.
type Item struct {
	Icon       string   `yaml:"icon" json:"icon,omitempty"`
	IconSVG    string   `yaml:"-" json:"iconSvg,omitempty"`
	Title      string   `yaml:"title" json:"title"`
	Body       string   `yaml:"body" json:"-"`
	BodyHTML   string   `yaml:"-" json:"bodyHtml,omitempty"`
	Highlights []string `yaml:"highlights" json:"highlights,omitempty"`
}

// Page returns the page registered under name.
func (s *Site) Page(name string) (Page, bool) {
	if s == nil {
		return Page{}, false
	}
	page, ok := s.Pages[name]
	return page, ok
}
