package templates

import (
	"errors"
	"strings"
)

// DefaultID is the template new resumes use when none is chosen.
const DefaultID = "1"

// ErrNotFound is returned for unknown template ids.
var ErrNotFound = errors.New("template not found")

// Template describes a resume layout offered in the gallery.
type Template struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Features    []string `json:"features"`
	Recommended bool     `json:"recommended"`
}

// Catalog is a fixed, ordered set of templates.
type Catalog struct {
	items []Template
	byID  map[string]int
}

// NewCatalog builds a catalog. Later duplicates of an id are ignored.
func NewCatalog(items ...Template) *Catalog {
	c := &Catalog{byID: make(map[string]int, len(items))}
	for _, t := range items {
		id := strings.TrimSpace(t.ID)
		if id == "" {
			continue
		}
		if _, ok := c.byID[id]; ok {
			continue
		}
		t.ID = id
		t.Features = append([]string(nil), t.Features...)
		c.byID[id] = len(c.items)
		c.items = append(c.items, t)
	}
	return c
}

// Default returns the built-in gallery.
func Default() *Catalog {
	return NewCatalog(
		Template{
			ID:          "1",
			Name:        "Modern Professional",
			Description: "Clean and contemporary design perfect for tech and business roles",
			Category:    "Professional",
			Features:    []string{"ATS-Friendly", "Modern Design", "Tech Focus"},
			Recommended: true,
		},
		Template{
			ID:          "2",
			Name:        "Executive",
			Description: "Sophisticated layout designed for senior management positions",
			Category:    "Executive",
			Features:    []string{"Leadership Focus", "Premium Design", "Achievement Emphasis"},
		},
		Template{
			ID:          "3",
			Name:        "Creative",
			Description: "Vibrant and artistic template for creative professionals",
			Category:    "Creative",
			Features:    []string{"Visual Appeal", "Portfolio Integration", "Color Customization"},
		},
		Template{
			ID:          "4",
			Name:        "Academic",
			Description: "Traditional format ideal for academic and research positions",
			Category:    "Academic",
			Features:    []string{"Research Focus", "Publication Lists", "Traditional Layout"},
		},
		Template{
			ID:          "5",
			Name:        "Startup",
			Description: "Dynamic and innovative design for startup environments",
			Category:    "Startup",
			Features:    []string{"Innovation Focus", "Skill Highlights", "Growth Metrics"},
			Recommended: true,
		},
		Template{
			ID:          "6",
			Name:        "Healthcare",
			Description: "Professional template tailored for healthcare professionals",
			Category:    "Healthcare",
			Features:    []string{"Certification Focus", "Clean Layout", "Trust Building"},
		},
	)
}

// List returns templates in catalog order. A blank category or "all"
// returns every template; otherwise the category match is case-insensitive.
func (c *Catalog) List(category string) []Template {
	category = strings.TrimSpace(category)
	out := make([]Template, 0, len(c.items))
	for _, t := range c.items {
		if category == "" || strings.EqualFold(category, "all") || strings.EqualFold(category, t.Category) {
			out = append(out, clone(t))
		}
	}
	return out
}

// Categories returns the distinct categories in catalog order.
func (c *Catalog) Categories() []string {
	seen := make(map[string]bool, len(c.items))
	out := make([]string, 0, len(c.items))
	for _, t := range c.items {
		if !seen[t.Category] {
			seen[t.Category] = true
			out = append(out, t.Category)
		}
	}
	return out
}

// Get returns the template with the given id.
func (c *Catalog) Get(id string) (Template, error) {
	idx, ok := c.byID[strings.TrimSpace(id)]
	if !ok {
		return Template{}, ErrNotFound
	}
	return clone(c.items[idx]), nil
}

// Exists reports whether id names a template.
func (c *Catalog) Exists(id string) bool {
	_, ok := c.byID[strings.TrimSpace(id)]
	return ok
}

func clone(t Template) Template {
	t.Features = append([]string(nil), t.Features...)
	return t
}
