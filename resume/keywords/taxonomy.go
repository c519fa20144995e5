// Package keywords extracts known skill terms from free-text job descriptions.
package keywords

import (
	"fmt"
	"strings"
)

// MatchMode selects how taxonomy terms are located in text.
type MatchMode string

const (
	// MatchSubstring matches a term anywhere in the text, so "go" matches
	// inside "going".
	MatchSubstring MatchMode = "substring"
	// MatchWord requires the term to be bounded by non-alphanumeric runes or
	// the ends of the text.
	MatchWord MatchMode = "word"
)

// ParseMatchMode maps a configuration value to a MatchMode. Empty means
// MatchSubstring.
func ParseMatchMode(raw string) (MatchMode, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", string(MatchSubstring):
		return MatchSubstring, nil
	case string(MatchWord), "word-boundary", "wordboundary":
		return MatchWord, nil
	default:
		return "", fmt.Errorf("unknown match mode %q", raw)
	}
}

// Term is a recognized skill with optional synonyms.
type Term struct {
	Name     string   `json:"name" mapstructure:"name"`
	Synonyms []string `json:"synonyms,omitempty" mapstructure:"synonyms"`
}

// Taxonomy is an ordered vocabulary of recognized skill terms. Its order is
// the order extraction results are reported in.
type Taxonomy struct {
	terms []Term
}

// NewTaxonomy builds a taxonomy from plain term names.
func NewTaxonomy(names ...string) Taxonomy {
	terms := make([]Term, 0, len(names))
	for _, name := range names {
		terms = append(terms, Term{Name: name})
	}
	return FromTerms(terms)
}

// FromTerms builds a taxonomy. Names and synonyms are trimmed, blanks dropped,
// and terms whose name repeats an earlier one (case-insensitive) are merged
// into it.
func FromTerms(terms []Term) Taxonomy {
	index := make(map[string]int, len(terms))
	out := make([]Term, 0, len(terms))
	for _, t := range terms {
		name := strings.TrimSpace(t.Name)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		pos, ok := index[key]
		if !ok {
			pos = len(out)
			index[key] = pos
			out = append(out, Term{Name: name})
		}
		for _, syn := range t.Synonyms {
			syn = strings.TrimSpace(syn)
			if syn == "" || strings.EqualFold(syn, out[pos].Name) || containsFold(out[pos].Synonyms, syn) {
				continue
			}
			out[pos].Synonyms = append(out[pos].Synonyms, syn)
		}
	}
	return Taxonomy{terms: out}
}

// WithSynonyms returns a copy of t with extra synonyms attached to existing
// terms. Unknown term names are ignored.
func (t Taxonomy) WithSynonyms(synonyms map[string][]string) Taxonomy {
	terms := t.Terms()
	for i := range terms {
		for name, syns := range synonyms {
			if strings.EqualFold(strings.TrimSpace(name), terms[i].Name) {
				terms[i].Synonyms = append(terms[i].Synonyms, syns...)
			}
		}
	}
	return FromTerms(terms)
}

// DefaultTaxonomy is the built-in vocabulary used when none is configured.
func DefaultTaxonomy() Taxonomy {
	return NewTaxonomy("JavaScript", "React", "Node.js", "Python", "AWS")
}

// Len returns the number of terms.
func (t Taxonomy) Len() int {
	return len(t.terms)
}

// Names returns the canonical term names in taxonomy order.
func (t Taxonomy) Names() []string {
	out := make([]string, 0, len(t.terms))
	for _, term := range t.terms {
		out = append(out, term.Name)
	}
	return out
}

// Terms returns a copy of the taxonomy terms.
func (t Taxonomy) Terms() []Term {
	out := make([]Term, len(t.terms))
	for i, term := range t.terms {
		out[i] = Term{Name: term.Name, Synonyms: append([]string(nil), term.Synonyms...)}
	}
	return out
}

// Canonical returns the taxonomy spelling of name or one of its synonyms.
func (t Taxonomy) Canonical(name string) (string, bool) {
	i, ok := t.Index(name)
	if !ok {
		return "", false
	}
	return t.terms[i].Name, true
}

// Index returns the position of the term that name (or one of its synonyms)
// belongs to.
func (t Taxonomy) Index(name string) (int, bool) {
	trimmed := strings.TrimSpace(name)
	for i, term := range t.terms {
		if strings.EqualFold(term.Name, trimmed) || containsFold(term.Synonyms, trimmed) {
			return i, true
		}
	}
	return 0, false
}

func containsFold(items []string, value string) bool {
	for _, item := range items {
		if strings.EqualFold(item, value) {
			return true
		}
	}
	return false
}
