// Package suggestions turns resume deficiencies into ranked improvement
// suggestions.
package suggestions

import (
	"sort"

	"resume-builder/resume/model"
)

// DefaultMax is the default number of suggestions returned.
const DefaultMax = 3

// Suggestion is a triggered rule in output form.
type Suggestion struct {
	ID       string `json:"id"`
	Category string `json:"category"`
	Priority int    `json:"priority"`
	Message  string `json:"message"`
	Order    int    `json:"order"`
}

// Evaluate runs every rule against r and returns at most max triggered
// suggestions, highest priority first. Ties keep rule table order. A max of
// zero or less returns no suggestions.
func Evaluate(r model.Resume, max int) []Suggestion {
	out := make([]Suggestion, 0, len(Rules))
	for _, rule := range ordered() {
		if !rule.Triggered(r) {
			continue
		}
		out = append(out, Suggestion{
			ID:       rule.ID,
			Category: rule.Category,
			Priority: rule.Priority,
			Message:  rule.Message,
		})
	}
	if max < 0 {
		max = 0
	}
	if len(out) > max {
		out = out[:max]
	}
	for i := range out {
		out[i].Order = i + 1
	}
	return out
}

// Generate returns the messages of Evaluate.
func Generate(r model.Resume, max int) []string {
	items := Evaluate(r, max)
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.Message)
	}
	return out
}

func ordered() []Rule {
	rules := append([]Rule(nil), Rules...)
	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].Priority > rules[j].Priority
	})
	return rules
}
