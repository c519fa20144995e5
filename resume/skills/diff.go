// Package skills compares a resume's skills against job keywords.
package skills

import (
	"sort"
	"strings"

	"resume-builder/resume/keywords"
)

// Delta is the result of comparing resume skills with job keywords.
type Delta struct {
	// ToAdd holds keywords missing from the resume, in taxonomy order.
	ToAdd []string `json:"toAdd"`
	// Matched holds keywords the resume already lists, in taxonomy order.
	Matched []string `json:"matched"`
}

// Diff compares resumeSkills with jobKeywords case-insensitively. Both result
// lists are deduplicated and follow taxonomy order whatever order jobKeywords
// arrive in; keywords outside the taxonomy come last in their given order.
// Inputs are not modified.
func Diff(resumeSkills, jobKeywords []string, taxonomy keywords.Taxonomy) Delta {
	have := make(map[string]bool, len(resumeSkills))
	for _, s := range resumeSkills {
		if key := normalize(s); key != "" {
			have[key] = true
		}
	}

	delta := Delta{ToAdd: []string{}, Matched: []string{}}
	seen := make(map[string]bool, len(jobKeywords))
	for _, kw := range inTaxonomyOrder(jobKeywords, taxonomy) {
		key := normalize(kw)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		if have[key] {
			delta.Matched = append(delta.Matched, strings.TrimSpace(kw))
			continue
		}
		delta.ToAdd = append(delta.ToAdd, strings.TrimSpace(kw))
	}
	return delta
}

func inTaxonomyOrder(kws []string, taxonomy keywords.Taxonomy) []string {
	out := append([]string(nil), kws...)
	rank := func(kw string) int {
		if i, ok := taxonomy.Index(kw); ok {
			return i
		}
		return taxonomy.Len()
	}
	sort.SliceStable(out, func(i, j int) bool { return rank(out[i]) < rank(out[j]) })
	return out
}

// MatchRatio is the share of job keywords already on the resume, in [0, 1].
// It is 0 when there are no keywords.
func (d Delta) MatchRatio() float64 {
	total := len(d.Matched) + len(d.ToAdd)
	if total == 0 {
		return 0
	}
	return float64(len(d.Matched)) / float64(total)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
