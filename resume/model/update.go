package model

import (
	"strings"

	"github.com/google/uuid"
)

// NewID generates entry identifiers. Tests may replace it.
var NewID = uuid.NewString

// WithPersonalInfo returns a copy of r with personal info replaced.
func WithPersonalInfo(r Resume, info PersonalInfo) Resume {
	out := r.Clone()
	out.PersonalInfo = info
	return out
}

// WithSummary returns a copy of r with the summary replaced.
func WithSummary(r Resume, summary string) Resume {
	out := r.Clone()
	out.Summary = summary
	return out
}

// AddExperience appends e with a freshly generated id and returns the new
// resume and the id.
func AddExperience(r Resume, e Experience) (Resume, string) {
	out := r.Clone()
	e.ID = NewID()
	out.Experience = append(out.Experience, e)
	return out, e.ID
}

// UpdateExperience applies fn to the entry with the given id. The id is kept
// even if fn changes it. ok is false when no entry matches.
func UpdateExperience(r Resume, id string, fn func(Experience) Experience) (Resume, bool) {
	out := r.Clone()
	for i := range out.Experience {
		if out.Experience[i].ID == id {
			updated := fn(out.Experience[i])
			updated.ID = id
			out.Experience[i] = updated
			return out, true
		}
	}
	return r, false
}

// RemoveExperience drops the entry with the given id.
func RemoveExperience(r Resume, id string) (Resume, bool) {
	out := r.Clone()
	for i := range out.Experience {
		if out.Experience[i].ID == id {
			out.Experience = append(out.Experience[:i], out.Experience[i+1:]...)
			return out, true
		}
	}
	return r, false
}

// AddEducation appends e with a freshly generated id.
func AddEducation(r Resume, e Education) (Resume, string) {
	out := r.Clone()
	e.ID = NewID()
	out.Education = append(out.Education, e)
	return out, e.ID
}

// UpdateEducation applies fn to the entry with the given id.
func UpdateEducation(r Resume, id string, fn func(Education) Education) (Resume, bool) {
	out := r.Clone()
	for i := range out.Education {
		if out.Education[i].ID == id {
			updated := fn(out.Education[i])
			updated.ID = id
			out.Education[i] = updated
			return out, true
		}
	}
	return r, false
}

// RemoveEducation drops the entry with the given id.
func RemoveEducation(r Resume, id string) (Resume, bool) {
	out := r.Clone()
	for i := range out.Education {
		if out.Education[i].ID == id {
			out.Education = append(out.Education[:i], out.Education[i+1:]...)
			return out, true
		}
	}
	return r, false
}

// HasSkill reports whether r lists skill, ignoring case and surrounding space.
func HasSkill(r Resume, skill string) bool {
	key := skillKey(skill)
	for _, s := range r.Skills {
		if skillKey(s) == key {
			return true
		}
	}
	return false
}

// AddSkill trims skill and appends it unless it is blank or already present
// (case-insensitive). added is false when nothing changed.
func AddSkill(r Resume, skill string) (Resume, bool) {
	trimmed := strings.TrimSpace(skill)
	if trimmed == "" || HasSkill(r, trimmed) {
		return r, false
	}
	out := r.Clone()
	out.Skills = append(out.Skills, trimmed)
	return out, true
}

// RemoveSkill drops skill, matched case-insensitively.
func RemoveSkill(r Resume, skill string) (Resume, bool) {
	key := skillKey(skill)
	out := r.Clone()
	for i, s := range out.Skills {
		if skillKey(s) == key {
			out.Skills = append(out.Skills[:i], out.Skills[i+1:]...)
			return out, true
		}
	}
	return r, false
}

// MergeSkills adds each skill in order, skipping blanks and duplicates. It
// returns the skills that were actually added.
func MergeSkills(r Resume, skills []string) (Resume, []string) {
	out := r
	added := make([]string, 0, len(skills))
	for _, s := range skills {
		next, ok := AddSkill(out, s)
		if ok {
			out = next
			added = append(added, strings.TrimSpace(s))
		}
	}
	return out.Clone(), added
}

// NormalizeSkills trims, drops blanks and removes case-insensitive duplicates,
// keeping the first spelling.
func NormalizeSkills(skills []string) []string {
	seen := make(map[string]bool, len(skills))
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		trimmed := strings.TrimSpace(s)
		if trimmed == "" {
			continue
		}
		key := skillKey(trimmed)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, trimmed)
	}
	return out
}

// AddCertification appends a trimmed, non-blank certification.
func AddCertification(r Resume, cert string) (Resume, bool) {
	trimmed := strings.TrimSpace(cert)
	if trimmed == "" {
		return r, false
	}
	out := r.Clone()
	out.Certifications = append(out.Certifications, trimmed)
	return out, true
}

// RemoveCertification drops the certification at index i.
func RemoveCertification(r Resume, i int) (Resume, bool) {
	if i < 0 || i >= len(r.Certifications) {
		return r, false
	}
	out := r.Clone()
	out.Certifications = append(out.Certifications[:i], out.Certifications[i+1:]...)
	return out, true
}

// AddProject appends a trimmed, non-blank project.
func AddProject(r Resume, project string) (Resume, bool) {
	trimmed := strings.TrimSpace(project)
	if trimmed == "" {
		return r, false
	}
	out := r.Clone()
	out.Projects = append(out.Projects, trimmed)
	return out, true
}

// RemoveProject drops the project at index i.
func RemoveProject(r Resume, i int) (Resume, bool) {
	if i < 0 || i >= len(r.Projects) {
		return r, false
	}
	out := r.Clone()
	out.Projects = append(out.Projects[:i], out.Projects[i+1:]...)
	return out, true
}

// EnsureIDs returns a copy of r where entries without an id, or with an id
// already used earlier in the same collection, get a new one. Existing unique
// ids are kept.
func EnsureIDs(r Resume) Resume {
	out := r.Clone()
	seen := make(map[string]bool, len(out.Experience))
	for i := range out.Experience {
		id := strings.TrimSpace(out.Experience[i].ID)
		if id == "" || seen[id] {
			id = NewID()
		}
		seen[id] = true
		out.Experience[i].ID = id
	}
	seen = make(map[string]bool, len(out.Education))
	for i := range out.Education {
		id := strings.TrimSpace(out.Education[i].ID)
		if id == "" || seen[id] {
			id = NewID()
		}
		seen[id] = true
		out.Education[i].ID = id
	}
	return out
}

func skillKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
