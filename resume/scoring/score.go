// Package scoring computes the completeness score of a resume.
package scoring

import (
	"math"
	"unicode/utf8"

	"resume-builder/resume/model"
)

// Category keys, in rubric order.
const (
	KeyPersonalInfo = "personalInfo"
	KeySummary      = "summary"
	KeyExperience   = "experience"
	KeyEducation    = "education"
	KeySkills       = "skills"
	KeyExtras       = "extras"
)

// Maximum points per category. They sum to MaxScore.
const (
	PersonalInfoMax = 20
	SummaryMax      = 15
	ExperienceMax   = 25
	EducationMax    = 15
	SkillsMax       = 15
	ExtrasMax       = 10

	MaxScore = PersonalInfoMax + SummaryMax + ExperienceMax + EducationMax + SkillsMax + ExtrasMax
)

// SummaryLongThreshold is the summary length (in characters) above which the
// summary earns full points.
const SummaryLongThreshold = 50

// Component is the contribution of one rubric category.
type Component struct {
	Key       string  `json:"key"`
	Label     string  `json:"label"`
	Points    float64 `json:"points"`
	MaxPoints float64 `json:"maxPoints"`
}

// Breakdown is the scored rubric for a resume.
type Breakdown struct {
	Total      int         `json:"total"`
	Components []Component `json:"components"`
}

// Compute returns the completeness score of r in [0, 100].
func Compute(r model.Resume) int {
	return Explain(r).Total
}

// Explain scores r and reports the points earned per category.
func Explain(r model.Resume) Breakdown {
	components := []Component{
		{Key: KeyPersonalInfo, Label: "Personal Info", Points: personalInfoPoints(r.PersonalInfo), MaxPoints: PersonalInfoMax},
		{Key: KeySummary, Label: "Professional Summary", Points: summaryPoints(r.Summary), MaxPoints: SummaryMax},
		{Key: KeyExperience, Label: "Experience", Points: experiencePoints(len(r.Experience)), MaxPoints: ExperienceMax},
		{Key: KeyEducation, Label: "Education", Points: educationPoints(len(r.Education)), MaxPoints: EducationMax},
		{Key: KeySkills, Label: "Skills", Points: skillsPoints(len(r.Skills)), MaxPoints: SkillsMax},
		{Key: KeyExtras, Label: "Certifications & Projects", Points: extrasPoints(len(r.Certifications), len(r.Projects)), MaxPoints: ExtrasMax},
	}
	sum := 0.0
	for _, c := range components {
		sum += c.Points
	}
	return Breakdown{Total: clamp(int(math.Round(sum))), Components: components}
}

// SummaryLength is the raw character count used for the summary signal.
// Whitespace counts; only personal info fields are trimmed.
func SummaryLength(summary string) int {
	return utf8.RuneCountInString(summary)
}

func personalInfoPoints(info model.PersonalInfo) float64 {
	return float64(info.FilledCount()) / model.PersonalInfoFields * PersonalInfoMax
}

func summaryPoints(summary string) float64 {
	n := SummaryLength(summary)
	switch {
	case n > SummaryLongThreshold:
		return SummaryMax
	case n > 0:
		return 7
	default:
		return 0
	}
}

func experiencePoints(count int) float64 {
	switch {
	case count >= 2:
		return ExperienceMax
	case count == 1:
		return 15
	default:
		return 0
	}
}

func educationPoints(count int) float64 {
	if count >= 1 {
		return EducationMax
	}
	return 0
}

func skillsPoints(count int) float64 {
	switch {
	case count >= 5:
		return SkillsMax
	case count >= 3:
		return 10
	default:
		return 0
	}
}

func extrasPoints(certifications, projects int) float64 {
	if certifications > 0 || projects > 0 {
		return ExtrasMax
	}
	return 0
}

func clamp(score int) int {
	if score < 0 {
		return 0
	}
	if score > MaxScore {
		return MaxScore
	}
	return score
}
