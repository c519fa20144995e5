package suggestions

import (
	"strings"

	"resume-builder/resume/model"
	"resume-builder/resume/scoring"
)

// Rule maps a resume deficiency to a suggestion.
type Rule struct {
	ID        string
	Category  string
	Priority  int
	Message   string
	Triggered func(model.Resume) bool
}

// Rules is the fixed rule table, highest priority first. Priorities follow
// the scoring weight of the category each rule improves.
var Rules = []Rule{
	{
		ID:       "EXPERIENCE_FEW",
		Category: "EXPERIENCE",
		Priority: scoring.ExperienceMax,
		Message:  "Add at least two work experience entries to show career progression",
		Triggered: func(r model.Resume) bool {
			return len(r.Experience) < 2
		},
	},
	{
		ID:       "PERSONAL_INFO_INCOMPLETE",
		Category: "STRUCTURE",
		Priority: scoring.PersonalInfoMax,
		Message:  "Complete your personal information so recruiters can reach you",
		Triggered: func(r model.Resume) bool {
			return r.PersonalInfo.FilledCount() < model.PersonalInfoFields
		},
	},
	{
		ID:       "SUMMARY_SHORT",
		Category: "STRUCTURE",
		Priority: scoring.SummaryMax,
		Message:  "Add a professional summary that highlights your unique value proposition",
		Triggered: func(r model.Resume) bool {
			return scoring.SummaryLength(r.Summary) <= scoring.SummaryLongThreshold
		},
	},
	{
		ID:       "EDUCATION_MISSING",
		Category: "STRUCTURE",
		Priority: scoring.EducationMax,
		Message:  "Add your education background",
		Triggered: func(r model.Resume) bool {
			return len(r.Education) == 0
		},
	},
	{
		ID:       "SKILLS_FEW",
		Category: "SKILLS",
		Priority: scoring.SkillsMax,
		Message:  "List at least five skills that align with current job market demands",
		Triggered: func(r model.Resume) bool {
			return len(r.Skills) < 5
		},
	},
	{
		ID:       "EXTRAS_MISSING",
		Category: "EXTRAS",
		Priority: scoring.ExtrasMax,
		Message:  "Consider adding certifications or projects relevant to your field",
		Triggered: func(r model.Resume) bool {
			return len(r.Certifications) == 0 && len(r.Projects) == 0
		},
	},
	{
		ID:       "EXPERIENCE_UNDESCRIBED",
		Category: "EXPERIENCE",
		Priority: 5,
		Message:  "Consider adding quantifiable achievements to your experience descriptions",
		Triggered: func(r model.Resume) bool {
			for _, e := range r.Experience {
				if strings.TrimSpace(e.Description) == "" {
					return true
				}
			}
			return false
		},
	},
}
