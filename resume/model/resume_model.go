package model

import "strings"

// PersonalInfoFields is the fixed number of personal info fields used for completeness.
const PersonalInfoFields = 8

// Resume is the canonical structured resume record.
type Resume struct {
	ID             string       `json:"id"`
	PersonalInfo   PersonalInfo `json:"personalInfo"`
	Summary        string       `json:"summary"`
	Experience     []Experience `json:"experience" validate:"unique=ID,dive"`
	Education      []Education  `json:"education" validate:"unique=ID,dive"`
	Skills         []string     `json:"skills" validate:"unique,dive,skill"`
	Certifications []string     `json:"certifications"`
	Projects       []string     `json:"projects"`
}

// PersonalInfo holds contact and identity details.
type PersonalInfo struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Location  string `json:"location"`
	Website   string `json:"website"`
	LinkedIn  string `json:"linkedin"`
	GitHub    string `json:"github"`
}

// Experience is a work history entry.
type Experience struct {
	ID          string `json:"id" validate:"required"`
	Company     string `json:"company"`
	Position    string `json:"position"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

// Education is an education entry.
type Education struct {
	ID          string `json:"id" validate:"required"`
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Field       string `json:"field"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	GPA         string `json:"gpa,omitempty"`
}

// Values returns the personal info fields in display order.
func (p PersonalInfo) Values() []string {
	return []string{p.FirstName, p.LastName, p.Email, p.Phone, p.Location, p.Website, p.LinkedIn, p.GitHub}
}

// FilledCount returns the number of non-blank personal info fields.
func (p PersonalInfo) FilledCount() int {
	n := 0
	for _, v := range p.Values() {
		if strings.TrimSpace(v) != "" {
			n++
		}
	}
	return n
}

// FullName joins first and last name.
func (p PersonalInfo) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(p.FirstName) + " " + strings.TrimSpace(p.LastName))
}

// EffectiveEndDate is the end date shown for the entry. The stored EndDate
// is kept when Current is set.
func (e Experience) EffectiveEndDate() string {
	if e.Current {
		return ""
	}
	return e.EndDate
}

// New returns an empty resume with all collections initialized.
func New(id string) Resume {
	return Resume{
		ID:             id,
		Experience:     []Experience{},
		Education:      []Education{},
		Skills:         []string{},
		Certifications: []string{},
		Projects:       []string{},
	}
}

// Clone returns a deep copy of r. Nil collections become empty slices.
func (r Resume) Clone() Resume {
	out := r
	out.Experience = append(make([]Experience, 0, len(r.Experience)), r.Experience...)
	out.Education = append(make([]Education, 0, len(r.Education)), r.Education...)
	out.Skills = append(make([]string, 0, len(r.Skills)), r.Skills...)
	out.Certifications = append(make([]string, 0, len(r.Certifications)), r.Certifications...)
	out.Projects = append(make([]string, 0, len(r.Projects)), r.Projects...)
	return out
}
