package resumes

import (
	"time"

	"resume-builder/resume/model"
)

// DefaultTitle names resumes created without a title.
const DefaultTitle = "New Resume"

// Record is a stored resume owned by a user. Score caches the completeness
// score computed on the last write.
type Record struct {
	ID         string
	UserID     string
	Title      string
	TemplateID string
	IsPublic   bool
	Data       model.Resume
	Score      int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (r Record) clone() Record {
	r.Data = r.Data.Clone()
	return r
}
