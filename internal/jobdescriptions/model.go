package jobdescriptions

import "time"

// Sources of a job description.
const (
	SourceText   = "text"
	SourceUpload = "upload"
)

// DefaultTitle names job descriptions submitted without a title or file name.
const DefaultTitle = "Job Description"

// JobDescription is a stored job posting owned by a user. Text holds the
// extracted plain text and Keywords the taxonomy terms found in it.
type JobDescription struct {
	ID               string
	UserID           string
	Title            string
	Company          string
	Source           string
	FileName         string
	MimeType         string
	SizeBytes        int64
	StorageProvider  string
	StorageKey       string
	ExtractedTextKey string
	Text             string
	Keywords         []string
	CreatedAt        time.Time
}

func (j JobDescription) clone() JobDescription {
	j.Keywords = append(make([]string, 0, len(j.Keywords)), j.Keywords...)
	return j
}
