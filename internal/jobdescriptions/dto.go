package jobdescriptions

import "time"

// JobDescriptionResponse is the outward-facing representation of a job description.
type JobDescriptionResponse struct {
	JobDescriptionID string    `json:"jobDescriptionId"`
	Title            string    `json:"title"`
	Company          string    `json:"company,omitempty"`
	Source           string    `json:"source"`
	FileName         string    `json:"fileName,omitempty"`
	MimeType         string    `json:"mimeType,omitempty"`
	SizeBytes        int64     `json:"sizeBytes,omitempty"`
	Keywords         []string  `json:"keywords"`
	Text             string    `json:"text,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}

type createRequest struct {
	Title   string `json:"title"`
	Company string `json:"company"`
	Text    string `json:"text" binding:"required"`
}

func toResponse(jd JobDescription, withText bool) JobDescriptionResponse {
	keywords := jd.Keywords
	if keywords == nil {
		keywords = []string{}
	}
	resp := JobDescriptionResponse{
		JobDescriptionID: jd.ID,
		Title:            jd.Title,
		Company:          jd.Company,
		Source:           jd.Source,
		FileName:         jd.FileName,
		MimeType:         jd.MimeType,
		SizeBytes:        jd.SizeBytes,
		Keywords:         keywords,
		CreatedAt:        jd.CreatedAt,
	}
	if withText {
		resp.Text = jd.Text
	}
	return resp
}
