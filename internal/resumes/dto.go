package resumes

import (
	"time"

	"resume-builder/resume/model"
)

// ResumeResponse is the outward-facing representation of a stored resume.
type ResumeResponse struct {
	ResumeID   string       `json:"resumeId"`
	Title      string       `json:"title"`
	TemplateID string       `json:"templateId"`
	IsPublic   bool         `json:"isPublic"`
	Score      int          `json:"score"`
	Data       model.Resume `json:"data"`
	CreatedAt  time.Time    `json:"createdAt"`
	UpdatedAt  time.Time    `json:"updatedAt"`
}

// ResumeSummary is a list entry without the resume body.
type ResumeSummary struct {
	ResumeID   string    `json:"resumeId"`
	Title      string    `json:"title"`
	TemplateID string    `json:"templateId"`
	IsPublic   bool      `json:"isPublic"`
	Score      int       `json:"score"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type createRequest struct {
	Title      string        `json:"title"`
	TemplateID string        `json:"templateId"`
	IsPublic   bool          `json:"isPublic"`
	Data       *model.Resume `json:"data"`
}

type updateRequest struct {
	Title      *string       `json:"title"`
	TemplateID *string       `json:"templateId"`
	IsPublic   *bool         `json:"isPublic"`
	Data       *model.Resume `json:"data"`
}

type skillRequest struct {
	Skill string `json:"skill" binding:"required"`
}

type applySkillsRequest struct {
	Skills []string `json:"skills" binding:"required"`
}

type optimizeRequest struct {
	JobDescription   string `json:"jobDescription"`
	JobDescriptionID string `json:"jobDescriptionId"`
}

type scoreRequest struct {
	Resume *model.Resume `json:"resume" binding:"required"`
}

type statelessOptimizeRequest struct {
	Resume         *model.Resume `json:"resume" binding:"required"`
	JobDescription string        `json:"jobDescription"`
}

func toResponse(rec Record) ResumeResponse {
	return ResumeResponse{
		ResumeID:   rec.ID,
		Title:      rec.Title,
		TemplateID: rec.TemplateID,
		IsPublic:   rec.IsPublic,
		Score:      rec.Score,
		Data:       rec.Data.Clone(),
		CreatedAt:  rec.CreatedAt,
		UpdatedAt:  rec.UpdatedAt,
	}
}

func toSummary(rec Record) ResumeSummary {
	return ResumeSummary{
		ResumeID:   rec.ID,
		Title:      rec.Title,
		TemplateID: rec.TemplateID,
		IsPublic:   rec.IsPublic,
		Score:      rec.Score,
		UpdatedAt:  rec.UpdatedAt,
	}
}
