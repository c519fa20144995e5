package resumes

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"resume-builder/internal/shared/metrics"
	"resume-builder/internal/shared/telemetry"
	"resume-builder/internal/templates"
	"resume-builder/resume/engine"
	"resume-builder/resume/model"
	"resume-builder/resume/scoring"
)

// JobTextSource resolves a stored job description to its text.
type JobTextSource interface {
	JobText(ctx context.Context, userID, id string) (string, error)
}

// Service contains business logic for resumes. It is the only caller of the
// engine that persists results.
type Service struct {
	Repo      Repo
	Engine    *engine.Engine
	Templates *templates.Catalog
	Jobs      JobTextSource
	Now       func() time.Time
}

// CreateInput describes a new resume. Data is optional.
type CreateInput struct {
	Title      string
	TemplateID string
	IsPublic   bool
	Data       *model.Resume
}

// UpdateInput replaces the fields that are set.
type UpdateInput struct {
	Title      *string
	TemplateID *string
	IsPublic   *bool
	Data       *model.Resume
}

// OptimizeInput selects the job description to optimize against. A stored
// job description wins over raw text.
type OptimizeInput struct {
	JobDescription   string
	JobDescriptionID string
}

// ScoreReport is the scored view of a resume.
type ScoreReport struct {
	Score       int               `json:"score"`
	Breakdown   scoring.Breakdown `json:"breakdown"`
	Suggestions []string          `json:"suggestions"`
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Create stores an empty resume, or the given data, for a user.
func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (Record, error) {
	if strings.TrimSpace(userID) == "" {
		return Record{}, fmt.Errorf("%w: user id required", ErrInvalidInput)
	}
	templateID, err := s.templateID(in.TemplateID)
	if err != nil {
		return Record{}, err
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = DefaultTitle
	}

	id := uuid.NewString()
	data := model.New(id)
	if in.Data != nil {
		data = in.Data.Clone()
	}

	now := s.now()
	rec := Record{
		ID:         id,
		UserID:     userID,
		Title:      title,
		TemplateID: templateID,
		IsPublic:   in.IsPublic,
		Data:       data,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.save(ctx, &rec); err != nil {
		return Record{}, err
	}
	telemetry.Info("resume.created", map[string]any{
		"user_id":     userID,
		"resume_id":   rec.ID,
		"template_id": rec.TemplateID,
		"score":       rec.Score,
	})
	return rec, nil
}

// Get returns a resume owned by a user.
func (s *Service) Get(ctx context.Context, userID, id string) (Record, error) {
	if strings.TrimSpace(id) == "" {
		return Record{}, ErrNotFound
	}
	return s.Repo.Get(ctx, userID, id)
}

// List returns a user's resumes.
func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]Record, error) {
	return s.Repo.List(ctx, userID, limit, offset)
}

// Update replaces the set fields of a resume. Data is a full replacement.
func (s *Service) Update(ctx context.Context, userID, id string, in UpdateInput) (Record, error) {
	rec, err := s.Get(ctx, userID, id)
	if err != nil {
		return Record{}, err
	}
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return Record{}, fmt.Errorf("%w: title must not be blank", ErrInvalidInput)
		}
		rec.Title = title
	}
	if in.TemplateID != nil {
		templateID, err := s.templateID(*in.TemplateID)
		if err != nil {
			return Record{}, err
		}
		rec.TemplateID = templateID
	}
	if in.IsPublic != nil {
		rec.IsPublic = *in.IsPublic
	}
	if in.Data != nil {
		rec.Data = in.Data.Clone()
	}
	rec.UpdatedAt = s.now()
	if err := s.save(ctx, &rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// Delete removes a resume.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if err := s.Repo.Delete(ctx, userID, id); err != nil {
		return err
	}
	telemetry.Info("resume.deleted", map[string]any{"user_id": userID, "resume_id": id})
	return nil
}

// Mutate loads a resume, applies fn to a copy of its data and saves the
// result. An error from fn aborts the write.
func (s *Service) Mutate(ctx context.Context, userID, id string, fn func(model.Resume) (model.Resume, error)) (Record, error) {
	rec, err := s.Get(ctx, userID, id)
	if err != nil {
		return Record{}, err
	}
	next, err := fn(rec.Data.Clone())
	if err != nil {
		return Record{}, err
	}
	rec.Data = next
	rec.UpdatedAt = s.now()
	if err := s.save(ctx, &rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// AddSkill adds a skill. Adding a skill that is already listed is a no-op.
func (s *Service) AddSkill(ctx context.Context, userID, id, skill string) (Record, error) {
	if strings.TrimSpace(skill) == "" {
		return Record{}, fmt.Errorf("%w: skill must not be blank", ErrInvalidInput)
	}
	return s.Mutate(ctx, userID, id, func(r model.Resume) (model.Resume, error) {
		out, _ := model.AddSkill(r, skill)
		return out, nil
	})
}

// RemoveSkill removes a skill, matched case-insensitively.
func (s *Service) RemoveSkill(ctx context.Context, userID, id, skill string) (Record, error) {
	return s.Mutate(ctx, userID, id, func(r model.Resume) (model.Resume, error) {
		out, ok := model.RemoveSkill(r, skill)
		if !ok {
			return r, ErrEntryNotFound
		}
		return out, nil
	})
}

// AddExperience appends an experience entry and returns its new id.
func (s *Service) AddExperience(ctx context.Context, userID, id string, e model.Experience) (Record, string, error) {
	var entryID string
	rec, err := s.Mutate(ctx, userID, id, func(r model.Resume) (model.Resume, error) {
		out, newID := model.AddExperience(r, e)
		entryID = newID
		return out, nil
	})
	if err != nil {
		return Record{}, "", err
	}
	return rec, entryID, nil
}

// AddEducation appends an education entry and returns its new id.
func (s *Service) AddEducation(ctx context.Context, userID, id string, e model.Education) (Record, string, error) {
	var entryID string
	rec, err := s.Mutate(ctx, userID, id, func(r model.Resume) (model.Resume, error) {
		out, newID := model.AddEducation(r, e)
		entryID = newID
		return out, nil
	})
	if err != nil {
		return Record{}, "", err
	}
	return rec, entryID, nil
}

// Score scores a stored resume.
func (s *Service) Score(ctx context.Context, userID, id string) (ScoreReport, error) {
	rec, err := s.Get(ctx, userID, id)
	if err != nil {
		return ScoreReport{}, err
	}
	return s.ScoreResume(rec.Data)
}

// ScoreResume scores a resume that is not stored.
func (s *Service) ScoreResume(r model.Resume) (ScoreReport, error) {
	breakdown, err := s.Engine.Explain(r)
	if err != nil {
		return ScoreReport{}, s.engineError("score", err)
	}
	suggestions, err := s.Engine.Suggest(r)
	if err != nil {
		return ScoreReport{}, s.engineError("score", err)
	}
	metrics.IncResumeScored()
	metrics.ObserveScore(breakdown.Total)
	return ScoreReport{Score: breakdown.Total, Breakdown: breakdown, Suggestions: suggestions}, nil
}

// Optimize compares a stored resume with a job description. The resume is
// not modified.
func (s *Service) Optimize(ctx context.Context, userID, id string, in OptimizeInput) (engine.Optimization, error) {
	rec, err := s.Get(ctx, userID, id)
	if err != nil {
		return engine.Optimization{}, err
	}
	jobText, err := s.jobText(ctx, userID, in)
	if err != nil {
		return engine.Optimization{}, err
	}
	out, err := s.OptimizeResume(rec.Data, jobText)
	if err != nil {
		return engine.Optimization{}, err
	}
	telemetry.Info("resume.optimized", map[string]any{
		"user_id":          userID,
		"resume_id":        id,
		"job_description":  in.JobDescriptionID,
		"suggested_skills": len(out.SuggestedSkills),
		"match_ratio":      out.MatchRatio,
	})
	return out, nil
}

// OptimizeResume compares a resume that is not stored with a job description.
func (s *Service) OptimizeResume(r model.Resume, jobDescription string) (engine.Optimization, error) {
	start := time.Now()
	out, err := s.Engine.Optimize(r, jobDescription)
	if err != nil {
		return engine.Optimization{}, s.engineError("optimize", err)
	}
	metrics.IncResumeOptimized()
	metrics.ObserveOptimizeDurationMs(metrics.SinceMillis(start))
	return out, nil
}

// ApplySkills merges skills into a stored resume and rescores it. It returns
// the skills that were actually added.
func (s *Service) ApplySkills(ctx context.Context, userID, id string, skills []string) (Record, []string, error) {
	var added []string
	rec, err := s.Mutate(ctx, userID, id, func(r model.Resume) (model.Resume, error) {
		out, merged := model.MergeSkills(r, skills)
		added = merged
		return out, nil
	})
	if err != nil {
		return Record{}, nil, err
	}
	telemetry.Info("resume.skills_applied", map[string]any{
		"user_id":   userID,
		"resume_id": id,
		"added":     len(added),
		"score":     rec.Score,
	})
	return rec, added, nil
}

func (s *Service) jobText(ctx context.Context, userID string, in OptimizeInput) (string, error) {
	jobID := strings.TrimSpace(in.JobDescriptionID)
	if jobID == "" {
		return in.JobDescription, nil
	}
	if s.Jobs == nil {
		return "", ErrJobDescriptionNotFound
	}
	return s.Jobs.JobText(ctx, userID, jobID)
}

func (s *Service) templateID(raw string) (string, error) {
	id := strings.TrimSpace(raw)
	if id == "" {
		return templates.DefaultID, nil
	}
	if s.Templates != nil && !s.Templates.Exists(id) {
		return "", fmt.Errorf("%w: unknown template %q", ErrInvalidInput, id)
	}
	return id, nil
}

// save normalizes the record data, refreshes the cached score and writes it.
func (s *Service) save(ctx context.Context, rec *Record) error {
	data := model.EnsureIDs(rec.Data)
	data.ID = rec.ID
	data.Skills = model.NormalizeSkills(data.Skills)

	score, err := s.Engine.Score(data)
	if err != nil {
		return s.engineError("save", err)
	}
	rec.Data = data
	rec.Score = score
	if err := s.Repo.Put(ctx, *rec); err != nil {
		return err
	}
	metrics.IncResumeScored()
	metrics.ObserveScore(score)
	return nil
}

func (s *Service) engineError(op string, err error) error {
	metrics.IncEngineErrors(op)
	telemetry.Warn("resume.engine_error", map[string]any{"op": op, "error": err})
	return err
}
