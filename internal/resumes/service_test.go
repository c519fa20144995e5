package resumes

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"resume-builder/internal/templates"
	"resume-builder/resume/engine"
	"resume-builder/resume/keywords"
	"resume-builder/resume/model"
)

type stubJobs map[string]string

func (s stubJobs) JobText(ctx context.Context, userID, id string) (string, error) {
	text, ok := s[userID+"/"+id]
	if !ok {
		return "", ErrJobDescriptionNotFound
	}
	return text, nil
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	eng, err := engine.New(engine.Config{Taxonomy: keywords.DefaultTaxonomy()})
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return &Service{
		Repo:      NewMemoryRepo(),
		Engine:    eng,
		Templates: templates.Default(),
		Jobs:      stubJobs{"u1/jd-1": "Senior Python engineer with AWS experience"},
		Now:       func() time.Time { return fixed },
	}
}

func TestServiceCreateDefaults(t *testing.T) {
	svc := newTestService(t)

	rec, err := svc.Create(context.Background(), "u1", CreateInput{})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rec.Title != DefaultTitle || rec.TemplateID != templates.DefaultID {
		t.Fatalf("unexpected defaults: %+v", rec)
	}
	if rec.Score != 0 {
		t.Fatalf("expected score 0, got %d", rec.Score)
	}
	if rec.Data.ID != rec.ID {
		t.Fatalf("expected data id %q, got %q", rec.ID, rec.Data.ID)
	}
	if rec.Data.Skills == nil || rec.Data.Experience == nil {
		t.Fatalf("expected initialized collections, got %+v", rec.Data)
	}
}

func TestServiceCreateRejectsUnknownTemplate(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.Create(context.Background(), "u1", CreateInput{TemplateID: "99"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestServiceCreateNormalizesData(t *testing.T) {
	svc := newTestService(t)
	data := model.New("ignored")
	data.Skills = []string{"Go", "go", " AWS ", ""}
	data.Experience = []model.Experience{{Company: "Acme"}}

	rec, err := svc.Create(context.Background(), "u1", CreateInput{Title: "Backend", Data: &data})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !reflect.DeepEqual(rec.Data.Skills, []string{"Go", "AWS"}) {
		t.Fatalf("unexpected skills: %v", rec.Data.Skills)
	}
	if rec.Data.Experience[0].ID == "" {
		t.Fatalf("expected generated experience id")
	}
	if rec.Score != 15 {
		t.Fatalf("expected score 15, got %d", rec.Score)
	}
}

func TestServiceSkillMutationsRescore(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	rec, _ := svc.Create(ctx, "u1", CreateInput{})

	for _, skill := range []string{"Go", "GO", "Python", "AWS"} {
		var err error
		rec, err = svc.AddSkill(ctx, "u1", rec.ID, skill)
		if err != nil {
			t.Fatalf("AddSkill(%q): %v", skill, err)
		}
	}
	if !reflect.DeepEqual(rec.Data.Skills, []string{"Go", "Python", "AWS"}) {
		t.Fatalf("unexpected skills: %v", rec.Data.Skills)
	}
	if rec.Score != 10 {
		t.Fatalf("expected score 10, got %d", rec.Score)
	}

	rec, err := svc.RemoveSkill(ctx, "u1", rec.ID, "python")
	if err != nil {
		t.Fatalf("RemoveSkill: %v", err)
	}
	if rec.Score != 0 {
		t.Fatalf("expected score 0 after removal, got %d", rec.Score)
	}
	if _, err := svc.RemoveSkill(ctx, "u1", rec.ID, "Rust"); !errors.Is(err, ErrEntryNotFound) {
		t.Fatalf("expected ErrEntryNotFound, got %v", err)
	}
	if _, err := svc.AddSkill(ctx, "u1", rec.ID, "   "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestServiceAddEntries(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	rec, _ := svc.Create(ctx, "u1", CreateInput{})

	rec, expID, err := svc.AddExperience(ctx, "u1", rec.ID, model.Experience{ID: "client-id", Company: "Acme"})
	if err != nil {
		t.Fatalf("AddExperience: %v", err)
	}
	if expID == "" || expID == "client-id" || rec.Data.Experience[0].ID != expID {
		t.Fatalf("expected generated id, got %q in %+v", expID, rec.Data.Experience)
	}
	rec, eduID, err := svc.AddEducation(ctx, "u1", rec.ID, model.Education{Institution: "MIT"})
	if err != nil {
		t.Fatalf("AddEducation: %v", err)
	}
	if eduID == "" {
		t.Fatalf("expected education id")
	}
	if rec.Score != 30 {
		t.Fatalf("expected score 30, got %d", rec.Score)
	}
}

func TestServiceUpdateRejectsMalformedData(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	rec, _ := svc.Create(ctx, "u1", CreateInput{})

	bad := model.New(rec.ID)
	bad.Summary = string([]byte{0xff, 0xfe})
	if _, err := svc.Update(ctx, "u1", rec.ID, UpdateInput{Data: &bad}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	blank := "  "
	if _, err := svc.Update(ctx, "u1", rec.ID, UpdateInput{Title: &blank}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for blank title, got %v", err)
	}

	stored, err := svc.Get(ctx, "u1", rec.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if stored.Data.Summary != "" || stored.Title != DefaultTitle {
		t.Fatalf("expected unchanged record, got %+v", stored)
	}
}

func TestServiceUpdateReplacesFields(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	rec, _ := svc.Create(ctx, "u1", CreateInput{})

	title := "Platform"
	templateID := "3"
	public := true
	data := model.New("")
	data.Summary = "Engineer"
	data.Projects = []string{"CLI"}
	updated, err := svc.Update(ctx, "u1", rec.ID, UpdateInput{Title: &title, TemplateID: &templateID, IsPublic: &public, Data: &data})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Title != title || updated.TemplateID != templateID || !updated.IsPublic {
		t.Fatalf("unexpected record: %+v", updated)
	}
	if updated.Score != 17 {
		t.Fatalf("expected score 17, got %d", updated.Score)
	}
	if updated.Data.ID != rec.ID {
		t.Fatalf("expected data id to follow record id")
	}
}

func TestServiceScopesByUser(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	rec, _ := svc.Create(ctx, "u1", CreateInput{})

	if _, err := svc.Get(ctx, "u2", rec.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.Score(ctx, "u2", rec.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := svc.Delete(ctx, "u2", rec.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestServiceScore(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	rec, _ := svc.Create(ctx, "u1", CreateInput{})

	report, err := svc.Score(ctx, "u1", rec.ID)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if report.Score != 0 || report.Breakdown.Total != 0 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if len(report.Breakdown.Components) != 6 {
		t.Fatalf("expected 6 components, got %d", len(report.Breakdown.Components))
	}
	if len(report.Suggestions) != 3 {
		t.Fatalf("expected 3 suggestions, got %v", report.Suggestions)
	}
}

func TestServiceOptimizeIsReadOnly(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	data := model.New("")
	data.Skills = []string{"Python"}
	rec, _ := svc.Create(ctx, "u1", CreateInput{Data: &data})

	out, err := svc.Optimize(ctx, "u1", rec.ID, OptimizeInput{JobDescription: "Python and AWS required"})
	if err != nil {
		t.Fatalf("Optimize: %v", err)
	}
	if !reflect.DeepEqual(out.SuggestedSkills, []string{"AWS"}) {
		t.Fatalf("unexpected suggested skills: %v", out.SuggestedSkills)
	}
	if !reflect.DeepEqual(out.MatchedSkills, []string{"Python"}) {
		t.Fatalf("unexpected matched skills: %v", out.MatchedSkills)
	}
	if out.MatchRatio != 0.5 {
		t.Fatalf("expected ratio 0.5, got %v", out.MatchRatio)
	}

	stored, _ := svc.Get(ctx, "u1", rec.ID)
	if !reflect.DeepEqual(stored.Data.Skills, []string{"Python"}) {
		t.Fatalf("expected stored skills unchanged, got %v", stored.Data.Skills)
	}
}

func TestServiceOptimizeWithStoredJobDescription(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	rec, _ := svc.Create(ctx, "u1", CreateInput{})

	out, err := svc.Optimize(ctx, "u1", rec.ID, OptimizeInput{JobDescription: "React", JobDescriptionID: "jd-1"})
	if err != nil {
		t.Fatalf("Optimize: %v", err)
	}
	if !reflect.DeepEqual(out.Keywords, []string{"Python", "AWS"}) {
		t.Fatalf("unexpected keywords: %v", out.Keywords)
	}

	if _, err := svc.Optimize(ctx, "u1", rec.ID, OptimizeInput{JobDescriptionID: "missing"}); !errors.Is(err, ErrJobDescriptionNotFound) {
		t.Fatalf("expected ErrJobDescriptionNotFound, got %v", err)
	}
}

func TestServiceApplySkills(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	data := model.New("")
	data.Skills = []string{"Python", "Go"}
	rec, _ := svc.Create(ctx, "u1", CreateInput{Data: &data})

	rec, added, err := svc.ApplySkills(ctx, "u1", rec.ID, []string{"AWS", "python", " ", "React"})
	if err != nil {
		t.Fatalf("ApplySkills: %v", err)
	}
	if !reflect.DeepEqual(added, []string{"AWS", "React"}) {
		t.Fatalf("unexpected added skills: %v", added)
	}
	if !reflect.DeepEqual(rec.Data.Skills, []string{"Python", "Go", "AWS", "React"}) {
		t.Fatalf("unexpected skills: %v", rec.Data.Skills)
	}
	if rec.Score != 10 {
		t.Fatalf("expected score 10, got %d", rec.Score)
	}
}

func TestServiceStatelessRejectsMalformedResume(t *testing.T) {
	svc := newTestService(t)
	r := model.New("x")
	r.Experience = []model.Experience{{ID: "e1"}, {ID: "e1"}}

	if _, err := svc.ScoreResume(r); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.OptimizeResume(r, "Python"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.OptimizeResume(model.New("y"), string([]byte{0xff})); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for job description, got %v", err)
	}
}
