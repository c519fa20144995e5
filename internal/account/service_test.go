package account

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-builder/internal/jobdescriptions"
	"resume-builder/internal/resumes"
	"resume-builder/resume/engine"
	"resume-builder/resume/keywords"
	"resume-builder/resume/model"
)

func newEngine(t *testing.T) *engine.Engine {
	t.Helper()
	eng, err := engine.New(engine.Config{Taxonomy: keywords.DefaultTaxonomy()})
	require.NoError(t, err)
	return eng
}

func TestSummaryRescoresStaleScores(t *testing.T) {
	ctx := context.Background()
	repo := resumes.NewMemoryRepo()
	jobs := jobdescriptions.NewMemoryRepo()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	withExperience := model.New("a")
	withExperience.Experience = []model.Experience{{ID: "e1"}, {ID: "e2"}}
	withEducation := model.New("b")
	withEducation.Education = []model.Education{{ID: "ed1"}}

	require.NoError(t, repo.Put(ctx, resumes.Record{ID: "a", UserID: "u1", Title: "A", Data: withExperience, Score: 0, UpdatedAt: base}))
	require.NoError(t, repo.Put(ctx, resumes.Record{ID: "b", UserID: "u1", Title: "B", Data: withEducation, Score: 15, UpdatedAt: base.Add(time.Hour)}))
	require.NoError(t, repo.Put(ctx, resumes.Record{ID: "c", UserID: "u1", Title: "C", Data: model.New("c"), Score: 0, UpdatedAt: base.Add(2 * time.Hour)}))
	require.NoError(t, repo.Put(ctx, resumes.Record{ID: "x", UserID: "u2", Data: model.New("x"), Score: 99}))
	require.NoError(t, jobs.Create(ctx, jobdescriptions.JobDescription{ID: "jd", UserID: "u1", Text: "Python"}))

	svc := NewService(repo, jobs, newEngine(t))
	summary, err := svc.Summary(ctx, "u1")
	require.NoError(t, err)

	assert.Equal(t, 3, summary.ResumeCount)
	assert.Equal(t, 2, summary.ScoredResumeCount)
	assert.Equal(t, 1, summary.Rescored)
	assert.Equal(t, 25, summary.BestScore)
	assert.Equal(t, 20, summary.AverageScore)
	assert.Equal(t, 1, summary.JobDescriptionCount)
	require.Len(t, summary.Recent, 3)
	assert.Equal(t, "c", summary.Recent[0].ResumeID)

	stored, err := repo.Get(ctx, "u1", "a")
	require.NoError(t, err)
	assert.Equal(t, 0, stored.Score, "summary must not write scores back")
}

// editingRepo applies after() once, right after the first List call returns,
// to model a write landing while a summary is being computed.
type editingRepo struct {
	resumes.Repo
	after func()
	puts  int
}

func (r *editingRepo) List(ctx context.Context, userID string, limit, offset int) ([]resumes.Record, error) {
	recs, err := r.Repo.List(ctx, userID, limit, offset)
	if r.after != nil {
		r.after()
		r.after = nil
	}
	return recs, err
}

func (r *editingRepo) Put(ctx context.Context, rec resumes.Record) error {
	r.puts++
	return r.Repo.Put(ctx, rec)
}

func TestSummaryKeepsConcurrentEdit(t *testing.T) {
	ctx := context.Background()
	mem := resumes.NewMemoryRepo()
	data := model.New("a")
	data.Experience = []model.Experience{{ID: "e1"}, {ID: "e2"}}
	require.NoError(t, mem.Put(ctx, resumes.Record{ID: "a", UserID: "u1", Data: data, Score: 0}))

	edited := data.Clone()
	edited.Summary = "concurrent edit saved by the user"
	repo := &editingRepo{Repo: mem}
	repo.after = func() {
		require.NoError(t, mem.Put(ctx, resumes.Record{ID: "a", UserID: "u1", Data: edited, Score: 7}))
	}

	summary, err := NewService(repo, nil, newEngine(t)).Summary(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 25, summary.BestScore)
	assert.Equal(t, 1, summary.Rescored)
	assert.Zero(t, repo.puts)

	stored, err := mem.Get(ctx, "u1", "a")
	require.NoError(t, err)
	assert.Equal(t, "concurrent edit saved by the user", stored.Data.Summary)
	assert.Equal(t, 7, stored.Score)
}

func TestSummarySurvivesConcurrentDelete(t *testing.T) {
	ctx := context.Background()
	mem := resumes.NewMemoryRepo()
	require.NoError(t, mem.Put(ctx, resumes.Record{ID: "gone", UserID: "u1", Data: model.New("gone"), Score: 50}))

	repo := &editingRepo{Repo: mem}
	repo.after = func() { require.NoError(t, mem.Delete(ctx, "u1", "gone")) }

	summary, err := NewService(repo, nil, newEngine(t)).Summary(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, summary.ResumeCount)
	assert.Zero(t, repo.puts)
}

func TestSummaryCountsPublicResumes(t *testing.T) {
	ctx := context.Background()
	repo := resumes.NewMemoryRepo()
	require.NoError(t, repo.Put(ctx, resumes.Record{ID: "p1", UserID: "u1", Data: model.New("p1"), IsPublic: true}))
	require.NoError(t, repo.Put(ctx, resumes.Record{ID: "p2", UserID: "u1", Data: model.New("p2"), IsPublic: true}))
	require.NoError(t, repo.Put(ctx, resumes.Record{ID: "private", UserID: "u1", Data: model.New("private")}))
	require.NoError(t, repo.Put(ctx, resumes.Record{ID: "other", UserID: "u2", Data: model.New("other"), IsPublic: true}))

	summary, err := NewService(repo, nil, newEngine(t)).Summary(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 3, summary.ResumeCount)
	assert.Equal(t, 2, summary.PublicResumeCount)
}

func TestSummaryEmptyAccount(t *testing.T) {
	svc := NewService(resumes.NewMemoryRepo(), jobdescriptions.NewMemoryRepo(), newEngine(t))
	summary, err := svc.Summary(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Zero(t, summary.ResumeCount)
	assert.Zero(t, summary.AverageScore)
	assert.NotNil(t, summary.Recent)

	_, err = svc.Summary(context.Background(), " ")
	assert.Error(t, err)
}

func TestSummaryKeepsScoreOfRejectedResume(t *testing.T) {
	ctx := context.Background()
	repo := resumes.NewMemoryRepo()
	bad := model.New("bad")
	bad.Experience = []model.Experience{{ID: "dup"}, {ID: "dup"}}
	require.NoError(t, repo.Put(ctx, resumes.Record{ID: "bad", UserID: "u1", Data: bad, Score: 40}))

	summary, err := NewService(repo, nil, newEngine(t)).Summary(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Rescored)
	assert.Equal(t, 40, summary.BestScore)
}

func TestClaimGuestUsesTransactionForPostgres(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE resumes SET user_id").
		WithArgs("user-1", "guest:abc").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("UPDATE job_descriptions SET user_id").
		WithArgs("user-1", "guest:abc").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	svc := NewService(&resumes.PGRepo{DB: db}, &jobdescriptions.PGRepo{DB: db}, nil)
	result, err := svc.ClaimGuest(context.Background(), "guest:abc", "user-1")
	require.NoError(t, err)
	assert.Equal(t, ClaimResult{MigratedResumes: 2, MigratedJobDescriptions: 1}, result)
	require.NoError(t, mock.ExpectationsWereMet())
}
