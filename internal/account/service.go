package account

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"resume-builder/internal/jobdescriptions"
	"resume-builder/internal/resumes"
	"resume-builder/internal/shared/telemetry"
	"resume-builder/resume/engine"
)

const (
	listPageSize   = 100
	recentLimit    = 5
	rescoreWorkers = 4
)

// Service aggregates a user's resumes and job descriptions.
type Service struct {
	ResumeRepo resumes.Repo
	JobRepo    jobdescriptions.Repo
	Engine     *engine.Engine
}

// ClaimResult reports how many records moved to the authenticated user.
type ClaimResult struct {
	MigratedResumes         int `json:"migratedResumes"`
	MigratedJobDescriptions int `json:"migratedJobDescriptions"`
}

// RecentResume is a dashboard entry.
type RecentResume struct {
	ResumeID string `json:"resumeId"`
	Title    string `json:"title"`
	Score    int    `json:"score"`
}

// Summary is the dashboard view of an account. AverageScore covers resumes
// with a non-zero score only. Rescored counts cached scores that were stale.
type Summary struct {
	ResumeCount         int            `json:"resumeCount"`
	ScoredResumeCount   int            `json:"scoredResumeCount"`
	AverageScore        int            `json:"averageScore"`
	BestScore           int            `json:"bestScore"`
	PublicResumeCount   int            `json:"publicResumeCount"`
	Rescored            int            `json:"rescored"`
	JobDescriptionCount int            `json:"jobDescriptionCount"`
	Recent              []RecentResume `json:"recent"`
}

// NewService constructs a Service.
func NewService(resumeRepo resumes.Repo, jobRepo jobdescriptions.Repo, eng *engine.Engine) *Service {
	return &Service{ResumeRepo: resumeRepo, JobRepo: jobRepo, Engine: eng}
}

// Summary loads every resume of a user and aggregates them using scores
// freshly computed by the engine. It never writes to the repos.
func (s *Service) Summary(ctx context.Context, userID string) (Summary, error) {
	if strings.TrimSpace(userID) == "" {
		return Summary{}, errors.New("user id required")
	}

	recs, err := s.allResumes(ctx, userID)
	if err != nil {
		return Summary{}, err
	}
	rescored, err := s.rescore(ctx, recs)
	if err != nil {
		return Summary{}, err
	}

	out := Summary{ResumeCount: len(recs), Rescored: rescored, Recent: []RecentResume{}}
	total := 0
	for _, rec := range recs {
		if rec.IsPublic {
			out.PublicResumeCount++
		}
		if rec.Score > out.BestScore {
			out.BestScore = rec.Score
		}
		if rec.Score > 0 {
			out.ScoredResumeCount++
			total += rec.Score
		}
	}
	if out.ScoredResumeCount > 0 {
		out.AverageScore = (total + out.ScoredResumeCount/2) / out.ScoredResumeCount
	}
	for i := 0; i < len(recs) && i < recentLimit; i++ {
		out.Recent = append(out.Recent, RecentResume{ResumeID: recs[i].ID, Title: recs[i].Title, Score: recs[i].Score})
	}

	if s.JobRepo != nil {
		count, err := s.countJobs(ctx, userID)
		if err != nil {
			return Summary{}, err
		}
		out.JobDescriptionCount = count
	}
	return out, nil
}

func (s *Service) countJobs(ctx context.Context, userID string) (int, error) {
	total := 0
	for offset := 0; ; offset += listPageSize {
		page, err := s.JobRepo.List(ctx, userID, listPageSize, offset)
		if err != nil {
			return 0, err
		}
		total += len(page)
		if len(page) < listPageSize {
			return total, nil
		}
	}
}

func (s *Service) allResumes(ctx context.Context, userID string) ([]resumes.Record, error) {
	var out []resumes.Record
	for offset := 0; ; offset += listPageSize {
		page, err := s.ResumeRepo.List(ctx, userID, listPageSize, offset)
		if err != nil {
			return nil, err
		}
		out = append(out, page...)
		if len(page) < listPageSize {
			break
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

// rescore recomputes scores concurrently for display and reports how many
// cached scores were stale. recs is updated in place; nothing is written
// back, since service writes cache the score themselves. Resumes the engine
// rejects keep their cached score.
func (s *Service) rescore(ctx context.Context, recs []resumes.Record) (int, error) {
	if s.Engine == nil || len(recs) == 0 {
		return 0, nil
	}
	var stale atomic.Int32

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(rescoreWorkers)
	for i := range recs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			score, err := s.Engine.Score(recs[i].Data)
			if err != nil {
				telemetry.Warn("account.rescore_skipped", map[string]any{"resume_id": recs[i].ID, "error": err.Error()})
				return nil
			}
			if score != recs[i].Score {
				recs[i].Score = score
				stale.Add(1)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	return int(stale.Load()), nil
}

// ClaimGuest moves guest-owned resumes and job descriptions to an
// authenticated user. Postgres repos are updated in one transaction.
func (s *Service) ClaimGuest(ctx context.Context, guestUserID, authedUserID string) (ClaimResult, error) {
	if strings.TrimSpace(guestUserID) == "" || strings.TrimSpace(authedUserID) == "" {
		return ClaimResult{}, errors.New("guestUserID and authedUserID are required")
	}

	if resumePG, ok := s.ResumeRepo.(*resumes.PGRepo); ok && resumePG != nil && resumePG.DB != nil {
		if jobPG, ok := s.JobRepo.(*jobdescriptions.PGRepo); ok && jobPG != nil && jobPG.DB != nil {
			return claimWithTx(ctx, resumePG.DB, guestUserID, authedUserID)
		}
	}

	resumeCount, err := s.ResumeRepo.ClaimGuest(ctx, guestUserID, authedUserID)
	if err != nil {
		return ClaimResult{}, err
	}
	jobCount := 0
	if s.JobRepo != nil {
		jobCount, err = s.JobRepo.ClaimGuest(ctx, guestUserID, authedUserID)
		if err != nil {
			return ClaimResult{}, err
		}
	}
	return ClaimResult{MigratedResumes: resumeCount, MigratedJobDescriptions: jobCount}, nil
}

func claimWithTx(ctx context.Context, db *sql.DB, guestUserID, authedUserID string) (ClaimResult, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return ClaimResult{}, err
	}
	defer tx.Rollback()

	resumeRes, err := tx.ExecContext(ctx, `UPDATE resumes SET user_id = $1 WHERE user_id = $2 AND deleted_at IS NULL`, authedUserID, guestUserID)
	if err != nil {
		return ClaimResult{}, err
	}
	resumeCount, _ := resumeRes.RowsAffected()

	jobRes, err := tx.ExecContext(ctx, `UPDATE job_descriptions SET user_id = $1 WHERE user_id = $2 AND deleted_at IS NULL`, authedUserID, guestUserID)
	if err != nil {
		return ClaimResult{}, err
	}
	jobCount, _ := jobRes.RowsAffected()

	if err := tx.Commit(); err != nil {
		return ClaimResult{}, err
	}
	return ClaimResult{MigratedResumes: int(resumeCount), MigratedJobDescriptions: int(jobCount)}, nil
}
