package resumes

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"resume-builder/resume/model"
)

func newMockRepo(t *testing.T) (*PGRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return &PGRepo{DB: db}, mock
}

func TestPGRepoPutUpserts(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()
	rec := Record{
		ID:         "r1",
		UserID:     "u1",
		Title:      "Backend",
		TemplateID: "1",
		Data:       model.New("r1"),
		Score:      42,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	mock.ExpectExec("INSERT INTO resumes").
		WithArgs(
			rec.ID,
			rec.UserID,
			rec.Title,
			rec.TemplateID,
			false,
			sqlmock.AnyArg(), // data
			rec.Score,
			rec.CreatedAt,
			rec.UpdatedAt,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Put(context.Background(), rec); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoPutForeignOwnerIsNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec("INSERT INTO resumes").WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Put(context.Background(), Record{ID: "r1", UserID: "u2", Data: model.New("r1")})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoGetDecodesData(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "user_id", "title", "template_id", "is_public", "data", "score", "created_at", "updated_at"}).
		AddRow("r1", "u1", "Backend", "2", true, []byte(`{"id":"r1","summary":"hi","skills":["Go"]}`), 30, now, now)
	mock.ExpectQuery("SELECT (.+) FROM resumes").
		WithArgs("u1", "r1").
		WillReturnRows(rows)

	rec, err := repo.Get(context.Background(), "u1", "r1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if rec.TemplateID != "2" || !rec.IsPublic || rec.Score != 30 {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if rec.Data.Summary != "hi" || len(rec.Data.Skills) != 1 {
		t.Fatalf("unexpected data: %+v", rec.Data)
	}
	if rec.Data.Experience == nil || rec.Data.Projects == nil {
		t.Fatalf("expected empty collections, got %+v", rec.Data)
	}
}

func TestPGRepoGetMissing(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery("SELECT (.+) FROM resumes").
		WithArgs("u1", "missing").
		WillReturnError(sql.ErrNoRows)

	if _, err := repo.Get(context.Background(), "u1", "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoListClampsLimit(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery("SELECT (.+) FROM resumes").
		WithArgs("u1", 100, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "title", "template_id", "is_public", "data", "score", "created_at", "updated_at"}))

	out, err := repo.List(context.Background(), "u1", 500, -3)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if out == nil || len(out) != 0 {
		t.Fatalf("expected empty list, got %#v", out)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoDeleteAndClaim(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec("UPDATE resumes SET deleted_at").
		WithArgs("u1", "r1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("UPDATE resumes SET user_id").
		WithArgs("user-1", "guest:abc").
		WillReturnResult(sqlmock.NewResult(0, 3))

	if err := repo.Delete(context.Background(), "u1", "r1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	n, err := repo.ClaimGuest(context.Background(), "guest:abc", "user-1")
	if err != nil {
		t.Fatalf("ClaimGuest: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3, got %d", n)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
