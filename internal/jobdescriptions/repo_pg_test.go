package jobdescriptions

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
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

func TestPGRepoCreateEncodesKeywords(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()
	jd := JobDescription{
		ID:        "jd-1",
		UserID:    "u1",
		Title:     "Backend",
		Source:    SourceText,
		Text:      "Python",
		Keywords:  []string{"Python"},
		CreatedAt: now,
	}

	mock.ExpectExec("INSERT INTO job_descriptions").
		WithArgs(
			jd.ID,
			jd.UserID,
			jd.Title,
			nil, // company
			jd.Source,
			nil, // file_name
			nil, // mime_type
			int64(0),
			nil, // storage_provider
			nil, // storage_key
			nil, // extracted_text_key
			jd.Text,
			[]byte(`["Python"]`),
			jd.CreatedAt,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), jd); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetDecodesRow(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "user_id", "title", "company", "source", "file_name", "mime_type", "size_bytes", "storage_provider", "storage_key", "extracted_text_key", "text", "keywords", "created_at"}).
		AddRow("jd-1", "u1", "Role", nil, SourceUpload, "role.pdf", "application/pdf", int64(42), "s3", "k", "k.extracted.txt", "Python", []byte(`["Python"]`), now)
	mock.ExpectQuery("SELECT (.+) FROM job_descriptions").
		WithArgs("u1", "jd-1").
		WillReturnRows(rows)

	jd, err := repo.Get(context.Background(), "u1", "jd-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if jd.Company != "" || jd.FileName != "role.pdf" || jd.SizeBytes != 42 || jd.StorageProvider != "s3" {
		t.Fatalf("unexpected record: %+v", jd)
	}
	if len(jd.Keywords) != 1 || jd.Keywords[0] != "Python" {
		t.Fatalf("unexpected keywords: %v", jd.Keywords)
	}
}

func TestPGRepoGetMissing(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery("SELECT (.+) FROM job_descriptions").
		WithArgs("u1", "nope").
		WillReturnError(sql.ErrNoRows)

	if _, err := repo.Get(context.Background(), "u1", "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoDeleteAndClaim(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec("UPDATE job_descriptions SET deleted_at").
		WithArgs("u1", "jd-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE job_descriptions SET user_id").
		WithArgs("user-1", "guest:abc").
		WillReturnResult(sqlmock.NewResult(0, 2))

	if err := repo.Delete(context.Background(), "u1", "jd-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	n, err := repo.ClaimGuest(context.Background(), "guest:abc", "user-1")
	if err != nil || n != 2 {
		t.Fatalf("ClaimGuest = %d, %v", n, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
