package resumes

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"resume-builder/resume/model"
)

// PGRepo implements Repo using Postgres. The resume document is stored as JSONB.
type PGRepo struct {
	DB *sql.DB
}

const selectColumns = `id, user_id, title, template_id, is_public, data, score, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (Record, error) {
	var rec Record
	var data []byte
	if err := row.Scan(
		&rec.ID,
		&rec.UserID,
		&rec.Title,
		&rec.TemplateID,
		&rec.IsPublic,
		&data,
		&rec.Score,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	); err != nil {
		return Record{}, err
	}
	var resume model.Resume
	if err := json.Unmarshal(data, &resume); err != nil {
		return Record{}, fmt.Errorf("decode resume %s: %w", rec.ID, err)
	}
	rec.Data = resume.Clone()
	return rec, nil
}

// Get returns a resume by id for a user.
func (r *PGRepo) Get(ctx context.Context, userID, id string) (Record, error) {
	query := `
SELECT ` + selectColumns + `
FROM resumes
WHERE user_id = $1 AND id = $2 AND deleted_at IS NULL
LIMIT 1`
	rec, err := scanRecord(r.DB.QueryRowContext(ctx, query, userID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, ErrNotFound
		}
		return Record{}, err
	}
	return rec, nil
}

// List returns a user's resumes, most recently updated first.
func (r *PGRepo) List(ctx context.Context, userID string, limit, offset int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	query := `
SELECT ` + selectColumns + `
FROM resumes
WHERE user_id = $1 AND deleted_at IS NULL
ORDER BY updated_at DESC, id
LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Record, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Put inserts or replaces a record. Rows owned by another user are left
// untouched and reported as not found.
func (r *PGRepo) Put(ctx context.Context, rec Record) error {
	data, err := json.Marshal(rec.Data)
	if err != nil {
		return fmt.Errorf("encode resume %s: %w", rec.ID, err)
	}
	const query = `
INSERT INTO resumes (id, user_id, title, template_id, is_public, data, score, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (id) DO UPDATE SET
  title = EXCLUDED.title,
  template_id = EXCLUDED.template_id,
  is_public = EXCLUDED.is_public,
  data = EXCLUDED.data,
  score = EXCLUDED.score,
  updated_at = EXCLUDED.updated_at
WHERE resumes.user_id = EXCLUDED.user_id AND resumes.deleted_at IS NULL`
	res, err := r.DB.ExecContext(ctx, query,
		rec.ID,
		rec.UserID,
		rec.Title,
		rec.TemplateID,
		rec.IsPublic,
		data,
		rec.Score,
		rec.CreatedAt,
		rec.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete soft-deletes a record.
func (r *PGRepo) Delete(ctx context.Context, userID, id string) error {
	const query = `
UPDATE resumes
SET deleted_at = now()
WHERE user_id = $1 AND id = $2 AND deleted_at IS NULL`
	res, err := r.DB.ExecContext(ctx, query, userID, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// ClaimGuest reassigns resumes owned by a guest user to an authenticated user.
func (r *PGRepo) ClaimGuest(ctx context.Context, guestUserID, authedUserID string) (int, error) {
	const query = `
UPDATE resumes
SET user_id = $1
WHERE user_id = $2 AND deleted_at IS NULL`
	res, err := r.DB.ExecContext(ctx, query, authedUserID, guestUserID)
	if err != nil {
		return 0, err
	}
	updated, _ := res.RowsAffected()
	return int(updated), nil
}

var _ Repo = (*PGRepo)(nil)
