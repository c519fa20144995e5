package jobdescriptions

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const selectColumns = `id, user_id, title, company, source, file_name, mime_type, size_bytes, storage_provider, storage_key, extracted_text_key, text, keywords, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJobDescription(row rowScanner) (JobDescription, error) {
	var jd JobDescription
	var company sql.NullString
	var fileName sql.NullString
	var mimeType sql.NullString
	var storageProvider sql.NullString
	var storageKey sql.NullString
	var extractedKey sql.NullString
	var keywords []byte
	if err := row.Scan(
		&jd.ID,
		&jd.UserID,
		&jd.Title,
		&company,
		&jd.Source,
		&fileName,
		&mimeType,
		&jd.SizeBytes,
		&storageProvider,
		&storageKey,
		&extractedKey,
		&jd.Text,
		&keywords,
		&jd.CreatedAt,
	); err != nil {
		return JobDescription{}, err
	}
	jd.Company = company.String
	jd.FileName = fileName.String
	jd.MimeType = mimeType.String
	jd.StorageProvider = storageProvider.String
	jd.StorageKey = storageKey.String
	jd.ExtractedTextKey = extractedKey.String
	jd.Keywords = []string{}
	if len(keywords) > 0 {
		if err := json.Unmarshal(keywords, &jd.Keywords); err != nil {
			return JobDescription{}, fmt.Errorf("decode keywords %s: %w", jd.ID, err)
		}
	}
	return jd, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// Create inserts a new job description.
func (r *PGRepo) Create(ctx context.Context, jd JobDescription) error {
	const query = `
INSERT INTO job_descriptions (
    id,
    user_id,
    title,
    company,
    source,
    file_name,
    mime_type,
    size_bytes,
    storage_provider,
    storage_key,
    extracted_text_key,
    text,
    keywords,
    created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	keywords := jd.Keywords
	if keywords == nil {
		keywords = []string{}
	}
	encoded, err := json.Marshal(keywords)
	if err != nil {
		return fmt.Errorf("encode keywords %s: %w", jd.ID, err)
	}

	_, err = r.DB.ExecContext(
		ctx,
		query,
		jd.ID,
		jd.UserID,
		jd.Title,
		nullString(jd.Company),
		jd.Source,
		nullString(jd.FileName),
		nullString(jd.MimeType),
		jd.SizeBytes,
		nullString(jd.StorageProvider),
		nullString(jd.StorageKey),
		nullString(jd.ExtractedTextKey),
		jd.Text,
		encoded,
		jd.CreatedAt,
	)
	return err
}

// Get fetches a job description by id for a user.
func (r *PGRepo) Get(ctx context.Context, userID, id string) (JobDescription, error) {
	query := `
SELECT ` + selectColumns + `
FROM job_descriptions
WHERE user_id = $1 AND id = $2 AND deleted_at IS NULL
LIMIT 1`
	jd, err := scanJobDescription(r.DB.QueryRowContext(ctx, query, userID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return JobDescription{}, ErrNotFound
		}
		return JobDescription{}, err
	}
	return jd, nil
}

// List lists job descriptions ordered newest-first.
func (r *PGRepo) List(ctx context.Context, userID string, limit, offset int) ([]JobDescription, error) {
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
FROM job_descriptions
WHERE user_id = $1 AND deleted_at IS NULL
ORDER BY created_at DESC, id
LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]JobDescription, 0)
	for rows.Next() {
		jd, err := scanJobDescription(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, jd)
	}
	return out, rows.Err()
}

// Delete soft-deletes a job description.
func (r *PGRepo) Delete(ctx context.Context, userID, id string) error {
	const query = `
UPDATE job_descriptions
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

// ClaimGuest reassigns job descriptions owned by a guest user to an authenticated user.
func (r *PGRepo) ClaimGuest(ctx context.Context, guestUserID, authedUserID string) (int, error) {
	const query = `
UPDATE job_descriptions
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
