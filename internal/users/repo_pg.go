package users

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo stores users in Postgres.
type PGRepo struct {
	DB *sql.DB
}

const recordLoginSQL = `
INSERT INTO users (id, email, full_name, given_name, family_name, picture_url,
                   login_count, last_login_at, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, 1, now(), now(), now())
ON CONFLICT (id) DO UPDATE SET
  email         = EXCLUDED.email,
  full_name     = COALESCE(EXCLUDED.full_name, users.full_name),
  given_name    = COALESCE(EXCLUDED.given_name, users.given_name),
  family_name   = COALESCE(EXCLUDED.family_name, users.family_name),
  picture_url   = COALESCE(EXCLUDED.picture_url, users.picture_url),
  login_count   = users.login_count + 1,
  last_login_at = now(),
  updated_at    = now()
RETURNING id, email, full_name, given_name, family_name, picture_url,
          login_count, last_login_at, created_at, updated_at`

const selectUserSQL = `
SELECT id, email, full_name, given_name, family_name, picture_url,
       login_count, last_login_at, created_at, updated_at
FROM users
WHERE id = $1`

func (r *PGRepo) RecordLogin(ctx context.Context, user User) (User, error) {
	row := r.DB.QueryRowContext(ctx, recordLoginSQL,
		user.ID, user.Email,
		nullIfEmpty(user.FullName), nullIfEmpty(user.GivenName),
		nullIfEmpty(user.FamilyName), nullIfEmpty(user.PictureURL),
	)
	return scanUser(row)
}

func (r *PGRepo) GetByID(ctx context.Context, userID string) (User, error) {
	user, err := scanUser(r.DB.QueryRowContext(ctx, selectUserSQL, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return user, err
}

func scanUser(row *sql.Row) (User, error) {
	var (
		u                                   User
		fullName, given, family, pictureURL sql.NullString
		lastLogin                           sql.NullTime
	)
	err := row.Scan(&u.ID, &u.Email, &fullName, &given, &family, &pictureURL,
		&u.LoginCount, &lastLogin, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return User{}, err
	}
	u.FullName = fullName.String
	u.GivenName = given.String
	u.FamilyName = family.String
	u.PictureURL = pictureURL.String
	if lastLogin.Valid {
		u.LastLoginAt = lastLogin.Time
	}
	return u, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

var _ Repo = (*PGRepo)(nil)
