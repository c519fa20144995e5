package users

import (
	"context"
	"errors"
)

var (
	ErrNotFound     = errors.New("user not found")
	ErrInvalidInput = errors.New("invalid input")
)

// Repo persists signed-in users.
type Repo interface {
	// RecordLogin creates the user or refreshes its profile, bumping the
	// login counter. It returns the stored record.
	RecordLogin(ctx context.Context, user User) (User, error)
	GetByID(ctx context.Context, userID string) (User, error)
}
