package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"resume-builder/internal/shared/telemetry"
)

var errNotConfigured = errors.New("users service not configured")

// Service records identities issued by the OAuth login.
type Service struct {
	Repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// RecordLogin stores the provider identity so resumes keep a stable owner
// across logins. Empty profile fields never overwrite stored ones.
func (s *Service) RecordLogin(ctx context.Context, user User) error {
	if s == nil || s.Repo == nil {
		return errNotConfigured
	}
	user.ID = strings.TrimSpace(user.ID)
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if user.ID == "" || user.Email == "" {
		return fmt.Errorf("%w: user id and email are required", ErrInvalidInput)
	}
	if user.FullName == "" {
		user.FullName = strings.TrimSpace(user.GivenName + " " + user.FamilyName)
	}

	stored, err := s.Repo.RecordLogin(ctx, user)
	if err != nil {
		return err
	}
	telemetry.Info("users.login", map[string]any{"userId": stored.ID, "loginCount": stored.LoginCount})
	return nil
}

func (s *Service) GetByID(ctx context.Context, userID string) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errNotConfigured
	}
	if strings.TrimSpace(userID) == "" {
		return User{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	return s.Repo.GetByID(ctx, userID)
}
