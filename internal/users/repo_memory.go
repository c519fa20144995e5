package users

import (
	"context"
	"sync"
	"time"
)

// MemoryRepo keeps users in a map for dev mode and tests.
type MemoryRepo struct {
	mu    sync.RWMutex
	byID  map[string]User
	clock func() time.Time
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: make(map[string]User), clock: time.Now}
}

func (r *MemoryRepo) RecordLogin(ctx context.Context, user User) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	now := r.clock().UTC()

	r.mu.Lock()
	defer r.mu.Unlock()
	prev, seen := r.byID[user.ID]
	user.CreatedAt = now
	user.LoginCount = 1
	if seen {
		user.CreatedAt = prev.CreatedAt
		user.LoginCount = prev.LoginCount + 1
		user.FullName = keepIfEmpty(user.FullName, prev.FullName)
		user.GivenName = keepIfEmpty(user.GivenName, prev.GivenName)
		user.FamilyName = keepIfEmpty(user.FamilyName, prev.FamilyName)
		user.PictureURL = keepIfEmpty(user.PictureURL, prev.PictureURL)
	}
	user.LastLoginAt = now
	user.UpdatedAt = now
	r.byID[user.ID] = user
	return user, nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, userID string) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	r.mu.RLock()
	user, ok := r.byID[userID]
	r.mu.RUnlock()
	if !ok {
		return User{}, ErrNotFound
	}
	return user, nil
}

func keepIfEmpty(next, prev string) string {
	if next == "" {
		return prev
	}
	return next
}

var _ Repo = (*MemoryRepo)(nil)
