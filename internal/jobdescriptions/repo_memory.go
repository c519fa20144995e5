package jobdescriptions

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]JobDescription // id -> job description
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]JobDescription)}
}

// Create stores a job description.
func (r *MemoryRepo) Create(ctx context.Context, jd JobDescription) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[jd.ID] = jd.clone()
	return nil
}

// Get returns a job description by id for a user.
func (r *MemoryRepo) Get(ctx context.Context, userID, id string) (JobDescription, error) {
	if err := ctx.Err(); err != nil {
		return JobDescription{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	jd, ok := r.data[id]
	if !ok || jd.UserID != userID {
		return JobDescription{}, ErrNotFound
	}
	return jd.clone(), nil
}

// List returns a user's job descriptions, newest first.
func (r *MemoryRepo) List(ctx context.Context, userID string, limit, offset int) ([]JobDescription, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if offset < 0 {
		offset = 0
	}

	r.mu.RLock()
	out := make([]JobDescription, 0)
	for _, jd := range r.data {
		if jd.UserID == userID {
			out = append(out, jd.clone())
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if offset >= len(out) {
		return []JobDescription{}, nil
	}
	end := len(out)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return out[offset:end], nil
}

// Delete removes a job description.
func (r *MemoryRepo) Delete(ctx context.Context, userID, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	jd, ok := r.data[id]
	if !ok || jd.UserID != userID {
		return ErrNotFound
	}
	delete(r.data, id)
	return nil
}

// ClaimGuest reassigns job descriptions owned by a guest user to an authenticated user.
func (r *MemoryRepo) ClaimGuest(ctx context.Context, guestUserID, authedUserID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for id, jd := range r.data {
		if jd.UserID == guestUserID {
			jd.UserID = authedUserID
			r.data[id] = jd
			count++
		}
	}
	return count, nil
}

var _ Repo = (*MemoryRepo)(nil)
