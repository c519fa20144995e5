package jobdescriptions

import "context"

// Repo defines persistence operations for job descriptions.
type Repo interface {
	Create(ctx context.Context, jd JobDescription) error
	Get(ctx context.Context, userID, id string) (JobDescription, error)
	List(ctx context.Context, userID string, limit, offset int) ([]JobDescription, error)
	Delete(ctx context.Context, userID, id string) error
	ClaimGuest(ctx context.Context, guestUserID, authedUserID string) (int, error)
}
