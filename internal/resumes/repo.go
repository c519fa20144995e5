package resumes

import "context"

// Repo persists resume records. Every lookup is scoped to the owning user.
type Repo interface {
	Get(ctx context.Context, userID, id string) (Record, error)
	List(ctx context.Context, userID string, limit, offset int) ([]Record, error)
	Put(ctx context.Context, rec Record) error
	Delete(ctx context.Context, userID, id string) error
	ClaimGuest(ctx context.Context, guestUserID, authedUserID string) (int, error)
}
