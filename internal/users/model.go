package users

import "time"

// User is a signed-in account. Guests never get a record.
type User struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	FullName    string    `json:"fullName"`
	GivenName   string    `json:"givenName"`
	FamilyName  string    `json:"familyName"`
	PictureURL  string    `json:"pictureUrl"`
	LoginCount  int       `json:"loginCount"`
	LastLoginAt time.Time `json:"lastLoginAt"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Profile is the /me view of the current identity.
type Profile struct {
	UserID     string `json:"userId"`
	IsGuest    bool   `json:"isGuest"`
	Email      string `json:"email,omitempty"`
	FullName   string `json:"fullName,omitempty"`
	PictureURL string `json:"pictureUrl,omitempty"`
	LoginCount int    `json:"loginCount,omitempty"`
}
