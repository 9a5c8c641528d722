package users

import "time"

// User is a staff or member account. Members are not a separate
// entity: any active account flagged can_contribute takes part in the
// monthly collection, with its standing dues seeded into each new
// meeting ledger.
type User struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Role        string `json:"role"`
	IsActive    bool   `json:"is_active"`
	IsSuperuser bool   `json:"is_superuser"`

	CanContribute bool `json:"can_contribute"`
	// Standing monthly dues. Nil means no amount agreed yet; a new
	// meeting seeds such a member at zero.
	SocialDue  *int64 `json:"social_due"`
	MissionDue *int64 `json:"mission_due"`

	CreatedAt time.Time `json:"created_at"`
}

// FullName joins the name parts for display.
func (u User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	return u.LastName + " " + u.FirstName
}

// CreateUserInput for registering accounts.
type CreateUserInput struct {
	Username      string
	Password      string
	FirstName     string
	LastName      string
	Email         string
	Phone         string
	Role          string
	IsSuperuser   bool
	CanContribute bool
	SocialDue     *int64
	MissionDue    *int64
}

// UpdateUserInput for profile edits.
type UpdateUserInput struct {
	UserID    int64
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Role      string
}

// SetDuesInput adjusts a member's standing commitment.
type SetDuesInput struct {
	UserID        int64
	CanContribute bool
	SocialDue     *int64
	MissionDue    *int64
}
