package models

import "time"

// Roles a profile can hold
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Profile represents a family member's account
type Profile struct {
	ID        string    `json:"id" db:"id"`
	Username  string    `json:"username" db:"username"`
	Role      string    `json:"role" db:"role"`
	Points    int       `json:"points" db:"points"`
	WordCount int       `json:"word_count" db:"word_count"`
	AvatarURL string    `json:"avatar_url,omitempty" db:"avatar_url"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// IsAdmin reports whether the profile may use the admin view
func (p *Profile) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}

// Owner is the subset of a profile embedded in joined word rows
type Owner struct {
	Username  string `json:"username" db:"username"`
	AvatarURL string `json:"avatar_url,omitempty" db:"avatar_url"`
}
