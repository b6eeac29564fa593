package domain

import "time"

// User mirrors an identity-provider principal in the user directory.
type User struct {
	UID         string    `json:"uid"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	PhotoURL    string    `json:"photoURL"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Principal is the authenticated identity returned by the identity provider.
type Principal struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	PhotoURL    string `json:"photoURL"`
}

// IsZero reports whether the principal carries no identity.
func (p Principal) IsZero() bool {
	return p.UID == ""
}

// ToUser converts the principal into a user directory entry.
func (p Principal) ToUser() User {
	return User{
		UID:         p.UID,
		Email:       p.Email,
		DisplayName: p.DisplayName,
		PhotoURL:    p.PhotoURL,
	}
}
