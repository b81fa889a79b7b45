// Package models defines server-side records persisted by the stores.
package models

import (
	"strings"
	"time"
)

// IdentityProfile is what the identity provider vouched for at creation time.
type IdentityProfile struct {
	ProviderID string
	Name       string
	Email      string
}

// User is immutable once created; only deletion changes its state.
type User struct {
	ID        string
	Profile   IdentityProfile
	CreatedAt time.Time
}

func (u *User) Name() string {
	return u.Profile.Name
}

func (u *User) Email() string {
	return u.Profile.Email
}

// IsPrivileged reports whether the user's email is in privileged.
// Keys of privileged are expected lowercased.
func (u *User) IsPrivileged(privileged map[string]struct{}) bool {
	_, ok := privileged[strings.ToLower(u.Profile.Email)]
	return ok
}
