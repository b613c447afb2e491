package domain

import "strings"

// Identity is the authenticated principal carried by a session token.
type Identity struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// NewIdentity derives the display name from the local part of email.
func NewIdentity(email string) Identity {
	name := email
	if i := strings.IndexByte(email, '@'); i >= 0 {
		name = email[:i]
	}
	return Identity{Email: email, Name: name}
}
