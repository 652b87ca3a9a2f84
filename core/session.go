package core

import "time"

// Session is the verified claim set carried by a session token.
type Session struct {
	ID        string    // Unique token identifier
	Email     string    // Email address of the user
	IssuedAt  time.Time // When the token was minted
	ExpiresAt time.Time // When the token expires
}
