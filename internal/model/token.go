package model

import "time"

// Token models a row in the `tokens` table. The Key column stores the full
// signed session credential verbatim; a token authenticates a request only
// while Active is true, its signature verifies and its embedded expiry has
// not elapsed. Logout flips Active to false; rows are never physically
// deleted.
type Token struct {
	ID        uint64    // tokens.id
	Key       string    // tokens.token_key (signed JWT, stored verbatim)
	UserID    uint64    // tokens.user_id (owner)
	Active    bool      // tokens.active
	CreatedAt time.Time // tokens.created_at
}
