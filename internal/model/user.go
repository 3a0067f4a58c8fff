package model

import "time"

// User mirrors the identity provider's view of a principal so that
// ownership references on profiles, feedback, uploads and messages
// resolve locally. Admin is normalized to a real bool exactly once,
// when the row is written.
type User struct {
	ID        string    `db:"id" json:"id"`
	Email     string    `db:"email" json:"email"`
	Admin     bool      `db:"admin" json:"admin"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
