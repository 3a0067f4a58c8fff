package model

import "time"

// Role identifies which side of a study conversation sent a message.
// It is always derived from the authenticated principal, never from
// client-supplied input.
type Role string

const (
	RoleParticipant Role = "participant"
	RoleAdmin       Role = "admin"
)

// Message is one entry in the bidirectional thread between a
// participant and the administrator pool. UserID is the participant
// whose thread the message belongs to; SenderID is who actually wrote
// it. IsRead only ever flips false→true, by the recipient.
type Message struct {
	ID         string    `db:"id" json:"id"`
	UserID     string    `db:"user_id" json:"user_id"`
	SenderID   string    `db:"sender_id" json:"sender_id"`
	SenderRole Role      `db:"sender_role" json:"sender_role"`
	Body       string    `db:"body" json:"body"`
	IsRead     bool      `db:"is_read" json:"is_read"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
