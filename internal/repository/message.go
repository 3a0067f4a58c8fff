package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/lumenlabs/studyportal/internal/apperr"
	"github.com/lumenlabs/studyportal/internal/logger"
	"github.com/lumenlabs/studyportal/internal/model"
	"github.com/lumenlabs/studyportal/internal/principal"
)

type MessageRepository interface {
	Create(p principal.Principal, msg *model.Message) error
	Thread(p principal.Principal, targetOwner string) ([]*model.Message, error)
	UnreadCount(p principal.Principal) (int, error)
	MarkRead(p principal.Principal, targetOwner string) error
}

type messageRepository struct {
	db *sqlx.DB
}

func NewMessageRepository(db *sqlx.DB) MessageRepository {
	return &messageRepository{db: db}
}

// Create writes one message into a participant's thread. The sender is
// always the calling principal: an administrator writes admin-attributed
// rows under their own identity and can never forge a participant's.
func (r *messageRepository) Create(p principal.Principal, msg *model.Message) error {
	if msg.SenderID != p.ID {
		logger.Security("message sender forgery rejected", "principal", p.ID, "sender", msg.SenderID)
		return apperr.ErrIsolationViolation
	}
	if err := checkWriteOwner(p, msg.UserID); err != nil {
		return err
	}

	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}

	_, err := r.db.Exec(`
		INSERT INTO messages (id, user_id, sender_id, sender_role, body, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, msg.ID, msg.UserID, msg.SenderID, msg.SenderRole, msg.Body, msg.IsRead, msg.CreatedAt)
	if err != nil {
		return apperr.Transient(err)
	}

	return nil
}

// Thread returns a conversation most-recent-first; the relay re-sorts
// into chronological order and does not depend on store ordering.
func (r *messageRepository) Thread(p principal.Principal, targetOwner string) ([]*model.Message, error) {
	owner, err := resolveOwner(p, targetOwner)
	if err != nil {
		return nil, err
	}

	var msgs []*model.Message
	err = r.db.Select(&msgs, `
		SELECT * FROM messages WHERE user_id = $1 ORDER BY created_at DESC
	`, owner)
	if err != nil {
		return nil, apperr.Transient(err)
	}

	return msgs, nil
}

// UnreadCount counts unread admin messages addressed to the calling
// participant. This backs the notification poller.
func (r *messageRepository) UnreadCount(p principal.Principal) (int, error) {
	var count int
	err := r.db.Get(&count, `
		SELECT COUNT(*) FROM messages
		WHERE user_id = $1 AND sender_role = $2 AND is_read = FALSE
	`, p.ID, model.RoleAdmin)
	if err != nil {
		return 0, apperr.Transient(err)
	}

	return count, nil
}

// MarkRead flips is_read on every unread message addressed to the
// caller within the resolved thread. Idempotent: zero affected rows is
// a normal outcome, not an error.
func (r *messageRepository) MarkRead(p principal.Principal, targetOwner string) error {
	owner, err := resolveOwner(p, targetOwner)
	if err != nil {
		return err
	}

	// Messages addressed to the caller are the ones sent by the other
	// role in the thread.
	senderRole := model.RoleAdmin
	if p.Admin {
		senderRole = model.RoleParticipant
	}

	_, err = r.db.Exec(`
		UPDATE messages SET is_read = TRUE
		WHERE user_id = $1 AND sender_role = $2 AND is_read = FALSE
	`, owner, senderRole)
	if err != nil {
		return apperr.Transient(err)
	}

	return nil
}
