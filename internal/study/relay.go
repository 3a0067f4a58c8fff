package study

import (
	"sort"
	"strings"

	"github.com/lumenlabs/studyportal/internal/apperr"
	"github.com/lumenlabs/studyportal/internal/model"
	"github.com/lumenlabs/studyportal/internal/principal"
	"github.com/lumenlabs/studyportal/internal/repository"
)

// MessageRelay normalizes and orders the bidirectional thread between
// one participant and the administrator pool. Ordering never depends on
// what the store returns; the relay sorts every fetch itself.
type MessageRelay struct {
	messages repository.MessageRepository
}

func NewMessageRelay(messages repository.MessageRepository) *MessageRelay {
	return &MessageRelay{messages: messages}
}

// Fetch returns the thread in ascending creation order. A participant
// always gets their own thread (targetOwner is ignored); an
// administrator selects a participant's thread with targetOwner.
func (r *MessageRelay) Fetch(p principal.Principal, targetOwner string) ([]*model.Message, error) {
	if !p.Admin {
		targetOwner = ""
	}

	msgs, err := r.messages.Thread(p, targetOwner)
	if err != nil {
		return nil, err
	}

	for _, m := range msgs {
		m.SenderRole = normalizeRole(m.SenderRole)
	}

	sort.SliceStable(msgs, func(i, j int) bool {
		if msgs[i].CreatedAt.Equal(msgs[j].CreatedAt) {
			return msgs[i].ID < msgs[j].ID
		}
		return msgs[i].CreatedAt.Before(msgs[j].CreatedAt)
	})

	return msgs, nil
}

// Send validates and writes one message, then re-fetches the thread so
// the caller observes consistent post-write state instead of an
// optimistic local append. The sender role comes from the principal,
// never from client input.
func (r *MessageRelay) Send(p principal.Principal, body, targetOwner string) ([]*model.Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, apperr.NewValidationError(apperr.FieldError{Field: "body", Reason: "must not be empty"})
	}

	role := model.RoleParticipant
	owner := p.ID
	if p.Admin {
		role = model.RoleAdmin
		if targetOwner == "" {
			return nil, apperr.NewValidationError(apperr.FieldError{Field: "owner", Reason: "required for administrator messages"})
		}
		owner = targetOwner
	}

	msg := &model.Message{
		UserID:     owner,
		SenderID:   p.ID,
		SenderRole: role,
		Body:       body,
	}
	err := r.messages.Create(p, msg)
	if err != nil {
		return nil, err
	}

	return r.Fetch(p, targetOwner)
}

// MarkRead flips every unread message addressed to the caller in the
// resolved thread. Re-invoking with nothing unread is a no-op.
func (r *MessageRelay) MarkRead(p principal.Principal, targetOwner string) error {
	if !p.Admin {
		targetOwner = ""
	}
	return r.messages.MarkRead(p, targetOwner)
}

// Unread reports the caller's unread admin-message count.
func (r *MessageRelay) Unread(p principal.Principal) (int, error) {
	return r.messages.UnreadCount(p)
}

// roleAliases folds the loosely-typed sender role spellings found in
// older rows into the two canonical roles.
var roleAliases = map[string]model.Role{
	"participant":   model.RoleParticipant,
	"user":          model.RoleParticipant,
	"member":        model.RoleParticipant,
	"admin":         model.RoleAdmin,
	"administrator": model.RoleAdmin,
	"staff":         model.RoleAdmin,
}

func normalizeRole(role model.Role) model.Role {
	canonical, ok := roleAliases[strings.ToLower(string(role))]
	if ok {
		return canonical
	}
	return model.RoleParticipant
}
