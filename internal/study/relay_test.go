package study

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumenlabs/studyportal/internal/apperr"
	"github.com/lumenlabs/studyportal/internal/model"
	"github.com/lumenlabs/studyportal/internal/principal"
)

// fakeMessages mimics the store contract: Thread returns rows newest
// first, so relay ordering is observable.
type fakeMessages struct {
	rows      []*model.Message
	threadErr error
	now       time.Time
}

func (f *fakeMessages) add(owner, sender string, role model.Role, body string) *model.Message {
	f.now = f.now.Add(time.Minute)
	m := &model.Message{
		ID:         fmt.Sprintf("msg-%02d", len(f.rows)+1),
		UserID:     owner,
		SenderID:   sender,
		SenderRole: role,
		Body:       body,
		CreatedAt:  f.now,
	}
	f.rows = append(f.rows, m)
	return m
}

func (f *fakeMessages) Create(p principal.Principal, msg *model.Message) error {
	f.add(msg.UserID, msg.SenderID, msg.SenderRole, msg.Body)
	return nil
}

func (f *fakeMessages) Thread(p principal.Principal, targetOwner string) ([]*model.Message, error) {
	if f.threadErr != nil {
		return nil, f.threadErr
	}
	owner := p.ID
	if p.Admin {
		owner = targetOwner
	}
	var out []*model.Message
	for i := len(f.rows) - 1; i >= 0; i-- {
		if f.rows[i].UserID == owner {
			m := *f.rows[i]
			out = append(out, &m)
		}
	}
	return out, nil
}

func (f *fakeMessages) UnreadCount(p principal.Principal) (int, error) {
	n := 0
	for _, m := range f.rows {
		if m.UserID == p.ID && m.SenderRole == model.RoleAdmin && !m.IsRead {
			n++
		}
	}
	return n, nil
}

func (f *fakeMessages) MarkRead(p principal.Principal, targetOwner string) error {
	owner := p.ID
	role := model.RoleAdmin
	if p.Admin {
		owner = targetOwner
		role = model.RoleParticipant
	}
	for _, m := range f.rows {
		if m.UserID == owner && m.SenderRole == role {
			m.IsRead = true
		}
	}
	return nil
}

var (
	bella    = principal.Principal{ID: "bella"}
	operator = principal.Principal{ID: "staff-1", Admin: true}
)

func TestFetchSortsAscending(t *testing.T) {
	store := &fakeMessages{now: time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)}
	store.add("bella", "bella", model.RoleParticipant, "first")
	store.add("bella", "staff-1", model.RoleAdmin, "second")
	store.add("bella", "bella", model.RoleParticipant, "third")

	relay := NewMessageRelay(store)
	msgs, err := relay.Fetch(bella, "")
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, "first", msgs[0].Body)
	assert.Equal(t, "second", msgs[1].Body)
	assert.Equal(t, "third", msgs[2].Body)
}

func TestFetchTieBreaksOnID(t *testing.T) {
	at := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	store := &fakeMessages{rows: []*model.Message{
		{ID: "msg-02", UserID: "bella", SenderRole: model.RoleParticipant, Body: "b", CreatedAt: at},
		{ID: "msg-01", UserID: "bella", SenderRole: model.RoleParticipant, Body: "a", CreatedAt: at},
	}}

	msgs, err := NewMessageRelay(store).Fetch(bella, "")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "msg-01", msgs[0].ID)
	assert.Equal(t, "msg-02", msgs[1].ID)
}

func TestFetchNormalizesRoleAliases(t *testing.T) {
	store := &fakeMessages{now: time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)}
	store.add("bella", "bella", model.Role("user"), "hi")
	store.add("bella", "staff-1", model.Role("Administrator"), "hello")
	store.add("bella", "bella", model.Role("something-else"), "hm")

	msgs, err := NewMessageRelay(store).Fetch(bella, "")
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, model.RoleParticipant, msgs[0].SenderRole)
	assert.Equal(t, model.RoleAdmin, msgs[1].SenderRole)
	assert.Equal(t, model.RoleParticipant, msgs[2].SenderRole)
}

func TestFetchIgnoresOwnerForParticipants(t *testing.T) {
	store := &fakeMessages{now: time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)}
	store.add("bella", "bella", model.RoleParticipant, "mine")
	store.add("carol", "carol", model.RoleParticipant, "not mine")

	msgs, err := NewMessageRelay(store).Fetch(bella, "carol")
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "mine", msgs[0].Body)
}

func TestSendReturnsUpdatedThread(t *testing.T) {
	store := &fakeMessages{now: time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)}
	store.add("bella", "staff-1", model.RoleAdmin, "welcome")

	relay := NewMessageRelay(store)
	msgs, err := relay.Send(bella, "  thanks!  ", "")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "thanks!", msgs[1].Body, "body is trimmed before storage")
	assert.Equal(t, model.RoleParticipant, msgs[1].SenderRole)
	assert.Equal(t, "bella", msgs[1].SenderID)
}

func TestSendRejectsBlankBody(t *testing.T) {
	relay := NewMessageRelay(&fakeMessages{})
	for _, body := range []string{"", "   ", "\n\t"} {
		_, err := relay.Send(bella, body, "")
		var verr *apperr.ValidationError
		assert.ErrorAs(t, err, &verr)
	}
}

func TestSendAdminRequiresOwner(t *testing.T) {
	relay := NewMessageRelay(&fakeMessages{})

	_, err := relay.Send(operator, "hello", "")
	var verr *apperr.ValidationError
	require.ErrorAs(t, err, &verr)

	msgs, err := relay.Send(operator, "hello", "bella")
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "bella", msgs[0].UserID)
	assert.Equal(t, model.RoleAdmin, msgs[0].SenderRole)
	assert.Equal(t, "staff-1", msgs[0].SenderID)
}

func TestMarkReadIsIdempotent(t *testing.T) {
	store := &fakeMessages{now: time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)}
	store.add("bella", "staff-1", model.RoleAdmin, "one")
	store.add("bella", "staff-1", model.RoleAdmin, "two")

	relay := NewMessageRelay(store)
	n, err := relay.Unread(bella)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.NoError(t, relay.MarkRead(bella, ""))
	n, err = relay.Unread(bella)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	require.NoError(t, relay.MarkRead(bella, ""))
	n, err = relay.Unread(bella)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}
