package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bhotel/bhotel-ui-api/internal/data"
	"github.com/bhotel/bhotel-ui-api/internal/domain/hotel"
)

type memMessageRepo struct {
	messages map[string]*hotel.ContactMessage
	seq      int
}

func newMemMessageRepo() *memMessageRepo {
	return &memMessageRepo{messages: make(map[string]*hotel.ContactMessage)}
}

func (m *memMessageRepo) Create(_ context.Context, req *hotel.CreateMessageRequest) (*hotel.ContactMessage, error) {
	m.seq++
	msg := &hotel.ContactMessage{
		ID:      "msg-" + string(rune('0'+m.seq)),
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Body:    req.Body,
	}
	m.messages[msg.ID] = msg
	cp := *msg
	return &cp, nil
}

func (m *memMessageRepo) List(_ context.Context) ([]*hotel.ContactMessage, error) {
	var out []*hotel.ContactMessage
	for _, msg := range m.messages {
		out = append(out, msg)
	}
	return out, nil
}

func (m *memMessageRepo) MarkRead(_ context.Context, id string) error {
	msg, ok := m.messages[id]
	if !ok {
		return data.ErrMessageNotFound
	}
	msg.Read = true
	return nil
}

func newTestMessageService(t *testing.T, notifier *capturingNotifier) (*MessageService, *memMessageRepo) {
	t.Helper()
	repo := newMemMessageRepo()
	opts := MessageServiceOptions{Repo: repo}
	if notifier != nil {
		opts.Notifier = notifier
	}
	svc, err := NewMessageService(opts)
	require.NoError(t, err)
	return svc, repo
}

func TestSubmitMessageNotifiesStaff(t *testing.T) {
	notifier := &capturingNotifier{}
	svc, _ := newTestMessageService(t, notifier)

	msg, err := svc.Submit(context.Background(), &hotel.CreateMessageRequest{
		Name:    "Ada",
		Email:   "ada@example.com",
		Subject: "Late check-in",
		Body:    "We arrive after midnight.",
	})
	require.NoError(t, err)

	require.Len(t, notifier.notifications, 1)
	assert.Equal(t, "message.received", notifier.notifications[0].Kind)
	assert.Equal(t, msg.ID, notifier.notifications[0].Payload["message_id"])
}

func TestSubmitMessageStripsMarkup(t *testing.T) {
	svc, _ := newTestMessageService(t, nil)

	msg, err := svc.Submit(context.Background(), &hotel.CreateMessageRequest{
		Name:  "Ada",
		Email: "ada@example.com",
		Body:  "<p>Do you have <b>parking</b>?</p>",
	})
	require.NoError(t, err)
	assert.Equal(t, "Do you have parking?", msg.Body)
}

func TestSubmitMessageValidation(t *testing.T) {
	svc, _ := newTestMessageService(t, nil)

	_, err := svc.Submit(context.Background(), &hotel.CreateMessageRequest{
		Name: "Ada", Email: "not-an-email", Body: "hi",
	})
	require.ErrorIs(t, err, hotel.ErrMessageEmailInvalid)
}

func TestMarkRead(t *testing.T) {
	svc, repo := newTestMessageService(t, nil)

	msg, err := svc.Submit(context.Background(), &hotel.CreateMessageRequest{
		Name: "Ada", Email: "ada@example.com", Body: "hi",
	})
	require.NoError(t, err)

	require.NoError(t, svc.MarkRead(context.Background(), msg.ID))
	assert.True(t, repo.messages[msg.ID].Read)

	require.ErrorIs(t, svc.MarkRead(context.Background(), "missing"), data.ErrMessageNotFound)
}
