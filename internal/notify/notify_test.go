package notify

import (
	"context"
	"errors"
	"testing"

	"firebase.google.com/go/v4/messaging"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/healthconnect-api/internal/infra/repository"
	"github.com/BruksfildServices01/healthconnect-api/internal/models"
)

type fakeEmail struct {
	sent []EmailMessage
	err  error
}

func (f *fakeEmail) Send(_ context.Context, msg EmailMessage) error {
	f.sent = append(f.sent, msg)
	return f.err
}

type fakePush struct {
	tokens []string
	msgs   []PushMessage
	stale  []string
}

func (f *fakePush) Send(_ context.Context, tokens []string, msg PushMessage) ([]string, error) {
	f.tokens = append(f.tokens, tokens...)
	f.msgs = append(f.msgs, msg)
	return f.stale, nil
}

func appointment() *models.Appointment {
	return &models.Appointment{
		ID:     "ap-1",
		User:   models.UserSnapshot{ID: "u1", Name: "Alice", Email: "alice@test.com"},
		Item:   "Dr. Emily Carter",
		Type:   "Doctor",
		Date:   "2026-03-12",
		Time:   "10:00 AM",
		Clinic: "City Clinic",
	}
}

func TestNotifierFansOut(t *testing.T) {
	ctx := context.Background()
	devices := repository.NewDeviceMemoryRepository()
	require.NoError(t, devices.Register(ctx, "u1", "tok-a"))
	require.NoError(t, devices.Register(ctx, "u1", "tok-b"))

	email := &fakeEmail{}
	push := &fakePush{stale: []string{"tok-b"}}
	n := NewNotifier(email, push, devices, zerolog.Nop())

	require.NoError(t, n.AppointmentConfirmed(ctx, appointment()))

	require.Len(t, email.sent, 1)
	assert.Equal(t, "alice@test.com", email.sent[0].To)
	assert.Contains(t, email.sent[0].Body, "City Clinic")

	assert.ElementsMatch(t, []string{"tok-a", "tok-b"}, push.tokens)
	assert.Equal(t, "ap-1", push.msgs[0].Data["appointment_id"])

	left, err := devices.Tokens(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"tok-a"}, left)
}

func TestNotifierSkipsMissingChannels(t *testing.T) {
	ctx := context.Background()
	email := &fakeEmail{}
	push := &fakePush{}
	n := NewNotifier(email, push, repository.NewDeviceMemoryRepository(), zerolog.Nop())

	ap := appointment()
	ap.User.Email = ""

	require.NoError(t, n.AppointmentReminder(ctx, ap))
	assert.Empty(t, email.sent)
	assert.Empty(t, push.msgs)
}

func TestNotifierReportsEmailFailure(t *testing.T) {
	boom := errors.New("smtp down")
	n := NewNotifier(&fakeEmail{err: boom}, &fakePush{}, repository.NewDeviceMemoryRepository(), zerolog.Nop())

	err := n.AppointmentConfirmed(context.Background(), appointment())
	assert.ErrorIs(t, err, boom)
}

type fakeMulticast struct {
	got  *messaging.MulticastMessage
	resp *messaging.BatchResponse
}

func (f *fakeMulticast) SendEachForMulticast(_ context.Context, m *messaging.MulticastMessage) (*messaging.BatchResponse, error) {
	f.got = m
	return f.resp, nil
}

func TestFCMSender(t *testing.T) {
	mc := &fakeMulticast{resp: &messaging.BatchResponse{
		SuccessCount: 2,
		Responses:    []*messaging.SendResponse{{Success: true}, {Success: true}},
	}}
	s := NewFCMSender(mc, zerolog.Nop())

	stale, err := s.Send(context.Background(), []string{"a", "b"}, PushMessage{Title: "T", Body: "B"})
	require.NoError(t, err)
	assert.Empty(t, stale)
	assert.Equal(t, []string{"a", "b"}, mc.got.Tokens)
	assert.Equal(t, "T", mc.got.Notification.Title)

	mc.got = nil
	stale, err = s.Send(context.Background(), nil, PushMessage{})
	require.NoError(t, err)
	assert.Nil(t, stale)
	assert.Nil(t, mc.got)
}

func TestFCMSenderTotalFailure(t *testing.T) {
	mc := &fakeMulticast{resp: &messaging.BatchResponse{
		FailureCount: 1,
		Responses:    []*messaging.SendResponse{{Error: errors.New("unavailable")}},
	}}

	_, err := NewFCMSender(mc, zerolog.Nop()).Send(context.Background(), []string{"a"}, PushMessage{})
	assert.Error(t, err)
}

func TestSendGridSenderDisabledWithoutKey(t *testing.T) {
	assert.Nil(t, NewSendGridSender(SendGridConfig{}, zerolog.Nop()))
}
