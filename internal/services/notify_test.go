package services

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventinvites/internal/domain"
)

type fakeMailer struct {
	sendErr     error
	lastTo      string
	lastSubject string
	lastAtts    []domain.Attachment
}

func (f *fakeMailer) Send(to, subject, html, text string, attachments []domain.Attachment) error {
	f.lastTo = to
	f.lastSubject = subject
	f.lastAtts = attachments
	return f.sendErr
}

type fakeRenderer struct{}

func (fakeRenderer) Render(name string, data any) (string, string, string, error) {
	return "subject", "<p>html</p>", "text", nil
}

type fakeMessenger struct {
	sendErr  error
	lastTo   string
	lastBody string
}

func (f *fakeMessenger) SendWhatsApp(to, body string) error {
	f.lastTo = to
	f.lastBody = body
	return f.sendErr
}

func notifyFixtures() (*domain.Invite, *domain.Event) {
	email := "alice@example.com"
	number := "+15550001111"
	invite := &domain.Invite{
		ID:         "inv-1",
		EventID:    "ev-1",
		Kind:       domain.InviteKindIndividual,
		TicketLink: "http://tickets.test/ticket/abc",
		InviteeDetails: domain.InviteeDetails{
			Email:          &email,
			WhatsAppNumber: &number,
		},
	}
	event := &domain.Event{ID: "ev-1", Type: "Birthday"}
	return invite, event
}

func TestShareByEmail(t *testing.T) {
	invite, event := notifyFixtures()
	mailer := &fakeMailer{}
	svc := NewNotificationService(mailer, fakeRenderer{}, &fakeMessenger{}, slog.Default())

	err := svc.ShareByEmail(context.Background(), invite, event, []byte("BEGIN:VCALENDAR"))
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", mailer.lastTo)
	require.Len(t, mailer.lastAtts, 1)
	assert.Equal(t, "invite_inv-1.ics", mailer.lastAtts[0].Filename)
	assert.Equal(t, "text/calendar", mailer.lastAtts[0].ContentType)
}

func TestShareByEmail_NoAddress(t *testing.T) {
	invite, event := notifyFixtures()
	invite.InviteeDetails.Email = nil
	svc := NewNotificationService(&fakeMailer{}, fakeRenderer{}, &fakeMessenger{}, slog.Default())

	err := svc.ShareByEmail(context.Background(), invite, event, nil)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestShareByEmail_DeliveryFailure(t *testing.T) {
	invite, event := notifyFixtures()
	mailer := &fakeMailer{sendErr: errors.New("smtp down")}
	svc := NewNotificationService(mailer, fakeRenderer{}, &fakeMessenger{}, slog.Default())

	err := svc.ShareByEmail(context.Background(), invite, event, nil)
	require.ErrorIs(t, err, domain.ErrDeliveryFailed)
}

func TestShareByWhatsApp(t *testing.T) {
	invite, event := notifyFixtures()
	messenger := &fakeMessenger{}
	svc := NewNotificationService(&fakeMailer{}, fakeRenderer{}, messenger, slog.Default())

	err := svc.ShareByWhatsApp(context.Background(), invite, event)
	require.NoError(t, err)
	assert.Equal(t, "+15550001111", messenger.lastTo)
	assert.Contains(t, messenger.lastBody, invite.TicketLink)
}

func TestShareByWhatsApp_DeliveryFailure(t *testing.T) {
	invite, event := notifyFixtures()
	messenger := &fakeMessenger{sendErr: errors.New("twilio down")}
	svc := NewNotificationService(&fakeMailer{}, fakeRenderer{}, messenger, slog.Default())

	err := svc.ShareByWhatsApp(context.Background(), invite, event)
	require.ErrorIs(t, err, domain.ErrDeliveryFailed)
}
