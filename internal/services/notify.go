package services

import (
	"context"
	"fmt"
	"log/slog"

	"eventinvites/internal/domain"
)

type notificationService struct {
	mailer    domain.Mailer
	renderer  domain.EmailTemplateRenderer
	messenger domain.Messenger
	logger    *slog.Logger
}

// NewNotificationService returns a NotificationService delivering via the
// given mailer and messenger. Delivery errors are wrapped as
// ErrDeliveryFailed; they never affect the state that triggered the send.
func NewNotificationService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer, messenger domain.Messenger, logger *slog.Logger) domain.NotificationService {
	return &notificationService{
		mailer:    mailer,
		renderer:  renderer,
		messenger: messenger,
		logger:    logger,
	}
}

func (s *notificationService) ShareByEmail(ctx context.Context, invite *domain.Invite, event *domain.Event, icsDocument []byte) error {
	if invite.InviteeDetails.Email == nil {
		return fmt.Errorf("%w: invite has no email address", domain.ErrInvalidInput)
	}

	data := &domain.InviteShareEmailData{
		EventType:  event.Type,
		TicketLink: invite.TicketLink,
	}
	subject, htmlBody, textBody, err := s.renderer.Render("invite_share", data)
	if err != nil {
		return fmt.Errorf("render invite_share template: %w", err)
	}

	attachment := domain.Attachment{
		Filename:    fmt.Sprintf("invite_%s.ics", invite.ID),
		ContentType: "text/calendar",
		Content:     icsDocument,
	}
	if err := s.mailer.Send(*invite.InviteeDetails.Email, subject, htmlBody, textBody, []domain.Attachment{attachment}); err != nil {
		s.logger.ErrorContext(ctx, "invite email delivery failed", "invite_id", invite.ID, "err", err)
		return fmt.Errorf("%w: %v", domain.ErrDeliveryFailed, err)
	}
	return nil
}

func (s *notificationService) ShareByWhatsApp(ctx context.Context, invite *domain.Invite, event *domain.Event) error {
	if invite.InviteeDetails.WhatsAppNumber == nil {
		return fmt.Errorf("%w: invite has no WhatsApp number", domain.ErrInvalidInput)
	}

	body := fmt.Sprintf("Here is your personalized calendar link for the %s: %s", event.Type, invite.TicketLink)
	if err := s.messenger.SendWhatsApp(*invite.InviteeDetails.WhatsAppNumber, body); err != nil {
		s.logger.ErrorContext(ctx, "invite WhatsApp delivery failed", "invite_id", invite.ID, "err", err)
		return fmt.Errorf("%w: %v", domain.ErrDeliveryFailed, err)
	}
	return nil
}
