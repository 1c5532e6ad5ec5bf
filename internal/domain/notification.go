package domain

import "context"

// Attachment is a file attached to an outgoing email.
type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(to, subject, html, text string, attachments []Attachment) error
}

// Messenger defines the contract for sending WhatsApp messages.
type Messenger interface {
	SendWhatsApp(to, body string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// InviteShareEmailData holds data for the invite share email.
type InviteShareEmailData struct {
	EventType  string
	TicketLink string
}

// NotificationService delivers a guest's calendar file or ticket link.
// Delivery is fire-and-forget relative to invite persistence: failures surface
// as ErrDeliveryFailed and never affect stored state.
type NotificationService interface {
	ShareByEmail(ctx context.Context, invite *Invite, event *Event, icsDocument []byte) error
	ShareByWhatsApp(ctx context.Context, invite *Invite, event *Event) error
}
