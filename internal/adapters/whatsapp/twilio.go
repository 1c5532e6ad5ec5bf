package whatsapp

import (
	"fmt"
	"log"
	"strings"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"eventinvites/internal/domain"
)

// MessengerConfig holds configuration for creating a WhatsApp messenger.
type MessengerConfig struct {
	AccountSID string
	AuthToken  string
	FromNumber string
}

// NewMessenger creates a Twilio-backed WhatsApp messenger. With empty
// credentials it returns a no-op messenger so development setups work without
// a Twilio account.
func NewMessenger(config MessengerConfig) domain.Messenger {
	if config.AccountSID == "" || config.AuthToken == "" {
		log.Printf("[WHATSAPP] Twilio credentials not set, using noop messenger")
		return &noopMessenger{}
	}
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: config.AccountSID,
		Password: config.AuthToken,
	})
	return &twilioMessenger{client: client, fromNumber: config.FromNumber}
}

type twilioMessenger struct {
	client     *twilio.RestClient
	fromNumber string
}

func (m *twilioMessenger) SendWhatsApp(to, body string) error {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(whatsAppAddr(to))
	params.SetFrom(whatsAppAddr(m.fromNumber))
	params.SetBody(body)

	resp, err := m.client.Api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("failed to send WhatsApp message via Twilio: %w", err)
	}
	if resp.Sid != nil {
		log.Printf("[WHATSAPP] Message sent via Twilio. SID: %s", *resp.Sid)
	}
	return nil
}

// whatsAppAddr prefixes a number with the whatsapp: scheme Twilio expects.
func whatsAppAddr(number string) string {
	if strings.HasPrefix(number, "whatsapp:") {
		return number
	}
	return "whatsapp:" + number
}

type noopMessenger struct{}

func (n *noopMessenger) SendWhatsApp(to, body string) error {
	log.Println("[WHATSAPP] Message would be sent (noop)", "to", to)
	return nil
}
