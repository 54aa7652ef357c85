// services/notifier.go
package services

import (
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// Notifier delivers an out-of-app message to a recipient. Send
// failures must never fail the business operation that triggered them;
// callers log and continue.
type Notifier interface {
	Send(to, subject, body string) error
}

// TwilioNotifier sends via SMS, or WhatsApp when the recipient is in
// E.164 format.
type TwilioNotifier struct {
	client *twilio.RestClient
}

func NewTwilioNotifier() *TwilioNotifier {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")

	return &TwilioNotifier{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
	}
}

func (n *TwilioNotifier) Send(to, subject, body string) error {
	message := body
	if subject != "" {
		message = subject + "\n" + body
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetBody(message)

	// WhatsApp when the number is in E.164 format, SMS otherwise.
	if strings.HasPrefix(to, "+") {
		params.SetTo("whatsapp:" + to)
		params.SetFrom("whatsapp:" + os.Getenv("TWILIO_WHATSAPP_NUMBER"))
	} else {
		params.SetTo(to)
		params.SetFrom(os.Getenv("TWILIO_PHONE_NUMBER"))
	}

	resp, err := n.client.Api.CreateMessage(params)
	if err != nil {
		return err
	}
	if resp.Sid != nil {
		log.Debug().Str("to", to).Str("sid", *resp.Sid).Msg("message sent")
	}
	return nil
}

// NoopNotifier discards messages. Used when no transport is
// configured.
type NoopNotifier struct{}

func (NoopNotifier) Send(to, subject, body string) error { return nil }

// DefaultNotifier picks the Twilio transport when credentials are
// configured and a no-op otherwise.
func DefaultNotifier() Notifier {
	if os.Getenv("TWILIO_ACCOUNT_SID") != "" {
		return NewTwilioNotifier()
	}
	return NoopNotifier{}
}
