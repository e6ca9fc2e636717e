package sms

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// Sender delivers one text message
type Sender interface {
	Send(ctx context.Context, to, body string) error
}

// Config holds Twilio account settings
type Config struct {
	AccountSID string
	AuthToken  string
	FromNumber string
}

// messageCreator is the slice of the Twilio API used here
type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// TwilioSender sends SMS through the Twilio REST API
type TwilioSender struct {
	api    messageCreator
	from   string
	logger zerolog.Logger
}

// NewTwilioSender creates a sender. With no account configured it returns a
// sender that only logs.
func NewTwilioSender(config Config, logger zerolog.Logger) *TwilioSender {
	s := &TwilioSender{from: config.FromNumber, logger: logger}
	if config.AccountSID != "" && config.AuthToken != "" {
		client := twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: config.AccountSID,
			Password: config.AuthToken,
		})
		s.api = client.Api
	}
	return s
}

// Send delivers body to the E.164 number to
func (s *TwilioSender) Send(ctx context.Context, to, body string) error {
	if s.api == nil {
		s.logger.Warn().Str("to", to).Msg("Twilio credentials not configured - SMS not sent")
		return nil
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.from)
	params.SetBody(body)

	resp, err := s.api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("twilio create message: %w", err)
	}

	if resp.ErrorCode != nil {
		return fmt.Errorf("twilio rejected message: code %d", *resp.ErrorCode)
	}

	if resp.Sid != nil {
		s.logger.Debug().Str("to", to).Str("sid", *resp.Sid).Msg("SMS queued")
	}
	return nil
}
