package notifications

import (
	"context"
	"fmt"

	"stagedoor/internal/shared/config"

	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// SMSSender delivers booking confirmations over SMS
type SMSSender interface {
	SendConfirmation(ctx context.Context, msg *ConfirmationMessage) error
}

// TwilioSMSSender is the Twilio implementation of SMSSender
type TwilioSMSSender struct {
	client     *twilio.RestClient
	fromNumber string
}

// NewTwilioSMSSender creates the Twilio SMS sender
func NewTwilioSMSSender(cfg config.SMSConfig) (*TwilioSMSSender, error) {
	if cfg.AccountSID == "" || cfg.AuthToken == "" {
		return nil, fmt.Errorf("twilio credentials are required")
	}
	if cfg.FromNumber == "" {
		return nil, fmt.Errorf("twilio from number is required")
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})

	return &TwilioSMSSender{
		client:     client,
		fromNumber: cfg.FromNumber,
	}, nil
}

func (s *TwilioSMSSender) SendConfirmation(ctx context.Context, msg *ConfirmationMessage) error {
	if msg.GuestPhone == "" {
		return fmt.Errorf("confirmation for %s has no phone number", msg.GuestName)
	}

	body := fmt.Sprintf("You're confirmed for %s on %s at %s. %s, %s, %s. Door code: %s",
		msg.ExperienceTitle, msg.ShowDate, msg.ShowTime,
		msg.VenueName, msg.VenueCity, msg.VenueState,
		msg.TicketCode,
	)

	params := &openapi.CreateMessageParams{}
	params.SetTo(msg.GuestPhone)
	params.SetFrom(s.fromNumber)
	params.SetBody(body)

	if _, err := s.client.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("failed to send SMS: %w", err)
	}
	return nil
}
