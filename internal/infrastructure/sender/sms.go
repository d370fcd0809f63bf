package sender

import (
	"context"
	"errors"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// TwilioSMSSender delivers SMS through the Twilio REST API. Credentials
// come from the TWILIO_* environment variables the client reads itself.
type TwilioSMSSender struct {
	client *twilio.RestClient
	from   string
}

func NewTwilioSMSSender(fromNumber string) *TwilioSMSSender {
	return &TwilioSMSSender{client: twilio.NewRestClient(), from: fromNumber}
}

func (s *TwilioSMSSender) Send(ctx context.Context, to, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.from == "" {
		return errors.New("twilio sender number not configured")
	}
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.from)
	params.SetBody(body)
	_, err := s.client.Api.CreateMessage(params)
	return err
}
