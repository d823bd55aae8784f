package jobs

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/carson-networks/udhaar-ledger/internal/logging"
)

// TwilioNotifier sends through Twilio: WhatsApp for E.164 numbers starting
// with '+', SMS otherwise.
type TwilioNotifier struct {
	client       *twilio.RestClient
	smsFrom      string
	whatsAppFrom string
}

func NewTwilioNotifier(accountSID, authToken, smsFrom, whatsAppFrom string) *TwilioNotifier {
	return &TwilioNotifier{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSID,
			Password: authToken,
		}),
		smsFrom:      smsFrom,
		whatsAppFrom: whatsAppFrom,
	}
}

// route picks the channel addresses for phone.
func (t *TwilioNotifier) route(phone string) (to, from, channel string) {
	if strings.HasPrefix(phone, "+") && t.whatsAppFrom != "" {
		return "whatsapp:" + phone, "whatsapp:" + t.whatsAppFrom, "whatsapp"
	}
	return phone, t.smsFrom, "sms"
}

func (t *TwilioNotifier) Send(ctx context.Context, phone, message string) error {
	to, from, channel := t.route(phone)

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(from)
	params.SetBody(message)

	// The Twilio client has no context support; ctx only carries log data.
	resp, err := t.client.Api.CreateMessage(params)
	if err != nil {
		return err
	}
	if resp.Sid != nil {
		logging.GetLogData(ctx).AddData("lastMessageSid", *resp.Sid)
	}
	logging.GetLogData(ctx).AddData("lastChannel", channel)
	return nil
}

// LogNotifier writes reminders to the log instead of sending them. Used when
// Twilio is not configured.
type LogNotifier struct{}

func (LogNotifier) Send(ctx context.Context, phone, message string) error {
	logging.GetLogData(ctx).Log().WithFields(logrus.Fields{
		"phone":   phone,
		"message": message,
	}).Info("Job.Reminder.NotSent")
	return nil
}
