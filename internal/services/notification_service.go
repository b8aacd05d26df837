package services

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/sarkar-crm/crm-service/internal/config"
	"github.com/sarkar-crm/crm-service/internal/utils"
)

// NotificationService sends approval and escalation alerts over email
// (SendGrid) and SMS (Twilio). Either client may be nil — the service
// logs and skips instead of failing, so the write paths never depend on
// a notification provider being configured.
type NotificationService struct {
	cfg            *config.Config
	sendgridClient *sendgrid.Client
	twilioClient   *twilio.RestClient
}

func NewNotificationService(cfg *config.Config, sg *sendgrid.Client, tw *twilio.RestClient) *NotificationService {
	return &NotificationService{cfg: cfg, sendgridClient: sg, twilioClient: tw}
}

func (s *NotificationService) Email(ctx context.Context, toEmail, subject, body string) error {
	if s.sendgridClient == nil {
		utils.Logger.WithField("email", toEmail).Debug("SendGrid not configured, skipping email")
		return nil
	}

	from := mail.NewEmail(s.cfg.OrganizationName, s.cfg.SendgridFromEmail)
	to := mail.NewEmail("", toEmail)
	message := mail.NewSingleEmail(from, subject, to, body, "<p>"+body+"</p>")

	_, sendErr := s.sendgridClient.Send(message)
	if sendErr != nil {
		return fmt.Errorf("%w: failed to send email via sendgrid: %v", utils.ErrExternalServiceFailure, sendErr)
	}
	return nil
}

func (s *NotificationService) SMS(ctx context.Context, toPhone, body string) error {
	if s.twilioClient == nil {
		utils.Logger.WithField("phone", toPhone).Debug("Twilio not configured, skipping SMS")
		return nil
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(toPhone)
	params.SetFrom(s.cfg.TwilioFromPhone)
	params.SetBody(body)

	_, sendErr := s.twilioClient.Api.CreateMessage(params)
	if sendErr != nil {
		return fmt.Errorf("%w: failed to send sms via twilio: %v", utils.ErrExternalServiceFailure, sendErr)
	}
	return nil
}
