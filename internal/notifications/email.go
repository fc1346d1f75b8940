package notifications

import (
	"bytes"
	"context"
	"fmt"
	"net/smtp"
	"text/template"

	"stagepass/internal/shared/config"
	"stagepass/pkg/logger"
)

// EmailSender delivers a booking confirmation to the buyer.
type EmailSender interface {
	SendConfirmation(ctx context.Context, to string, confirmation *BookingConfirmation) error
}

const confirmationTemplate = `Hi,

Your booking for {{.EventName}} on {{.EventDate.Format "Monday, 2 Jan 2006 15:04"}} is confirmed.

Seats:
{{range .Attendees}}  {{.SeatLabel}} ({{.Name}}){{if .MemberVerified}} - member, no charge{{else}} - {{printf "%.2f" .AmountOwed}}{{end}}
{{end}}
Total amount: {{printf "%.2f" .TotalAmount}}

Booking reference: {{.BookingID}}

See you there!
`

type smtpSender struct {
	cfg config.EmailConfig
	tpl *template.Template
}

func NewSMTPSender(cfg config.EmailConfig) EmailSender {
	return &smtpSender{
		cfg: cfg,
		tpl: template.Must(template.New("confirmation").Parse(confirmationTemplate)),
	}
}

func (s *smtpSender) SendConfirmation(ctx context.Context, to string, confirmation *BookingConfirmation) error {
	var body bytes.Buffer
	if err := s.tpl.Execute(&body, confirmation); err != nil {
		return fmt.Errorf("failed to render confirmation email: %w", err)
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: Booking confirmed: %s\r\n\r\n%s",
		s.cfg.FromEmail, to, confirmation.EventName, body.String())

	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)

	if err := smtp.SendMail(addr, auth, s.cfg.FromEmail, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send confirmation email: %w", err)
	}
	return nil
}

// logSender is the fallback when SMTP is not configured; confirmations
// are logged instead of mailed.
type logSender struct {
	log *logger.Logger
}

func NewLogSender() EmailSender {
	return &logSender{log: logger.GetDefault()}
}

func (s *logSender) SendConfirmation(ctx context.Context, to string, confirmation *BookingConfirmation) error {
	s.log.InfoContext(ctx, "booking confirmation (email disabled)",
		"to", to,
		"booking_id", confirmation.BookingID.String(),
		"event", confirmation.EventName,
		"total", confirmation.TotalAmount,
	)
	return nil
}
