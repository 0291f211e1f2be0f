package mailer

import (
	"gopkg.in/gomail.v2"

	"github.com/frahmantamala/workforce-portal/internal"
)

// Sender is the outbound message collaborator. The auth core only needs
// "deliver this body to this address"; everything else is the mailer's
// problem.
type Sender interface {
	Send(to, subject, body string) error
}

type SMTPSender struct {
	cfg internal.MailerConfig
}

func NewSMTPSender(cfg internal.MailerConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

func (s *SMTPSender) Send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.FromAddress)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(
		s.cfg.SMTPHost,
		s.cfg.SMTPPort,
		s.cfg.SMTPUser,
		s.cfg.SMTPPassword,
	)

	return d.DialAndSend(m)
}
