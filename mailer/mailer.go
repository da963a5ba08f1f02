// Package mailer sends transactional mail through an SMTP relay. Credentials
// come from the environment; nothing here is ever hard-coded.
package mailer

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/rs/zerolog/log"

	"savora-api/configs"
)

type Mailer struct {
	host string
	port string
	user string
	pass string
	from string
}

// FromEnv builds a mailer from SMTP_* variables. Returns nil when no host is
// configured; a nil Mailer drops messages with a log line instead of failing
// the request that triggered them.
func FromEnv() *Mailer {
	host := configs.EnvSmtpHost()
	if host == "" {
		log.Info().Msg("no SMTP host configured, transactional mail disabled")
		return nil
	}
	return &Mailer{
		host: host,
		port: configs.EnvSmtpPort(),
		user: configs.EnvSmtpUser(),
		pass: configs.EnvSmtpPassword(),
		from: configs.EnvSmtpFrom(),
	}
}

func (m *Mailer) send(to, subject, body string) error {
	if m == nil {
		log.Debug().Str("to", to).Str("subject", subject).Msg("mail dropped, mailer disabled")
		return nil
	}

	msg := strings.Join([]string{
		"From: " + m.from,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"utf-8\"",
		"",
		body,
	}, "\r\n")

	auth := smtp.PlainAuth("", m.user, m.pass, m.host)
	addr := m.host + ":" + m.port
	if err := smtp.SendMail(addr, auth, m.from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}

// SendOrderConfirmation mails the post-payment confirmation.
func (m *Mailer) SendOrderConfirmation(to, name, orderNumber string, total float64) error {
	body := fmt.Sprintf(
		"Hi %s,\n\nThanks for your order!\n\nOrder %s is confirmed and being prepared. Total charged: %.2f.\n\nYou can track delivery from your account at any time.\n\n— Team Savora",
		name, orderNumber, total,
	)
	return m.send(to, "Your Savora order "+orderNumber+" is confirmed", body)
}

// SendPasswordReset mails a reset link carrying a one-time token.
func (m *Mailer) SendPasswordReset(to, name, resetURL string) error {
	body := fmt.Sprintf(
		"Hi %s,\n\nSomeone requested a password reset for this account. If that was you, open the link below within one hour:\n\n%s\n\nIf you didn't ask for this, ignore this mail; your password is unchanged.\n\n— Team Savora",
		name, resetURL,
	)
	return m.send(to, "Reset your Savora password", body)
}
