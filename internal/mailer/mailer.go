package mailer

import (
	"fmt"
	"net/smtp"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/stylespizza/pizza-api/internal/config"
)

// Mailer sends account emails. Sends are best-effort from the caller's
// perspective: a failed send is logged and reported, never rolled back into
// the surrounding workflow.
type Mailer interface {
	SendVerificationEmail(to, token string) error
	SendPasswordResetEmail(to, token string) error
}

// SMTPMailer delivers HTML mail over plain SMTP.
type SMTPMailer struct {
	host     string
	port     string
	username string
	password string
	from     string
	baseURL  string
}

// NewSMTPMailer builds a mailer from configuration. It fails when the SMTP
// host is not configured; callers that can operate without mail should fall
// back to NewNoopMailer instead.
func NewSMTPMailer(cfg *config.Config) (*SMTPMailer, error) {
	if cfg.SMTPHost == "" {
		return nil, fmt.Errorf("SMTP_HOST not set")
	}

	return &SMTPMailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.SMTPUser,
		password: cfg.SMTPPassword,
		from:     cfg.EmailFrom,
		baseURL:  cfg.BaseURL,
	}, nil
}

// SendVerificationEmail mails the account-verification link.
func (m *SMTPMailer) SendVerificationEmail(to, token string) error {
	verificationURL := fmt.Sprintf("%s/api/v1/users/verify-email?token=%s", m.baseURL, token)
	body := fmt.Sprintf(`<p>Click <a href="%s">here</a> to verify your email address.</p>`, verificationURL)
	return m.send(to, "Verify Your Email", body)
}

// SendPasswordResetEmail mails the password-reset link.
func (m *SMTPMailer) SendPasswordResetEmail(to, token string) error {
	resetURL := fmt.Sprintf("%s/reset-password?token=%s", m.baseURL, token)
	body := fmt.Sprintf(`<p>Click <a href="%s">here</a> to reset your password.</p>`, resetURL)
	return m.send(to, "Password Reset Request", body)
}

func (m *SMTPMailer) send(to, subject, body string) error {
	addr := fmt.Sprintf("%s:%s", m.host, m.port)
	auth := smtp.PlainAuth("", m.username, m.password, m.host)
	messageID := uuid.NewString()

	msg := []byte(
		"From: " + m.from + "\r\n" +
			"To: " + to + "\r\n" +
			"Subject: " + subject + "\r\n" +
			"Message-ID: <" + messageID + "@stylespizza>\r\n" +
			"MIME-Version: 1.0\r\n" +
			"Content-Type: text/html; charset=UTF-8\r\n" +
			"\r\n" +
			body,
	)

	if err := smtp.SendMail(addr, auth, m.from, []string{to}, msg); err != nil {
		return fmt.Errorf("smtp send failed: %w", err)
	}

	log.WithFields(log.Fields{
		"message_id": messageID,
		"subject":    subject,
	}).Debug("Email sent")
	return nil
}

// NoopMailer discards all mail. Used when SMTP is not configured and in
// tests.
type NoopMailer struct{}

func NewNoopMailer() *NoopMailer { return &NoopMailer{} }

func (m *NoopMailer) SendVerificationEmail(to, token string) error {
	log.WithField("to", to).Debug("Mail disabled, skipping verification email")
	return nil
}

func (m *NoopMailer) SendPasswordResetEmail(to, token string) error {
	log.WithField("to", to).Debug("Mail disabled, skipping password reset email")
	return nil
}
