package config

import (
	"crypto/tls"
	"fmt"
	"os"
	"strconv"

	mail "github.com/go-mail/mail/v2"
)

// MailSettings holds the SMTP configuration read from SMTP_* variables.
type MailSettings struct {
	Host          string
	Port          int
	User          string
	Pass          string
	From          string // e.g. "Faculty Portal <no-reply@your.org>"
	SkipTLSVerify bool
}

// LoadMailSettings reads SMTP settings from the environment.
func LoadMailSettings() MailSettings {
	port, _ := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if port == 0 {
		port = 587
	}
	return MailSettings{
		Host:          os.Getenv("SMTP_HOST"),
		Port:          port,
		User:          os.Getenv("SMTP_USER"),
		Pass:          os.Getenv("SMTP_PASS"),
		From:          os.Getenv("SMTP_FROM"),
		SkipTLSVerify: os.Getenv("SMTP_SKIP_TLS_VERIFY") == "1",
	}
}

// Configured reports whether enough settings are present to send mail.
func (s MailSettings) Configured() bool {
	return s.Host != "" && s.From != ""
}

// SMTPMailer delivers HTML mail through go-mail.
type SMTPMailer struct {
	settings MailSettings
}

func NewSMTPMailer(settings MailSettings) *SMTPMailer {
	return &SMTPMailer{settings: settings}
}

// SendMail sends one HTML message to all recipients.
func (m *SMTPMailer) SendMail(to []string, subject, html string) error {
	if len(to) == 0 {
		return nil
	}
	if !m.settings.Configured() {
		return fmt.Errorf("smtp not configured (SMTP_HOST/SMTP_FROM)")
	}

	msg := mail.NewMessage()
	msg.SetHeader("From", m.settings.From)
	msg.SetHeader("To", to...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", html)

	d := mail.NewDialer(m.settings.Host, m.settings.Port, m.settings.User, m.settings.Pass)

	// STARTTLS is mandatory on 587 (Gmail/Office365).
	d.StartTLSPolicy = mail.MandatoryStartTLS
	d.TLSConfig = &tls.Config{
		ServerName:         m.settings.Host,
		InsecureSkipVerify: m.settings.SkipTLSVerify,
	}

	return d.DialAndSend(msg)
}
