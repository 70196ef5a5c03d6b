package utils

import (
	"fmt"

	"github.com/Govind-619/SkinSphere/config"
	"gopkg.in/gomail.v2"
)

// Mailer delivers HTML email
type Mailer interface {
	Send(to, subject, htmlBody string) error
}

// SMTPMailer sends mail through the configured SMTP relay
type SMTPMailer struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// NewSMTPMailer builds a mailer from the application configuration
func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	return &SMTPMailer{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	}
}

// Send implements Mailer
func (m *SMTPMailer) Send(to, subject, htmlBody string) error {
	if m.Host == "" {
		return fmt.Errorf("smtp host not configured")
	}
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(m.Host, m.Port, m.Username, m.Password)
	if err := d.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email: %v", err)
	}
	return nil
}

var mailer Mailer = noopMailer{}

type noopMailer struct{}

func (noopMailer) Send(to, subject, _ string) error {
	LogInfo("Mail not configured, dropping %q to %s", subject, to)
	return nil
}

// SetMailer installs the mailer used by the Send* helpers
func SetMailer(m Mailer) {
	if m == nil {
		m = noopMailer{}
	}
	mailer = m
}

// SendVerificationEmail sends the account verification link
func SendVerificationEmail(to, name, token string) error {
	link := fmt.Sprintf("%s/api/auth/verify-email?token=%s", config.App.BaseURL, token)
	body := fmt.Sprintf(`
		<h2>Welcome to SkinSphere, %s!</h2>
		<p>Please confirm your email address to activate your account:</p>
		<p><a href="%s">Verify my email</a></p>
		<p>This link will expire in 24 hours.</p>
	`, SanitizeString(name), link)
	return mailer.Send(to, "Verify your SkinSphere account", body)
}

// SendOrderShippedEmail tells the customer their parcel is on its way
func SendOrderShippedEmail(to, name string, orderID uint, fee int64) error {
	body := fmt.Sprintf(`
		<h2>Your order #%d has shipped</h2>
		<p>Hi %s, your parcel has been handed over to our courier.</p>
		<p>Shipping fee: %s</p>
		<p>Please confirm receipt in the app once it arrives to collect your loyalty points.</p>
	`, orderID, SanitizeString(name), FormatVND(fee))
	return mailer.Send(to, fmt.Sprintf("Order #%d shipped", orderID), body)
}
