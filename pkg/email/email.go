package email

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"html/template"
	"mime"
	"net"
	"net/smtp"
	"time"

	"portfolio-backend/config"
)

// ErrNotConfigured is returned by every send when SMTP credentials are missing
var ErrNotConfigured = errors.New("email service is not configured")

// transportFunc delivers one fully built message
type transportFunc func(ctx context.Context, from string, to []string, msg []byte) error

// EmailService handles sending emails via SMTP
type EmailService struct {
	host      string
	port      string
	username  string
	password  string
	fromEmail string
	toEmail   string
	timeout   time.Duration
	send      transportFunc
}

// ContactEmailData holds the data for contact form emails
type ContactEmailData struct {
	SenderName  string
	SenderEmail string
	Subject     string
	Message     string
}

// BookingEmailData holds a consultation request
type BookingEmailData struct {
	Name    string
	Email   string
	Phone   string
	Service string
	Date    string
	Time    string
	Message string
}

// NewsletterEmailData is shared by the owner notification and the welcome mail
type NewsletterEmailData struct {
	Name  string
	Email string
}

// NewEmailService creates a new email service from the SMTP settings
func NewEmailService(cfg *config.Config) *EmailService {
	s := &EmailService{
		host:      cfg.SMTPHost,
		port:      cfg.SMTPPort,
		username:  cfg.SMTPUsername,
		password:  cfg.SMTPPassword,
		fromEmail: cfg.SMTPFromEmail,
		toEmail:   cfg.ContactEmailTo,
		timeout:   cfg.RelayTimeout,
	}
	if s.timeout <= 0 {
		s.timeout = 10 * time.Second
	}
	s.send = s.smtpSend
	return s
}

// IsConfigured checks if the email service has valid SMTP configuration
func (s *EmailService) IsConfigured() bool {
	return s.host != "" && s.username != "" && s.password != "" && s.toEmail != ""
}

var templates = template.Must(template.New("email").Parse(emailTemplates))

// SendContactEmail sends a contact form email to the configured recipient
func (s *EmailService) SendContactEmail(ctx context.Context, data ContactEmailData) error {
	return s.deliver(ctx, "contact", data, s.toEmail, data.SenderEmail,
		fmt.Sprintf("Contact Form: %s", data.Subject))
}

// SendBookingEmail notifies the owner about a consultation request
func (s *EmailService) SendBookingEmail(ctx context.Context, data BookingEmailData) error {
	return s.deliver(ctx, "booking", data, s.toEmail, data.Email,
		fmt.Sprintf("New Booking: %s on %s", data.Service, data.Date))
}

// SendNewsletterNotification tells the owner someone subscribed
func (s *EmailService) SendNewsletterNotification(ctx context.Context, data NewsletterEmailData) error {
	return s.deliver(ctx, "newsletter_owner", data, s.toEmail, data.Email,
		"New Newsletter Subscriber")
}

// SendWelcomeEmail greets a new subscriber
func (s *EmailService) SendWelcomeEmail(ctx context.Context, data NewsletterEmailData) error {
	return s.deliver(ctx, "newsletter_welcome", data, data.Email, s.toEmail,
		"Welcome to the newsletter")
}

func (s *EmailService) deliver(ctx context.Context, tmpl string, data any, to, replyTo, subject string) error {
	if !s.IsConfigured() {
		return ErrNotConfigured
	}

	var body bytes.Buffer
	if err := templates.ExecuteTemplate(&body, tmpl, data); err != nil {
		return fmt.Errorf("failed to execute email template: %w", err)
	}

	msg := buildMessage(s.fromEmail, to, replyTo, subject, body.String())

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.send(ctx, s.fromEmail, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// buildMessage constructs the MIME message; the subject is Q-encoded so
// user-supplied text cannot inject headers.
func buildMessage(from, to, replyTo, subject, body string) []byte {
	return []byte(fmt.Sprintf(
		"From: %s\r\n"+
			"To: %s\r\n"+
			"Reply-To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=UTF-8\r\n"+
			"\r\n"+
			"%s",
		from,
		to,
		replyTo,
		mime.QEncoding.Encode("utf-8", subject),
		body,
	))
}

// smtpSend is smtp.SendMail with a context-bound dial and connection deadline
func (s *EmailService) smtpSend(ctx context.Context, from string, to []string, msg []byte) error {
	addr := net.JoinHostPort(s.host, s.port)

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	c, err := smtp.NewClient(conn, s.host)
	if err != nil {
		conn.Close()
		return err
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: s.host}); err != nil {
			return err
		}
	}
	if err := c.Auth(smtp.PlainAuth("", s.username, s.password, s.host)); err != nil {
		return err
	}
	if err := c.Mail(from); err != nil {
		return err
	}
	for _, rcpt := range to {
		if err := c.Rcpt(rcpt); err != nil {
			return err
		}
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return c.Quit()
}
