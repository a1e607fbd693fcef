package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"portfolio-backend/internal/domain"
	"portfolio-backend/pkg/apperror"
	"portfolio-backend/pkg/email"
	"portfolio-backend/pkg/logger"
)

// Mailer is the SMTP side of the notification relays
type Mailer interface {
	IsConfigured() bool
	SendContactEmail(ctx context.Context, data email.ContactEmailData) error
	SendBookingEmail(ctx context.Context, data email.BookingEmailData) error
	SendNewsletterNotification(ctx context.Context, data email.NewsletterEmailData) error
	SendWelcomeEmail(ctx context.Context, data email.NewsletterEmailData) error
}

// Messenger pushes a short text to the owner's phone
type Messenger interface {
	IsConfigured() bool
	Send(ctx context.Context, text string) error
}

type relayUsecase struct {
	mailer    Mailer
	messenger Messenger
}

// NewRelayUsecase creates the contact, booking and newsletter relay. messenger may be nil.
func NewRelayUsecase(mailer Mailer, messenger Messenger) domain.RelayUsecase {
	return &relayUsecase{mailer: mailer, messenger: messenger}
}

// SendContactMessage validates the contact request and sends the email
func (uc *relayUsecase) SendContactMessage(ctx context.Context, req *domain.ContactRequest) error {
	data := email.ContactEmailData{
		SenderName:  strings.TrimSpace(req.Name),
		SenderEmail: strings.TrimSpace(req.Email),
		Subject:     strings.TrimSpace(req.Subject),
		Message:     strings.TrimSpace(req.Message),
	}
	if data.SenderName == "" || data.Subject == "" || data.Message == "" {
		return apperror.BadRequest("Name, subject and message are required")
	}
	if !uc.mailer.IsConfigured() {
		return notConfigured("Contact")
	}

	if err := uc.mailer.SendContactEmail(ctx, data); err != nil {
		return sendFailed(fmt.Errorf("failed to send contact email: %w", err))
	}
	return nil
}

// SendBooking emails the owner and, when configured, pings WhatsApp.
// The WhatsApp leg is best effort.
func (uc *relayUsecase) SendBooking(ctx context.Context, req *domain.BookingRequest) error {
	data := email.BookingEmailData{
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.TrimSpace(req.Email),
		Phone:   strings.TrimSpace(req.Phone),
		Service: strings.TrimSpace(req.Service),
		Date:    req.Date,
		Time:    req.Time,
		Message: strings.TrimSpace(req.Message),
	}
	if !uc.mailer.IsConfigured() {
		return notConfigured("Booking")
	}

	if err := uc.mailer.SendBookingEmail(ctx, data); err != nil {
		return sendFailed(fmt.Errorf("failed to send booking email: %w", err))
	}

	if uc.messenger != nil && uc.messenger.IsConfigured() {
		if err := uc.messenger.Send(ctx, bookingText(data)); err != nil {
			logger.Log.Warn("whatsapp booking notification failed", "error", err)
		}
	}
	return nil
}

// Subscribe notifies the owner, then welcomes the subscriber. A failed
// welcome mail does not fail the signup.
func (uc *relayUsecase) Subscribe(ctx context.Context, req *domain.NewsletterRequest) error {
	data := email.NewsletterEmailData{
		Name:  strings.TrimSpace(req.Name),
		Email: strings.TrimSpace(req.Email),
	}
	if !uc.mailer.IsConfigured() {
		return notConfigured("Newsletter")
	}

	if err := uc.mailer.SendNewsletterNotification(ctx, data); err != nil {
		return sendFailed(fmt.Errorf("failed to send newsletter notification: %w", err))
	}
	if err := uc.mailer.SendWelcomeEmail(ctx, data); err != nil {
		logger.Log.Warn("newsletter welcome email failed", "error", err)
	}
	return nil
}

func bookingText(d email.BookingEmailData) string {
	var b strings.Builder
	fmt.Fprintf(&b, "New booking: %s\n", d.Service)
	fmt.Fprintf(&b, "From: %s <%s>\n", d.Name, d.Email)
	if d.Phone != "" {
		fmt.Fprintf(&b, "Phone: %s\n", d.Phone)
	}
	fmt.Fprintf(&b, "When: %s", d.Date)
	if d.Time != "" {
		fmt.Fprintf(&b, " %s", d.Time)
	}
	if d.Message != "" {
		fmt.Fprintf(&b, "\nNotes: %s", d.Message)
	}
	return b.String()
}

func notConfigured(what string) error {
	return apperror.Unavailable(what+" service temporarily unavailable", domain.ErrRelayNotConfigured)
}

func sendFailed(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperror.New(http.StatusGatewayTimeout, "The notification service timed out. Please try again later.", err)
	}
	return apperror.New(http.StatusBadGateway, "Failed to send message. Please try again later.", err)
}
