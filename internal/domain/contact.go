package domain

import (
	"context"
	"errors"
)

// ErrRelayNotConfigured is returned when the notification backend has no credentials
var ErrRelayNotConfigured = errors.New("notification relay is not configured")

// ContactRequest represents a contact form submission
type ContactRequest struct {
	Name    string `json:"name" binding:"required,max=120,valid_name,no_emoji"`
	Email   string `json:"email" binding:"required,email"`
	Subject string `json:"subject" binding:"required,max=200"`
	Message string `json:"message" binding:"required,max=5000"`
}

// BookingRequest represents a consultation booking
type BookingRequest struct {
	Name    string `json:"name" binding:"required,max=120,valid_name,no_emoji"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone" binding:"omitempty,valid_phone"`
	Service string `json:"service" binding:"required,max=120"`
	Date    string `json:"date" binding:"required,datetime=2006-01-02"`
	Time    string `json:"time" binding:"omitempty,datetime=15:04"`
	Message string `json:"message" binding:"max=5000"`
}

// NewsletterRequest represents a newsletter signup
type NewsletterRequest struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name" binding:"max=120,valid_name"`
}

// RelayUsecase forwards public form submissions to the notification services
type RelayUsecase interface {
	SendContactMessage(ctx context.Context, req *ContactRequest) error
	SendBooking(ctx context.Context, req *BookingRequest) error
	Subscribe(ctx context.Context, req *NewsletterRequest) error
}
