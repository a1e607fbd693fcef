package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"portfolio-backend/internal/domain"
	"portfolio-backend/internal/repository/memory"
	"portfolio-backend/internal/store"
	"portfolio-backend/pkg/apperror"
	"portfolio-backend/pkg/email"
)

type MockBlobStore struct {
	mock.Mock
}

func (m *MockBlobStore) Put(ctx context.Context, path, contentType string, data []byte) (string, error) {
	args := m.Called(ctx, path, contentType, data)
	return args.String(0), args.Error(1)
}

func (m *MockBlobStore) Name() string { return "mock" }

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) IsConfigured() bool { return m.Called().Bool(0) }

func (m *MockMailer) SendContactEmail(ctx context.Context, data email.ContactEmailData) error {
	return m.Called(ctx, data).Error(0)
}

func (m *MockMailer) SendBookingEmail(ctx context.Context, data email.BookingEmailData) error {
	return m.Called(ctx, data).Error(0)
}

func (m *MockMailer) SendNewsletterNotification(ctx context.Context, data email.NewsletterEmailData) error {
	return m.Called(ctx, data).Error(0)
}

func (m *MockMailer) SendWelcomeEmail(ctx context.Context, data email.NewsletterEmailData) error {
	return m.Called(ctx, data).Error(0)
}

type MockMessenger struct {
	mock.Mock
}

func (m *MockMessenger) IsConfigured() bool { return m.Called().Bool(0) }

func (m *MockMessenger) Send(ctx context.Context, text string) error {
	return m.Called(ctx, text).Error(0)
}

// openCatalog returns a catalog seeded with the built-in defaults over memory storage
func openCatalog(t *testing.T) (*store.Catalog, *memory.Storage) {
	t.Helper()
	storage := memory.NewKVStorage()
	cat, err := store.OpenCatalog(context.Background(), storage, store.DefaultContent())
	require.NoError(t, err)
	return cat, storage
}

// statusOf extracts the HTTP code of an AppError, 0 otherwise
func statusOf(err error) int {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return 0
}

var _ domain.BlobStore = (*MockBlobStore)(nil)
