package store

import (
	"log/slog"
	"time"

	"portfolio-backend/internal/domain"
)

type options struct {
	logger *slog.Logger
	ids    *IDGenerator
	now    func() time.Time
	feed   *Feed
}

// Option configures a Collection or Singleton
type Option func(*options)

func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

func WithIDGenerator(g *IDGenerator) Option {
	return func(o *options) { o.ids = g }
}

func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithFeed publishes changes on a shared feed instead of a private one
func WithFeed(f *Feed) Option {
	return func(o *options) { o.feed = f }
}

func buildOptions(opts []Option) options {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.ids == nil {
		o.ids = defaultIDs
	}
	if o.now == nil {
		o.now = time.Now
	}
	if o.feed == nil {
		o.feed = NewFeed()
	}
	return o
}

type mutateOptions struct {
	expected *uint64
}

// MutateOption tunes a single write
type MutateOption func(*mutateOptions)

// ExpectRevision rejects the write with domain.ErrRevisionConflict unless
// the store is still at rev.
func ExpectRevision(rev uint64) MutateOption {
	return func(m *mutateOptions) { m.expected = &rev }
}

// FromMutateOptions adapts the usecase-level options
func FromMutateOptions(o domain.MutateOptions) []MutateOption {
	if o.ExpectedRevision == nil {
		return nil
	}
	return []MutateOption{ExpectRevision(*o.ExpectedRevision)}
}

func checkRevision(current uint64, opts []MutateOption) error {
	m := mutateOptions{}
	for _, opt := range opts {
		opt(&m)
	}
	if m.expected != nil && *m.expected != current {
		return domain.ErrRevisionConflict
	}
	return nil
}
