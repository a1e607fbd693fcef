package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"portfolio-backend/internal/domain"
)

// Pinger is any backing service that can report reachability
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a plain function, e.g. a scanner's Available check
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// ErrUnhealthy is returned when a required dependency does not answer
var ErrUnhealthy = errors.New("service unhealthy")

type healthUsecase struct {
	required map[string]Pinger
	optional map[string]Pinger
	timeout  time.Duration
}

// NewHealthUsecase checks required dependencies (storage) and reports
// optional ones (redis, clamav) without failing on them.
func NewHealthUsecase(required, optional map[string]Pinger) domain.HealthUsecase {
	return &healthUsecase{required: required, optional: optional, timeout: 2 * time.Second}
}

func (u *healthUsecase) Check(ctx context.Context) (map[string]string, error) {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	status := map[string]string{"status": "ok"}
	var failed error
	for name, p := range u.required {
		if err := p.Ping(ctx); err != nil {
			status[name] = "down"
			failed = fmt.Errorf("%w: %s: %v", ErrUnhealthy, name, err)
			continue
		}
		status[name] = "ok"
	}
	for name, p := range u.optional {
		if err := p.Ping(ctx); err != nil {
			status[name] = "degraded"
			continue
		}
		status[name] = "ok"
	}
	if failed != nil {
		status["status"] = "down"
	}
	return status, failed
}
