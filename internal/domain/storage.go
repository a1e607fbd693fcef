package domain

import (
	"context"
	"errors"
)

// Storage keys, one per content collection. Names match the keys the
// browser build used so exported data stays interchangeable.
const (
	KeyProjects       = "portfolio_projects"
	KeyExperiences    = "portfolio-experiences"
	KeyTestimonials   = "portfolio-testimonials"
	KeyCertifications = "portfolio-certifications"
	KeyServices       = "portfolio-services"
	KeyGallery        = "portfolio_gallery"
	KeyResources      = "portfolio_resources"
	KeyProfile        = "portfolio_profile"
	KeyAudioIntro     = "portfolio_audio_intro"
)

// AllStorageKeys in display order of the admin dashboard
var AllStorageKeys = []string{
	KeyProfile,
	KeyProjects,
	KeyExperiences,
	KeyTestimonials,
	KeyCertifications,
	KeyServices,
	KeyGallery,
	KeyResources,
	KeyAudioIntro,
}

var (
	ErrNotFound           = errors.New("resource not found")
	ErrStorageKeyNotFound = errors.New("storage key not found")
	ErrRevisionConflict   = errors.New("collection was modified by another writer")
)

// KVStorage is the durable key-value port behind every store.
// Values are complete JSON documents; Save replaces the previous value.
type KVStorage interface {
	// Load returns ErrStorageKeyNotFound when nothing was ever saved under key
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
	Keys(ctx context.Context) ([]string, error)
}

// MutationOutcome tells callers what an update or delete actually did
type MutationOutcome string

const (
	OutcomeCreated  MutationOutcome = "created"
	OutcomeUpdated  MutationOutcome = "updated"
	OutcomeDeleted  MutationOutcome = "deleted"
	OutcomeNotFound MutationOutcome = "not_found"
)

// MutationResult is returned instead of an error for unknown ids
type MutationResult struct {
	Outcome  MutationOutcome `json:"result"`
	ID       string          `json:"id"`
	Revision uint64          `json:"revision"`
}

// ChangeKind describes a store change pushed to subscribers
type ChangeKind string

const (
	ChangeAdded    ChangeKind = "added"
	ChangeUpdated  ChangeKind = "updated"
	ChangeDeleted  ChangeKind = "deleted"
	ChangeReloaded ChangeKind = "reloaded"
)

type ChangeEvent struct {
	Key      string     `json:"key"`
	Kind     ChangeKind `json:"kind"`
	ID       string     `json:"id,omitempty"`
	Revision uint64     `json:"revision"`
}
