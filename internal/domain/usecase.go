package domain

import "context"

// ListQuery carries the optional public list filters
type ListQuery struct {
	Featured *bool
	Type     string // gallery media type
	Category string // resource category
	Sort     string // experiences: startDate, testimonials: rating
	Limit    int
}

// MutateOptions carries optimistic concurrency for editor writes.
// A nil ExpectedRevision keeps last-write-wins.
type MutateOptions struct {
	ExpectedRevision *uint64
}

// CollectionUsecase is the editor + display surface of one collection store
type CollectionUsecase[T any] interface {
	Key() string
	List(ctx context.Context, q ListQuery) []T
	Display(ctx context.Context, q ListQuery) []T
	Get(ctx context.Context, id string) (T, error)
	Create(ctx context.Context, entity T, opts MutateOptions) (T, error)
	Update(ctx context.Context, id string, patch []byte, opts MutateOptions) (MutationResult, error)
	Delete(ctx context.Context, id string, opts MutateOptions) (MutationResult, error)
	Revision() uint64
}

// SingletonUsecase is the editor + display surface of a single-record store
type SingletonUsecase[T any] interface {
	Key() string
	Get(ctx context.Context) T
	Update(ctx context.Context, patch []byte, opts MutateOptions) (T, error)
	Revision() uint64
}

// ContentUsecases bundles the usecase of every content store
type ContentUsecases struct {
	Projects       CollectionUsecase[Project]
	Experiences    CollectionUsecase[Experience]
	Testimonials   CollectionUsecase[Testimonial]
	Certifications CollectionUsecase[Certification]
	Services       CollectionUsecase[Service]
	Gallery        CollectionUsecase[GalleryItem]
	Resources      CollectionUsecase[Resource]
	Profile        SingletonUsecase[Profile]
	AudioIntro     SingletonUsecase[AudioIntro]
}

// ChangeFeed lets transports subscribe to every store at once
type ChangeFeed interface {
	Subscribe(fn func(ChangeEvent)) (unsubscribe func())
}

// ContentSnapshot is every collection at one point in time, used by export tooling
type ContentSnapshot struct {
	Profile        Profile         `json:"profile"`
	AudioIntro     AudioIntro      `json:"audioIntro"`
	Projects       []Project       `json:"projects"`
	Experiences    []Experience    `json:"experiences"`
	Testimonials   []Testimonial   `json:"testimonials"`
	Certifications []Certification `json:"certifications"`
	Services       []Service       `json:"services"`
	Gallery        []GalleryItem   `json:"gallery"`
	Resources      []Resource      `json:"resources"`
}

// ExportUsecase renders the whole content set for backups
type ExportUsecase interface {
	Snapshot(ctx context.Context) ContentSnapshot
	// Workbook returns an XLSX file and its suggested download name
	Workbook(ctx context.Context) ([]byte, string, error)
}

// HealthUsecase reports the state of every backing service by name
type HealthUsecase interface {
	Check(ctx context.Context) (map[string]string, error)
}
