package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/tidwall/gjson"

	"portfolio-backend/internal/domain"
	"portfolio-backend/internal/store"
	"portfolio-backend/pkg/apperror"
	"portfolio-backend/pkg/validation"
)

type contentEntity[T any] interface {
	domain.Entity[T]
	domain.Displayable[T]
}

type collectionHooks[T any] struct {
	match      func(item T, q domain.ListQuery) bool
	sort       func(items []T, by string)
	checkPatch func(patch []byte) error
}

// CollectionOption customises filtering and patch checks of one collection
type CollectionOption[T any] func(*collectionHooks[T])

// WithMatcher adds a collection specific filter (gallery type, resource category)
func WithMatcher[T any](match func(item T, q domain.ListQuery) bool) CollectionOption[T] {
	return func(h *collectionHooks[T]) { h.match = match }
}

func WithSorter[T any](sort func(items []T, by string)) CollectionOption[T] {
	return func(h *collectionHooks[T]) { h.sort = sort }
}

// WithPatchCheck rejects partial updates before they reach the store
func WithPatchCheck[T any](check func(patch []byte) error) CollectionOption[T] {
	return func(h *collectionHooks[T]) { h.checkPatch = check }
}

type collectionUsecase[T contentEntity[T]] struct {
	store    *store.Collection[T]
	validate *validator.Validate
	hooks    collectionHooks[T]
}

func NewCollectionUsecase[T contentEntity[T]](c *store.Collection[T], validate *validator.Validate, opts ...CollectionOption[T]) domain.CollectionUsecase[T] {
	uc := &collectionUsecase[T]{store: c, validate: validate}
	for _, opt := range opts {
		opt(&uc.hooks)
	}
	return uc
}

func (uc *collectionUsecase[T]) Key() string { return uc.store.Key() }

func (uc *collectionUsecase[T]) Revision() uint64 { return uc.store.Revision() }

// List returns the stored records matching q, newest first unless q.Sort says otherwise
func (uc *collectionUsecase[T]) List(_ context.Context, q domain.ListQuery) []T {
	items := uc.store.List()

	out := items[:0]
	for _, item := range items {
		if q.Featured != nil {
			f, ok := any(item).(domain.Featurable)
			if !ok || f.IsFeatured() != *q.Featured {
				continue
			}
		}
		if uc.hooks.match != nil && !uc.hooks.match(item, q) {
			continue
		}
		out = append(out, item)
	}

	if q.Sort != "" && uc.hooks.sort != nil {
		uc.hooks.sort(out, q.Sort)
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out
}

// Display is List with placeholders filled in. Stored records are untouched.
func (uc *collectionUsecase[T]) Display(ctx context.Context, q domain.ListQuery) []T {
	items := uc.List(ctx, q)
	for i := range items {
		items[i] = items[i].ForDisplay()
	}
	return items
}

func (uc *collectionUsecase[T]) Get(_ context.Context, id string) (T, error) {
	item, ok := uc.store.Get(id)
	if !ok {
		var zero T
		return zero, apperror.New(http.StatusNotFound, "Item not found", domain.ErrNotFound)
	}
	return item, nil
}

func (uc *collectionUsecase[T]) Create(ctx context.Context, entity T, opts domain.MutateOptions) (T, error) {
	if uc.validate != nil {
		if err := uc.validate.Struct(entity); err != nil {
			var zero T
			return zero, validationError(err)
		}
	}
	created, err := uc.store.Add(ctx, entity, store.FromMutateOptions(opts)...)
	if err != nil {
		return created, storeError(err)
	}
	return created, nil
}

func (uc *collectionUsecase[T]) Update(ctx context.Context, id string, patch []byte, opts domain.MutateOptions) (domain.MutationResult, error) {
	if uc.hooks.checkPatch != nil {
		if err := uc.hooks.checkPatch(patch); err != nil {
			return domain.MutationResult{}, err
		}
	}
	res, err := uc.store.Update(ctx, id, patch, store.FromMutateOptions(opts)...)
	if err != nil {
		return res, storeError(err)
	}
	return res, nil
}

func (uc *collectionUsecase[T]) Delete(ctx context.Context, id string, opts domain.MutateOptions) (domain.MutationResult, error) {
	res, err := uc.store.Delete(ctx, id, store.FromMutateOptions(opts)...)
	if err != nil {
		return res, storeError(err)
	}
	return res, nil
}

type singletonUsecase[T any] struct {
	store *store.Singleton[T]
}

func NewSingletonUsecase[T any](s *store.Singleton[T]) domain.SingletonUsecase[T] {
	return &singletonUsecase[T]{store: s}
}

func (uc *singletonUsecase[T]) Key() string { return uc.store.Key() }

func (uc *singletonUsecase[T]) Revision() uint64 { return uc.store.Revision() }

func (uc *singletonUsecase[T]) Get(_ context.Context) T { return uc.store.Get() }

func (uc *singletonUsecase[T]) Update(ctx context.Context, patch []byte, opts domain.MutateOptions) (T, error) {
	v, err := uc.store.Update(ctx, patch, store.FromMutateOptions(opts)...)
	if err != nil {
		return v, storeError(err)
	}
	return v, nil
}

// storeError maps store failures to transport errors. Storage failures keep
// the cause for the server log only.
func storeError(err error) error {
	switch {
	case errors.Is(err, domain.ErrRevisionConflict):
		return apperror.Conflict("Content was changed by another editor. Reload and try again.", err)
	case errors.Is(err, store.ErrInvalidPatch):
		return apperror.New(http.StatusBadRequest, err.Error(), err)
	default:
		return apperror.Internal(fmt.Errorf("storage write failed: %w", err))
	}
}

func validationError(err error) error {
	return apperror.New(http.StatusBadRequest, strings.Join(validation.FormatValidationErrors(err), "; "), err)
}

// NewContentUsecases wires the filters each public list supports
func NewContentUsecases(cat *store.Catalog, validate *validator.Validate) *domain.ContentUsecases {
	return &domain.ContentUsecases{
		Projects: NewCollectionUsecase(cat.Projects, validate),
		Experiences: NewCollectionUsecase(cat.Experiences, validate,
			WithSorter(sortExperiences)),
		Testimonials: NewCollectionUsecase(cat.Testimonials, validate,
			WithSorter(sortTestimonials),
			WithPatchCheck[domain.Testimonial](checkRatingPatch)),
		Certifications: NewCollectionUsecase(cat.Certifications, validate),
		Services:       NewCollectionUsecase(cat.Services, validate),
		Gallery: NewCollectionUsecase(cat.Gallery, validate,
			WithMatcher(func(g domain.GalleryItem, q domain.ListQuery) bool {
				return q.Type == "" || g.Type == q.Type
			})),
		Resources: NewCollectionUsecase(cat.Resources, validate,
			WithMatcher(func(r domain.Resource, q domain.ListQuery) bool {
				return q.Category == "" || r.Category == q.Category
			})),
		Profile:    NewSingletonUsecase(cat.Profile),
		AudioIntro: NewSingletonUsecase(cat.AudioIntro),
	}
}

// sortExperiences puts current positions first, then the latest start date
func sortExperiences(items []domain.Experience, by string) {
	if by != "startDate" {
		return
	}
	slices.SortStableFunc(items, func(a, b domain.Experience) int {
		if a.Current != b.Current {
			if a.Current {
				return -1
			}
			return 1
		}
		return strings.Compare(b.StartDate, a.StartDate)
	})
}

func sortTestimonials(items []domain.Testimonial, by string) {
	if by != "rating" {
		return
	}
	slices.SortStableFunc(items, func(a, b domain.Testimonial) int {
		return b.Rating - a.Rating
	})
}

// checkRatingPatch applies the rating rule to partial updates, which skip struct validation
func checkRatingPatch(patch []byte) error {
	r := gjson.GetBytes(patch, "rating")
	if !r.Exists() {
		return nil
	}
	if r.Type != gjson.Number || r.Num != float64(int(r.Num)) || r.Int() < 1 || r.Int() > 5 {
		return apperror.BadRequest("Rating: must be between 1 and 5")
	}
	return nil
}
