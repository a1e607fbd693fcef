package usecase_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio-backend/internal/domain"
	"portfolio-backend/internal/usecase"
	"portfolio-backend/pkg/validation"
)

func TestContentUsecase_CreateAndList(t *testing.T) {
	cat, _ := openCatalog(t)
	uc := usecase.NewContentUsecases(cat, validation.New())
	ctx := context.Background()

	created, err := uc.Projects.Create(ctx, domain.Project{
		Title:     "X",
		Purpose:   "Y",
		TechStack: []string{"A", "B"},
		Featured:  true,
	}, domain.MutateOptions{})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	list := uc.Projects.List(ctx, domain.ListQuery{})
	require.NotEmpty(t, list)
	assert.Equal(t, created.ID, list[0].ID)
	assert.Equal(t, "X", list[0].Title)
	assert.Equal(t, []string{"A", "B"}, list[0].TechStack)
	assert.True(t, list[0].Featured)
}

func TestContentUsecase_DisplayPlaceholders(t *testing.T) {
	cat, _ := openCatalog(t)
	uc := usecase.NewContentUsecases(cat, validation.New())
	ctx := context.Background()

	created, err := uc.Projects.Create(ctx, domain.Project{}, domain.MutateOptions{})
	require.NoError(t, err)

	shown := uc.Projects.Display(ctx, domain.ListQuery{Limit: 1})
	require.Len(t, shown, 1)
	assert.Equal(t, domain.PlaceholderTitle, shown[0].Title)
	assert.Equal(t, domain.PlaceholderDescription, shown[0].Purpose)

	stored, err := uc.Projects.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.Title, "placeholders must not leak into stored data")
}

func TestContentUsecase_Filters(t *testing.T) {
	cat, _ := openCatalog(t)
	uc := usecase.NewContentUsecases(cat, validation.New())
	ctx := context.Background()
	none := domain.MutateOptions{}

	_, err := uc.Gallery.Create(ctx, domain.GalleryItem{Title: "clip", Type: domain.GalleryTypeVideo}, none)
	require.NoError(t, err)
	_, err = uc.Gallery.Create(ctx, domain.GalleryItem{Title: "shot", Type: domain.GalleryTypeImage, Featured: true}, none)
	require.NoError(t, err)

	t.Run("type", func(t *testing.T) {
		videos := uc.Gallery.List(ctx, domain.ListQuery{Type: domain.GalleryTypeVideo})
		require.Len(t, videos, 1)
		assert.Equal(t, "clip", videos[0].Title)
	})

	t.Run("featured", func(t *testing.T) {
		featured := true
		items := uc.Gallery.List(ctx, domain.ListQuery{Featured: &featured})
		require.Len(t, items, 1)
		assert.Equal(t, "shot", items[0].Title)
	})

	t.Run("limit", func(t *testing.T) {
		assert.Len(t, uc.Gallery.List(ctx, domain.ListQuery{Limit: 1}), 1)
	})

	t.Run("resource category", func(t *testing.T) {
		_, err := uc.Resources.Create(ctx, domain.Resource{Title: "cv", Category: "template"}, none)
		require.NoError(t, err)
		items := uc.Resources.List(ctx, domain.ListQuery{Category: "template"})
		require.Len(t, items, 1)
		assert.Equal(t, "cv", items[0].Title)
		assert.False(t, items[0].CreatedAt.IsZero())
	})
}

func TestContentUsecase_Sorting(t *testing.T) {
	cat, _ := openCatalog(t)
	require.NoError(t, cat.Experiences.Replace(context.Background(), []domain.Experience{
		{ID: "a", StartDate: "2019-01"},
		{ID: "b", StartDate: "2023-05"},
		{ID: "c", StartDate: "2015-02", Current: true},
	}))
	require.NoError(t, cat.Testimonials.Replace(context.Background(), []domain.Testimonial{
		{ID: "x", Rating: 3},
		{ID: "y", Rating: 5},
		{ID: "z", Rating: 4},
	}))
	uc := usecase.NewContentUsecases(cat, validation.New())
	ctx := context.Background()

	var ids []string
	for _, e := range uc.Experiences.List(ctx, domain.ListQuery{Sort: "startDate"}) {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []string{"c", "b", "a"}, ids)

	ids = nil
	for _, tm := range uc.Testimonials.List(ctx, domain.ListQuery{Sort: "rating"}) {
		ids = append(ids, tm.ID)
	}
	assert.Equal(t, []string{"y", "z", "x"}, ids)
}

func TestContentUsecase_RatingValidation(t *testing.T) {
	cat, _ := openCatalog(t)
	uc := usecase.NewContentUsecases(cat, validation.New())
	ctx := context.Background()

	_, err := uc.Testimonials.Create(ctx, domain.Testimonial{Name: "A", Rating: 6}, domain.MutateOptions{})
	assert.Equal(t, http.StatusBadRequest, statusOf(err))

	created, err := uc.Testimonials.Create(ctx, domain.Testimonial{Name: "A", Rating: 5}, domain.MutateOptions{})
	require.NoError(t, err)

	for _, patch := range []string{`{"rating":0}`, `{"rating":9}`, `{"rating":"5"}`, `{"rating":4.5}`} {
		_, err := uc.Testimonials.Update(ctx, created.ID, []byte(patch), domain.MutateOptions{})
		assert.Equal(t, http.StatusBadRequest, statusOf(err), patch)
	}

	res, err := uc.Testimonials.Update(ctx, created.ID, []byte(`{"rating":4}`), domain.MutateOptions{})
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeUpdated, res.Outcome)
}

func TestContentUsecase_UpdateAndDeleteOutcomes(t *testing.T) {
	cat, _ := openCatalog(t)
	uc := usecase.NewContentUsecases(cat, validation.New())
	ctx := context.Background()

	res, err := uc.Services.Update(ctx, "missing", []byte(`{"title":"x"}`), domain.MutateOptions{})
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeNotFound, res.Outcome)

	res, err = uc.Services.Delete(ctx, "missing", domain.MutateOptions{})
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeNotFound, res.Outcome)

	_, err = uc.Services.Get(ctx, "missing")
	assert.Equal(t, http.StatusNotFound, statusOf(err))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.Services.Update(ctx, "missing", []byte(`[1,2]`), domain.MutateOptions{})
	assert.Equal(t, http.StatusBadRequest, statusOf(err))
}

func TestContentUsecase_RevisionConflict(t *testing.T) {
	cat, _ := openCatalog(t)
	uc := usecase.NewContentUsecases(cat, validation.New())
	ctx := context.Background()

	stale := uc.Certifications.Revision()
	_, err := uc.Certifications.Create(ctx, domain.Certification{Name: "first"}, domain.MutateOptions{ExpectedRevision: &stale})
	require.NoError(t, err)

	_, err = uc.Certifications.Create(ctx, domain.Certification{Name: "second"}, domain.MutateOptions{ExpectedRevision: &stale})
	assert.Equal(t, http.StatusConflict, statusOf(err))
	assert.ErrorIs(t, err, domain.ErrRevisionConflict)
}

func TestContentUsecase_StorageFailure(t *testing.T) {
	cat, storage := openCatalog(t)
	uc := usecase.NewContentUsecases(cat, validation.New())
	ctx := context.Background()
	before := uc.Projects.List(ctx, domain.ListQuery{})

	storage.FailSaves(errors.New("disk full"))
	_, err := uc.Projects.Create(ctx, domain.Project{Title: "lost"}, domain.MutateOptions{})
	assert.Equal(t, http.StatusInternalServerError, statusOf(err))
	assert.Equal(t, before, uc.Projects.List(ctx, domain.ListQuery{}))
}

func TestSingletonUsecase_Update(t *testing.T) {
	cat, _ := openCatalog(t)
	uc := usecase.NewContentUsecases(cat, validation.New())
	ctx := context.Background()

	p, err := uc.Profile.Update(ctx, []byte(`{"name":"Ada","socialLinks":{"github":"https://github.com/ada"}}`), domain.MutateOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Ada", p.Name)
	assert.Equal(t, "https://github.com/ada", uc.Profile.Get(ctx).SocialLinks.Github)
	assert.Equal(t, domain.KeyProfile, uc.Profile.Key())

	stale := uc.AudioIntro.Revision() + 5
	_, err = uc.AudioIntro.Update(ctx, []byte(`{"enabled":true}`), domain.MutateOptions{ExpectedRevision: &stale})
	assert.Equal(t, http.StatusConflict, statusOf(err))
}
