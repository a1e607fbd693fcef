package store

import (
	"context"
	"fmt"

	"portfolio-backend/internal/domain"
)

// reloader is implemented by Collection and Singleton
type reloader interface {
	Key() string
	Reload(ctx context.Context) error
}

// Catalog owns every content store of the portfolio. It is built once at
// startup and passed to the usecases; all stores publish on one Feed.
type Catalog struct {
	Profile        *Singleton[domain.Profile]
	AudioIntro     *Singleton[domain.AudioIntro]
	Projects       *Collection[domain.Project]
	Experiences    *Collection[domain.Experience]
	Testimonials   *Collection[domain.Testimonial]
	Certifications *Collection[domain.Certification]
	Services       *Collection[domain.Service]
	Gallery        *Collection[domain.GalleryItem]
	Resources      *Collection[domain.Resource]

	feed  *Feed
	byKey map[string]reloader
}

// OpenCatalog loads every store from storage, seeding absent keys from defaults.
func OpenCatalog(ctx context.Context, storage domain.KVStorage, defaults domain.ContentSnapshot, opts ...Option) (*Catalog, error) {
	feed := NewFeed()
	opts = append(opts, WithFeed(feed))

	cat := &Catalog{feed: feed}
	var err error

	if cat.Profile, err = NewSingleton(ctx, storage, domain.KeyProfile, defaults.Profile, opts...); err != nil {
		return nil, err
	}
	if cat.AudioIntro, err = NewSingleton(ctx, storage, domain.KeyAudioIntro, defaults.AudioIntro, opts...); err != nil {
		return nil, err
	}
	if cat.Projects, err = NewCollection(ctx, storage, domain.KeyProjects, defaults.Projects, opts...); err != nil {
		return nil, err
	}
	if cat.Experiences, err = NewCollection(ctx, storage, domain.KeyExperiences, defaults.Experiences, opts...); err != nil {
		return nil, err
	}
	if cat.Testimonials, err = NewCollection(ctx, storage, domain.KeyTestimonials, defaults.Testimonials, opts...); err != nil {
		return nil, err
	}
	if cat.Certifications, err = NewCollection(ctx, storage, domain.KeyCertifications, defaults.Certifications, opts...); err != nil {
		return nil, err
	}
	if cat.Services, err = NewCollection(ctx, storage, domain.KeyServices, defaults.Services, opts...); err != nil {
		return nil, err
	}
	if cat.Gallery, err = NewCollection(ctx, storage, domain.KeyGallery, defaults.Gallery, opts...); err != nil {
		return nil, err
	}
	if cat.Resources, err = NewCollection(ctx, storage, domain.KeyResources, defaults.Resources, opts...); err != nil {
		return nil, err
	}

	cat.byKey = make(map[string]reloader)
	for _, r := range []reloader{
		cat.Profile, cat.AudioIntro, cat.Projects, cat.Experiences, cat.Testimonials,
		cat.Certifications, cat.Services, cat.Gallery, cat.Resources,
	} {
		cat.byKey[r.Key()] = r
	}
	return cat, nil
}

// Subscribe follows changes of every store
func (c *Catalog) Subscribe(fn func(domain.ChangeEvent)) func() {
	return c.feed.Subscribe(fn)
}

// Reload re-reads one store from storage. Unknown keys are ignored.
func (c *Catalog) Reload(ctx context.Context, key string) error {
	r, ok := c.byKey[key]
	if !ok {
		return nil
	}
	if err := r.Reload(ctx); err != nil {
		return fmt.Errorf("reload %s: %w", key, err)
	}
	return nil
}

func (c *Catalog) Snapshot() domain.ContentSnapshot {
	return domain.ContentSnapshot{
		Profile:        c.Profile.Get(),
		AudioIntro:     c.AudioIntro.Get(),
		Projects:       c.Projects.List(),
		Experiences:    c.Experiences.List(),
		Testimonials:   c.Testimonials.List(),
		Certifications: c.Certifications.List(),
		Services:       c.Services.List(),
		Gallery:        c.Gallery.List(),
		Resources:      c.Resources.List(),
	}
}

// Restore replaces every store with the snapshot contents
func (c *Catalog) Restore(ctx context.Context, snap domain.ContentSnapshot) error {
	steps := []func() error{
		func() error { return c.Profile.Replace(ctx, snap.Profile) },
		func() error { return c.AudioIntro.Replace(ctx, snap.AudioIntro) },
		func() error { return c.Projects.Replace(ctx, snap.Projects) },
		func() error { return c.Experiences.Replace(ctx, snap.Experiences) },
		func() error { return c.Testimonials.Replace(ctx, snap.Testimonials) },
		func() error { return c.Certifications.Replace(ctx, snap.Certifications) },
		func() error { return c.Services.Replace(ctx, snap.Services) },
		func() error { return c.Gallery.Replace(ctx, snap.Gallery) },
		func() error { return c.Resources.Replace(ctx, snap.Resources) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}
