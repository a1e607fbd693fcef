package domain

import "time"

// Placeholders rendered by the public views for records saved without display fields
const (
	PlaceholderTitle       = "Untitled"
	PlaceholderDescription = "No description"
)

// Entity is a record owned by a collection store.
// WithID returns a copy carrying the given identifier.
type Entity[T any] interface {
	EntityID() string
	WithID(id string) T
}

// Featurable entities can be filtered on the public "featured" flag
type Featurable interface {
	IsFeatured() bool
}

// Displayable entities know how to fill empty display fields with placeholders
type Displayable[T any] interface {
	ForDisplay() T
}

func orPlaceholder(value, placeholder string) string {
	if value == "" {
		return placeholder
	}
	return value
}

// Project is a portfolio case study
type Project struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Purpose       string   `json:"purpose"`
	Image         string   `json:"image"`
	TechStack     []string `json:"techStack"`
	ProblemSolved string   `json:"problemSolved"`
	SystemLogic   string   `json:"systemLogic"`
	Outcome       string   `json:"outcome"`
	Featured      bool     `json:"featured"`
	GithubURL     string   `json:"githubUrl,omitempty"`
	LiveURL       string   `json:"liveUrl,omitempty"`
}

func (p Project) EntityID() string { return p.ID }
func (p Project) WithID(id string) Project {
	p.ID = id
	return p
}
func (p Project) IsFeatured() bool { return p.Featured }
func (p Project) ForDisplay() Project {
	p.Title = orPlaceholder(p.Title, PlaceholderTitle)
	p.Purpose = orPlaceholder(p.Purpose, PlaceholderDescription)
	return p
}

// SocialLinks maps a platform to the profile URL; every key is optional
type SocialLinks struct {
	Github    string `json:"github,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	Website   string `json:"website,omitempty"`
	Youtube   string `json:"youtube,omitempty"`
	WhatsApp  string `json:"whatsapp,omitempty"`
}

// Profile is the singleton owner profile shown on the landing page
type Profile struct {
	Name        string      `json:"name"`
	Title       string      `json:"title"`
	Subtitle    string      `json:"subtitle"`
	Bio         string      `json:"bio"`
	Location    string      `json:"location"`
	Email       string      `json:"email"`
	Phone       string      `json:"phone"`
	Image       string      `json:"image"`
	Status      string      `json:"status"`
	CV          string      `json:"cv,omitempty"`
	SocialLinks SocialLinks `json:"socialLinks"`
}

// Experience is one entry of the work history timeline
type Experience struct {
	ID           string   `json:"id"`
	Company      string   `json:"company"`
	Position     string   `json:"position"`
	Location     string   `json:"location"`
	StartDate    string   `json:"startDate"`
	EndDate      string   `json:"endDate"`
	Current      bool     `json:"current"`
	Description  string   `json:"description"`
	Achievements []string `json:"achievements"`
	Logo         string   `json:"logo,omitempty"`
}

func (e Experience) EntityID() string { return e.ID }
func (e Experience) WithID(id string) Experience {
	e.ID = id
	return e
}
func (e Experience) ForDisplay() Experience {
	e.Position = orPlaceholder(e.Position, PlaceholderTitle)
	e.Description = orPlaceholder(e.Description, PlaceholderDescription)
	return e
}

// Testimonial is a client quote; Rating is 1..5
type Testimonial struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Position string `json:"position"`
	Company  string `json:"company"`
	Content  string `json:"content"`
	Image    string `json:"image,omitempty"`
	Video    string `json:"video,omitempty"`
	Rating   int    `json:"rating" validate:"rating"`
	Featured bool   `json:"featured"`
}

func (t Testimonial) EntityID() string { return t.ID }
func (t Testimonial) WithID(id string) Testimonial {
	t.ID = id
	return t
}
func (t Testimonial) IsFeatured() bool { return t.Featured }
func (t Testimonial) ForDisplay() Testimonial {
	t.Name = orPlaceholder(t.Name, PlaceholderTitle)
	t.Content = orPlaceholder(t.Content, PlaceholderDescription)
	return t
}

type Certification struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Issuer        string `json:"issuer"`
	IssueDate     string `json:"issueDate"`
	ExpiryDate    string `json:"expiryDate,omitempty"`
	CredentialID  string `json:"credentialId,omitempty"`
	CredentialURL string `json:"credentialUrl,omitempty"`
	Image         string `json:"image,omitempty"`
	Description   string `json:"description,omitempty"`
}

func (c Certification) EntityID() string { return c.ID }
func (c Certification) WithID(id string) Certification {
	c.ID = id
	return c
}
func (c Certification) ForDisplay() Certification {
	c.Name = orPlaceholder(c.Name, PlaceholderTitle)
	c.Description = orPlaceholder(c.Description, PlaceholderDescription)
	return c
}

// ServiceIcons lists the icon keys the frontend knows how to render
var ServiceIcons = []string{"code", "server", "database", "cloud", "shield", "cpu", "layout", "smartphone", "settings", "zap"}

// DefaultServiceIcon replaces unknown icon keys on display
const DefaultServiceIcon = "code"

type Service struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Icon        string   `json:"icon"`
	Features    []string `json:"features"`
	Price       string   `json:"price,omitempty"`
	Image       string   `json:"image,omitempty"`
	Featured    bool     `json:"featured"`
}

func (s Service) EntityID() string { return s.ID }
func (s Service) WithID(id string) Service {
	s.ID = id
	return s
}
func (s Service) IsFeatured() bool { return s.Featured }
func (s Service) ForDisplay() Service {
	s.Title = orPlaceholder(s.Title, PlaceholderTitle)
	s.Description = orPlaceholder(s.Description, PlaceholderDescription)
	known := false
	for _, icon := range ServiceIcons {
		if s.Icon == icon {
			known = true
			break
		}
	}
	if !known {
		s.Icon = DefaultServiceIcon
	}
	return s
}

// Gallery media kinds
const (
	GalleryTypeImage = "image"
	GalleryTypeVideo = "video"
)

type GalleryItem struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	Type        string    `json:"type"`
	Featured    bool      `json:"featured"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (g GalleryItem) EntityID() string { return g.ID }
func (g GalleryItem) WithID(id string) GalleryItem {
	g.ID = id
	return g
}
func (g GalleryItem) WithCreatedAt(at time.Time) GalleryItem {
	if g.CreatedAt.IsZero() {
		g.CreatedAt = at
	}
	return g
}
func (g GalleryItem) IsFeatured() bool { return g.Featured }
func (g GalleryItem) ForDisplay() GalleryItem {
	g.Title = orPlaceholder(g.Title, PlaceholderTitle)
	g.Description = orPlaceholder(g.Description, PlaceholderDescription)
	return g
}

// ResourceCategories are the download categories shown as filter tabs
var ResourceCategories = []string{"document", "template", "guide", "tool", "other"}

type Resource struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	FileURL     string    `json:"fileUrl"`
	Category    string    `json:"category"`
	Featured    bool      `json:"featured"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (r Resource) EntityID() string { return r.ID }
func (r Resource) WithID(id string) Resource {
	r.ID = id
	return r
}
func (r Resource) WithCreatedAt(at time.Time) Resource {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = at
	}
	return r
}
func (r Resource) IsFeatured() bool { return r.Featured }
func (r Resource) ForDisplay() Resource {
	r.Title = orPlaceholder(r.Title, PlaceholderTitle)
	r.Description = orPlaceholder(r.Description, PlaceholderDescription)
	return r
}

// AudioIntro is the singleton voice introduction played on the landing page
type AudioIntro struct {
	Enabled    bool   `json:"enabled"`
	Title      string `json:"title"`
	URL        string `json:"url"`
	Transcript string `json:"transcript,omitempty"`
}
