package store

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"portfolio-backend/internal/domain"
)

// DefaultContent is the seed data used for any key that was never saved
func DefaultContent() domain.ContentSnapshot {
	seeded := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

	return domain.ContentSnapshot{
		Profile: domain.Profile{
			Name:     "Portfolio Owner",
			Title:    "Software Engineer",
			Subtitle: "Backend systems and developer tooling",
			Bio:      "I design and build reliable web services.",
			Location: "Remote",
			Status:   "Available for freelance work",
		},
		AudioIntro: domain.AudioIntro{
			Enabled: false,
			Title:   "A short introduction",
		},
		Projects: []domain.Project{
			{
				ID:            "1",
				Title:         "Inventory Platform",
				Purpose:       "Track stock across warehouses in real time",
				TechStack:     []string{"Go", "PostgreSQL", "Redis"},
				ProblemSolved: "Manual spreadsheets drifted out of sync between sites",
				SystemLogic:   "Event-sourced stock ledger with per-site projections",
				Outcome:       "Stock discrepancies dropped by 90%",
				Featured:      true,
			},
		},
		Experiences: []domain.Experience{
			{
				ID:           "1",
				Company:      "Acme Corp",
				Position:     "Backend Engineer",
				Location:     "Remote",
				StartDate:    "2022-01",
				Current:      true,
				Description:  "Own the order and billing services.",
				Achievements: []string{"Cut p99 latency in half"},
			},
		},
		Testimonials: []domain.Testimonial{
			{
				ID:       "1",
				Name:     "Jane Client",
				Position: "CTO",
				Company:  "Example Ltd",
				Content:  "Delivered on time and the system has run without incident since.",
				Rating:   5,
				Featured: true,
			},
		},
		Certifications: []domain.Certification{},
		Services: []domain.Service{
			{
				ID:          "1",
				Title:       "Backend Development",
				Description: "APIs, data pipelines and integrations.",
				Icon:        "server",
				Features:    []string{"REST and gRPC APIs", "Database design"},
				Featured:    true,
			},
		},
		Gallery: []domain.GalleryItem{},
		Resources: []domain.Resource{
			{
				ID:          "1",
				Title:       "Project brief template",
				Description: "A starting point for scoping a new engagement.",
				Category:    "template",
				CreatedAt:   seeded,
			},
		},
	}
}

// LoadDefaultsFile reads seed content from YAML. Keys missing from the file
// keep the built-in defaults. Field names are the JSON names (camelCase).
func LoadDefaultsFile(path string) (domain.ContentSnapshot, error) {
	out := DefaultContent()
	if path == "" {
		return out, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return out, fmt.Errorf("read defaults file: %w", err)
	}
	if err := DecodeYAMLSnapshot(raw, &out); err != nil {
		return out, fmt.Errorf("parse defaults file %s: %w", path, err)
	}
	return out, nil
}

// DecodeYAMLSnapshot decodes YAML through JSON so the entity json tags apply
func DecodeYAMLSnapshot(raw []byte, into *domain.ContentSnapshot) error {
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return err
	}
	if doc == nil {
		return nil
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, into)
}

// EncodeYAMLSnapshot is the inverse of DecodeYAMLSnapshot
func EncodeYAMLSnapshot(snap domain.ContentSnapshot) ([]byte, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return nil, err
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return yaml.Marshal(doc)
}
