package domain

import (
	"context"
	"io"
)

// UploadRequest is one multipart file submission to the upload relay
type UploadRequest struct {
	FileName     string
	DeclaredMIME string
	Size         int64
	Content      io.Reader
	Type         string // image, video, document, resource, audio
	ProjectID    string // optional owning entity
	IP           string
	RequestID    string
}

// UploadResult mirrors the relay's success payload
type UploadResult struct {
	URL         string `json:"url"`
	FileName    string `json:"fileName"`
	Size        int64  `json:"size"`
	ContentType string `json:"contentType"`
	Width       int    `json:"width,omitempty"`
	Height      int    `json:"height,omitempty"`
}

type UploadUsecase interface {
	Upload(ctx context.Context, req UploadRequest) (*UploadResult, error)
}

// BlobStore writes uploaded files somewhere the public site can fetch them
type BlobStore interface {
	Put(ctx context.Context, path string, contentType string, data []byte) (publicURL string, err error)
	Name() string
}
