package security

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Rejection reasons. Callers map them to 413, 415 and 400.
var (
	ErrUnknownUploadType   = errors.New("unknown upload type")
	ErrFileTooLarge        = errors.New("file exceeds the size limit")
	ErrExtensionNotAllowed = errors.New("file extension not allowed")
	ErrContentNotAllowed   = errors.New("file content type not allowed")
	ErrEmptyFile           = errors.New("file is empty")
)

const mb = 1 << 20

// UploadPolicy is the allowlist applied to one upload type
type UploadPolicy struct {
	Type       string
	MaxSize    int64
	MIMETypes  []string
	Extensions []string
}

var uploadPolicies = map[string]UploadPolicy{
	"image": {
		Type:       "image",
		MaxSize:    5 * mb,
		MIMETypes:  []string{"image/jpeg", "image/png", "image/gif", "image/webp"},
		Extensions: []string{".jpg", ".jpeg", ".png", ".gif", ".webp"},
	},
	"video": {
		Type:       "video",
		MaxSize:    100 * mb,
		MIMETypes:  []string{"video/mp4", "video/webm", "video/quicktime"},
		Extensions: []string{".mp4", ".webm", ".mov"},
	},
	"document": {
		Type:    "document",
		MaxSize: 10 * mb,
		MIMETypes: []string{
			"application/pdf",
			"application/msword",
			"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		},
		Extensions: []string{".pdf", ".doc", ".docx"},
	},
	"resource": {
		Type:    "resource",
		MaxSize: 50 * mb,
		MIMETypes: []string{
			"application/pdf",
			"application/msword",
			"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
			"application/vnd.ms-powerpoint",
			"application/vnd.openxmlformats-officedocument.presentationml.presentation",
			"application/vnd.ms-excel",
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			"application/zip",
			"text/plain",
		},
		Extensions: []string{".pdf", ".doc", ".docx", ".ppt", ".pptx", ".xls", ".xlsx", ".zip", ".txt"},
	},
	"audio": {
		Type:       "audio",
		MaxSize:    20 * mb,
		MIMETypes:  []string{"audio/mpeg", "audio/wav", "audio/ogg", "audio/webm", "audio/mp4", "audio/x-m4a"},
		Extensions: []string{".mp3", ".wav", ".ogg", ".webm", ".m4a"},
	},
}

// PolicyFor returns the policy of an upload type
func PolicyFor(uploadType string) (UploadPolicy, bool) {
	p, ok := uploadPolicies[strings.ToLower(uploadType)]
	return p, ok
}

// UploadTypes lists the accepted upload types in a stable order
func UploadTypes() []string {
	types := make([]string, 0, len(uploadPolicies))
	for t := range uploadPolicies {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// FileValidationResult contains the result of file validation
type FileValidationResult struct {
	Extension    string
	DetectedMIME string
}

// CheckSize rejects files above the policy limit before any content is read
func (p UploadPolicy) CheckSize(size int64) error {
	if size <= 0 {
		return ErrEmptyFile
	}
	if size > p.MaxSize {
		return fmt.Errorf("%w: %d bytes, max %d MB for %s", ErrFileTooLarge, size, p.MaxSize/mb, p.Type)
	}
	return nil
}

// ValidateFile checks the extension against the allowlist, then sniffs the
// leading bytes and requires the detected type (or one of its parents, so a
// docx is accepted through its zip container) to be allowed.
func (p UploadPolicy) ValidateFile(filename string, head []byte) (FileValidationResult, error) {
	result := FileValidationResult{}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" || !slices.Contains(p.Extensions, ext) {
		return result, fmt.Errorf("%w: %q for %s (allowed: %s)", ErrExtensionNotAllowed, ext, p.Type, strings.Join(p.Extensions, ", "))
	}
	result.Extension = ext

	if len(head) == 0 {
		return result, ErrEmptyFile
	}

	detected := mimetype.Detect(head)
	result.DetectedMIME = detected.String()

	for m := detected; m != nil; m = m.Parent() {
		for _, allowed := range p.MIMETypes {
			if m.Is(allowed) {
				return result, nil
			}
		}
	}
	return result, fmt.Errorf("%w: %s", ErrContentNotAllowed, detected.String())
}

// IsImageExtension checks if the extension is an image type
func IsImageExtension(ext string) bool {
	return slices.Contains(uploadPolicies["image"].Extensions, strings.ToLower(ext))
}
