package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/google/uuid"
	_ "golang.org/x/image/webp"

	"portfolio-backend/internal/domain"
	"portfolio-backend/pkg/apperror"
	"portfolio-backend/pkg/logger"
	"portfolio-backend/pkg/security"
	"portfolio-backend/pkg/security/antivirus"
	"portfolio-backend/pkg/validation"
)

// sniffLen is how much of the file mimetype inspects
const sniffLen = 3072

type uploadUsecase struct {
	blobs   domain.BlobStore
	scanner antivirus.Scanner
	secLog  *security.SecurityLogger
}

func NewUploadUsecase(blobs domain.BlobStore, scanner antivirus.Scanner, secLog *security.SecurityLogger) domain.UploadUsecase {
	if scanner == nil {
		scanner = antivirus.NewNoOpScanner()
	}
	return &uploadUsecase{
		blobs:   blobs,
		scanner: scanner,
		secLog:  secLog,
	}
}

// Upload validates the file against its type policy and writes it to the blob
// store. Nothing is written unless every check passes.
func (u *uploadUsecase) Upload(ctx context.Context, req domain.UploadRequest) (*domain.UploadResult, error) {
	policy, ok := security.PolicyFor(req.Type)
	if !ok {
		return nil, u.reject(ctx, req, http.StatusBadRequest,
			fmt.Sprintf("Invalid upload type. Allowed: %s", strings.Join(security.UploadTypes(), ", ")),
			security.ErrUnknownUploadType)
	}
	if req.ProjectID != "" && !validation.IsSafeKey(req.ProjectID) {
		return nil, u.reject(ctx, req, http.StatusBadRequest, "Invalid project ID", nil)
	}
	if err := policy.CheckSize(req.Size); err != nil {
		return nil, u.rejectPolicy(ctx, req, err)
	}

	// The declared size comes from the client; never read past the limit
	data, err := io.ReadAll(io.LimitReader(req.Content, policy.MaxSize+1))
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("read upload: %w", err))
	}
	if err := policy.CheckSize(int64(len(data))); err != nil {
		return nil, u.rejectPolicy(ctx, req, err)
	}

	check, err := policy.ValidateFile(req.FileName, data[:min(len(data), sniffLen)])
	if err != nil {
		return nil, u.rejectPolicy(ctx, req, err)
	}

	scan := u.scanner.Scan(ctx, req.FileName, data)
	if scan.Error != nil {
		logger.Log.Error("virus scan failed", "scanner", scan.ScannerName, "error", scan.Error)
		return nil, u.reject(ctx, req, http.StatusServiceUnavailable, "File could not be scanned. Please try again later.", scan.Error)
	}
	if scan.Infected {
		return nil, u.reject(ctx, req, http.StatusBadRequest, "File rejected by virus scan", fmt.Errorf("threat %s", scan.ThreatName))
	}

	result := &domain.UploadResult{
		Size:        int64(len(data)),
		ContentType: check.DetectedMIME,
	}
	if policy.Type == "image" {
		cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return nil, u.reject(ctx, req, http.StatusUnsupportedMediaType, "Image could not be decoded", err)
		}
		result.Width, result.Height = cfg.Width, cfg.Height
	}

	// The random prefix keeps same-named uploads from overwriting each other
	result.FileName = uuid.NewString() + "-" + SanitizeFileName(req.FileName)
	key := policy.Type + "s/"
	if req.ProjectID != "" {
		key += req.ProjectID + "/"
	}
	key += result.FileName

	url, err := u.blobs.Put(ctx, key, check.DetectedMIME, data)
	if err != nil {
		return nil, apperror.New(http.StatusInternalServerError, "Failed to store file", err)
	}
	result.URL = url

	logger.Log.Info("file uploaded", "key", key, "size", result.Size, "backend", u.blobs.Name())
	return result, nil
}

func (u *uploadUsecase) rejectPolicy(ctx context.Context, req domain.UploadRequest, err error) error {
	code := http.StatusBadRequest
	switch {
	case errors.Is(err, security.ErrFileTooLarge):
		code = http.StatusRequestEntityTooLarge
	case errors.Is(err, security.ErrExtensionNotAllowed), errors.Is(err, security.ErrContentNotAllowed):
		code = http.StatusUnsupportedMediaType
	}
	return u.reject(ctx, req, code, capitalize(err.Error()), err)
}

func (u *uploadUsecase) reject(ctx context.Context, req domain.UploadRequest, code int, msg string, cause error) error {
	reason := msg
	if cause != nil {
		reason = cause.Error()
	}
	u.secLog.LogUploadRejected(ctx, req.IP, req.RequestID, req.FileName, reason)
	return apperror.New(code, msg, cause)
}

// SanitizeFileName keeps ASCII letters, digits and dashes; every other run of
// characters becomes one underscore. The extension is lower-cased.
func SanitizeFileName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	ext := strings.ToLower(filepath.Ext(name))
	stem := strings.TrimSuffix(name, filepath.Ext(name))

	var b strings.Builder
	lastUnderscore := false
	for _, r := range stem {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)), r == '-':
			b.WriteRune(r)
			lastUnderscore = false
		case !lastUnderscore:
			b.WriteByte('_')
			lastUnderscore = true
		}
	}
	out := strings.Trim(b.String(), "_.")
	if out == "" {
		out = "file"
	}
	if len(out) > 100 {
		out = out[:100]
	}
	return out + ext
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
