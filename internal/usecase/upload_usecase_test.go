package usecase_test

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"portfolio-backend/internal/domain"
	"portfolio-backend/internal/usecase"
	"portfolio-backend/pkg/security/antivirus"
)

type stubScanner struct {
	result antivirus.ScanResult
}

func (s stubScanner) Scan(context.Context, string, []byte) antivirus.ScanResult { return s.result }

func (s stubScanner) Name() string { return "stub" }

func (s stubScanner) Available(context.Context) bool { return true }

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func uploadRequest(name, kind string, data []byte) domain.UploadRequest {
	return domain.UploadRequest{
		FileName: name,
		Type:     kind,
		Size:     int64(len(data)),
		Content:  bytes.NewReader(data),
		IP:       "127.0.0.1",
	}
}

func TestUploadUsecase_Image(t *testing.T) {
	blobs := new(MockBlobStore)
	blobs.On("Put", mock.Anything, mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "images/42/") && strings.HasSuffix(key, "-My_Photo_1.png")
	}), "image/png", mock.Anything).Return("/uploads/images/42/x.png", nil)

	uc := usecase.NewUploadUsecase(blobs, nil, nil)
	req := uploadRequest("My Photo (1).PNG", "image", pngBytes(t, 4, 3))
	req.ProjectID = "42"

	res, err := uc.Upload(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "/uploads/images/42/x.png", res.URL)
	assert.Equal(t, 4, res.Width)
	assert.Equal(t, 3, res.Height)
	assert.Equal(t, "image/png", res.ContentType)
	assert.True(t, strings.HasSuffix(res.FileName, "-My_Photo_1.png"))
	blobs.AssertExpectations(t)
}

func TestUploadUsecase_SameNameGetsDistinctKeys(t *testing.T) {
	var keys []string
	blobs := new(MockBlobStore)
	blobs.On("Put", mock.Anything, mock.Anything, "image/png", mock.Anything).
		Run(func(args mock.Arguments) { keys = append(keys, args.String(1)) }).
		Return("/uploads/x.png", nil)

	uc := usecase.NewUploadUsecase(blobs, nil, nil)
	data := pngBytes(t, 2, 2)
	first, err := uc.Upload(context.Background(), uploadRequest("logo.png", "image", data))
	require.NoError(t, err)
	second, err := uc.Upload(context.Background(), uploadRequest("logo.png", "image", data))
	require.NoError(t, err)

	require.Len(t, keys, 2)
	assert.NotEqual(t, keys[0], keys[1])
	assert.NotEqual(t, first.FileName, second.FileName)

	prefix, name, ok := strings.Cut(first.FileName, "-logo")
	require.True(t, ok, first.FileName)
	assert.Equal(t, ".png", name)
	_, err = uuid.Parse(prefix)
	assert.NoError(t, err)
}

func TestUploadUsecase_Rejections(t *testing.T) {
	img := pngBytes(t, 1, 1)

	tests := []struct {
		name     string
		req      domain.UploadRequest
		scanner  antivirus.Scanner
		wantCode int
	}{
		{"unknown type", uploadRequest("a.png", "spreadsheet", img), nil, http.StatusBadRequest},
		{"empty file", uploadRequest("a.png", "image", nil), nil, http.StatusBadRequest},
		{"declared too large", func() domain.UploadRequest {
			r := uploadRequest("a.png", "image", img)
			r.Size = 6 << 20
			return r
		}(), nil, http.StatusRequestEntityTooLarge},
		{"actual content too large", func() domain.UploadRequest {
			big := append(append([]byte{}, img...), make([]byte, 5<<20)...)
			r := uploadRequest("a.png", "image", big)
			r.Size = 10
			return r
		}(), nil, http.StatusRequestEntityTooLarge},
		{"extension not allowed", uploadRequest("a.exe", "image", img), nil, http.StatusUnsupportedMediaType},
		{"content does not match", uploadRequest("a.png", "image", []byte("plain text pretending")), nil, http.StatusUnsupportedMediaType},
		{"unsafe project id", func() domain.UploadRequest {
			r := uploadRequest("a.png", "image", img)
			r.ProjectID = "../../etc"
			return r
		}(), nil, http.StatusBadRequest},
		{"infected", uploadRequest("a.png", "image", img),
			stubScanner{antivirus.ScanResult{Infected: true, ThreatName: "Eicar"}}, http.StatusBadRequest},
		{"scanner down", uploadRequest("a.png", "image", img),
			stubScanner{antivirus.ScanResult{Infected: true, Error: errors.New("dial tcp: refused")}}, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blobs := new(MockBlobStore)
			uc := usecase.NewUploadUsecase(blobs, tt.scanner, nil)

			_, err := uc.Upload(context.Background(), tt.req)
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, statusOf(err))
			blobs.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestUploadUsecase_Document(t *testing.T) {
	pdf := []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\ntrailer\n<<>>\n%%EOF\n")
	blobs := new(MockBlobStore)
	blobs.On("Put", mock.Anything, mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "documents/")
	}), "application/pdf", pdf).Return("https://cdn.example.com/documents/cv.pdf", nil)

	uc := usecase.NewUploadUsecase(blobs, antivirus.NewNoOpScanner(), nil)
	res, err := uc.Upload(context.Background(), uploadRequest("cv.pdf", "document", pdf))
	require.NoError(t, err)
	assert.Zero(t, res.Width)
	assert.Equal(t, int64(len(pdf)), res.Size)
}

func TestUploadUsecase_StoreFailure(t *testing.T) {
	blobs := new(MockBlobStore)
	blobs.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("bucket gone"))

	uc := usecase.NewUploadUsecase(blobs, nil, nil)
	_, err := uc.Upload(context.Background(), uploadRequest("a.png", "image", pngBytes(t, 1, 1)))
	assert.Equal(t, http.StatusInternalServerError, statusOf(err))
}

func TestSanitizeFileName(t *testing.T) {
	tests := map[string]string{
		"photo.jpg":            "photo.jpg",
		"My Photo (1).PNG":     "My_Photo_1.png",
		"../../etc/passwd.txt": "passwd.txt",
		`C:\Users\me\cv.pdf`:   "cv.pdf",
		"résumé.pdf":           "r_sum.pdf",
		"....png":              "file.png",
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, usecase.SanitizeFileName(in))
		})
	}
}
