package blob

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorePut(t *testing.T) {
	root := t.TempDir()
	s, err := NewLocalStore(root, "uploads/")
	require.NoError(t, err)

	url, err := s.Put(context.Background(), "images/p1/123-photo.png", "image/png", []byte("png"))
	require.NoError(t, err)
	assert.Equal(t, "/uploads/images/p1/123-photo.png", url)

	data, err := os.ReadFile(filepath.Join(root, "images", "p1", "123-photo.png"))
	require.NoError(t, err)
	assert.Equal(t, "png", string(data))

	_, err = s.Put(context.Background(), "images/p1/123-photo.png", "image/png", []byte("again"))
	assert.Error(t, err, "existing files are never overwritten")

	_, err = s.Put(context.Background(), "../escape.txt", "text/plain", []byte("x"))
	assert.Error(t, err)
}

type fakePut struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakePut) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = in
	f.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, f.err
}

func TestPutObject(t *testing.T) {
	api := &fakePut{}
	url, err := putObject(context.Background(), api, "bucket", "https://cdn.example.com", "/videos/1-clip.mp4", "video/mp4", []byte("mp4"))
	require.NoError(t, err)

	assert.Equal(t, "https://cdn.example.com/videos/1-clip.mp4", url)
	assert.Equal(t, "videos/1-clip.mp4", aws.ToString(api.input.Key))
	assert.Equal(t, "video/mp4", aws.ToString(api.input.ContentType))
	assert.Equal(t, "mp4", string(api.body))

	api.err = errors.New("denied")
	_, err = putObject(context.Background(), api, "bucket", "https://cdn.example.com", "a", "b", nil)
	assert.Error(t, err)
}

func TestPublicBaseURL(t *testing.T) {
	tests := []struct {
		name string
		cfg  S3Config
		want string
	}{
		{"aws", S3Config{Provider: S3ProviderAWS, Bucket: "b", Region: "eu-west-1"}, "https://b.s3.eu-west-1.amazonaws.com"},
		{"wasabi", S3Config{Provider: S3ProviderWasabi, Bucket: "b", Region: "eu-west-1"}, "https://s3.eu-west-1.wasabisys.com/b"},
		{"custom", S3Config{Provider: S3ProviderCustom, Bucket: "b", Endpoint: "http://minio:9000"}, "http://minio:9000/b"},
		{"explicit", S3Config{Bucket: "b", PublicBaseURL: "https://cdn.example.com/"}, "https://cdn.example.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := publicBaseURL(tt.cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := publicBaseURL(S3Config{Provider: S3ProviderCustom, Bucket: "b"})
	assert.Error(t, err)
}
