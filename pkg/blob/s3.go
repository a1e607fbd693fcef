package blob

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Provider represents the S3-compatible storage provider
type S3Provider string

const (
	S3ProviderAWS    S3Provider = "aws"
	S3ProviderWasabi S3Provider = "wasabi"
	// S3ProviderCustom is any S3-compatible endpoint (MinIO, R2, ...)
	S3ProviderCustom S3Provider = "custom"
)

// WasabiEndpoints maps regions to Wasabi endpoints
var WasabiEndpoints = map[string]string{
	"us-east-1":      "s3.us-east-1.wasabisys.com",
	"us-east-2":      "s3.us-east-2.wasabisys.com",
	"us-west-1":      "s3.us-west-1.wasabisys.com",
	"eu-central-1":   "s3.eu-central-1.wasabisys.com",
	"eu-west-1":      "s3.eu-west-1.wasabisys.com",
	"eu-west-2":      "s3.eu-west-2.wasabisys.com",
	"ap-northeast-1": "s3.ap-northeast-1.wasabisys.com",
	"ap-southeast-1": "s3.ap-southeast-1.wasabisys.com",
	"ap-southeast-2": "s3.ap-southeast-2.wasabisys.com",
}

// S3Config holds configuration for S3-compatible storage
type S3Config struct {
	Provider        S3Provider
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	Bucket          string
	Endpoint        string // host or URL; required for custom, optional for wasabi
	PublicBaseURL   string // prefix for returned URLs; defaults to the bucket URL
}

// endpoint resolves the base endpoint URL, empty for AWS defaults
func (c S3Config) endpoint() (string, error) {
	ep := c.Endpoint
	switch c.Provider {
	case S3ProviderWasabi:
		if ep == "" {
			var ok bool
			if ep, ok = WasabiEndpoints[c.Region]; !ok {
				return "", fmt.Errorf("unknown Wasabi region: %s", c.Region)
			}
		}
	case S3ProviderCustom:
		if ep == "" {
			return "", fmt.Errorf("S3_ENDPOINT is required for provider %q", c.Provider)
		}
	}
	if ep != "" && !strings.Contains(ep, "://") {
		ep = "https://" + ep
	}
	return ep, nil
}

// S3Store uploads public objects to a bucket
type S3Store struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

// s3PutAPI is the subset of the client used by S3Store
type s3PutAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// NewS3Client creates an S3 client for AWS or an S3-compatible provider
func NewS3Client(ctx context.Context, cfg S3Config) (*s3.Client, error) {
	endpoint, err := cfg.endpoint()
	if err != nil {
		return nil, err
	}

	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	if endpoint == "" {
		return s3.NewFromConfig(awsCfg), nil
	}
	// Non-AWS providers need path-style addressing.
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	}), nil
}

func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("S3_BUCKET is required for the s3 upload backend")
	}
	client, err := NewS3Client(ctx, cfg)
	if err != nil {
		return nil, err
	}
	base, err := publicBaseURL(cfg)
	if err != nil {
		return nil, err
	}
	return &S3Store{client: client, bucket: cfg.Bucket, baseURL: base}, nil
}

func publicBaseURL(cfg S3Config) (string, error) {
	if cfg.PublicBaseURL != "" {
		return strings.TrimRight(cfg.PublicBaseURL, "/"), nil
	}
	endpoint, err := cfg.endpoint()
	if err != nil {
		return "", err
	}
	if endpoint == "" {
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region), nil
	}
	return strings.TrimRight(endpoint, "/") + "/" + cfg.Bucket, nil
}

func (s *S3Store) Name() string { return "s3" }

func (s *S3Store) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	return putObject(ctx, s.client, s.bucket, s.baseURL, key, contentType, data)
}

func putObject(ctx context.Context, api s3PutAPI, bucket, baseURL, key, contentType string, data []byte) (string, error) {
	key = strings.TrimLeft(key, "/")
	_, err := api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
		CacheControl:  aws.String("public, max-age=31536000, immutable"),
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	return baseURL + "/" + key, nil
}

// Ping checks the bucket is reachable with the configured credentials
func (s *S3Store) Ping(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	if err != nil {
		return fmt.Errorf("failed to access bucket %s: %w", s.bucket, err)
	}
	return nil
}
