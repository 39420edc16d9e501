package storage

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go-interview-backend/internal/domain"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// Provider represents the S3-compatible storage provider
type Provider string

const (
	ProviderAWS    Provider = "aws"
	ProviderWasabi Provider = "wasabi"
)

// wasabiEndpoints maps regions to Wasabi endpoints
var wasabiEndpoints = map[string]string{
	"us-east-1":      "s3.us-east-1.wasabisys.com",
	"us-east-2":      "s3.us-east-2.wasabisys.com",
	"us-west-1":      "s3.us-west-1.wasabisys.com",
	"eu-central-1":   "s3.eu-central-1.wasabisys.com",
	"eu-west-1":      "s3.eu-west-1.wasabisys.com",
	"ap-northeast-1": "s3.ap-northeast-1.wasabisys.com",
	"ap-southeast-1": "s3.ap-southeast-1.wasabisys.com",
	"ap-southeast-2": "s3.ap-southeast-2.wasabisys.com",
}

type Config struct {
	Provider        Provider
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	Bucket          string
	Endpoint        string // overrides the provider default, host only
	TTL             time.Duration
}

// endpoint returns the custom host for cfg, or "" for plain AWS.
func (cfg Config) endpoint() string {
	if cfg.Endpoint != "" {
		return cfg.Endpoint
	}
	if cfg.Provider != ProviderWasabi {
		return ""
	}
	if ep, ok := wasabiEndpoints[cfg.Region]; ok {
		return ep
	}
	return "s3.ap-southeast-1.wasabisys.com"
}

// VideoUploads issues pre-signed PUT URLs for candidate video answers.
type VideoUploads struct {
	presign   func(ctx context.Context, bucket, key, contentType string, ttl time.Duration) (string, error)
	bucket    string
	publicURL string
	ttl       time.Duration
	newID     func() string
}

// NewVideoUploads builds an S3 (or Wasabi) client and wraps its presigner.
func NewVideoUploads(ctx context.Context, cfg Config) (*VideoUploads, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("storage: bucket is not configured")
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

	endpoint := cfg.endpoint()
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String("https://" + endpoint)
			// Wasabi requires path-style
			o.UsePathStyle = true
		}
	})
	pc := s3.NewPresignClient(client)

	presign := func(ctx context.Context, bucket, key, contentType string, ttl time.Duration) (string, error) {
		req, err := pc.PresignPutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(bucket),
			Key:         aws.String(key),
			ContentType: aws.String(contentType),
		}, s3.WithPresignExpires(ttl))
		if err != nil {
			return "", err
		}
		return req.URL, nil
	}

	return newVideoUploads(presign, cfg.Bucket, publicBase(cfg, endpoint), cfg.TTL), nil
}

func newVideoUploads(
	presign func(ctx context.Context, bucket, key, contentType string, ttl time.Duration) (string, error),
	bucket, publicURL string,
	ttl time.Duration,
) *VideoUploads {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &VideoUploads{
		presign:   presign,
		bucket:    bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
		ttl:       ttl,
		newID:     uuid.NewString,
	}
}

func publicBase(cfg Config, endpoint string) string {
	if endpoint != "" {
		return "https://" + endpoint + "/" + cfg.Bucket
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
}

func (v *VideoUploads) IssueVideoUploadURL(ctx context.Context, interviewID int64) (*domain.UploadURL, error) {
	key := fmt.Sprintf("interviews/%d/%s.webm", interviewID, v.newID())

	signed, err := v.presign(ctx, v.bucket, key, "video/webm", v.ttl)
	if err != nil {
		return nil, fmt.Errorf("failed to presign upload: %w", err)
	}

	return &domain.UploadURL{
		UploadURL: signed,
		FilePath:  key,
		PublicURL: v.publicURL + "/" + (&url.URL{Path: key}).EscapedPath(),
		ExpiresIn: int(v.ttl / time.Second),
	}, nil
}
