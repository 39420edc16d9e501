package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueVideoUploadURL(t *testing.T) {
	var gotBucket, gotKey, gotType string
	var gotTTL time.Duration
	v := newVideoUploads(func(_ context.Context, bucket, key, contentType string, ttl time.Duration) (string, error) {
		gotBucket, gotKey, gotType, gotTTL = bucket, key, contentType, ttl
		return "https://signed.example/" + key + "?X-Amz-Signature=abc", nil
	}, "videos", "https://videos.s3.us-east-1.amazonaws.com/", 15*time.Minute)
	v.newID = func() string { return "fixed-id" }

	out, err := v.IssueVideoUploadURL(context.Background(), 42)

	require.NoError(t, err)
	assert.Equal(t, "videos", gotBucket)
	assert.Equal(t, "interviews/42/fixed-id.webm", gotKey)
	assert.Equal(t, "video/webm", gotType)
	assert.Equal(t, 15*time.Minute, gotTTL)
	assert.Equal(t, "interviews/42/fixed-id.webm", out.FilePath)
	assert.Equal(t, "https://videos.s3.us-east-1.amazonaws.com/interviews/42/fixed-id.webm", out.PublicURL)
	assert.Equal(t, 900, out.ExpiresIn)
	assert.Contains(t, out.UploadURL, "X-Amz-Signature")
}

func TestIssueVideoUploadURL_PresignError(t *testing.T) {
	v := newVideoUploads(func(context.Context, string, string, string, time.Duration) (string, error) {
		return "", errors.New("no credentials")
	}, "videos", "https://x", 0)

	_, err := v.IssueVideoUploadURL(context.Background(), 1)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no credentials")
	assert.Equal(t, time.Hour, v.ttl)
}

func TestEndpointSelection(t *testing.T) {
	assert.Equal(t, "", Config{Provider: ProviderAWS, Region: "us-east-1"}.endpoint())
	assert.Equal(t, "s3.eu-west-1.wasabisys.com", Config{Provider: ProviderWasabi, Region: "eu-west-1"}.endpoint())
	assert.Equal(t, "s3.ap-southeast-1.wasabisys.com", Config{Provider: ProviderWasabi, Region: "mars-1"}.endpoint())
	assert.Equal(t, "minio.local:9000", Config{Provider: ProviderAWS, Endpoint: "minio.local:9000"}.endpoint())

	cfg := Config{Bucket: "b", Region: "us-west-2"}
	assert.Equal(t, "https://b.s3.us-west-2.amazonaws.com", publicBase(cfg, ""))
	assert.Equal(t, "https://minio.local:9000/b", publicBase(cfg, "minio.local:9000"))
}
