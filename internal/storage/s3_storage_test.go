package storage

import (
	"context"
	"testing"

	"github.com/ikkim/variant-reservation/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func staticConfig(baseURL string) config.S3Config {
	return config.S3Config{
		Region:          "ap-northeast-2",
		Bucket:          "variant-images",
		AccessKeyID:     "AKIDEXAMPLE",
		SecretAccessKey: "secret",
		BaseURL:         baseURL,
	}
}

func TestS3Storage_ResolveURL_AbsolutePassesThrough(t *testing.T) {
	s := NewS3Storage(context.Background(), staticConfig(""))

	url, err := s.ResolveURL(context.Background(), "https://cdn.example.com/a.jpg")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/a.jpg", url)
}

func TestS3Storage_ResolveURL_BaseURL(t *testing.T) {
	s := NewS3Storage(context.Background(), staticConfig("https://cdn.example.com/"))

	url, err := s.ResolveURL(context.Background(), "/products/1/front.jpg")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/products/1/front.jpg", url)
}

func TestS3Storage_ResolveURL_Presigned(t *testing.T) {
	s := NewS3Storage(context.Background(), staticConfig(""))

	url, err := s.ResolveURL(context.Background(), "products/1/front.jpg")
	require.NoError(t, err)
	assert.Contains(t, url, "variant-images")
	assert.Contains(t, url, "products/1/front.jpg")
	assert.Contains(t, url, "X-Amz-Signature")
}

func TestS3Storage_ResolveURL_Empty(t *testing.T) {
	s := NewS3Storage(context.Background(), staticConfig(""))

	url, err := s.ResolveURL(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, url)
}
