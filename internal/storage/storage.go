package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// Provider is an object store that avatars are written to.
type Provider interface {
	// Put writes size bytes from body under key.
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	// MakePublic grants anonymous read access to key.
	MakePublic(ctx context.Context, key string) error
	// URL returns the public address of key.
	URL(key string) string
}

// Options configures a Provider.
type Options struct {
	Driver        string
	Endpoint      string
	Region        string
	AccessKey     string
	SecretKey     string
	UseSSL        bool
	Bucket        string
	PublicBaseURL string
	PublicPrefix  string
}

// New builds the provider selected by opts.Driver.
func New(ctx context.Context, opts Options) (Provider, error) {
	switch strings.ToLower(opts.Driver) {
	case "minio", "":
		return NewMinio(ctx, opts)
	case "s3":
		return NewS3(ctx, opts)
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", opts.Driver)
	}
}

// publicURL joins base, bucket and key into an object address. When base is empty it is
// derived from the endpoint.
func publicURL(opts Options, key string) string {
	base := strings.TrimRight(opts.PublicBaseURL, "/")
	if base != "" {
		return base + "/" + key
	}
	return withScheme(opts.Endpoint, opts.UseSSL) + "/" + opts.Bucket + "/" + key
}

// withScheme prefixes a bare host:port endpoint with http or https.
func withScheme(endpoint string, useSSL bool) string {
	if !strings.Contains(endpoint, "://") {
		scheme := "http"
		if useSSL {
			scheme = "https"
		}
		endpoint = scheme + "://" + endpoint
	}
	return strings.TrimRight(endpoint, "/")
}
