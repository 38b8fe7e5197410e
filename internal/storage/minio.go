package storage

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioProvider stores objects in a MinIO bucket. MinIO has no per-object ACLs, so
// MakePublic installs a read-only bucket policy over the public prefix once.
type MinioProvider struct {
	client *minio.Client
	opts   Options

	mu        sync.Mutex
	policySet bool
}

// NewMinio connects to MinIO and creates the bucket when it does not exist yet.
func NewMinio(ctx context.Context, opts Options) (*MinioProvider, error) {
	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
		Region: opts.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, opts.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", opts.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, opts.Bucket, minio.MakeBucketOptions{Region: opts.Region}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", opts.Bucket, err)
		}
	}

	return &MinioProvider{client: client, opts: opts}, nil
}

func (p *MinioProvider) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	_, err := p.client.PutObject(ctx, p.opts.Bucket, key, body, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}

func (p *MinioProvider) MakePublic(ctx context.Context, key string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.policySet {
		return nil
	}
	if err := p.client.SetBucketPolicy(ctx, p.opts.Bucket, readOnlyPolicy(p.opts.Bucket, p.opts.PublicPrefix)); err != nil {
		return fmt.Errorf("set bucket policy: %w", err)
	}
	p.policySet = true
	return nil
}

func (p *MinioProvider) URL(key string) string {
	return publicURL(p.opts, key)
}

func readOnlyPolicy(bucket, prefix string) string {
	return fmt.Sprintf(`{"Version":"2012-10-17","Statement":[{"Effect":"Allow","Principal":{"AWS":["*"]},"Action":["s3:GetObject"],"Resource":["arn:aws:s3:::%s/%s*"]}]}`, bucket, prefix)
}
