package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Provider stores objects in an S3 compatible bucket and publishes them with a public-read ACL.
type S3Provider struct {
	client *s3.Client
	opts   Options
}

// NewS3 builds an S3 client from static credentials. A non-empty endpoint overrides the AWS
// default, which allows pointing at any S3 compatible service.
func NewS3(ctx context.Context, opts Options) (*S3Provider, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(opts.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			opts.AccessKey,
			opts.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(withScheme(opts.Endpoint, opts.UseSSL))
			o.UsePathStyle = true
		}
	})
	return &S3Provider{client: client, opts: opts}, nil
}

func (p *S3Provider) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	_, err := p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(p.opts.Bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	return err
}

func (p *S3Provider) MakePublic(ctx context.Context, key string) error {
	_, err := p.client.PutObjectAcl(ctx, &s3.PutObjectAclInput{
		Bucket: aws.String(p.opts.Bucket),
		Key:    aws.String(key),
		ACL:    types.ObjectCannedACLPublicRead,
	})
	return err
}

func (p *S3Provider) URL(key string) string {
	return publicURL(p.opts, key)
}
