// Package s3x implements an S3 PutObject transport adapter.
//
// Uses the AWS SDK default credential chain (env vars, shared config, IAM
// role). S3-compatible providers (R2, MinIO) are supported via a custom
// endpoint and path-style addressing.
package s3x

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/pelhamlabs/dropkit/transport"
	"github.com/pelhamlabs/dropkit/types"
)

// Config holds S3 adapter configuration.
type Config struct {
	// Bucket is the S3 bucket name (required).
	Bucket string
	// Prefix is the key prefix within the bucket (optional).
	Prefix string
	// Region is the AWS region (optional, uses default chain if empty).
	Region string
	// Endpoint is a custom S3 endpoint URL for S3-compatible providers.
	Endpoint string
	// UsePathStyle forces path-style addressing (bucket in path, not
	// subdomain). Required by most S3-compatible providers.
	UsePathStyle bool
}

// Validate checks that required S3 configuration is present.
func (c *Config) Validate() error {
	if c.Bucket == "" {
		return errors.New("s3 bucket is required")
	}
	return nil
}

// Adapter uploads files to S3.
type Adapter struct {
	config Config
	client *s3.Client
}

// New creates an S3 adapter using the default credential chain.
func New(ctx context.Context, cfg Config) (*Adapter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var s3Opts []func(*s3.Options)
	if cfg.Endpoint != "" {
		endpoint := cfg.Endpoint
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = &endpoint
		})
	}
	if cfg.UsePathStyle {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.UsePathStyle = true
		})
	}

	return &Adapter{
		config: cfg,
		client: s3.NewFromConfig(awsCfg, s3Opts...),
	}, nil
}

// Upload puts the file bytes under prefix/name. Progress is reported from
// bytes read off the source against the declared size.
func (a *Adapter) Upload(ctx context.Context, file types.FileInfo, onProgress transport.ProgressFunc) (*transport.Result, error) {
	if file.Open == nil {
		return nil, fmt.Errorf("s3x: no byte stream for %q", file.Name)
	}

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", file.Name, err)
	}
	defer src.Close()

	key := path.Join(a.config.Prefix, file.Name)
	contentType := file.MIME
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	body := io.Reader(src)
	if onProgress != nil {
		body = &countingReader{r: src, total: file.Size, onProgress: onProgress}
	}

	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        &a.config.Bucket,
		Key:           &key,
		Body:          body,
		ContentType:   &contentType,
		ContentLength: &file.Size,
	})
	if err != nil {
		return nil, fmt.Errorf("s3x: put %q: %w", key, err)
	}

	if onProgress != nil {
		onProgress(100)
	}

	return &transport.Result{
		Success: true,
		FileID:  key,
		URL:     a.objectURL(key),
	}, nil
}

// objectURL builds a stable URL for the stored object.
func (a *Adapter) objectURL(key string) string {
	if a.config.Endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", a.config.Endpoint, a.config.Bucket, key)
	}
	if a.config.Region != "" {
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", a.config.Bucket, a.config.Region, key)
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", a.config.Bucket, key)
}

// Close implements transport.Adapter.
func (a *Adapter) Close() error { return nil }

// countingReader reports read progress against a declared total, capped at
// 99 until PutObject returns.
type countingReader struct {
	r          io.Reader
	total      int64
	read       int64
	last       int
	onProgress transport.ProgressFunc
}

func (c *countingReader) Read(buf []byte) (int, error) {
	n, err := c.r.Read(buf)
	c.read += int64(n)
	if c.total > 0 {
		percent := int(c.read * 100 / c.total)
		if percent > 99 {
			percent = 99
		}
		if percent > c.last {
			c.last = percent
			c.onProgress(percent)
		}
	}
	return n, err
}

// Verify Adapter implements the transport interface.
var _ transport.Adapter = (*Adapter)(nil)
