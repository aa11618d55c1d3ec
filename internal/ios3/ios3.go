// Package ios3 downloads uploads from S3-compatible object storage.
package ios3

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gnames/gnaoi/pkg/config"
)

const scheme = "s3://"

// Location is a bucket and an object key.
type Location struct {
	Bucket string
	Key    string
}

// String returns location as s3:// URI.
func (l Location) String() string {
	return scheme + l.Bucket + "/" + l.Key
}

// Name returns the base name of the object key.
func (l Location) Name() string {
	if i := strings.LastIndexByte(l.Key, '/'); i >= 0 {
		return l.Key[i+1:]
	}
	return l.Key
}

// IsURI reports if s looks like an s3:// URI.
func IsURI(s string) bool {
	return strings.HasPrefix(s, scheme)
}

// ParseURI splits s3://bucket/key into its parts.
func ParseURI(uri string) (Location, error) {
	if !IsURI(uri) {
		return Location{}, InvalidURIError(uri)
	}
	bucket, key, ok := strings.Cut(strings.TrimPrefix(uri, scheme), "/")
	key = strings.TrimLeft(key, "/")
	if !ok || bucket == "" || key == "" || strings.HasSuffix(key, "/") {
		return Location{}, InvalidURIError(uri)
	}
	return Location{Bucket: bucket, Key: key}, nil
}

// Client reads objects from S3.
type Client struct {
	s3 *s3.Client
}

// New creates a client from S3 settings. Static credentials are used
// when both keys are given, otherwise the default AWS credential chain
// applies.
func New(ctx context.Context, cfg config.S3Config) (*Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, ConfigError(err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})
	slog.Debug("S3 client initialized",
		"endpoint", cfg.Endpoint, "region", cfg.Region)
	return &Client{s3: client}, nil
}

// Open starts download of an object. The caller must close the
// returned reader.
func (c *Client) Open(ctx context.Context, loc Location) (io.ReadCloser, error) {
	out, err := c.s3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(loc.Bucket),
		Key:    aws.String(loc.Key),
	})
	if err != nil {
		return nil, GetObjectError(loc.String(), err)
	}
	slog.Info("Downloading object",
		"location", loc.String(), "size", aws.ToInt64(out.ContentLength))
	return out.Body, nil
}
