package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	appcfg "github.com/debtprotection/blog-core/internal/config"
)

const (
	DriverLocal = "local"
	DriverS3    = "s3"

	// UploadsRoute is where the local driver's directory is served from.
	UploadsRoute = "/uploads"
)

// Driver stores media bytes and returns the public URL for them.
type Driver interface {
	Name() string
	Put(ctx context.Context, name string, payload []byte, contentType string) (string, error)
	Delete(ctx context.Context, name string) error
}

// LocalDriver writes files into a directory served under UploadsRoute.
type LocalDriver struct {
	dir     string
	baseURL string
}

func NewLocalDriver(dir, baseURL string) *LocalDriver {
	return &LocalDriver{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}
}

func (d *LocalDriver) Name() string { return DriverLocal }

// Dir is the directory uploads are written to.
func (d *LocalDriver) Dir() string { return d.dir }

func (d *LocalDriver) Put(_ context.Context, name string, payload []byte, _ string) (string, error) {
	name = safeName(name)
	if name == "" {
		return "", fmt.Errorf("invalid file name")
	}
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(d.dir, name), payload, 0o644); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}
	return d.baseURL + UploadsRoute + "/" + name, nil
}

func (d *LocalDriver) Delete(_ context.Context, name string) error {
	name = safeName(name)
	if name == "" {
		return nil
	}
	err := os.Remove(filepath.Join(d.dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// S3Driver stores objects in an S3-compatible bucket.
type S3Driver struct {
	client    *s3.Client
	bucket    string
	prefix    string
	publicURL string
}

// NewS3Driver builds a client from static credentials. Without keys the
// client signs nothing, which suits public MinIO buckets in development.
func NewS3Driver(cfg appcfg.S3Config) (*S3Driver, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}
	awsCfg := aws.Config{Region: cfg.Region}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		awsCfg.Credentials = credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")
	} else {
		awsCfg.Credentials = aws.AnonymousCredentials{}
	}

	var opts []func(*s3.Options)
	if cfg.Endpoint != "" {
		endpoint := cfg.Endpoint
		if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
			endpoint = "https://" + endpoint
		}
		opts = append(opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(endpoint)
			// Most S3-compatible stores reject the SDK's default trailing checksums.
			o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
		})
	}
	if cfg.ForcePathStyle || cfg.Endpoint != "" {
		opts = append(opts, func(o *s3.Options) {
			o.UsePathStyle = true
		})
	}

	publicURL := cfg.PublicURL
	if publicURL == "" {
		if cfg.Endpoint != "" {
			endpoint := cfg.Endpoint
			if !strings.Contains(endpoint, "://") {
				endpoint = "https://" + endpoint
			}
			publicURL = endpoint + "/" + cfg.Bucket
		} else {
			publicURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
		}
	}

	return &S3Driver{
		client:    s3.NewFromConfig(awsCfg, opts...),
		bucket:    cfg.Bucket,
		prefix:    cfg.Prefix,
		publicURL: strings.TrimRight(publicURL, "/"),
	}, nil
}

func (d *S3Driver) Name() string { return DriverS3 }

func (d *S3Driver) key(name string) string {
	if d.prefix == "" {
		return name
	}
	return d.prefix + "/" + name
}

func (d *S3Driver) Put(ctx context.Context, name string, payload []byte, contentType string) (string, error) {
	key := d.key(name)
	_, err := d.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(d.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(payload),
		ContentLength: aws.Int64(int64(len(payload))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("s3 put %s: %w", key, err)
	}
	return d.publicURL + "/" + key, nil
}

func (d *S3Driver) Delete(ctx context.Context, name string) error {
	key := d.key(name)
	_, err := d.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("s3 delete %s: %w", key, err)
	}
	return nil
}

// NewDriver picks the driver named by cfg.Storage.Driver.
func NewDriver(cfg *appcfg.AppConfig) (Driver, error) {
	switch cfg.Storage.Driver {
	case DriverS3:
		return NewS3Driver(cfg.Storage.S3)
	default:
		return NewLocalDriver(cfg.UploadDir(), cfg.PublicBaseURL), nil
	}
}
