package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Sink stores an upload under filename and returns its public URL.
type Sink interface {
	Put(ctx context.Context, filename string, img Image) (string, error)
}

// DiskSink writes uploads into a local directory served under URLPrefix.
type DiskSink struct {
	Dir       string
	URLPrefix string
}

// NewDiskSink returns a sink for dir served at "/uploads".
func NewDiskSink(dir string) *DiskSink {
	return &DiskSink{Dir: dir, URLPrefix: "/uploads"}
}

func (s *DiskSink) Put(_ context.Context, filename string, img Image) (string, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create uploads dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.Dir, filename), img.Data, 0o644); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}
	return strings.TrimSuffix(s.URLPrefix, "/") + "/" + filename, nil
}

// S3Config configures an S3Sink.
type S3Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	// PublicURL is the base the returned URLs are built on. When empty the
	// endpoint URL with the bucket appended is used.
	PublicURL string
}

// S3Sink puts uploads into an S3-compatible bucket.
type S3Sink struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

// NewS3Sink connects to the endpoint and creates the bucket if it does not
// exist.
func NewS3Sink(ctx context.Context, cfg S3Config) (*S3Sink, error) {
	if cfg.Endpoint == "" || cfg.Bucket == "" {
		return nil, errors.New("media: s3 sink needs an endpoint and a bucket")
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("s3 client: %w", err)
	}
	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}
	public := cfg.PublicURL
	if public == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		public = (&url.URL{Scheme: scheme, Host: cfg.Endpoint, Path: "/" + cfg.Bucket}).String()
	}
	return &S3Sink{client: client, bucket: cfg.Bucket, publicURL: public}, nil
}

func (s *S3Sink) Put(ctx context.Context, filename string, img Image) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, filename, bytes.NewReader(img.Data), int64(len(img.Data)),
		minio.PutObjectOptions{ContentType: img.MIME})
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}
	return objectURL(s.publicURL, filename), nil
}

func objectURL(base, filename string) string {
	u, err := url.Parse(base)
	if err != nil {
		return strings.TrimSuffix(base, "/") + "/" + filename
	}
	u.Path = path.Join("/", u.Path, filename)
	return u.String()
}
