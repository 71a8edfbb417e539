// Package sync copies the file-backed state (history and preferences) to and
// from an S3 bucket. It is a manual backup, not live replication.
package sync

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rs/zerolog"

	"github.com/Paintersrp/sleuth/internal/config"
)

const DefaultKey = "sleuth/state.yaml"

var (
	ErrNotConfigured = errors.New("sync: no bucket configured")
	ErrNoRemoteState = errors.New("sync: no remote state")
	ErrNoLocalState  = errors.New("sync: no local state")
)

type uploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

type downloader interface {
	Download(ctx context.Context, w io.WriterAt, input *s3.GetObjectInput, opts ...func(*manager.Downloader)) (int64, error)
}

// Client pushes and pulls a single state object.
type Client struct {
	bucket string
	key    string
	up     uploader
	down   downloader
	logger zerolog.Logger
}

// New resolves AWS configuration from the environment, overridden by any
// region, endpoint or static keys set in cfg.
func New(ctx context.Context, cfg config.SyncConfig, logger zerolog.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, ErrNotConfigured
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOptions(cfg)...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, clientOptions(cfg)...)
	return &Client{
		bucket: cfg.Bucket,
		key:    ResolveKey(cfg.Key),
		up:     manager.NewUploader(client),
		down:   manager.NewDownloader(client),
		logger: logger,
	}, nil
}

// ResolveKey trims leading slashes and falls back to DefaultKey.
func ResolveKey(key string) string {
	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	if key == "" {
		return DefaultKey
	}
	return key
}

func loadOptions(cfg config.SyncConfig) []func(*awsconfig.LoadOptions) error {
	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	return opts
}

// S3-compatible endpoints (minio, localstack) need path-style addressing.
func clientOptions(cfg config.SyncConfig) []func(*s3.Options) {
	if cfg.Endpoint == "" {
		return nil
	}
	endpoint := cfg.Endpoint
	return []func(*s3.Options){
		func(o *s3.Options) {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		},
	}
}

func (c *Client) Bucket() string { return c.bucket }
func (c *Client) Key() string    { return c.key }

// Push uploads the local state file.
func (c *Client) Push(ctx context.Context, localPath string) error {
	f, err := os.Open(localPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNoLocalState, localPath)
		}
		return fmt.Errorf("open %s: %w", localPath, err)
	}
	defer f.Close()

	out, err := c.up.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(c.key),
		Body:        f,
		ContentType: aws.String("application/yaml"),
	})
	if err != nil {
		return fmt.Errorf("upload s3://%s/%s: %w", c.bucket, c.key, err)
	}

	c.logger.Info().
		Str("bucket", c.bucket).
		Str("key", c.key).
		Str("location", out.Location).
		Msg("state pushed")
	return nil
}

// Pull downloads the remote state and replaces localPath. The local file is
// left untouched when the download fails.
func (c *Client) Pull(ctx context.Context, localPath string) (int64, error) {
	dir := filepath.Dir(localPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".state-pull-*.yaml")
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() {
		tmp.Close()
		os.Remove(tmpName)
	}

	n, err := c.down.Download(ctx, tmp, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(c.key),
	})
	if err != nil {
		cleanup()
		var missing *types.NoSuchKey
		if errors.As(err, &missing) {
			return 0, fmt.Errorf("%w: s3://%s/%s", ErrNoRemoteState, c.bucket, c.key)
		}
		return 0, fmt.Errorf("download s3://%s/%s: %w", c.bucket, c.key, err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return 0, fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, localPath); err != nil {
		os.Remove(tmpName)
		return 0, fmt.Errorf("replace %s: %w", localPath, err)
	}

	c.logger.Info().
		Str("bucket", c.bucket).
		Str("key", c.key).
		Int64("bytes", n).
		Msg("state pulled")
	return n, nil
}
