// Package s3 provides a ResultStore backed by an S3-compatible object store
// (AWS S3 or MinIO). Results are stored one object per payload under
// runs/<runID>/<name>, so a bucket can hold the outputs of many runs.
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/kdhansen/epidexus/core"
	"github.com/kdhansen/epidexus/results"
)

// Environment variables consulted by OpenFromEnv. The AWS SDK's own
// variables (AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY, ...) apply when no
// explicit credentials are configured.
const (
	EnvBucket    = "EPIDEXUS_S3_BUCKET"
	EnvRegion    = "EPIDEXUS_S3_REGION"
	EnvEndpoint  = "EPIDEXUS_S3_ENDPOINT"
	EnvPathStyle = "EPIDEXUS_S3_PATH_STYLE"
)

// Config holds explicit construction parameters. Endpoint and PathStyle
// exist for S3-compatible services such as MinIO.
type Config struct {
	Region          string
	Bucket          string
	Endpoint        string // optional; enables a custom endpoint
	AccessKeyID     string // optional; falls back to the default chain
	SecretAccessKey string
	SessionToken    string
	PathStyle       bool
}

// Store is a core.ResultStore persisting payloads to a single S3 bucket.
type Store struct {
	client *s3.Client
	bucket string
}

var _ core.ResultStore = (*Store)(nil)

// New creates an S3 result store from Config.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, cfg.SessionToken),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.PathStyle {
			o.UsePathStyle = true
		}
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return &Store{client: client, bucket: cfg.Bucket}, nil
}

// OpenFromEnv constructs an S3 result store from the process environment.
func OpenFromEnv(ctx context.Context) (*Store, error) {
	bucket := os.Getenv(EnvBucket)
	if bucket == "" {
		return nil, fmt.Errorf("%s required for s3 result store", EnvBucket)
	}
	return New(ctx, Config{
		Bucket:    bucket,
		Region:    os.Getenv(EnvRegion),
		Endpoint:  os.Getenv(EnvEndpoint),
		PathStyle: strings.EqualFold(os.Getenv(EnvPathStyle), "true"),
	})
}

// key maps a run and result name onto an object key.
func key(runID, name string) string {
	return fmt.Sprintf("runs/%s/%s", runID, name)
}

// Save implements the core.ResultStore interface, overwriting any existing
// object under the same key.
func (s *Store) Save(ctx context.Context, runID, name string, data []byte) error {
	k := key(runID, name)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: &s.bucket,
		Key:    &k,
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return fmt.Errorf("save result %s: %w", k, err)
	}
	return nil
}

// Get implements the core.ResultStore interface.
func (s *Store) Get(ctx context.Context, runID, name string) ([]byte, error) {
	k := key(runID, name)
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &s.bucket,
		Key:    &k,
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, fmt.Errorf("result %s: %w", k, results.ErrNotFound)
		}
		return nil, fmt.Errorf("get result %s: %w", k, err)
	}
	defer func() { _ = out.Body.Close() }()
	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read result %s: %w", k, err)
	}
	return data, nil
}

// List implements the core.ResultStore interface, returning the result
// names of the run sorted.
func (s *Store) List(ctx context.Context, runID string) ([]string, error) {
	prefix := key(runID, "")
	names := []string{}
	var token *string
	for {
		out, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            &s.bucket,
			Prefix:            &prefix,
			ContinuationToken: token,
		})
		if err != nil {
			return nil, fmt.Errorf("list results for run %q: %w", runID, err)
		}
		for _, obj := range out.Contents {
			names = append(names, strings.TrimPrefix(aws.ToString(obj.Key), prefix))
		}
		if out.IsTruncated != nil && *out.IsTruncated && out.NextContinuationToken != nil {
			token = out.NextContinuationToken
			continue
		}
		break
	}
	sort.Strings(names)
	return names, nil
}

// Delete implements the core.ResultStore interface. A missing object is
// reported as results.ErrNotFound, matching the in-memory store.
func (s *Store) Delete(ctx context.Context, runID, name string) error {
	k := key(runID, name)
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: &s.bucket,
		Key:    &k,
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return fmt.Errorf("result %s: %w", k, results.ErrNotFound)
		}
		return fmt.Errorf("head result %s: %w", k, err)
	}
	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: &s.bucket,
		Key:    &k,
	}); err != nil {
		return fmt.Errorf("delete result %s: %w", k, err)
	}
	return nil
}
