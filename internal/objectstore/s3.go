package objectstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// maxDeleteBatch is the DeleteObjects per-request limit.
const maxDeleteBatch = 1000

// S3Config configures an S3 (or S3-compatible) store.
type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string // MinIO, Supabase storage S3 gateway, LocalStack
	AccessKeyID     string
	SecretAccessKey string
	KeyPrefix       string
	MaxRetries      int
}

// S3Store implements Store on Amazon S3.
// Safe for concurrent use.
type S3Store struct {
	client    *s3.Client
	presign   *s3.PresignClient
	bucket    string
	keyPrefix string
}

// NewS3Store builds the AWS client from cfg and verifies bucket access.
// The bucket must already exist.
func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 object store: bucket is required")
	}
	if cfg.Region == "" {
		return nil, fmt.Errorf("s3 object store: region is required")
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	maxRetries := cfg.MaxRetries
	if maxRetries == 0 {
		maxRetries = 5
	}
	opts = append(opts, awsconfig.WithRetryer(func() aws.Retryer {
		return retry.NewStandard(func(o *retry.StandardOptions) {
			o.MaxAttempts = maxRetries
		})
	}))

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	if _, err := client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(cfg.Bucket)}); err != nil {
		return nil, fmt.Errorf("failed to access bucket %q: %w", cfg.Bucket, err)
	}

	return &S3Store{
		client:    client,
		presign:   s3.NewPresignClient(client),
		bucket:    cfg.Bucket,
		keyPrefix: strings.Trim(cfg.KeyPrefix, "/"),
	}, nil
}

func (s *S3Store) key(path string) string {
	if s.keyPrefix == "" {
		return path
	}
	return s.keyPrefix + "/" + path
}

func (s *S3Store) path(key string) string {
	if s.keyPrefix == "" {
		return key
	}
	return strings.TrimPrefix(key, s.keyPrefix+"/")
}

func (s *S3Store) Put(ctx context.Context, path string, data []byte, contentType string) error {
	input := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(s.key(path)),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("put %s: %w", path, err)
	}
	return nil
}

func (s *S3Store) Get(ctx context.Context, path string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(path)),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, fmt.Errorf("object %s: %w", path, ErrObjectNotFound)
		}
		return nil, fmt.Errorf("get %s: %w", path, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// Remove deletes paths with DeleteObjects, chunked to the per-request limit.
// A failed request marks every path in that chunk as failed and the next
// chunk is still attempted.
func (s *S3Store) Remove(ctx context.Context, paths []string) (map[string]error, error) {
	failures := make(map[string]error)

	for i := 0; i < len(paths); i += maxDeleteBatch {
		if err := ctx.Err(); err != nil {
			for _, p := range paths[i:] {
				failures[p] = err
			}
			return failures, err
		}

		end := i + maxDeleteBatch
		if end > len(paths) {
			end = len(paths)
		}
		batch := paths[i:end]

		objects := make([]types.ObjectIdentifier, len(batch))
		for j, p := range batch {
			objects[j] = types.ObjectIdentifier{Key: aws.String(s.key(p))}
		}

		result, err := s.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
			Bucket: aws.String(s.bucket),
			Delete: &types.Delete{
				Objects: objects,
				Quiet:   aws.Bool(true),
			},
		})
		if err != nil {
			for _, p := range batch {
				failures[p] = err
			}
			continue
		}

		for _, deleteErr := range result.Errors {
			if deleteErr.Key == nil {
				continue
			}
			msg := "unknown error"
			if deleteErr.Code != nil && deleteErr.Message != nil {
				msg = fmt.Sprintf("%s: %s", *deleteErr.Code, *deleteErr.Message)
			}
			failures[s.path(*deleteErr.Key)] = errors.New(msg)
		}
	}

	return failures, nil
}

func (s *S3Store) SignedURL(ctx context.Context, path string, ttl time.Duration) (string, error) {
	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(path)),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", path, err)
	}
	return req.URL, nil
}

func (s *S3Store) List(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	var out []ObjectInfo

	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.key(prefix)),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", err)
		}
		for _, obj := range page.Contents {
			if obj.Key == nil {
				continue
			}
			info := ObjectInfo{
				Path: s.path(*obj.Key),
				Size: aws.ToInt64(obj.Size),
			}
			if obj.LastModified != nil {
				info.LastModified = *obj.LastModified
			}
			out = append(out, info)
		}
	}

	return out, nil
}
