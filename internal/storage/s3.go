package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Store keeps payloads in one bucket under
// "reports/<tenant>/<report>/payload". References look like
// "s3://<bucket>/<key>".
type S3Store struct {
	client *s3.Client
	bucket string
}

// S3Options configures the S3 backend. Static keys are optional; when empty
// the default AWS credential chain applies.
type S3Options struct {
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
}

// NewS3Store builds the client from the ambient AWS config plus overrides.
func NewS3Store(ctx context.Context, opts S3Options) (*S3Store, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(opts.Region),
	}
	if opts.AccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &S3Store{client: s3.NewFromConfig(cfg), bucket: opts.Bucket}, nil
}

func (s *S3Store) Put(ctx context.Context, tenantID, reportID string, payload []byte) (string, error) {
	key := fmt.Sprintf("reports/%s/%s/payload", tenantID, reportID)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(payload),
	})
	if err != nil {
		return "", fmt.Errorf("put payload: %w", err)
	}
	return fmt.Sprintf("s3://%s/%s", s.bucket, key), nil
}

func (s *S3Store) Get(ctx context.Context, ref string) ([]byte, error) {
	rest, err := splitRef(ref, "s3")
	if err != nil {
		return nil, err
	}
	// rest is "<bucket>/<key>".
	slash := -1
	for i, c := range rest {
		if c == '/' {
			slash = i
			break
		}
	}
	if slash <= 0 || slash == len(rest)-1 {
		return nil, fmt.Errorf("%w: %q", ErrBadRef, ref)
	}
	bucket, key := rest[:slash], rest[slash+1:]

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("get payload: %w", err)
	}
	defer out.Body.Close()
	return io.ReadAll(out.Body)
}
