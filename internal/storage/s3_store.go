package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"mediapost/internal/domain/blob"
	mediapost_errors "mediapost/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/google/uuid"
)

const (
	metaFilename   = "filename"
	metaUploadDate = "upload-date"
)

type S3Config struct {
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	Endpoint  string
	Prefix    string
}

// S3BlobStore keeps each blob as one object; the blob id is the object key suffix.
type S3BlobStore struct {
	cfg S3Config
	s3  *s3.Client
}

func NewS3BlobStore(ctx context.Context, cfg S3Config) (*S3BlobStore, error) {
	if cfg.Region == "" || cfg.Bucket == "" {
		return nil, errors.New("s3 region and bucket are required")
	}

	var opts []func(*config.LoadOptions) error
	opts = append(opts, config.WithRegion(cfg.Region))

	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}

	endpoint := cfg.Endpoint
	if endpoint != "" {
		if parsed, err := url.Parse(endpoint); err == nil {
			endpoint = parsed.String()
		}
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3BlobStore{cfg: cfg, s3: client}, nil
}

func (s *S3BlobStore) key(id string) string {
	return s.cfg.Prefix + id
}

func (s *S3BlobStore) Save(ctx context.Context, upload blob.Upload) (string, error) {
	id := uuid.NewString()
	contentType := upload.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := s.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.cfg.Bucket),
		Key:           aws.String(s.key(id)),
		Body:          bytes.NewReader(upload.Data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(upload.Data))),
		Metadata: map[string]string{
			metaFilename:   url.QueryEscape(upload.Filename),
			metaUploadDate: time.Now().UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}
	return id, nil
}

func (s *S3BlobStore) Get(ctx context.Context, id string) (blob.Blob, error) {
	out, err := s.s3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(s.key(id)),
	})
	if err != nil {
		if isS3NotFound(err) {
			return blob.Blob{}, fmt.Errorf("file %q: %w", id, mediapost_errors.ErrNotFound)
		}
		return blob.Blob{}, fmt.Errorf("get object: %w", err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return blob.Blob{}, fmt.Errorf("read object: %w", err)
	}

	b := blob.Blob{
		ID:          id,
		ContentType: aws.ToString(out.ContentType),
		Data:        data,
	}
	if name, ok := out.Metadata[metaFilename]; ok {
		if decoded, err := url.QueryUnescape(name); err == nil {
			b.Filename = decoded
		} else {
			b.Filename = name
		}
	}
	if ts, ok := out.Metadata[metaUploadDate]; ok {
		b.UploadDate, _ = time.Parse(time.RFC3339, ts)
	} else if out.LastModified != nil {
		b.UploadDate = *out.LastModified
	}
	return b, nil
}

// Delete checks existence first; S3 reports success for absent keys.
func (s *S3BlobStore) Delete(ctx context.Context, id string) error {
	_, err := s.s3.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(s.key(id)),
	})
	if err != nil {
		if isS3NotFound(err) {
			return fmt.Errorf("file %q: %w", id, mediapost_errors.ErrNotFound)
		}
		return fmt.Errorf("head object: %w", err)
	}

	_, err = s.s3.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(s.key(id)),
	})
	if err != nil {
		return fmt.Errorf("delete object: %w", err)
	}
	return nil
}

func (s *S3BlobStore) Ping(ctx context.Context) error {
	_, err := s.s3.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.cfg.Bucket)})
	return err
}

func isS3NotFound(err error) bool {
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return true
	}
	var notFound *types.NotFound
	if errors.As(err, &notFound) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.ErrorCode()
		return code == "NoSuchKey" || code == "NotFound" || strings.EqualFold(code, "404")
	}
	return false
}
