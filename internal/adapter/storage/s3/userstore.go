// Package s3 keeps the user document as a single S3 object.
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/strogmv/userstore/internal/adapter/repository/file"
	"github.com/strogmv/userstore/internal/domain"
	"github.com/strogmv/userstore/internal/port"
)

const DefaultKey = "database.json"

type UserStore struct {
	client *s3.Client
	bucket string
	key    string
}

// New builds a store for bucket/key. A non-empty endpoint switches to
// path-style addressing for S3-compatible servers such as MinIO.
func New(ctx context.Context, region, bucket, key, endpoint string, optFns ...func(*config.LoadOptions) error) (*UserStore, error) {
	opts := append([]func(*config.LoadOptions) error{config.WithRegion(region)}, optFns...)
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	if key == "" {
		key = DefaultKey
	}

	return &UserStore{
		client: s3.NewFromConfig(cfg, func(o *s3.Options) {
			if endpoint != "" {
				o.BaseEndpoint = aws.String(endpoint)
				o.UsePathStyle = true
			}
			o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
			o.ResponseChecksumValidation = aws.ResponseChecksumValidationWhenRequired
		}),
		bucket: bucket,
		key:    key,
	}, nil
}

var _ port.UserStore = (*UserStore)(nil)

// Load treats a missing object as an empty store.
func (s *UserStore) Load(ctx context.Context) (domain.Users, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if isNotFound(err) {
		return domain.Users{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("s3 get object: %w", err)
	}
	defer out.Body.Close()

	b, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("s3 read body: %w", err)
	}
	return file.Decode(b)
}

func (s *UserStore) Save(ctx context.Context, users domain.Users) error {
	b, err := file.Encode(users)
	if err != nil {
		return fmt.Errorf("encode users: %w", err)
	}
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(s.key),
		Body:          bytes.NewReader(b),
		ContentLength: aws.Int64(int64(len(b))),
		ContentType:   aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("s3 put object: %w", err)
	}
	return nil
}

func isNotFound(err error) bool {
	if err == nil {
		return false
	}
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}
	return false
}
