package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
)

// S3Store keeps media in a bucket and hands out presigned GET URLs.
type S3Store struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
	fetcher *Fetcher
}

// NewS3Store initializes the S3 client from the default credential chain
func NewS3Store(ctx context.Context, region, bucket string, fetcher *Fetcher) (*S3Store, error) {
	if bucket == "" {
		return nil, errors.New("AWS_BUCKET_NAME is not set")
	}
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config, %v", err)
	}
	if fetcher == nil {
		fetcher = NewFetcher(nil)
	}
	client := s3.NewFromConfig(cfg)
	return &S3Store{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  bucket,
		fetcher: fetcher,
	}, nil
}

// Save uploads the payload and returns the object key
func (s *S3Store) Save(ctx context.Context, img Image) (string, error) {
	if len(img.Data) == 0 {
		return "", ErrEmptyImage
	}
	objectKey := fmt.Sprintf("generated_images/%s%s", uuid.New().String(), img.Extension())

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(objectKey),
		Body:        bytes.NewReader(img.Data),
		ContentType: aws.String(img.MIMEType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file to S3: %v", err)
	}
	return objectKey, nil
}

func (s *S3Store) Load(ctx context.Context, ref string) (Image, error) {
	if IsRemote(ref) {
		return s.fetcher.Fetch(ctx, ref)
	}
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(ref),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return Image{}, fmt.Errorf("%w: %s", ErrNotFound, ref)
		}
		return Image{}, fmt.Errorf("failed to download %s from S3: %w", ref, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return Image{}, err
	}
	return NewImage(data, aws.ToString(out.ContentType)), nil
}

// URL generates a presigned URL for an object key. Remote refs pass through.
func (s *S3Store) URL(ctx context.Context, ref string) (string, error) {
	if ref == "" || IsRemote(ref) {
		return ref, nil
	}
	request, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(ref),
	}, s3.WithPresignExpires(1*time.Hour))
	if err != nil {
		return "", fmt.Errorf("failed to sign request: %v", err)
	}
	return request.URL, nil
}
