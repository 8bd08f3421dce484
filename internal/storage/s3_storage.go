package storage

import (
	"bytes"
	"context"
	"fmt"
	"image"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

// S3Sink uploads enhanced images to an S3 bucket
type S3Sink struct {
	bucket   string
	uploader *s3manager.Uploader
	encoding Encoding
}

// NewS3Sink sets up an AWS session for region. Credentials come from the
// standard AWS environment and shared config.
func NewS3Sink(bucket, region string, encoding Encoding) (ImageSink, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(region),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set up aws session: %w", err)
	}

	return &S3Sink{
		bucket:   bucket,
		uploader: s3manager.NewUploader(sess),
		encoding: encoding,
	}, nil
}

func (s *S3Sink) Store(ctx context.Context, name string, img image.Image) (string, error) {
	data, err := s.encoding.Bytes(img)
	if err != nil {
		return "", err
	}

	_, err = s.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(name),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(s.encoding.ContentType()),
	})
	if err != nil {
		return "", fmt.Errorf("upload to s3 failed: %w", err)
	}
	return fmt.Sprintf("s3://%s/%s", s.bucket, name), nil
}
