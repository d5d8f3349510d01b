package aws

import (
	"context"
	"errors"
	"fmt"
	"gsc/src/config"
	"gsc/src/lib"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

const presignTTL = 15 * time.Minute

// DocumentStore hands out presigned URLs for uploaded documents. The API
// never streams file bytes itself.
type DocumentStore interface {
	UploadURL(ctx context.Context, key string, contentType string) (string, error)
	DownloadURL(ctx context.Context, key string) (string, error)
	Exists(ctx context.Context, key string) (bool, error)
}

type S3DocumentStore struct {
	Bucket string
	api    *s3.Client
	client *s3.PresignClient
}

// NewS3DocumentStore returns nil when no bucket is configured.
func NewS3DocumentStore() *S3DocumentStore {
	if config.S3_DOCUMENTS_BUCKET == "" {
		return nil
	}
	client := lib.AWSGetS3Client()
	if client == nil {
		return nil
	}
	return &S3DocumentStore{
		Bucket: config.S3_DOCUMENTS_BUCKET,
		api:    client,
		client: s3.NewPresignClient(client),
	}
}

func (s *S3DocumentStore) UploadURL(ctx context.Context, key string, contentType string) (string, error) {
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(key),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	r, err := s.client.PresignPutObject(ctx, input, func(po *s3.PresignOptions) {
		po.Expires = presignTTL
	})
	if err != nil {
		log.Printf("Could not generate upload URL for object [%s]: %s\n", key, err.Error())
		return "", err
	}
	return r.URL, nil
}

func (s *S3DocumentStore) DownloadURL(ctx context.Context, key string) (string, error) {
	r, err := s.client.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(key),
	}, func(po *s3.PresignOptions) {
		po.Expires = presignTTL
	})
	if err != nil {
		log.Printf("Could not generate presigned URL for object [%s]: %s\n", key, err.Error())
		return "", err
	}
	return r.URL, nil
}

// Exists reports whether a client finished uploading the object.
func (s *S3DocumentStore) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.api.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(key),
	})
	var notFound *s3types.NotFound
	if errors.As(err, &notFound) {
		return false, nil
	}
	if err != nil {
		log.Printf("Could not check object [%s]: %s\n", key, err.Error())
		return false, err
	}
	return true, nil
}

func DocumentKey(scope string, ownerID uint, fileName string) string {
	return fmt.Sprintf("%s/%d/%d-%s", scope, ownerID, time.Now().UnixNano(), fileName)
}
