package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/BruksfildServices01/barbearia-console/internal/config"
	"github.com/BruksfildServices01/barbearia-console/internal/storage"
	"github.com/BruksfildServices01/barbearia-console/internal/timezone"
)

// Uploader is the part of the S3 client a snapshot needs.
type Uploader interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// NewS3Client builds a client for any S3-compatible endpoint (R2, MinIO, AWS).
func NewS3Client(cfg config.BackupConfig) *s3.Client {
	return s3.New(s3.Options{
		Region:      cfg.Region,
		Credentials: credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		BaseEndpoint: func() *string {
			if cfg.Endpoint == "" {
				return nil
			}
			return aws.String(cfg.Endpoint)
		}(),
		UsePathStyle: cfg.Endpoint != "",
	})
}

type Document struct {
	TakenAt time.Time                  `json:"takenAt"`
	Keys    map[string]json.RawMessage `json:"keys"`
}

// Snapshotter uploads every storage key as one JSON document.
type Snapshotter struct {
	store  *storage.Adapter
	client Uploader
	bucket string
	prefix string
	clock  timezone.Clock
}

func NewSnapshotter(store *storage.Adapter, client Uploader, bucket, prefix string, clock timezone.Clock) *Snapshotter {
	return &Snapshotter{
		store:  store,
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
		clock:  clock,
	}
}

// Snapshot returns the object key written.
func (s *Snapshotter) Snapshot(ctx context.Context) (string, error) {
	keys, err := s.store.Snapshot(ctx)
	if err != nil {
		return "", fmt.Errorf("backup: read store: %w", err)
	}

	now := s.clock()
	body, err := json.Marshal(Document{TakenAt: now, Keys: keys})
	if err != nil {
		return "", fmt.Errorf("backup: encode: %w", err)
	}

	objectKey := fmt.Sprintf("snapshot_%s.json", now.Format("20060102_150405"))
	if s.prefix != "" {
		objectKey = s.prefix + "/" + objectKey
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(objectKey),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("backup: upload %s: %w", objectKey, err)
	}

	log.Printf("[backup] uploaded %s (%d keys, %d bytes)", objectKey, len(keys), len(body))
	return objectKey, nil
}
