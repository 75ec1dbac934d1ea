package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"trd/internal/ingestion/interfaces"
	"trd/internal/models"
	"trd/internal/providers"
	"trd/internal/structures"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

// S3Store writes the same layout as LocalStore to an S3 bucket:
// <prefix>/<date>/<time>.json.zst plus <prefix>/latest.json.zst.
type S3Store struct {
	client     s3iface.S3API
	bucket     string
	prefix     string
	compressor interfaces.CompressorInterface
	logger     providers.Logger
}

func NewS3Store(cfg structures.S3StorageConfig, compressor interfaces.CompressorInterface, logger providers.Logger) (*S3Store, error) {
	awsConfig := &aws.Config{
		Region: aws.String(cfg.Region),
	}

	// MinIO and other S3-compatible endpoints
	if cfg.Endpoint != "" {
		awsConfig.Endpoint = aws.String(cfg.Endpoint)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return newS3Store(s3.New(sess), cfg.Bucket, cfg.Prefix, compressor, logger), nil
}

func newS3Store(client s3iface.S3API, bucket, prefix string, compressor interfaces.CompressorInterface, logger providers.Logger) *S3Store {
	return &S3Store{
		client:     client,
		bucket:     bucket,
		prefix:     prefix,
		compressor: compressor,
		logger:     logger,
	}
}

func (s *S3Store) key(name string) string {
	return path.Join(s.prefix, name)
}

func (s *S3Store) Save(ctx context.Context, snapshot *models.Snapshot) error {
	data, err := encodeSnapshot(s.compressor, snapshot)
	if err != nil {
		return err
	}

	for _, name := range []string{snapshotName(snapshot), latestName} {
		_, err := s.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
			Bucket:          aws.String(s.bucket),
			Key:             aws.String(s.key(name)),
			Body:            bytes.NewReader(data),
			ContentType:     aws.String("application/json"),
			ContentEncoding: aws.String("zstd"),
		})
		if err != nil {
			return fmt.Errorf("failed to put %s: %w", s.key(name), err)
		}
	}

	s.logger.Debugf(providers.TypeFetch, "Snapshot uploaded to s3://%s/%s", s.bucket, s.key(snapshotName(snapshot)))
	return nil
}

func (s *S3Store) Latest(ctx context.Context) (*models.Snapshot, error) {
	out, err := s.client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(latestName)),
	})
	if err != nil {
		var aerr awserr.Error
		if errors.As(err, &aerr) && aerr.Code() == s3.ErrCodeNoSuchKey {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get %s: %w", s.key(latestName), err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.key(latestName), err)
	}
	return decodeSnapshot(s.compressor, data)
}
