package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"order-desk/internal/model"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// S3API is the subset of the S3 client used by the catalog repository.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// NewS3Client creates an S3 client from the default AWS credential chain.
func NewS3Client(ctx context.Context, region string) (*s3.Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	return s3.NewFromConfig(cfg), nil
}

// s3ProductRepository implements ProductRepository as a single JSON object in S3.
type s3ProductRepository struct {
	client S3API
	bucket string
	key    string
	logger zerolog.Logger
}

// NewS3ProductRepository creates a catalog repository stored at bucket/key.
func NewS3ProductRepository(client S3API, bucket, key string, logger zerolog.Logger) ProductRepository {
	logger = logger.With().Str("repository", "product").Str("backend", "s3").Logger()

	logger.Info().
		Str("bucket", bucket).
		Str("key", key).
		Msg("S3 catalog repository initialised")

	return &s3ProductRepository{
		client: client,
		bucket: bucket,
		key:    key,
		logger: logger,
	}
}

// GetAll downloads and decodes the catalog object.
func (r *s3ProductRepository) GetAll(ctx context.Context) ([]model.Product, error) {
	result, err := r.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(r.key),
	})
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("bucket", r.bucket).
			Str("key", r.key).
			Msg("failed to get catalog object from S3")
		return nil, fmt.Errorf("failed to get object from S3 (bucket=%s, key=%s): %w", r.bucket, r.key, err)
	}
	defer result.Body.Close()

	var products []model.Product
	if err := json.NewDecoder(result.Body).Decode(&products); err != nil {
		r.logger.Error().
			Err(err).
			Str("key", r.key).
			Msg("failed to decode catalog object")
		return nil, fmt.Errorf("failed to decode S3 object %s: %w", r.key, err)
	}

	if products == nil {
		products = []model.Product{}
	}

	return products, nil
}

// ReplaceAll uploads products as the new catalog object.
func (r *s3ProductRepository) ReplaceAll(ctx context.Context, products []model.Product) error {
	if products == nil {
		products = []model.Product{}
	}

	body, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}

	_, err = r.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(r.bucket),
		Key:         aws.String(r.key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("bucket", r.bucket).
			Str("key", r.key).
			Msg("failed to put catalog object to S3")
		return fmt.Errorf("failed to put object to S3 (bucket=%s, key=%s): %w", r.bucket, r.key, err)
	}

	r.logger.Debug().
		Str("key", r.key).
		Int("count", len(products)).
		Msg("catalog uploaded")

	return nil
}
