package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"connectly/internal/config"
	"connectly/internal/model"
)

// ObjectPutter is the subset of the S3 API used for uploads.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// MediaService handles image uploads to Cloudflare R2.
type MediaService struct {
	s3Client  ObjectPutter
	bucket    string
	publicURL string
	logger    *slog.Logger
}

// NewMediaService constructs an S3-compatible client for Cloudflare R2.
func NewMediaService(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*MediaService, error) {
	if !cfg.MediaEnabled() {
		return nil, fmt.Errorf("missing Cloudflare R2 configuration")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(
		ctx,
		awsconfig.WithRegion("auto"),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.R2AccessKeyID, cfg.R2SecretAccessKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config for R2: %w", err)
	}

	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.R2AccountID)
	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})

	return NewMediaServiceWithClient(s3Client, cfg.R2BucketName, cfg.R2PublicURL, logger), nil
}

// NewMediaServiceWithClient builds a MediaService on an existing client.
func NewMediaServiceWithClient(client ObjectPutter, bucket, publicURL string, logger *slog.Logger) *MediaService {
	return &MediaService{
		s3Client:  client,
		bucket:    bucket,
		publicURL: strings.TrimSuffix(publicURL, "/"),
		logger:    logger,
	}
}

// UploadImage validates an image upload, measures it and stores it as-is.
// The result carries the file_size and dimensions an image post needs.
func (s *MediaService) UploadImage(ctx context.Context, file io.Reader, size int64, contentType string) (*model.ImageUpload, error) {
	data, contentType, err := readAndValidateImage(file, size, contentType, model.MaxImageSizeBytes)
	if err != nil {
		return nil, err
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, model.ErrInvalidImageType
	}

	ext, _ := model.ImageExtension(contentType)
	format, err := imaging.FormatFromExtension(ext)
	if err != nil {
		return nil, model.ErrInvalidImageType
	}

	key := fmt.Sprintf("%s/%s%s", model.ImageFolder, uuid.NewString(), ext)
	if err := s.putObject(ctx, key, data, contentType, model.ImageCacheControl); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "image uploaded", "key", key, "size", len(data))
	return &model.ImageUpload{
		URL:        fmt.Sprintf("%s/%s", s.publicURL, key),
		Key:        key,
		FileSize:   int64(len(data)),
		Dimensions: dimensions(img),
		Format:     strings.ToLower(format.String()),
	}, nil
}

func dimensions(img image.Image) string {
	b := img.Bounds()
	return fmt.Sprintf("%dx%d", b.Dx(), b.Dy())
}

// readAndValidateImage loads the upload into memory with size and type checks.
func readAndValidateImage(file io.Reader, size int64, contentType string, maxSize int64) ([]byte, string, error) {
	if size > maxSize {
		return nil, "", model.ErrFileTooLarge
	}

	data, err := io.ReadAll(io.LimitReader(file, maxSize+1))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > maxSize {
		return nil, "", model.ErrFileTooLarge
	}

	if contentType == "" && len(data) > 0 {
		contentType = http.DetectContentType(data[:min(len(data), 512)])
	}
	if idx := strings.Index(contentType, ";"); idx != -1 {
		contentType = strings.TrimSpace(contentType[:idx])
	}
	if _, ok := model.ImageExtension(contentType); !ok {
		return nil, "", model.ErrInvalidImageType
	}

	return data, contentType, nil
}

// putObject uploads bytes to R2 with metadata.
func (s *MediaService) putObject(ctx context.Context, key string, body []byte, contentType, cacheControl string) error {
	_, err := s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(body),
		ContentType:  aws.String(contentType),
		CacheControl: aws.String(cacheControl),
	})
	if err != nil {
		return fmt.Errorf("failed to upload to r2: %w", err)
	}
	return nil
}
