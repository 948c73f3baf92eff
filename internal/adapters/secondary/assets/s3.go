package assets

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/jupiterclapton/cenackle/services/social-service/internal/core/domain"
)

type S3Config struct {
	Region       string
	AccessKey    string
	SecretKey    string
	Bucket       string
	BaseEndpoint string // MinIO / S3 compatible endpoint, empty for AWS
	PublicURL    string // base of the URLs handed to clients
	Prefix       string
}

// S3Host stores images as "<prefix>/<assetID>" objects. The public URL carries
// the extension, the object key does not, so Destroy only needs the id.
type S3Host struct {
	client *s3.Client
	cfg    S3Config
}

func NewS3Host(ctx context.Context, cfg S3Config) (*S3Host, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Host{client: client, cfg: cfg}, nil
}

func (h *S3Host) Upload(ctx context.Context, raw string) (string, error) {
	img, err := parseDataURL(raw)
	if err != nil {
		return "", err
	}

	assetID := uuid.NewString()
	_, err = h.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(h.cfg.Bucket),
		Key:         aws.String(h.key(assetID)),
		Body:        bytes.NewReader(img.Data),
		ContentType: aws.String(img.ContentType),
	})
	if err != nil {
		return "", fmt.Errorf("%w: s3 put: %w", domain.ErrExternalService, err)
	}

	url := publicURL(h.cfg.PublicURL, h.cfg.Prefix, assetID+img.extension())
	slog.Debug("Asset uploaded", "asset_id", assetID, "bytes", len(img.Data))
	return url, nil
}

func (h *S3Host) Destroy(ctx context.Context, assetID string) error {
	if assetID == "" {
		return nil
	}
	_, err := h.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(h.cfg.Bucket),
		Key:    aws.String(h.key(assetID)),
	})
	if err != nil {
		return fmt.Errorf("%w: s3 delete: %w", domain.ErrExternalService, err)
	}
	return nil
}

func (h *S3Host) key(assetID string) string {
	if h.cfg.Prefix == "" {
		return assetID
	}
	return strings.Trim(h.cfg.Prefix, "/") + "/" + assetID
}

func publicURL(base, prefix, name string) string {
	parts := []string{strings.TrimRight(base, "/")}
	if p := strings.Trim(prefix, "/"); p != "" {
		parts = append(parts, p)
	}
	return strings.Join(append(parts, name), "/")
}
