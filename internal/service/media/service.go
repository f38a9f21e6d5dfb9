package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/minio/minio-go/v7"

	"online-voting/internal/config"
	"online-voting/internal/domain"
)

var ErrArchiveDisabled = errors.New("object storage is not configured")

// Service archives voter ID document images in object storage.
type Service interface {
	Enabled() bool
	PutIDDocument(ctx context.Context, loc domain.LocationPath, voterNumber string, data []byte, contentType string) (string, error)
	Remove(ctx context.Context, path string) error
}

// ObjectStore is the part of *minio.Client the service uses.
type ObjectStore interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
}

type service struct {
	objects ObjectStore
	cfg     *config.Config
	logger  *slog.Logger
}

func NewService(minioClient *minio.Client, cfg *config.Config, logger *slog.Logger) Service {
	if minioClient == nil {
		logger.Warn("MinIO client unavailable, ID document archiving disabled")
		return NewServiceWithStore(nil, cfg, logger)
	}
	return NewServiceWithStore(minioClient, cfg, logger)
}

func NewServiceWithStore(objects ObjectStore, cfg *config.Config, logger *slog.Logger) Service {
	return &service{objects: objects, cfg: cfg, logger: logger}
}

func (s *service) Enabled() bool {
	return s.objects != nil
}

func IDDocumentPath(loc domain.LocationPath, voterNumber string) string {
	return fmt.Sprintf("id-documents/%s/%s/%s/%s/%s", loc.State, loc.District, loc.SubDistrict, loc.Village, voterNumber)
}

func (s *service) PutIDDocument(ctx context.Context, loc domain.LocationPath, voterNumber string, data []byte, contentType string) (string, error) {
	if !s.Enabled() {
		return "", ErrArchiveDisabled
	}
	storagePath := IDDocumentPath(loc, voterNumber)

	_, err := s.objects.PutObject(ctx, s.cfg.MinIOBucket, storagePath, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to MinIO: %w", err)
	}
	return storagePath, nil
}

func (s *service) Remove(ctx context.Context, path string) error {
	if !s.Enabled() || path == "" {
		return nil
	}
	return s.objects.RemoveObject(ctx, s.cfg.MinIOBucket, path, minio.RemoveObjectOptions{})
}
