package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"pilateshub/models"

	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const rootFolder = "pilateshub"

// Buckets accepted for upload.
const (
	BucketCertifications = "certifications"
	BucketStudioImages   = "studio-images"
)

var ErrUnknownBucket = errors.New("unknown upload bucket")

// StorageService defines the interface for storage operations.
type StorageService interface {
	UploadFile(ctx context.Context, bucket, ownerID string, file io.Reader) (*models.StoredFile, error)
	DeleteFile(ctx context.Context, publicID string) error
}

// AssetUploader is the part of the Cloudinary upload API the service uses.
type AssetUploader interface {
	Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error)
	Destroy(ctx context.Context, params uploader.DestroyParams) (*uploader.DestroyResult, error)
}

type StorageServiceImpl struct {
	api    AssetUploader
	logger *zap.Logger
}

// NewStorageService creates a new StorageServiceImpl instance.
func NewStorageService(api AssetUploader, logger *zap.Logger) StorageService {
	return &StorageServiceImpl{api: api, logger: logger}
}

func ValidBucket(bucket string) bool {
	return bucket == BucketCertifications || bucket == BucketStudioImages
}

// UploadFile stores file under <root>/<bucket>/<ownerID> and returns its public URL.
func (s *StorageServiceImpl) UploadFile(ctx context.Context, bucket, ownerID string, file io.Reader) (*models.StoredFile, error) {
	if !ValidBucket(bucket) {
		return nil, ErrUnknownBucket
	}
	params := uploader.UploadParams{
		Folder:       path.Join(rootFolder, bucket, ownerID),
		PublicID:     uuid.New().String(),
		ResourceType: "auto",
	}
	result, err := s.api.Upload(ctx, file, params)
	if err != nil {
		return nil, fmt.Errorf("StorageServiceImpl: failed to upload file: %w", err)
	}
	if result.PublicID == "" {
		return nil, fmt.Errorf("StorageServiceImpl: no public ID returned")
	}
	url := result.SecureURL
	if url == "" {
		url = result.URL
	}
	s.logger.Info("file uploaded",
		zap.String("bucket", bucket),
		zap.String("ownerID", ownerID),
		zap.String("publicID", result.PublicID))
	return &models.StoredFile{Bucket: bucket, PublicID: result.PublicID, URL: url}, nil
}

// DeleteFile deletes a file from Cloudinary given its public ID.
func (s *StorageServiceImpl) DeleteFile(ctx context.Context, publicID string) error {
	if _, err := s.api.Destroy(ctx, uploader.DestroyParams{PublicID: publicID}); err != nil {
		return fmt.Errorf("StorageServiceImpl: failed to delete file: %w", err)
	}
	return nil
}
