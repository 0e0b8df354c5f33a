package services

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"estatedesk-backend/internal/enhancement"
	"estatedesk-backend/internal/models"
	"estatedesk-backend/internal/repository"
)

var allowedImageTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

// ImageService handles image uploads and removal. Enhancement itself lives
// in the enhancement package; new uploads simply start out pending.
type ImageService struct {
	images        *repository.ImageRepository
	properties    *repository.PropertyRepository
	objects       enhancement.ObjectStore
	logger        *slog.Logger
	maxFileSizeMB int
}

func NewImageService(images *repository.ImageRepository, properties *repository.PropertyRepository, objects enhancement.ObjectStore, logger *slog.Logger, maxFileSizeMB int) *ImageService {
	return &ImageService{
		images:        images,
		properties:    properties,
		objects:       objects,
		logger:        logger,
		maxFileSizeMB: maxFileSizeMB,
	}
}

// Upload validates the file, stores the blob and creates a pending image
// record attached to the property.
func (s *ImageService) Upload(ctx context.Context, propertyID uuid.UUID, filename string, data []byte, imageType models.ImageType, isPrimary bool, displayOrder int) (*models.PropertyImage, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	contentType, ok := allowedImageTypes[ext]
	if !ok {
		return nil, &ValidationError{
			Reason: fmt.Sprintf("unsupported file type %q, allowed: jpg, jpeg, png, webp", ext),
		}
	}

	maxBytes := s.maxFileSizeMB * 1024 * 1024
	if len(data) == 0 {
		return nil, &ValidationError{Reason: "file is empty"}
	}
	if len(data) > maxBytes {
		return nil, &ValidationError{
			Reason: fmt.Sprintf("file exceeds the %d MB limit", s.maxFileSizeMB),
		}
	}

	property, err := s.properties.GetByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if property == nil {
		return nil, ErrNotFound
	}

	url, err := s.objects.Upload(ctx, data, filename, contentType)
	if err != nil {
		return nil, fmt.Errorf("upload image: %w", err)
	}

	if imageType == "" {
		imageType = models.ImageTypeOther
	}

	img := &models.PropertyImage{
		ID:                uuid.New(),
		PropertyID:        propertyID,
		OriginalURL:       url,
		ImageType:         imageType,
		IsPrimary:         isPrimary,
		DisplayOrder:      displayOrder,
		EnhancementStatus: models.EnhancementPending,
	}

	if err := s.images.Create(ctx, img); err != nil {
		// Orphan cleanup; the record is the source of truth, not the blob.
		if _, delErr := s.objects.Delete(ctx, url); delErr != nil {
			s.logger.Warn("orphaned blob cleanup failed", "url", url, "error", delErr)
		}
		return nil, err
	}

	s.logger.Info("image uploaded",
		"image_id", img.ID, "property_id", propertyID, "size_bytes", len(data))
	return img, nil
}

// Delete removes the record and best-effort deletes its blobs. Blob removal
// failures are logged, not surfaced; the record deletion is what matters.
func (s *ImageService) Delete(ctx context.Context, imageID uuid.UUID) error {
	img, err := s.images.GetByID(ctx, imageID)
	if err != nil {
		return err
	}
	if img == nil {
		return ErrNotFound
	}

	if err := s.images.Delete(ctx, imageID); err != nil {
		return err
	}

	urls := []string{img.OriginalURL}
	if img.EnhancedURL != nil {
		urls = append(urls, *img.EnhancedURL)
	}
	for _, url := range urls {
		if _, err := s.objects.Delete(ctx, url); err != nil {
			s.logger.Warn("blob deletion failed", "image_id", imageID, "url", url, "error", err)
		}
	}

	s.logger.Info("image deleted", "image_id", imageID)
	return nil
}
