package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"estatedesk-backend/internal/models"
)

// ImageRepository persists property images. The Mark* methods express each
// enhancement state transition as one conditional UPDATE guarded by the
// expected current status, so concurrent webhooks and sweeps cannot
// interleave on the same record.
type ImageRepository struct {
	db *gorm.DB
}

func NewImageRepository(db *gorm.DB) *ImageRepository {
	return &ImageRepository{db: db}
}

func (r *ImageRepository) Create(ctx context.Context, img *models.PropertyImage) error {
	if img.ID == uuid.Nil {
		img.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(img).Error
}

func (r *ImageRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.PropertyImage, error) {
	var img models.PropertyImage
	err := r.db.WithContext(ctx).First(&img, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &img, nil
}

func (r *ImageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.PropertyImage{}, "id = ?", id).Error
}

// MarkProcessing transitions pending|failed -> processing, stamping the job
// id and request time. The previous failure diagnostics are cleared so the
// completed-at invariant holds for the new attempt.
func (r *ImageRepository) MarkProcessing(ctx context.Context, id uuid.UUID, jobID string, requestedAt time.Time) (bool, error) {
	tx := r.db.WithContext(ctx).Model(&models.PropertyImage{}).
		Where("id = ? AND enhancement_status IN ?", id,
			[]models.EnhancementStatus{models.EnhancementPending, models.EnhancementFailed}).
		Updates(map[string]any{
			"enhancement_status":        models.EnhancementProcessing,
			"ai_job_id":                 jobID,
			"enhancement_requested_at":  requestedAt,
			"enhancement_completed_at":  nil,
			"enhancement_error_message": nil,
		})
	return tx.RowsAffected > 0, tx.Error
}

// MarkCompleted transitions processing -> completed.
func (r *ImageRepository) MarkCompleted(ctx context.Context, id uuid.UUID, enhancedURL string, completedAt time.Time) (bool, error) {
	tx := r.db.WithContext(ctx).Model(&models.PropertyImage{}).
		Where("id = ? AND enhancement_status = ?", id, models.EnhancementProcessing).
		Updates(map[string]any{
			"enhancement_status":       models.EnhancementCompleted,
			"enhanced_url":             enhancedURL,
			"enhancement_completed_at": completedAt,
		})
	return tx.RowsAffected > 0, tx.Error
}

// MarkFailed transitions processing -> failed.
func (r *ImageRepository) MarkFailed(ctx context.Context, id uuid.UUID, errorMessage string, completedAt time.Time) (bool, error) {
	tx := r.db.WithContext(ctx).Model(&models.PropertyImage{}).
		Where("id = ? AND enhancement_status = ?", id, models.EnhancementProcessing).
		Updates(map[string]any{
			"enhancement_status":        models.EnhancementFailed,
			"enhancement_error_message": errorMessage,
			"enhancement_completed_at":  completedAt,
		})
	return tx.RowsAffected > 0, tx.Error
}

// MarkTimeout transitions processing -> timeout. The guard makes the sweep
// a no-op for records a webhook completed between scan and apply.
func (r *ImageRepository) MarkTimeout(ctx context.Context, id uuid.UUID) (bool, error) {
	tx := r.db.WithContext(ctx).Model(&models.PropertyImage{}).
		Where("id = ? AND enhancement_status = ?", id, models.EnhancementProcessing).
		Update("enhancement_status", models.EnhancementTimeout)
	return tx.RowsAffected > 0, tx.Error
}

func (r *ImageRepository) ListStuck(ctx context.Context, cutoff time.Time) ([]models.PropertyImage, error) {
	var images []models.PropertyImage
	err := r.db.WithContext(ctx).
		Where("enhancement_status = ? AND enhancement_requested_at < ?",
			models.EnhancementProcessing, cutoff).
		Find(&images).Error
	return images, err
}
