package models

import (
	"time"

	"github.com/google/uuid"
)

type ImageType string

const (
	ImageTypeFrontExterior ImageType = "front_exterior"
	ImageTypeInterior      ImageType = "interior"
	ImageTypeFloorPlan     ImageType = "floor_plan"
	ImageTypeOther         ImageType = "other"
)

// EnhancementStatus is the lifecycle state of an image's AI enhancement.
//
// pending -> processing -> completed
//                       -> failed -> processing (re-enhancement)
//                       -> timeout
type EnhancementStatus string

const (
	EnhancementPending    EnhancementStatus = "pending"
	EnhancementProcessing EnhancementStatus = "processing"
	EnhancementCompleted  EnhancementStatus = "completed"
	EnhancementFailed     EnhancementStatus = "failed"
	EnhancementTimeout    EnhancementStatus = "timeout"
)

// Terminal reports whether no further webhook may mutate the record.
// timeout is treated as terminal here: a late webhook for a timed-out
// record is acknowledged but not applied.
func (s EnhancementStatus) Terminal() bool {
	return s == EnhancementCompleted || s == EnhancementFailed || s == EnhancementTimeout
}

type PropertyImage struct {
	ID                      uuid.UUID         `json:"id" gorm:"type:uuid;primaryKey"`
	PropertyID              uuid.UUID         `json:"property_id" gorm:"type:uuid;not null;index"`
	OriginalURL             string            `json:"original_url" gorm:"type:text;not null"`
	EnhancedURL             *string           `json:"enhanced_url,omitempty" gorm:"type:text"`
	ThumbnailURL            *string           `json:"thumbnail_url,omitempty" gorm:"type:text"`
	ImageType               ImageType         `json:"image_type" gorm:"type:varchar(20);not null;default:'other'"`
	IsPrimary               bool              `json:"is_primary" gorm:"not null;default:false"`
	DisplayOrder            int               `json:"display_order" gorm:"not null;default:0"`
	EnhancementStatus       EnhancementStatus `json:"enhancement_status" gorm:"type:varchar(20);not null;default:'pending';index"`
	AIJobID                 *string           `json:"ai_job_id,omitempty" gorm:"type:varchar(255);index"`
	EnhancementRequestedAt  *time.Time        `json:"enhancement_requested_at,omitempty"`
	EnhancementCompletedAt  *time.Time        `json:"enhancement_completed_at,omitempty"`
	EnhancementErrorMessage *string           `json:"enhancement_error_message,omitempty" gorm:"type:text"`
	CreatedAt               time.Time         `json:"created_at" gorm:"autoCreateTime"`
}

func (PropertyImage) TableName() string {
	return "property_images"
}
