package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"estatedesk-backend/internal/models"
)

type InquiryRepository struct {
	db *gorm.DB
}

func NewInquiryRepository(db *gorm.DB) *InquiryRepository {
	return &InquiryRepository{db: db}
}

func (r *InquiryRepository) Create(ctx context.Context, inq *models.Inquiry) error {
	if inq.ID == uuid.Nil {
		inq.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(inq).Error
}

func (r *InquiryRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Inquiry, error) {
	var inq models.Inquiry
	err := r.db.WithContext(ctx).First(&inq, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &inq, nil
}

type InquiryFilters struct {
	Status     *models.InquiryStatus
	PropertyID *uuid.UUID
	DateFrom   *time.Time
	DateTo     *time.Time
	Offset     int
	Limit      int
}

func (r *InquiryRepository) List(ctx context.Context, f InquiryFilters) ([]models.Inquiry, error) {
	q := r.db.WithContext(ctx).Model(&models.Inquiry{})

	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}
	if f.PropertyID != nil {
		q = q.Where("property_id = ?", *f.PropertyID)
	}
	if f.DateFrom != nil {
		q = q.Where("created_at >= ?", *f.DateFrom)
	}
	if f.DateTo != nil {
		q = q.Where("created_at <= ?", *f.DateTo)
	}

	var inquiries []models.Inquiry
	err := q.Order("created_at DESC").
		Offset(f.Offset).
		Limit(f.Limit).
		Find(&inquiries).Error
	return inquiries, err
}

func (r *InquiryRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.InquiryStatus) error {
	return r.db.WithContext(ctx).Model(&models.Inquiry{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *InquiryRepository) UpdateNotes(ctx context.Context, id uuid.UUID, notes string) error {
	return r.db.WithContext(ctx).Model(&models.Inquiry{}).
		Where("id = ?", id).
		Update("notes", notes).Error
}
