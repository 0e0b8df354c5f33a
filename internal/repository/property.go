package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"estatedesk-backend/internal/models"
)

type PropertyRepository struct {
	db *gorm.DB
}

func NewPropertyRepository(db *gorm.DB) *PropertyRepository {
	return &PropertyRepository{db: db}
}

func (r *PropertyRepository) Create(ctx context.Context, p *models.Property) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PropertyRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Property, error) {
	var p models.Property
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PropertyRepository) GetWithImages(ctx context.Context, id uuid.UUID) (*models.Property, error) {
	var p models.Property
	err := r.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order ASC")
		}).
		First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PropertyRepository) Update(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	return r.db.WithContext(ctx).Model(&models.Property{}).
		Where("id = ?", id).
		Updates(fields).Error
}

// SearchFilters narrows the guided search. BudgetMin/Max and PropertyType are
// required; BHK and Locality are optional.
type SearchFilters struct {
	BudgetMin    float64
	BudgetMax    float64
	PropertyType models.PropertyType
	BHK          *int
	Locality     string
	Offset       int
	Limit        int
}

func (r *PropertyRepository) Search(ctx context.Context, f SearchFilters) ([]models.Property, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.Property{}).
		Where("is_active = ?", true).
		Where("price >= ? AND price <= ?", f.BudgetMin, f.BudgetMax).
		Where("property_type = ?", f.PropertyType)

	if f.BHK != nil {
		base = base.Where("bhk = ?", *f.BHK)
	}
	if f.Locality != "" {
		base = base.Where("locality ILIKE ?", "%"+f.Locality+"%")
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var properties []models.Property
	err := base.Session(&gorm.Session{}).
		Preload("Images").
		Order("price ASC").
		Offset(f.Offset).
		Limit(f.Limit).
		Find(&properties).Error
	if err != nil {
		return nil, 0, err
	}

	return properties, total, nil
}

// GetSimilar returns active properties of the same type whose area is within
// 20 percent, for price comparison.
func (r *PropertyRepository) GetSimilar(ctx context.Context, propertyType models.PropertyType, areaSqft float64, excludeID uuid.UUID, limit int) ([]models.Property, error) {
	var properties []models.Property
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where("property_type = ?", propertyType).
		Where("area_sqft >= ? AND area_sqft <= ?", areaSqft*0.8, areaSqft*1.2).
		Where("id <> ?", excludeID).
		Limit(limit).
		Find(&properties).Error
	return properties, err
}

func (r *PropertyRepository) IncrementViewCount(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&models.Property{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
}

func (r *PropertyRepository) IncrementInquiryCount(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&models.Property{}).
		Where("id = ?", id).
		UpdateColumn("inquiry_count", gorm.Expr("inquiry_count + 1")).Error
}
