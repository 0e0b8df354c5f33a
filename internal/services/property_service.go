package services

import (
	"context"
	"math"

	"github.com/google/uuid"

	"estatedesk-backend/internal/models"
	"estatedesk-backend/internal/repository"
)

// PropertyService owns listing lifecycle and the detail-page aggregates.
type PropertyService struct {
	properties *repository.PropertyRepository
}

func NewPropertyService(properties *repository.PropertyRepository) *PropertyService {
	return &PropertyService{properties: properties}
}

func (s *PropertyService) Create(ctx context.Context, req *models.PropertyCreateRequest, createdBy uuid.UUID) (*models.Property, error) {
	p := &models.Property{
		ID:               uuid.New(),
		Title:            req.Title,
		Description:      req.Description,
		Locality:         req.Locality,
		Sector:           req.Sector,
		Latitude:         req.Latitude,
		Longitude:        req.Longitude,
		PropertyType:     req.PropertyType,
		ListingType:      req.ListingType,
		BHK:              req.BHK,
		AreaSqft:         req.AreaSqft,
		Price:            req.Price,
		FacingDirection:  req.FacingDirection,
		FurnishingStatus: req.FurnishingStatus,
		FloorNumber:      req.FloorNumber,
		TotalFloors:      req.TotalFloors,
		AgeYears:         req.AgeYears,
		IsActive:         true,
		CreatedBy:        &createdBy,
	}

	if req.VastuScore != nil {
		p.VastuScore = *req.VastuScore
	} else {
		p.VastuScore = 50
	}
	if req.NaturalLightScore != nil {
		p.NaturalLightScore = *req.NaturalLightScore
	} else {
		p.NaturalLightScore = 50
	}

	if err := s.properties.Create(ctx, p); err != nil {
		return nil, err
	}
	// Re-read so the generated price_per_sqft is populated.
	return s.properties.GetByID(ctx, p.ID)
}

func (s *PropertyService) Update(ctx context.Context, id uuid.UUID, req *models.PropertyUpdateRequest) (*models.Property, error) {
	existing, err := s.properties.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrNotFound
	}

	fields := map[string]any{}
	if req.Title != nil {
		fields["title"] = *req.Title
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Locality != nil {
		fields["locality"] = *req.Locality
	}
	if req.Sector != nil {
		fields["sector"] = *req.Sector
	}
	if req.PropertyType != nil {
		fields["property_type"] = *req.PropertyType
	}
	if req.ListingType != nil {
		fields["listing_type"] = *req.ListingType
	}
	if req.BHK != nil {
		fields["bhk"] = *req.BHK
	}
	if req.AreaSqft != nil {
		fields["area_sqft"] = *req.AreaSqft
	}
	if req.Price != nil {
		fields["price"] = *req.Price
	}
	if req.FacingDirection != nil {
		fields["facing_direction"] = *req.FacingDirection
	}
	if req.FurnishingStatus != nil {
		fields["furnishing_status"] = *req.FurnishingStatus
	}
	if req.FloorNumber != nil {
		fields["floor_number"] = *req.FloorNumber
	}
	if req.TotalFloors != nil {
		fields["total_floors"] = *req.TotalFloors
	}
	if req.AgeYears != nil {
		fields["age_years"] = *req.AgeYears
	}
	if req.VastuScore != nil {
		fields["vastu_score"] = *req.VastuScore
	}
	if req.NaturalLightScore != nil {
		fields["natural_light_score"] = *req.NaturalLightScore
	}

	if len(fields) > 0 {
		if err := s.properties.Update(ctx, id, fields); err != nil {
			return nil, err
		}
	}

	return s.properties.GetByID(ctx, id)
}

// Deactivate soft-deletes a listing. The record and its images stay in the
// database so existing inquiry references keep resolving.
func (s *PropertyService) Deactivate(ctx context.Context, id uuid.UUID) error {
	existing, err := s.properties.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrNotFound
	}
	return s.properties.Update(ctx, id, map[string]any{"is_active": false})
}

func (s *PropertyService) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	existing, err := s.properties.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrNotFound
	}
	return s.properties.Update(ctx, id, map[string]any{"is_active": active})
}

func (s *PropertyService) GetByID(ctx context.Context, id uuid.UUID) (*models.Property, error) {
	p, err := s.properties.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNotFound
	}
	return p, nil
}

// GetDetail assembles the public detail page: the listing with ordered
// images, the facing widget and a price comparison against similar active
// properties. The view counter is bumped as a side effect.
func (s *PropertyService) GetDetail(ctx context.Context, id uuid.UUID) (*models.PropertyDetailResponse, error) {
	p, err := s.properties.GetWithImages(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil || !p.IsActive {
		return nil, ErrNotFound
	}

	// Best effort; the detail page does not fail on a counter miss.
	_ = s.properties.IncrementViewCount(ctx, id)

	resp := &models.PropertyDetailResponse{Property: *p}

	if p.FacingDirection != nil {
		widget := FacingMetrics(*p.FacingDirection)
		resp.FacingWidgetData = &widget
	}

	if cmp, err := s.priceComparison(ctx, p); err == nil && cmp != nil {
		resp.PriceComparison = cmp
	}

	return resp, nil
}

func (s *PropertyService) priceComparison(ctx context.Context, p *models.Property) (*models.PriceComparisonData, error) {
	if p.AreaSqft <= 0 {
		return nil, nil
	}
	pricePerSqft := p.Price / p.AreaSqft

	similar, err := s.properties.GetSimilar(ctx, p.PropertyType, p.AreaSqft, p.ID, 10)
	if err != nil {
		return nil, err
	}
	if len(similar) == 0 {
		return nil, nil
	}

	var sum float64
	for _, sp := range similar {
		if sp.AreaSqft > 0 {
			sum += sp.Price / sp.AreaSqft
		}
	}
	avg := sum / float64(len(similar))
	if avg == 0 {
		return nil, nil
	}

	diff := (pricePerSqft - avg) / avg * 100

	return &models.PriceComparisonData{
		PropertyPricePerSqft: math.Round(pricePerSqft*100) / 100,
		SimilarPropertiesAvg: math.Round(avg*100) / 100,
		DifferencePercentage: math.Round(diff*10) / 10,
		Category:             PriceCategory(pricePerSqft, avg),
	}, nil
}

// KeyMetricsFor summarises a listing for search cards.
func (s *PropertyService) KeyMetricsFor(ctx context.Context, p *models.Property) models.KeyMetrics {
	metrics := models.KeyMetrics{
		VastuScore:        p.VastuScore,
		NaturalLightScore: p.NaturalLightScore,
		PriceVsMarket:     PriceAverage,
	}

	if cmp, err := s.priceComparison(ctx, p); err == nil && cmp != nil {
		metrics.PriceVsMarket = cmp.Category
	}

	return metrics
}
