package services

import (
	"context"

	"estatedesk-backend/internal/models"
	"estatedesk-backend/internal/repository"
)

const (
	defaultPerPage = 10
	maxPerPage     = 100
)

// SearchService runs the guided buyer search over active listings.
type SearchService struct {
	properties *repository.PropertyRepository
	metrics    *PropertyService
}

func NewSearchService(properties *repository.PropertyRepository, metrics *PropertyService) *SearchService {
	return &SearchService{properties: properties, metrics: metrics}
}

// GuidedSearch filters active listings by budget, type and the optional BHK
// and locality preferences, returning one page of results ordered by price.
func (s *SearchService) GuidedSearch(ctx context.Context, req *models.GuidedSearchRequest) (*models.GuidedSearchResponse, error) {
	if req.BudgetMin > req.BudgetMax {
		return nil, &ValidationError{Reason: "budget_min cannot exceed budget_max"}
	}

	page := req.Page
	if page < 1 {
		page = 1
	}
	perPage := req.PerPage
	if perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}

	filters := repository.SearchFilters{
		BudgetMin:    req.BudgetMin,
		BudgetMax:    req.BudgetMax,
		PropertyType: req.PropertyType,
		BHK:          req.BHK,
		Locality:     req.LocalityPreference,
		Offset:       (page - 1) * perPage,
		Limit:        perPage,
	}

	properties, total, err := s.properties.Search(ctx, filters)
	if err != nil {
		return nil, err
	}

	results := make([]models.PropertySearchResult, 0, len(properties))
	for i := range properties {
		results = append(results, s.toSearchResult(ctx, &properties[i]))
	}

	totalPages := int((total + int64(perPage) - 1) / int64(perPage))

	applied := map[string]any{
		"budget_min":    req.BudgetMin,
		"budget_max":    req.BudgetMax,
		"property_type": req.PropertyType,
	}
	if req.BHK != nil {
		applied["bhk"] = *req.BHK
	}
	if req.LocalityPreference != "" {
		applied["locality_preference"] = req.LocalityPreference
	}

	return &models.GuidedSearchResponse{
		Results:        results,
		TotalCount:     total,
		Page:           page,
		PerPage:        perPage,
		TotalPages:     totalPages,
		HasNext:        page < totalPages,
		HasPrev:        page > 1,
		FiltersApplied: applied,
	}, nil
}

func (s *SearchService) toSearchResult(ctx context.Context, p *models.Property) models.PropertySearchResult {
	result := models.PropertySearchResult{
		ID:           p.ID,
		Title:        p.Title,
		Price:        p.Price,
		AreaSqft:     p.AreaSqft,
		PricePerSqft: p.PricePerSqft,
		Locality:     p.Locality,
		Sector:       p.Sector,
		BHK:          p.BHK,
		PropertyType: string(p.PropertyType),
		ListingType:  string(p.ListingType),
		KeyMetrics:   s.metrics.KeyMetricsFor(ctx, p),
	}

	// Prefer the flagged primary image, fall back to the first one.
	for i := range p.Images {
		if p.Images[i].IsPrimary {
			result.PrimaryImage = &p.Images[i]
			break
		}
	}
	if result.PrimaryImage == nil && len(p.Images) > 0 {
		result.PrimaryImage = &p.Images[0]
	}

	return result
}
