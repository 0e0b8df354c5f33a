package models

import (
	"time"

	"github.com/google/uuid"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

type ImageUploadResponse struct {
	ID                uuid.UUID `json:"id"`
	PropertyID        uuid.UUID `json:"property_id"`
	OriginalURL       string    `json:"original_url"`
	ImageType         ImageType `json:"image_type"`
	EnhancementStatus string    `json:"enhancement_status"`
}

type EnhanceResponse struct {
	ID      uuid.UUID `json:"id"`
	AIJobID string    `json:"ai_job_id"`
	Status  string    `json:"status"`
	Message string    `json:"message"`
}

// FacingWidgetData backs the direction widget on the property detail page.
type FacingWidgetData struct {
	Direction             string `json:"direction"`
	HeatExposure          int    `json:"heat_exposure"`
	VastuCompatibility    int    `json:"vastu_compatibility"`
	NaturalLightIntensity int    `json:"natural_light_intensity"`
}

type PriceComparisonData struct {
	PropertyPricePerSqft float64 `json:"property_price_per_sqft"`
	SimilarPropertiesAvg float64 `json:"similar_properties_avg_price"`
	DifferencePercentage float64 `json:"difference_percentage"`
	Category             string  `json:"category"`
}

type PropertyDetailResponse struct {
	Property
	FacingWidgetData *FacingWidgetData    `json:"facing_widget_data,omitempty"`
	PriceComparison  *PriceComparisonData `json:"price_comparison,omitempty"`
}

type KeyMetrics struct {
	VastuScore        int    `json:"vastu_score"`
	NaturalLightScore int    `json:"natural_light_score"`
	PriceVsMarket     string `json:"price_vs_market"`
}

type PropertySearchResult struct {
	ID           uuid.UUID      `json:"id"`
	Title        string         `json:"title"`
	Price        float64        `json:"price"`
	AreaSqft     float64        `json:"area_sqft"`
	PricePerSqft *float64       `json:"price_per_sqft,omitempty"`
	Locality     string         `json:"locality"`
	Sector       string         `json:"sector"`
	BHK          *int           `json:"bhk,omitempty"`
	PropertyType string         `json:"property_type"`
	ListingType  string         `json:"listing_type"`
	PrimaryImage *PropertyImage `json:"primary_image,omitempty"`
	KeyMetrics   KeyMetrics     `json:"key_metrics"`
}

type GuidedSearchResponse struct {
	Results        []PropertySearchResult `json:"results"`
	TotalCount     int64                  `json:"total_count"`
	Page           int                    `json:"page"`
	PerPage        int                    `json:"per_page"`
	TotalPages     int                    `json:"total_pages"`
	HasNext        bool                   `json:"has_next"`
	HasPrev        bool                   `json:"has_prev"`
	FiltersApplied map[string]any         `json:"filters_applied"`
}

type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Role      UserRole  `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}
