package models

import "github.com/google/uuid"

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type PropertyCreateRequest struct {
	Title             string            `json:"title" binding:"required,max=500"`
	Description       *string           `json:"description,omitempty"`
	Locality          string            `json:"locality" binding:"required,max=255"`
	Sector            string            `json:"sector" binding:"required,max=100"`
	Latitude          float64           `json:"latitude" binding:"required"`
	Longitude         float64           `json:"longitude" binding:"required"`
	PropertyType      PropertyType      `json:"property_type" binding:"required,oneof=flat villa plot commercial"`
	ListingType       ListingType       `json:"listing_type" binding:"required,oneof=sale rent"`
	BHK               *int              `json:"bhk,omitempty" binding:"omitempty,min=1,max=10"`
	AreaSqft          float64           `json:"area_sqft" binding:"required,gt=0"`
	Price             float64           `json:"price" binding:"required,gt=0"`
	FacingDirection   *FacingDirection  `json:"facing_direction,omitempty"`
	FurnishingStatus  *FurnishingStatus `json:"furnishing_status,omitempty"`
	FloorNumber       *int              `json:"floor_number,omitempty"`
	TotalFloors       *int              `json:"total_floors,omitempty"`
	AgeYears          *int              `json:"age_years,omitempty"`
	VastuScore        *int              `json:"vastu_score,omitempty" binding:"omitempty,min=0,max=100"`
	NaturalLightScore *int              `json:"natural_light_score,omitempty" binding:"omitempty,min=0,max=100"`
}

// PropertyUpdateRequest carries only the fields the admin wants to change.
type PropertyUpdateRequest struct {
	Title             *string           `json:"title,omitempty" binding:"omitempty,max=500"`
	Description       *string           `json:"description,omitempty"`
	Locality          *string           `json:"locality,omitempty" binding:"omitempty,max=255"`
	Sector            *string           `json:"sector,omitempty" binding:"omitempty,max=100"`
	PropertyType      *PropertyType     `json:"property_type,omitempty" binding:"omitempty,oneof=flat villa plot commercial"`
	ListingType       *ListingType      `json:"listing_type,omitempty" binding:"omitempty,oneof=sale rent"`
	BHK               *int              `json:"bhk,omitempty" binding:"omitempty,min=1,max=10"`
	AreaSqft          *float64          `json:"area_sqft,omitempty" binding:"omitempty,gt=0"`
	Price             *float64          `json:"price,omitempty" binding:"omitempty,gt=0"`
	FacingDirection   *FacingDirection  `json:"facing_direction,omitempty"`
	FurnishingStatus  *FurnishingStatus `json:"furnishing_status,omitempty"`
	FloorNumber       *int              `json:"floor_number,omitempty"`
	TotalFloors       *int              `json:"total_floors,omitempty"`
	AgeYears          *int              `json:"age_years,omitempty"`
	VastuScore        *int              `json:"vastu_score,omitempty" binding:"omitempty,min=0,max=100"`
	NaturalLightScore *int              `json:"natural_light_score,omitempty" binding:"omitempty,min=0,max=100"`
}

type GuidedSearchRequest struct {
	BudgetMin          float64      `json:"budget_min" binding:"required,gt=0"`
	BudgetMax          float64      `json:"budget_max" binding:"required,gt=0"`
	PropertyType       PropertyType `json:"property_type" binding:"required,oneof=flat villa plot commercial"`
	BHK                *int         `json:"bhk,omitempty" binding:"omitempty,min=1,max=10"`
	LocalityPreference string       `json:"locality_preference,omitempty"`
	Page               int          `json:"page,omitempty" binding:"omitempty,min=1"`
	PerPage            int          `json:"per_page,omitempty" binding:"omitempty,min=1,max=100"`
}

type InquiryCreateRequest struct {
	PropertyID           uuid.UUID   `json:"property_id" binding:"required"`
	FullName             string      `json:"full_name" binding:"required,min=2,max=255"`
	Email                string      `json:"email" binding:"required,email"`
	Phone                string      `json:"phone" binding:"required,max=20"`
	Message              *string     `json:"message,omitempty" binding:"omitempty,max=2000"`
	InquiryType          InquiryType `json:"inquiry_type,omitempty" binding:"omitempty,oneof=general callback site_visit"`
	PreferredContactTime *string     `json:"preferred_contact_time,omitempty"`
}

type PropertyStatusUpdateRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

type InquiryStatusUpdateRequest struct {
	Status InquiryStatus `json:"status" binding:"required,oneof=new contacted qualified converted lost"`
}

type InquiryNotesRequest struct {
	Notes string `json:"notes" binding:"required"`
}
