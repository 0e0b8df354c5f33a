package models

import (
	"time"

	"github.com/google/uuid"
)

type PropertyType string

const (
	PropertyTypeFlat       PropertyType = "flat"
	PropertyTypeVilla      PropertyType = "villa"
	PropertyTypePlot       PropertyType = "plot"
	PropertyTypeCommercial PropertyType = "commercial"
)

type ListingType string

const (
	ListingTypeSale ListingType = "sale"
	ListingTypeRent ListingType = "rent"
)

type FacingDirection string

const (
	FacingNorth     FacingDirection = "north"
	FacingSouth     FacingDirection = "south"
	FacingEast      FacingDirection = "east"
	FacingWest      FacingDirection = "west"
	FacingNorthEast FacingDirection = "north_east"
	FacingNorthWest FacingDirection = "north_west"
	FacingSouthEast FacingDirection = "south_east"
	FacingSouthWest FacingDirection = "south_west"
)

type FurnishingStatus string

const (
	Furnished     FurnishingStatus = "furnished"
	SemiFurnished FurnishingStatus = "semi_furnished"
	Unfurnished   FurnishingStatus = "unfurnished"
)

type Property struct {
	ID                uuid.UUID         `json:"id" gorm:"type:uuid;primaryKey"`
	Title             string            `json:"title" gorm:"type:varchar(500);not null"`
	Description       *string           `json:"description,omitempty" gorm:"type:text"`
	Locality          string            `json:"locality" gorm:"type:varchar(255);not null;index"`
	Sector            string            `json:"sector" gorm:"type:varchar(100);not null"`
	Latitude          float64           `json:"latitude" gorm:"type:numeric(10,7);not null"`
	Longitude         float64           `json:"longitude" gorm:"type:numeric(10,7);not null"`
	PropertyType      PropertyType      `json:"property_type" gorm:"type:varchar(20);not null;index"`
	ListingType       ListingType       `json:"listing_type" gorm:"type:varchar(10);not null"`
	BHK               *int              `json:"bhk,omitempty" gorm:"index"`
	AreaSqft          float64           `json:"area_sqft" gorm:"type:numeric(10,2);not null"`
	Price             float64           `json:"price" gorm:"type:numeric(15,2);not null;index"`
	PricePerSqft      *float64          `json:"price_per_sqft,omitempty" gorm:"->;type:numeric(10,2)"` // generated column
	FacingDirection   *FacingDirection  `json:"facing_direction,omitempty" gorm:"type:varchar(20)"`
	FurnishingStatus  *FurnishingStatus `json:"furnishing_status,omitempty" gorm:"type:varchar(20)"`
	FloorNumber       *int              `json:"floor_number,omitempty"`
	TotalFloors       *int              `json:"total_floors,omitempty"`
	AgeYears          *int              `json:"age_years,omitempty"`
	VastuScore        int               `json:"vastu_score" gorm:"not null;default:50"`
	NaturalLightScore int               `json:"natural_light_score" gorm:"not null;default:50"`
	IsActive          bool              `json:"is_active" gorm:"not null;default:true;index"`
	ViewCount         int               `json:"view_count" gorm:"not null;default:0"`
	InquiryCount      int               `json:"inquiry_count" gorm:"not null;default:0"`
	CreatedBy         *uuid.UUID        `json:"created_by,omitempty" gorm:"type:uuid"`
	CreatedAt         time.Time         `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt         time.Time         `json:"updated_at" gorm:"autoUpdateTime"`

	Images []PropertyImage `json:"images,omitempty" gorm:"foreignKey:PropertyID"`
}

func (Property) TableName() string {
	return "properties"
}
