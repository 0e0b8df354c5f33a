package models

import (
	"time"

	"github.com/google/uuid"
)

type InquiryType string

const (
	InquiryTypeGeneral   InquiryType = "general"
	InquiryTypeCallback  InquiryType = "callback"
	InquiryTypeSiteVisit InquiryType = "site_visit"
)

type InquiryStatus string

const (
	InquiryStatusNew       InquiryStatus = "new"
	InquiryStatusContacted InquiryStatus = "contacted"
	InquiryStatusQualified InquiryStatus = "qualified"
	InquiryStatusConverted InquiryStatus = "converted"
	InquiryStatusLost      InquiryStatus = "lost"
)

type InquirySource string

const (
	InquirySourceWeb       InquirySource = "web"
	InquirySourceMobileApp InquirySource = "mobile_app"
)

type Inquiry struct {
	ID                   uuid.UUID     `json:"id" gorm:"type:uuid;primaryKey"`
	PropertyID           *uuid.UUID    `json:"property_id,omitempty" gorm:"type:uuid;index"`
	FullName             string        `json:"full_name" gorm:"type:varchar(255);not null"`
	Email                string        `json:"email" gorm:"type:varchar(255);not null"`
	Phone                string        `json:"phone" gorm:"type:varchar(20);not null"`
	Message              *string       `json:"message,omitempty" gorm:"type:text"`
	InquiryType          InquiryType   `json:"inquiry_type" gorm:"type:varchar(20);not null;default:'general'"`
	PreferredContactTime *string       `json:"preferred_contact_time,omitempty" gorm:"type:varchar(255)"`
	Status               InquiryStatus `json:"status" gorm:"type:varchar(20);not null;default:'new';index"`
	AssignedTo           *uuid.UUID    `json:"assigned_to,omitempty" gorm:"type:uuid"`
	Notes                *string       `json:"notes,omitempty" gorm:"type:text"`
	Source               InquirySource `json:"source" gorm:"type:varchar(20);not null;default:'web'"`
	UserAgent            *string       `json:"user_agent,omitempty" gorm:"type:text"`
	IPAddress            *string       `json:"ip_address,omitempty" gorm:"type:varchar(45)"`
	CreatedAt            time.Time     `json:"created_at" gorm:"autoCreateTime;index"`
	UpdatedAt            time.Time     `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Inquiry) TableName() string {
	return "inquiries"
}
