package services

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"estatedesk-backend/internal/models"
	"estatedesk-backend/internal/repository"
)

// InquiryService captures buyer leads and backs the admin lead pipeline.
type InquiryService struct {
	inquiries  *repository.InquiryRepository
	properties *repository.PropertyRepository
	logger     *slog.Logger
}

func NewInquiryService(inquiries *repository.InquiryRepository, properties *repository.PropertyRepository, logger *slog.Logger) *InquiryService {
	return &InquiryService{
		inquiries:  inquiries,
		properties: properties,
		logger:     logger,
	}
}

// Create records a buyer inquiry against an active listing, capturing the
// client IP and user agent for lead attribution.
func (s *InquiryService) Create(ctx context.Context, req *models.InquiryCreateRequest, clientIP, userAgent string) (*models.Inquiry, error) {
	property, err := s.properties.GetByID(ctx, req.PropertyID)
	if err != nil {
		return nil, err
	}
	if property == nil || !property.IsActive {
		return nil, ErrNotFound
	}

	inquiryType := req.InquiryType
	if inquiryType == "" {
		inquiryType = models.InquiryTypeGeneral
	}

	inq := &models.Inquiry{
		ID:                   uuid.New(),
		PropertyID:           &req.PropertyID,
		FullName:             req.FullName,
		Email:                req.Email,
		Phone:                req.Phone,
		Message:              req.Message,
		InquiryType:          inquiryType,
		PreferredContactTime: req.PreferredContactTime,
		Status:               models.InquiryStatusNew,
		Source:               models.InquirySourceWeb,
	}
	if clientIP != "" {
		inq.IPAddress = &clientIP
	}
	if userAgent != "" {
		inq.UserAgent = &userAgent
	}

	if err := s.inquiries.Create(ctx, inq); err != nil {
		return nil, err
	}

	// Counter is advisory; the lead is already saved.
	if err := s.properties.IncrementInquiryCount(ctx, req.PropertyID); err != nil {
		s.logger.Warn("inquiry count increment failed",
			"property_id", req.PropertyID, "error", err)
	}

	s.logger.Info("inquiry created",
		"inquiry_id", inq.ID, "property_id", req.PropertyID, "type", inq.InquiryType)
	return inq, nil
}

func (s *InquiryService) Get(ctx context.Context, id uuid.UUID) (*models.Inquiry, error) {
	inq, err := s.inquiries.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inq == nil {
		return nil, ErrNotFound
	}
	return inq, nil
}

func (s *InquiryService) List(ctx context.Context, f repository.InquiryFilters) ([]models.Inquiry, error) {
	if f.Limit < 1 {
		f.Limit = defaultPerPage
	}
	if f.Limit > maxPerPage {
		f.Limit = maxPerPage
	}
	return s.inquiries.List(ctx, f)
}

func (s *InquiryService) UpdateStatus(ctx context.Context, id uuid.UUID, status models.InquiryStatus) (*models.Inquiry, error) {
	existing, err := s.inquiries.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrNotFound
	}

	if err := s.inquiries.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	return s.inquiries.GetByID(ctx, id)
}

func (s *InquiryService) UpdateNotes(ctx context.Context, id uuid.UUID, notes string) (*models.Inquiry, error) {
	existing, err := s.inquiries.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrNotFound
	}

	if err := s.inquiries.UpdateNotes(ctx, id, notes); err != nil {
		return nil, err
	}
	return s.inquiries.GetByID(ctx, id)
}
