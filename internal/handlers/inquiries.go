package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"estatedesk-backend/internal/models"
	"estatedesk-backend/internal/repository"
	"estatedesk-backend/internal/services"
)

type InquiryHandler struct {
	inquiryService *services.InquiryService
}

func NewInquiryHandler(inquiryService *services.InquiryService) *InquiryHandler {
	return &InquiryHandler{inquiryService: inquiryService}
}

// CreateInquiry records a buyer lead. Rate limited per client IP.
func (h *InquiryHandler) CreateInquiry(c *gin.Context) {
	var req models.InquiryCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request body",
			Message: err.Error(),
		})
		return
	}

	inquiry, err := h.inquiryService.Create(c.Request.Context(), &req, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, inquiry)
}

// ListInquiries serves the admin lead pipeline with optional filters:
// status, property_id, date_from, date_to (RFC 3339), page, per_page.
func (h *InquiryHandler) ListInquiries(c *gin.Context) {
	filters := repository.InquiryFilters{}

	if s := c.Query("status"); s != "" {
		status := models.InquiryStatus(s)
		switch status {
		case models.InquiryStatusNew, models.InquiryStatusContacted,
			models.InquiryStatusQualified, models.InquiryStatusConverted,
			models.InquiryStatusLost:
			filters.Status = &status
		default:
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid status filter"})
			return
		}
	}

	if p := c.Query("property_id"); p != "" {
		propertyID, err := uuid.Parse(p)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid property id filter"})
			return
		}
		filters.PropertyID = &propertyID
	}

	if d := c.Query("date_from"); d != "" {
		t, err := time.Parse(time.RFC3339, d)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid date_from, expected RFC 3339"})
			return
		}
		filters.DateFrom = &t
	}

	if d := c.Query("date_to"); d != "" {
		t, err := time.Parse(time.RFC3339, d)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid date_to, expected RFC 3339"})
			return
		}
		filters.DateTo = &t
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))
	if perPage < 1 {
		perPage = 20
	}
	filters.Offset = (page - 1) * perPage
	filters.Limit = perPage

	inquiries, err := h.inquiryService.List(c.Request.Context(), filters)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, inquiries)
}

func (h *InquiryHandler) GetInquiry(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid inquiry id"})
		return
	}

	inquiry, err := h.inquiryService.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, inquiry)
}

func (h *InquiryHandler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid inquiry id"})
		return
	}

	var req models.InquiryStatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request body",
			Message: err.Error(),
		})
		return
	}

	inquiry, err := h.inquiryService.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, inquiry)
}

func (h *InquiryHandler) UpdateNotes(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid inquiry id"})
		return
	}

	var req models.InquiryNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request body",
			Message: err.Error(),
		})
		return
	}

	inquiry, err := h.inquiryService.UpdateNotes(c.Request.Context(), id, req.Notes)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, inquiry)
}
