package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"estatedesk-backend/internal/enhancement"
	"estatedesk-backend/internal/models"
	"estatedesk-backend/internal/services"
)

type ImageHandler struct {
	imageService *services.ImageService
	workflow     *enhancement.Workflow
	baseURL      string
}

func NewImageHandler(imageService *services.ImageService, workflow *enhancement.Workflow, baseURL string) *ImageHandler {
	return &ImageHandler{
		imageService: imageService,
		workflow:     workflow,
		baseURL:      baseURL,
	}
}

// UploadImage accepts a multipart upload against a property. Form fields:
// image (file, required), image_type, is_primary, display_order.
func (h *ImageHandler) UploadImage(c *gin.Context) {
	propertyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid property id"})
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "missing image file",
			Message: err.Error(),
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "failed to open uploaded file"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "failed to read uploaded file"})
		return
	}

	imageType := models.ImageType(c.DefaultPostForm("image_type", string(models.ImageTypeOther)))
	switch imageType {
	case models.ImageTypeFrontExterior, models.ImageTypeInterior,
		models.ImageTypeFloorPlan, models.ImageTypeOther:
	default:
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid image type"})
		return
	}

	isPrimary := c.PostForm("is_primary") == "true"
	displayOrder, _ := strconv.Atoi(c.DefaultPostForm("display_order", "0"))

	img, err := h.imageService.Upload(c.Request.Context(), propertyID, fileHeader.Filename, data, imageType, isPrimary, displayOrder)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.ImageUploadResponse{
		ID:                img.ID,
		PropertyID:        img.PropertyID,
		OriginalURL:       img.OriginalURL,
		ImageType:         img.ImageType,
		EnhancementStatus: string(img.EnhancementStatus),
	})
}

func (h *ImageHandler) DeleteImage(c *gin.Context) {
	id, err := uuid.Parse(c.Param("image_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid image id"})
		return
	}

	if err := h.imageService.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Message: "image deleted",
	})
}

// EnhanceImage submits an image to the AI enhancement provider. Only
// pending and failed images qualify.
func (h *ImageHandler) EnhanceImage(c *gin.Context) {
	id, err := uuid.Parse(c.Param("image_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid image id"})
		return
	}

	jobID, err := h.workflow.RequestEnhancement(c.Request.Context(), id, h.baseURL)
	if err != nil {
		h.respondEnhancementError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, models.EnhanceResponse{
		ID:      id,
		AIJobID: jobID,
		Status:  string(models.EnhancementProcessing),
		Message: "enhancement requested",
	})
}

func (h *ImageHandler) respondEnhancementError(c *gin.Context, err error) {
	var validationErr *enhancement.ValidationError
	var upstreamErr *enhancement.UpstreamError

	switch {
	case errors.Is(err, enhancement.ErrNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "image not found"})
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "validation failed",
			Message: validationErr.Reason,
		})
	case errors.As(err, &upstreamErr):
		c.JSON(http.StatusBadGateway, models.ErrorResponse{
			Error:   "ai service unavailable",
			Message: upstreamErr.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "internal server error"})
	}
}
