package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"estatedesk-backend/internal/models"
	"estatedesk-backend/internal/services"
)

type SearchHandler struct {
	searchService *services.SearchService
}

func NewSearchHandler(searchService *services.SearchService) *SearchHandler {
	return &SearchHandler{searchService: searchService}
}

// GuidedSearch runs the buyer questionnaire search.
func (h *SearchHandler) GuidedSearch(c *gin.Context) {
	var req models.GuidedSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request body",
			Message: err.Error(),
		})
		return
	}

	resp, err := h.searchService.GuidedSearch(c.Request.Context(), &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
