package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/intersection-backend/internal/services"
)

type InstitutionHandler struct {
	institutionService services.InstitutionService
}

func NewInstitutionHandler(institutionService services.InstitutionService) *InstitutionHandler {
	return &InstitutionHandler{institutionService: institutionService}
}

func (h *InstitutionHandler) Search(c *gin.Context) {
	limit := 20
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	institutions, err := h.institutionService.Search(
		c.Request.Context(),
		c.Query("q"),
		c.Query("city"),
		c.Query("district"),
		limit,
	)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "institution_search_failed", err)
		return
	}
	RespondOK(c, institutions)
}
