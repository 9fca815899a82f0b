package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/shaunakgokhale/trainy/internal/service"
)

// StationHandler serves cross-provider station resolution.
type StationHandler struct {
	search *service.SearchService
	logger *logrus.Logger
}

func NewStationHandler(search *service.SearchService, logger *logrus.Logger) *StationHandler {
	return &StationHandler{search: search, logger: logger}
}

// SearchStations handles GET /api/stations?q=amsterdam
func (h *StationHandler) SearchStations(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q is required"})
		return
	}
	stations := h.search.SearchStations(c.Request.Context(), query)
	c.JSON(http.StatusOK, gin.H{"stations": stations})
}
