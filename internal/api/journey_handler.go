package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/shaunakgokhale/trainy/internal/model"
	"github.com/shaunakgokhale/trainy/internal/service"
	"github.com/shaunakgokhale/trainy/internal/station"
)

// JourneyHandler serves the cross-border journey search and detail lookup.
type JourneyHandler struct {
	search   *service.SearchService
	registry *station.Registry
	logger   *logrus.Logger
}

func NewJourneyHandler(search *service.SearchService, registry *station.Registry, logger *logrus.Logger) *JourneyHandler {
	return &JourneyHandler{search: search, registry: registry, logger: logger}
}

// SearchJourneys handles
// GET /api/journeys?from=amsterdam-centraal&to=zuerich-hb&datetime=2026-01-17T10:00:00Z
// from/to accept canonical station ids or free-text names.
func (h *JourneyHandler) SearchJourneys(c *gin.Context) {
	from, to := c.Query("from"), c.Query("to")
	if from == "" || to == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from and to are required"})
		return
	}

	when := time.Now()
	if raw := c.Query("datetime"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "datetime must be RFC3339"})
			return
		}
		when = parsed
	}

	origin := h.resolveEndpoint(c, from)
	if origin == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "origin station not found"})
		return
	}
	dest := h.resolveEndpoint(c, to)
	if dest == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "destination station not found"})
		return
	}

	journeys := h.search.SearchJourneys(c.Request.Context(), origin, dest, when)
	if journeys == nil {
		journeys = []*model.MergedJourney{}
	}
	c.JSON(http.StatusOK, gin.H{"journeys": journeys})
}

// GetJourney handles GET /api/journeys/:id?refresh=true
func (h *JourneyHandler) GetJourney(c *gin.Context) {
	id := c.Param("id")
	refresh := c.DefaultQuery("refresh", "false") == "true"

	j, err := h.search.JourneyDetails(c.Request.Context(), id, refresh)
	if err != nil {
		h.logger.WithError(err).WithField("journey", id).Error("journey lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if j == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "journey not found"})
		return
	}
	c.JSON(http.StatusOK, j)
}

func (h *JourneyHandler) resolveEndpoint(c *gin.Context, ref string) *model.Station {
	if st, ok := h.registry.Get(ref); ok {
		return st
	}
	if stations := h.search.SearchStations(c.Request.Context(), ref); len(stations) > 0 {
		return stations[0]
	}
	return nil
}
