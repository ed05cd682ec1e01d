// internal/api/handlers/catalog_handler.go
package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/preseasonhq/backoffice/internal/service"
)

type CatalogHandler struct {
	catalogService *service.CatalogService
}

func NewCatalogHandler(catalogService *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// GetBrands returns a list of all brands
func (h *CatalogHandler) GetBrands(c *gin.Context) {
	brands, err := h.catalogService.GetBrands(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch brands"})
		return
	}

	c.JSON(http.StatusOK, brands)
}

// GetSeasons returns a list of all seasons
func (h *CatalogHandler) GetSeasons(c *gin.Context) {
	seasons, err := h.catalogService.GetSeasons(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch seasons"})
		return
	}

	c.JSON(http.StatusOK, seasons)
}

// GetLocations returns a list of all receiving locations
func (h *CatalogHandler) GetLocations(c *gin.Context) {
	locations, err := h.catalogService.GetLocations(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch locations"})
		return
	}

	c.JSON(http.StatusOK, locations)
}

// SearchProducts returns products matching an optional search term, scoped to
// optional brand ids
func (h *CatalogHandler) SearchProducts(c *gin.Context) {
	search := c.Query("search")
	limit := parsePositiveIntWithDefault(c.Query("limit"), 50)
	offset := parseNonNegativeInt(c.Query("offset"))
	brandIDs := parseIDList(c.Query("brand_ids"))

	products, err := h.catalogService.SearchProducts(c.Request.Context(), search, limit, offset, brandIDs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch products"})
		return
	}

	c.JSON(http.StatusOK, products)
}

func parsePositiveIntWithDefault(value string, fallback int) int {
	if fallback <= 0 {
		fallback = 50
	}
	if v, err := strconv.Atoi(strings.TrimSpace(value)); err == nil && v > 0 {
		return v
	}
	return fallback
}

func parseNonNegativeInt(value string) int {
	if v, err := strconv.Atoi(strings.TrimSpace(value)); err == nil && v >= 0 {
		return v
	}
	return 0
}

func parseIDList(value string) []int64 {
	var ids []int64
	for _, part := range strings.Split(value, ",") {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		if id, err := strconv.ParseInt(trimmed, 10, 64); err == nil && id > 0 {
			ids = append(ids, id)
		}
	}
	return ids
}

func parseOptionalID(value string) *int64 {
	if id, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil && id > 0 {
		return &id
	}
	return nil
}
