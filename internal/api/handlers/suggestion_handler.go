// internal/api/handlers/suggestion_handler.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/preseasonhq/backoffice/internal/domain"
	"github.com/preseasonhq/backoffice/internal/service"
	"github.com/preseasonhq/backoffice/internal/suggest"
)

type SuggestionHandler struct {
	suggestionService *service.SuggestionService
}

func NewSuggestionHandler(suggestionService *service.SuggestionService) *SuggestionHandler {
	return &SuggestionHandler{suggestionService: suggestionService}
}

// OpenSession creates a suggestion session for a season filter and returns
// the session id with the inventory it loaded
func (h *SuggestionHandler) OpenSession(c *gin.Context) {
	var filter domain.InventoryFilter
	if err := c.ShouldBindJSON(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid filter payload"})
		return
	}
	if filter.SeasonID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "season_id is required"})
		return
	}

	sessionID, items, summary, err := h.suggestionService.OpenSession(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load inventory"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"session_id": sessionID,
		"items":      items,
		"summary":    summary,
	})
}

// SetFilter replaces the session filter and reloads inventory. Pending
// suggestions are discarded when the filter changes.
func (h *SuggestionHandler) SetFilter(c *gin.Context) {
	var filter domain.InventoryFilter
	if err := c.ShouldBindJSON(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid filter payload"})
		return
	}
	if filter.SeasonID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "season_id is required"})
		return
	}

	items, summary, err := h.suggestionService.SetFilter(c.Request.Context(), c.Param("session"), filter)
	if err != nil {
		h.serviceError(c, err, "failed to load inventory")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items":   items,
		"summary": summary,
	})
}

// GetSuggestions returns the session's current suggestion map
func (h *SuggestionHandler) GetSuggestions(c *gin.Context) {
	suggestions, err := h.suggestionService.Suggestions(c.Param("session"))
	if err != nil {
		h.serviceError(c, err, "failed to fetch suggestions")
		return
	}
	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
}

// ClearSuggestions discards the session's suggestion map
func (h *SuggestionHandler) ClearSuggestions(c *gin.Context) {
	if err := h.suggestionService.ClearSuggestions(c.Param("session")); err != nil {
		h.serviceError(c, err, "failed to clear suggestions")
		return
	}
	c.Status(http.StatusNoContent)
}

type stockRuleRequest struct {
	HighMonths           *float64 `json:"high_months"`
	LowMonths            *float64 `json:"low_months"`
	TargetCoverage       *float64 `json:"target_coverage"`
	MaxOrderReductionPct *float64 `json:"max_order_reduction_pct"`
	TrailingMonths       int      `json:"trailing_months"`
}

// RunStockRules applies the high/low stock-coverage rules and replaces any
// pending suggestions with the result
func (h *SuggestionHandler) RunStockRules(c *gin.Context) {
	var req stockRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid stock rule payload"})
		return
	}

	cfg := suggest.DefaultStockRuleConfig()
	if req.HighMonths != nil {
		cfg.HighMonths = *req.HighMonths
	}
	if req.LowMonths != nil {
		cfg.LowMonths = *req.LowMonths
	}
	if req.TargetCoverage != nil {
		cfg.TargetCoverage = *req.TargetCoverage
	}
	if req.MaxOrderReductionPct != nil {
		cfg.MaxOrderReductionPct = *req.MaxOrderReductionPct
	}
	trailingMonths := req.TrailingMonths
	if trailingMonths <= 0 {
		trailingMonths = 12
	}

	suggestions, err := h.suggestionService.RunStockRules(c.Request.Context(), c.Param("session"), cfg, trailingMonths)
	if err != nil {
		h.serviceError(c, err, "failed to run stock rules")
		return
	}
	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
}

type velocityTargetRequest struct {
	CoverageMonths int `json:"coverage_months"`
	TrailingMonths int `json:"trailing_months"`
}

// RunVelocityTargets merges velocity-based targets into pending suggestions
func (h *SuggestionHandler) RunVelocityTargets(c *gin.Context) {
	var req velocityTargetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid velocity payload"})
		return
	}
	trailingMonths := req.TrailingMonths
	if trailingMonths <= 0 {
		trailingMonths = 12
	}

	suggestions, err := h.suggestionService.RunVelocityTargets(c.Request.Context(), c.Param("session"), req.CoverageMonths, trailingMonths)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
}

type budgetRequest struct {
	Budget decimal.Decimal `json:"budget"`
}

// ScaleToBudget scales pending quantities so the running total approaches
// the given budget
func (h *SuggestionHandler) ScaleToBudget(c *gin.Context) {
	var req budgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid budget payload"})
		return
	}

	suggestions, err := h.suggestionService.ScaleToBudget(c.Param("session"), req.Budget)
	if err != nil {
		h.serviceError(c, err, "failed to scale to budget")
		return
	}
	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
}

type batchRequest struct {
	Selected []int64 `json:"selected"`
	Mode     string  `json:"mode"`
	Value    float64 `json:"value"`
}

// BatchAdjust applies a percent or set-value adjustment to selected items
func (h *SuggestionHandler) BatchAdjust(c *gin.Context) {
	var req batchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid batch payload"})
		return
	}
	mode := suggest.BatchMode(req.Mode)
	if !suggest.ValidBatchMode(mode) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid batch mode"})
		return
	}

	suggestions, err := h.suggestionService.BatchAdjust(c.Param("session"), req.Selected, mode, req.Value)
	if err != nil {
		h.serviceError(c, err, "failed to apply batch adjustment")
		return
	}
	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
}

type clampRequest struct {
	Min int  `json:"min"`
	Max *int `json:"max"`
}

// Clamp clamps every item's effective quantity into [min, max]
func (h *SuggestionHandler) Clamp(c *gin.Context) {
	var req clampRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid clamp payload"})
		return
	}
	if req.Max != nil && *req.Max < req.Min {
		c.JSON(http.StatusBadRequest, gin.H{"error": "max must be at least min"})
		return
	}

	suggestions, err := h.suggestionService.Clamp(c.Param("session"), req.Min, req.Max)
	if err != nil {
		h.serviceError(c, err, "failed to clamp quantities")
		return
	}
	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
}

func (h *SuggestionHandler) serviceError(c *gin.Context, err error, message string) {
	if errors.Is(err, service.ErrSessionNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": message})
}
