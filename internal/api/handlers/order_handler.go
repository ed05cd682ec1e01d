// internal/api/handlers/order_handler.go
package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/preseasonhq/backoffice/internal/repository"
	"github.com/preseasonhq/backoffice/internal/service"
)

type OrderHandler struct {
	orderService *service.OrderService
}

func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// CreateOrder creates a single draft order
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var input service.CreateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order payload"})
		return
	}
	if input.SeasonID <= 0 || input.BrandID <= 0 || input.LocationID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "season_id, brand_id and location_id are required"})
		return
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), input)
	if err != nil {
		log.Error().Err(err).Msg("failed to create order")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create order"})
		return
	}

	c.JSON(http.StatusCreated, order)
}

// CreatePlanned creates one draft order per shipment window. Creation is
// best effort: orders already written stay written when a later one fails,
// so the response always carries whatever was created.
func (h *OrderHandler) CreatePlanned(c *gin.Context) {
	var input service.PlannedOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid planned order payload"})
		return
	}

	orders, err := h.orderService.CreatePlanned(c.Request.Context(), input)
	if err != nil {
		if len(orders) > 0 {
			log.Error().Err(err).Int("created", len(orders)).Msg("planned order creation stopped partway")
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":  "order creation stopped partway",
				"orders": orders,
			})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"orders": orders})
}

// ListOrders returns orders matching optional season/brand/location/status
// filters
func (h *OrderHandler) ListOrders(c *gin.Context) {
	filter := repository.OrderFilter{
		SeasonID:   parseOptionalID(c.Query("season_id")),
		BrandID:    parseOptionalID(c.Query("brand_id")),
		LocationID: parseOptionalID(c.Query("location_id")),
		Status:     strings.TrimSpace(c.Query("status")),
	}

	orders, err := h.orderService.ListOrders(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch orders"})
		return
	}

	c.JSON(http.StatusOK, orders)
}

// GetOrder returns one order by id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}

	c.JSON(http.StatusOK, order)
}

// GetItems returns an order's line items
func (h *OrderHandler) GetItems(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	items, err := h.orderService.GetItems(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch order items"})
		return
	}

	c.JSON(http.StatusOK, items)
}

type addItemRequest struct {
	ProductID  int64           `json:"product_id"`
	Quantity   int             `json:"quantity"`
	UnitCost   decimal.Decimal `json:"unit_cost"`
	IsAddition bool            `json:"is_addition"`
}

// AddItem appends a line to a draft order
func (h *OrderHandler) AddItem(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item payload"})
		return
	}
	if req.ProductID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "product_id is required"})
		return
	}

	item, err := h.orderService.AddItem(c.Request.Context(), id, req.ProductID, req.Quantity, req.UnitCost, req.IsAddition)
	if err != nil {
		log.Error().Err(err).Int64("order_id", id).Msg("failed to add order item")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add order item"})
		return
	}

	c.JSON(http.StatusCreated, item)
}

type adjustItemRequest struct {
	AdjustedQuantity *int `json:"adjusted_quantity"`
}

// AdjustItem sets or clears a line's adjusted quantity. A null value restores
// the original quantity.
func (h *OrderHandler) AdjustItem(c *gin.Context) {
	orderID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	itemID, ok := h.pathID(c, "item")
	if !ok {
		return
	}

	var req adjustItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid adjustment payload"})
		return
	}

	if err := h.orderService.AdjustItem(c.Request.Context(), orderID, itemID, req.AdjustedQuantity); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to adjust order item"})
		return
	}

	c.Status(http.StatusNoContent)
}

// DeleteItem removes a line from a draft order
func (h *OrderHandler) DeleteItem(c *gin.Context) {
	orderID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	itemID, ok := h.pathID(c, "item")
	if !ok {
		return
	}

	if err := h.orderService.DeleteItem(c.Request.Context(), orderID, itemID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete order item"})
		return
	}

	c.Status(http.StatusNoContent)
}

// FinalizeOrder stamps the order finalized and returns it
func (h *OrderHandler) FinalizeOrder(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	order, err := h.orderService.FinalizeOrder(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to finalize order"})
		return
	}

	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}
