package purchaseorders

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"procureflow/procurement-portal/procurement-portal-backend/internal/auth"
)

// Handler handles HTTP requests for purchase order operations
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new purchase order handler
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers purchase order routes
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	orders := router.Group("/purchase-orders")
	{
		orders.GET("", h.listOrders)
		orders.POST("", h.createOrder)
		orders.GET("/:id", h.getOrder)
		orders.GET("/:id/transitions", h.allowedTransitions)
		orders.POST("/:id/transition", h.transition)
	}
}

// createOrder handles POST /api/v1/purchase-orders
func (h *Handler) createOrder(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actor, ok := auth.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	po, err := h.service.Create(c.Request.Context(), actor.ID, &req)
	if err != nil {
		h.logger.Error("Failed to create purchase order", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, po)
}

// listOrders handles GET /api/v1/purchase-orders
func (h *Handler) listOrders(c *gin.Context) {
	filters := &Filters{}

	if status := c.Query("status"); status != "" {
		s := Status(status)
		filters.Status = &s
	}
	if supplierID := c.Query("supplier_id"); supplierID != "" {
		id, err := uuid.Parse(supplierID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid supplier_id"})
			return
		}
		filters.SupplierID = &id
	}

	orders, total, err := h.service.List(c.Request.Context(), filters)
	if err != nil {
		h.logger.Error("Failed to list purchase orders", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"purchase_orders": orders,
		"total":           total,
	})
}

// getOrder handles GET /api/v1/purchase-orders/:id
func (h *Handler) getOrder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid purchase order id"})
		return
	}

	po, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": ErrNotFound.Error()})
			return
		}
		h.logger.Error("Failed to get purchase order", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"purchase_order": po,
		"status_info":    h.service.StatusInfo(po.Status),
	})
}

// allowedTransitions handles GET /api/v1/purchase-orders/:id/transitions
func (h *Handler) allowedTransitions(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid purchase order id"})
		return
	}

	actor, ok := auth.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	transitions, err := h.service.AllowedTransitions(c.Request.Context(), id, actor.Role)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": ErrNotFound.Error()})
			return
		}
		h.logger.Error("Failed to list allowed transitions", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"transitions": transitions})
}

// transition handles POST /api/v1/purchase-orders/:id/transition
func (h *Handler) transition(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid purchase order id"})
		return
	}

	var req TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actor, ok := auth.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	po, result, err := h.service.Transition(c.Request.Context(), id, actor.ID, actor.Role, &req)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": ErrNotFound.Error()})
			return
		}
		h.logger.Error("Failed to apply transition", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if !result.IsValid() {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"is_valid": false,
			"errors":   result.Messages(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"purchase_order": po,
		"status_info":    h.service.StatusInfo(po.Status),
	})
}
