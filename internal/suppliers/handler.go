package suppliers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"procureflow/procurement-portal/procurement-portal-backend/internal/auth"
)

// Handler handles HTTP requests for supplier operations
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new supplier handler
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers supplier routes
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	suppliers := router.Group("/suppliers")
	{
		suppliers.GET("", h.listSuppliers)
		suppliers.POST("", h.createSupplier)
		suppliers.GET("/:id", h.getSupplier)
		suppliers.GET("/:id/risk", h.getRisk)
		suppliers.PUT("/:id/metrics", h.updateMetrics)
		suppliers.GET("/:id/transitions", h.allowedTransitions)
		suppliers.POST("/:id/transition", h.transition)
	}
}

// createSupplier handles POST /api/v1/suppliers
func (h *Handler) createSupplier(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	supplier, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		h.logger.Error("Failed to create supplier", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, supplier)
}

// listSuppliers handles GET /api/v1/suppliers
func (h *Handler) listSuppliers(c *gin.Context) {
	filters := &Filters{Category: c.Query("category")}

	if status := c.Query("status"); status != "" {
		s := Status(status)
		filters.Status = &s
	}
	if risk := c.Query("risk_level"); risk != "" {
		r := RiskLevel(risk)
		filters.RiskLevel = &r
	}

	suppliers, total, err := h.service.List(c.Request.Context(), filters)
	if err != nil {
		h.logger.Error("Failed to list suppliers", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"suppliers": suppliers,
		"total":     total,
	})
}

// getSupplier handles GET /api/v1/suppliers/:id
func (h *Handler) getSupplier(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid supplier id"})
		return
	}

	supplier, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": ErrNotFound.Error()})
			return
		}
		h.logger.Error("Failed to get supplier", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"supplier":    supplier,
		"status_info": h.service.StatusInfo(supplier.Status),
	})
}

// getRisk handles GET /api/v1/suppliers/:id/risk
func (h *Handler) getRisk(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid supplier id"})
		return
	}

	assessment, err := h.service.Risk(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": ErrNotFound.Error()})
			return
		}
		h.logger.Error("Failed to compute supplier risk", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, assessment)
}

// updateMetrics handles PUT /api/v1/suppliers/:id/metrics
func (h *Handler) updateMetrics(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid supplier id"})
		return
	}

	var req MetricsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	supplier, err := h.service.UpdateMetrics(c.Request.Context(), id, &req)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": ErrNotFound.Error()})
			return
		}
		h.logger.Error("Failed to update supplier metrics", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, supplier)
}

// allowedTransitions handles GET /api/v1/suppliers/:id/transitions
func (h *Handler) allowedTransitions(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid supplier id"})
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

// transition handles POST /api/v1/suppliers/:id/transition
func (h *Handler) transition(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid supplier id"})
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

	supplier, result, err := h.service.Transition(c.Request.Context(), id, actor.ID, actor.Role, &req)
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
		"supplier":    supplier,
		"status_info": h.service.StatusInfo(supplier.Status),
	})
}
