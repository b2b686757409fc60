package rfqs

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"procureflow/procurement-portal/procurement-portal-backend/internal/auth"
)

// Handler handles HTTP requests for RFQ operations
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new RFQ handler
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers RFQ routes
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	rfqGroup := router.Group("/rfqs")
	{
		rfqGroup.GET("", h.listRFQs)
		rfqGroup.POST("", h.createRFQ)
		rfqGroup.GET("/:id", h.getRFQ)
		rfqGroup.GET("/:id/transitions", h.allowedTransitions)
		rfqGroup.POST("/:id/transition", h.transition)
	}
}

// createRFQ handles POST /api/v1/rfqs
func (h *Handler) createRFQ(c *gin.Context) {
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

	rfq, err := h.service.Create(c.Request.Context(), actor.ID, &req)
	if err != nil {
		h.logger.Error("Failed to create rfq", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, rfq)
}

// listRFQs handles GET /api/v1/rfqs
func (h *Handler) listRFQs(c *gin.Context) {
	filters := &Filters{}
	if status := c.Query("status"); status != "" {
		s := Status(status)
		filters.Status = &s
	}

	rfqList, total, err := h.service.List(c.Request.Context(), filters)
	if err != nil {
		h.logger.Error("Failed to list rfqs", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"rfqs":  rfqList,
		"total": total,
	})
}

// getRFQ handles GET /api/v1/rfqs/:id
func (h *Handler) getRFQ(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid rfq id"})
		return
	}

	rfq, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": ErrNotFound.Error()})
			return
		}
		h.logger.Error("Failed to get rfq", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"rfq":         rfq,
		"status_info": h.service.StatusInfo(rfq.Status),
	})
}

// allowedTransitions handles GET /api/v1/rfqs/:id/transitions
func (h *Handler) allowedTransitions(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid rfq id"})
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

// transition handles POST /api/v1/rfqs/:id/transition
func (h *Handler) transition(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid rfq id"})
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

	rfq, result, err := h.service.Transition(c.Request.Context(), id, actor.ID, actor.Role, &req)
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
		"rfq":         rfq,
		"status_info": h.service.StatusInfo(rfq.Status),
	})
}
