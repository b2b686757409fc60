package settings

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"procureflow/procurement-portal/procurement-portal-backend/internal/auth"
)

// Handler handles HTTP requests for user settings
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new settings handler
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers settings routes
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	settings := router.Group("/settings")
	{
		settings.GET("/profile", h.getProfile)
		settings.PUT("/profile", h.updateProfile)
		settings.GET("/notifications", h.getNotifications)
		settings.PUT("/notifications", h.updateNotifications)
	}
}

func (h *Handler) getProfile(c *gin.Context) {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	profile, err := h.service.GetProfile(c.Request.Context(), actor.ID)
	if err != nil {
		h.logger.Error("Failed to get profile", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *Handler) updateProfile(c *gin.Context) {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := h.service.UpdateProfile(c.Request.Context(), actor.ID, &req)
	if err != nil {
		h.logger.Error("Failed to update profile", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *Handler) getNotifications(c *gin.Context) {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	prefs, err := h.service.GetNotifications(c.Request.Context(), actor.ID)
	if err != nil {
		h.logger.Error("Failed to get notification preferences", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, prefs)
}

func (h *Handler) updateNotifications(c *gin.Context) {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	var req UpdateNotificationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	prefs, err := h.service.UpdateNotifications(c.Request.Context(), actor.ID, &req)
	if err != nil {
		h.logger.Error("Failed to update notification preferences", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, prefs)
}
