package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const actorContextKey = "auth.actor"

// Middleware authenticates requests and attaches the actor to the context
func Middleware(service *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		actor, err := service.ParseToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(actorContextKey, actor)
		c.Next()
	}
}

// ActorFromContext returns the authenticated actor set by Middleware
func ActorFromContext(c *gin.Context) (*Actor, bool) {
	value, exists := c.Get(actorContextKey)
	if !exists {
		return nil, false
	}
	actor, ok := value.(*Actor)
	return actor, ok
}
