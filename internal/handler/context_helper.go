package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/tot-logger/visit-log-api/internal/middleware"
	"github.com/tot-logger/visit-log-api/internal/models"
)

func claimsFromContext(c *gin.Context) *models.AuthClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.AuthClaims)
	if !ok {
		return nil
	}
	return claims
}
