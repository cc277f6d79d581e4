package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/nordpay/billing/internal/server/http/middleware"
)

// CurrentSubject extracts the authenticated caller subject from context.
func CurrentSubject(c *gin.Context) string {
	val, ok := c.Get(middleware.SubjectContextKey)
	if !ok {
		return ""
	}
	subject, _ := val.(string)
	return subject
}
