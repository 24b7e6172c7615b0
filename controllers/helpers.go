package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/sammao/checkhub/middleware"
)

// getOperatorID extracts the authenticated operator id placed in the context
// by the auth middleware.
func getOperatorID(ctx *gin.Context) (uint, bool) {
	v, exists := ctx.Get(middleware.ContextOperatorIDKey)
	if !exists {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}
