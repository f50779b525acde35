package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// badRequest reports a body or query that failed to bind or validate.
func badRequest(c *gin.Context, err error) {
	getLogger(c).Debug("invalid request", zap.String("path", c.Request.URL.Path), zap.Error(err))
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"error":   "Invalid request body",
		"message": err.Error(),
	})
}
