package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/venkatakrishnan-tu/FileUploadRestServices/pkg/logger"
)

// RequestLogger logs one structured line per request.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		status := c.Writer.Status()
		kv := []interface{}{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"duration", time.Since(start),
			"client", c.ClientIP(),
		}
		if status >= 500 {
			logger.Warnw("request failed", kv...)
			return
		}
		logger.Infow("request", kv...)
	}
}
