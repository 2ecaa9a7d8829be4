package ui

import (
	"time"

	"github.com/gin-gonic/gin"
)

// setupMiddleware installs panic recovery and request logging
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(s.requestLogger())
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("[HTTP] %s %s -> %d in %.2fms",
			c.Request.Method, c.Request.URL.Path, c.Writer.Status(),
			float64(time.Since(start).Nanoseconds())/1e6)
	}
}
