package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/shared/telemetry"
)

// Context keys handlers set so request logs can be correlated with records.
const (
	ResumeIDKey         = "resumeId"
	JobDescriptionIDKey = "jobDescriptionId"
)

// Logging emits a structured log per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, "OPTIONS") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()

		userID, _ := c.Get(userIDKey)
		isGuest, _ := c.Get(isGuestKey)
		resumeID, _ := c.Get(ResumeIDKey)
		jobDescriptionID, _ := c.Get(JobDescriptionIDKey)

		telemetry.Info("request.complete", map[string]any{
			"request_id":         RequestIDFromContext(c),
			"method":             c.Request.Method,
			"path":               c.Request.URL.Path,
			"route":              c.FullPath(),
			"status":             status,
			"duration_ms":        float64(latency.Microseconds()) / 1000.0,
			"user_id":            userID,
			"resume_id":          resumeID,
			"job_description_id": jobDescriptionID,
			"is_guest":           isGuest,
			"client_ip":          c.ClientIP(),
			"user_agent":         c.Request.UserAgent(),
		})
	}
}
