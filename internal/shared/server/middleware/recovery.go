package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/shared/metrics"
	"resume-builder/internal/shared/server/respond"
	"resume-builder/internal/shared/telemetry"
)

// Recovery turns a handler panic into a 500 envelope. The log line carries
// the record ids the handler had set so the failing resume can be found.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			metrics.IncPanics()
			resumeID, _ := c.Get(ResumeIDKey)
			jobDescriptionID, _ := c.Get(JobDescriptionIDKey)
			telemetry.Error("request.panic", map[string]any{
				"request_id":         RequestIDFromContext(c),
				"user_id":            UserIDFromContext(c),
				"resume_id":          resumeID,
				"job_description_id": jobDescriptionID,
				"method":             c.Request.Method,
				"route":              c.FullPath(),
				"error":              rec,
				"stack":              string(debug.Stack()),
			})
			if c.Writer.Written() {
				c.Abort()
				return
			}
			respond.Error(c, http.StatusInternalServerError, "internal_error", "Unexpected server error", nil)
		}()
		c.Next()
	}
}
