package account

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
	"resume-builder/internal/shared/telemetry"
)

// Handler serves the account summary and the guest claim.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/account/summary", h.summary)
	rg.POST("/account/claim-guest", h.claimGuest)
}

func (h *Handler) summary(c *gin.Context) {
	if !h.ready(c) {
		return
	}
	summary, err := h.Svc.Summary(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load account summary", nil)
		return
	}
	respond.OK(c, summary)
}

// claimGuest moves the resumes and job descriptions of the guest named in
// X-Guest-Id to the signed-in caller.
func (h *Handler) claimGuest(c *gin.Context) {
	if !h.ready(c) {
		return
	}
	authedUserID := strings.TrimSpace(middleware.UserIDFromContext(c))
	if middleware.IsGuest(c) || authedUserID == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "login required", nil)
		return
	}

	guestID := strings.TrimSpace(c.GetHeader(middleware.GuestHeader))
	if rule := checkGuestID(guestID); rule != "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid guest id",
			[]respond.FieldError{{Field: middleware.GuestHeader, Rule: rule}})
		return
	}

	result, err := h.Svc.ClaimGuest(c.Request.Context(), middleware.GuestPrefix+guestID, authedUserID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to claim guest data", nil)
		return
	}
	telemetry.Info("account.guest_claimed", map[string]any{
		"user_id":                   authedUserID,
		"migrated_resumes":          result.MigratedResumes,
		"migrated_job_descriptions": result.MigratedJobDescriptions,
	})
	respond.OK(c, result)
}

func (h *Handler) ready(c *gin.Context) bool {
	if h.Svc == nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "service unavailable", nil)
		return false
	}
	return true
}

func checkGuestID(id string) string {
	if id == "" {
		return "required"
	}
	if _, err := uuid.Parse(id); err != nil {
		return "uuid"
	}
	return ""
}
