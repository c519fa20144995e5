package users

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
)

// Handler serves the current identity.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches user routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/me", h.me)
}

// me returns the stored profile for signed-in users. Token claims fill in
// when no record exists yet; guests get their guest id only.
func (h *Handler) me(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
		return
	}
	if middleware.IsGuest(c) {
		respond.OK(c, Profile{UserID: userID, IsGuest: true})
		return
	}

	profile := Profile{
		UserID:     userID,
		Email:      middleware.UserEmailFromContext(c),
		FullName:   middleware.UserNameFromContext(c),
		PictureURL: middleware.UserPictureFromContext(c),
	}
	if h.Svc == nil {
		respond.OK(c, profile)
		return
	}

	user, err := h.Svc.GetByID(c.Request.Context(), userID)
	switch {
	case err == nil:
		profile.Email = user.Email
		profile.FullName = user.FullName
		profile.PictureURL = user.PictureURL
		profile.LoginCount = user.LoginCount
	case errors.Is(err, ErrNotFound):
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load user", nil)
		return
	}
	respond.OK(c, profile)
}
