package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/shared/auth"
	"resume-builder/internal/shared/server/respond"
)

const (
	userIDKey      = "userId"
	userEmailKey   = "userEmail"
	userNameKey    = "userName"
	userPictureKey = "userPicture"
	isGuestKey     = "isGuest"

	// GuestHeader carries the browser-generated guest id.
	GuestHeader = "X-Guest-Id"
	// GuestPrefix marks user ids derived from GuestHeader.
	GuestPrefix = "guest:"
)

// maxGuestIDLen caps the X-Guest-Id value; guest ids are browser UUIDs.
const maxGuestIDLen = 128

// Auth resolves the caller from a Bearer token or, failing that, the guest
// header and stores the identity in context. Requests under one of the
// public path prefixes pass through without identity.
func Auth(publicPrefixes ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		if isPublic(c.Request.URL.Path, publicPrefixes) {
			c.Next()
			return
		}

		if header := strings.TrimSpace(c.GetHeader("Authorization")); header != "" {
			token, ok := bearerToken(header)
			if !ok {
				unauthorized(c, "missing or invalid token")
				return
			}
			claims, err := auth.VerifyJWT(token)
			if err != nil {
				unauthorized(c, "missing or invalid token")
				return
			}
			setIdentity(c, claims.Subject, false)
			setIfPresent(c, userEmailKey, claims.Email)
			setIfPresent(c, userNameKey, claims.Name)
			setIfPresent(c, userPictureKey, claims.Picture)
			c.Next()
			return
		}

		guestID := strings.TrimSpace(c.GetHeader(GuestHeader))
		if guestID == "" {
			unauthorized(c, "Missing identity")
			return
		}
		if len(guestID) > maxGuestIDLen {
			unauthorized(c, "invalid guest id")
			return
		}
		setIdentity(c, GuestPrefix+guestID, true)
		c.Next()
	}
}

func isPublic(path string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" value.
func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func setIdentity(c *gin.Context, userID string, guest bool) {
	c.Set(userIDKey, userID)
	c.Set(isGuestKey, guest)
}

func setIfPresent(c *gin.Context, key, value string) {
	if value != "" {
		c.Set(key, value)
	}
}

func unauthorized(c *gin.Context, message string) {
	respond.Error(c, http.StatusUnauthorized, "unauthorized", message, nil)
}

// UserIDFromContext fetches the user ID set by the auth middleware.
func UserIDFromContext(c *gin.Context) string {
	return stringFromContext(c, userIDKey)
}

// UserEmailFromContext fetches the user email set by the auth middleware.
func UserEmailFromContext(c *gin.Context) string {
	return stringFromContext(c, userEmailKey)
}

// UserNameFromContext fetches the user name set by the auth middleware.
func UserNameFromContext(c *gin.Context) string {
	return stringFromContext(c, userNameKey)
}

// UserPictureFromContext fetches the user picture set by the auth middleware.
func UserPictureFromContext(c *gin.Context) string {
	return stringFromContext(c, userPictureKey)
}

// IsGuest reports whether the request identity came from GuestHeader.
func IsGuest(c *gin.Context) bool {
	if c == nil {
		return false
	}
	return c.GetBool(isGuestKey)
}

func stringFromContext(c *gin.Context, key string) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(key)
	if s, ok := val.(string); ok {
		return s
	}
	return ""
}
