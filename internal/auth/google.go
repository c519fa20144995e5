// Package auth implements Google sign-in. A successful callback records the
// user, optionally moves a guest's resumes to the new account, and redirects
// to the UI with a session token.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"resume-builder/internal/account"
	"resume-builder/internal/shared/auth"
	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
	"resume-builder/internal/shared/telemetry"
	"resume-builder/internal/users"
)

const (
	googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
	stateTTL          = 5 * time.Minute

	// UserIDPrefix namespaces Google subjects in user ids.
	UserIDPrefix = "google:"
)

// UserRecorder persists identities returned by the provider.
type UserRecorder interface {
	RecordLogin(ctx context.Context, user users.User) error
}

// GuestClaimer moves a guest's records to a signed-in user.
type GuestClaimer interface {
	ClaimGuest(ctx context.Context, guestUserID, authedUserID string) (account.ClaimResult, error)
}

// GoogleConfig holds the OAuth client settings.
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	UIRedirect   string
}

// GoogleService handles Google OAuth flows.
type GoogleService struct {
	oauthConfig *oauth2.Config
	uiRedirect  string
	userInfoURL string
	states      *stateStore
	users       UserRecorder
	guests      GuestClaimer
}

// NewGoogleService builds a GoogleService. users and guests may be nil.
func NewGoogleService(cfg GoogleConfig, recorder UserRecorder, guests GuestClaimer) *GoogleService {
	return &GoogleService{
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		uiRedirect:  cfg.UIRedirect,
		userInfoURL: googleUserInfoURL,
		states:      newStateStore(),
		users:       recorder,
		guests:      guests,
	}
}

// RegisterRoutes attaches Google auth routes.
func (s *GoogleService) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/auth/google/start", s.start)
	rg.GET("/auth/google/callback", s.callback)
}

func (s *GoogleService) configured() bool {
	return s.oauthConfig.ClientID != "" && s.oauthConfig.ClientSecret != "" && s.oauthConfig.RedirectURL != ""
}

// start redirects to Google. An optional guestId query parameter is carried
// through the state so the guest's data can be claimed after sign-in.
func (s *GoogleService) start(c *gin.Context) {
	if !s.configured() {
		respond.Error(c, http.StatusInternalServerError, "auth_not_configured", "Google auth not configured", nil)
		return
	}

	guestID := strings.TrimSpace(c.Query("guestId"))
	if guestID != "" {
		if _, err := uuid.Parse(guestID); err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid guest id", nil)
			return
		}
	}

	state := uuid.NewString()
	s.states.put(state, loginState{guestID: guestID, expires: s.states.now().Add(stateTTL)})
	c.Redirect(http.StatusFound, s.oauthConfig.AuthCodeURL(state, oauth2.AccessTypeOffline))
}

func (s *GoogleService) callback(c *gin.Context) {
	state := c.Query("state")
	code := c.Query("code")
	if state == "" || code == "" {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "missing state or code", nil)
		return
	}
	pending, ok := s.states.consume(state)
	if !ok {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "invalid or expired state", nil)
		return
	}

	ctx := c.Request.Context()
	oauthToken, err := s.oauthConfig.Exchange(ctx, code)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "failed to exchange code", nil)
		return
	}
	info, err := s.fetchUserInfo(ctx, oauthToken)
	if err != nil {
		telemetry.Warn("auth.userinfo_failed", map[string]any{"error": err})
		respond.Error(c, http.StatusBadGateway, "auth_failed", "failed to fetch user profile", nil)
		return
	}

	userID := UserIDPrefix + info.Sub
	s.recordUser(ctx, userID, info)
	s.claimGuest(ctx, pending.guestID, userID)

	token, err := auth.SignJWT(auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: userID},
		Email:            info.Email,
		Name:             info.Name,
		Picture:          info.Picture,
	})
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to issue token", nil)
		return
	}
	redirectURL, err := appendToken(s.uiRedirect, token)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to redirect", nil)
		return
	}
	telemetry.Info("auth.login", map[string]any{"user_id": userID, "guest_claimed": pending.guestID != ""})
	c.Redirect(http.StatusFound, redirectURL)
}

// recordUser and claimGuest log failures without blocking sign-in.
func (s *GoogleService) recordUser(ctx context.Context, userID string, info googleUserInfo) {
	if s.users == nil {
		return
	}
	err := s.users.RecordLogin(ctx, users.User{
		ID:         userID,
		Email:      info.Email,
		FullName:   info.Name,
		GivenName:  info.GivenName,
		FamilyName: info.FamilyName,
		PictureURL: info.Picture,
	})
	if err != nil {
		telemetry.Warn("auth.user_record_failed", map[string]any{"user_id": userID, "error": err})
	}
}

func (s *GoogleService) claimGuest(ctx context.Context, guestID, userID string) {
	if s.guests == nil || guestID == "" {
		return
	}
	result, err := s.guests.ClaimGuest(ctx, middleware.GuestPrefix+guestID, userID)
	if err != nil {
		telemetry.Warn("auth.guest_claim_failed", map[string]any{"user_id": userID, "error": err})
		return
	}
	telemetry.Info("auth.guest_claimed", map[string]any{
		"user_id":                   userID,
		"migrated_resumes":          result.MigratedResumes,
		"migrated_job_descriptions": result.MigratedJobDescriptions,
	})
}

type googleUserInfo struct {
	Sub        string `json:"sub"`
	ID         string `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	Picture    string `json:"picture"`
}

func (s *GoogleService) fetchUserInfo(ctx context.Context, token *oauth2.Token) (googleUserInfo, error) {
	resp, err := s.oauthConfig.Client(ctx, token).Get(s.userInfoURL)
	if err != nil {
		return googleUserInfo{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return googleUserInfo{}, fmt.Errorf("userinfo status %d", resp.StatusCode)
	}
	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return googleUserInfo{}, fmt.Errorf("decode userinfo: %w", err)
	}
	// The v2 endpoint reports the subject as "id".
	if info.Sub == "" {
		info.Sub = info.ID
	}
	if info.Sub == "" {
		return googleUserInfo{}, errors.New("userinfo without subject")
	}
	return info, nil
}

func appendToken(rawURL, token string) (string, error) {
	if rawURL == "" {
		return "", errors.New("redirect url required")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
