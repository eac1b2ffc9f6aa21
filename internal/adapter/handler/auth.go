package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/dealwise/deal-assistant/errors"
	authdto "github.com/dealwise/deal-assistant/internal/adapter/dto/auth"
	"github.com/dealwise/deal-assistant/internal/infrastructure/http/middleware"
	"github.com/dealwise/deal-assistant/internal/usecase/auth"
)

// Auth handles authentication endpoints
type Auth struct {
	service *auth.OAuthService
	logger  *zap.Logger
}

// NewAuth creates a new auth handler
func NewAuth(service *auth.OAuthService, logger *zap.Logger) *Auth {
	return &Auth{service: service, logger: logger}
}

// GoogleLogin redirects the browser to the Google consent screen
func (h *Auth) GoogleLogin(c echo.Context) error {
	url, err := h.service.LoginURL(c.Request().Context())
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return c.Redirect(http.StatusTemporaryRedirect, url)
}

// GoogleCallback finishes the OAuth dance and opens a session
func (h *Auth) GoogleCallback(c echo.Context) error {
	state := c.QueryParam("state")
	code := c.QueryParam("code")
	if state == "" || code == "" {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("Missing state or code"))
	}

	pair, user, err := h.service.HandleCallback(c.Request().Context(), state, code)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	SetAuthCookies(c, pair.AccessToken, pair.RefreshToken, int(pair.ExpiresIn), 0)
	return HandleSuccess(h.logger, c, map[string]interface{}{
		"tokens": pair,
		"user":   user,
	})
}

// RefreshToken rotates a refresh token
func (h *Auth) RefreshToken(c echo.Context) error {
	token := refreshTokenFrom(c)
	if token == "" {
		return HandleError(h.logger, c, errors.ErrInvalidRefreshToken())
	}

	pair, err := h.service.Refresh(c.Request().Context(), token)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	SetAuthCookies(c, pair.AccessToken, pair.RefreshToken, int(pair.ExpiresIn), 0)
	return HandleSuccess(h.logger, c, pair)
}

// Logout revokes the presented refresh token's session
func (h *Auth) Logout(c echo.Context) error {
	token := refreshTokenFrom(c)
	if token != "" {
		if err := h.service.Logout(c.Request().Context(), token); err != nil {
			return HandleError(h.logger, c, err)
		}
	}
	ClearAuthCookies(c)
	return HandleSuccess(h.logger, c, map[string]string{"status": "logged_out"})
}

// Me returns the authenticated user's profile
func (h *Auth) Me(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return HandleError(h.logger, c, errors.ErrUnauthenticated())
	}
	user, err := h.service.Me(c.Request().Context(), userID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, user)
}

func refreshTokenFrom(c echo.Context) string {
	var req authdto.RefreshRequest
	if err := c.Bind(&req); err == nil && req.RefreshToken != "" {
		return req.RefreshToken
	}
	if cookie, err := c.Cookie("refresh_token"); err == nil {
		return cookie.Value
	}
	return ""
}
