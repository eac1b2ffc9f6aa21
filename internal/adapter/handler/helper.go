package handler

import (
	stdErrors "errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/dealwise/deal-assistant/errors"
	"github.com/dealwise/deal-assistant/internal/domain/entities"
)

// Response shapes
type success struct {
	Code    interface{} `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type errs struct {
	Code    interface{}       `json:"code,omitempty"`
	Message string            `json:"message,omitempty"`
	Info    string            `json:"info,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// getRequestID tries to read X-Request-ID from the request
func getRequestID(c echo.Context) string {
	if c == nil || c.Request() == nil {
		return ""
	}
	return c.Request().Header.Get("X-Request-ID")
}

// HandleSuccess writes a standardized success response
func HandleSuccess(logger *zap.Logger, c echo.Context, data interface{}) error {
	resp := success{
		Code:    int(errors.ErrorCode_HTTP_OK),
		Message: "success",
		Data:    data,
	}

	if logger != nil {
		logger.Info("http.response.success",
			zap.String("request_id", getRequestID(c)),
			zap.String("path", c.Path()),
		)
	}

	return c.JSON(http.StatusOK, resp)
}

// HandleError centralizes error handling and logging. Domain sentinel errors
// are translated to AppErrors first so usecases never import the HTTP layer.
func HandleError(logger *zap.Logger, c echo.Context, err error) error {
	err = translateDomainError(err)
	reqID := getRequestID(c)

	var appErr errors.AppError
	if stdErrors.As(err, &appErr) {
		if logger != nil {
			logger.Error("http.response.error",
				zap.String("request_id", reqID),
				zap.String("path", c.Path()),
				zap.Any("app_code", appErr.Code),
				zap.Error(err),
			)
		}

		info := ""
		if appErr.Raw != nil {
			info = appErr.Raw.Error()
		}

		return c.JSON(appErr.HTTPCode, errs{
			Code:    appErr.Code,
			Message: appErr.Message,
			Info:    info,
			Details: appErr.Details,
		})
	}

	if logger != nil {
		logger.Error("http.response.error",
			zap.String("request_id", reqID),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
	}

	return c.JSON(http.StatusInternalServerError, errs{
		Code:    errors.ErrorCode_INTERNAL,
		Message: "Internal server error",
		Info:    err.Error(),
	})
}

// translateDomainError maps entities sentinel errors onto transport AppErrors
func translateDomainError(err error) error {
	switch {
	case stdErrors.Is(err, entities.ErrDealNotFound):
		return errors.ErrNotFound("Deal")
	case stdErrors.Is(err, entities.ErrContactNotFound):
		return errors.ErrNotFound("Contact")
	case stdErrors.Is(err, entities.ErrCompetitorNotFound):
		return errors.ErrNotFound("Competitor")
	case stdErrors.Is(err, entities.ErrUserNotFound):
		return errors.ErrUserNotFound()
	case stdErrors.Is(err, entities.ErrNotFound):
		return errors.ErrNotFound("Resource")
	case stdErrors.Is(err, entities.ErrInvalidInput),
		stdErrors.Is(err, entities.ErrInvalidDealStage),
		stdErrors.Is(err, entities.ErrInvalidSegment),
		stdErrors.Is(err, entities.ErrUnknownParameter):
		return errors.ErrInvalidArgument(err.Error())
	case stdErrors.Is(err, entities.ErrScoringConfigCorrupt):
		return errors.ErrScoringConfigInvalid(err.Error())
	case stdErrors.Is(err, entities.ErrInvalidToken),
		stdErrors.Is(err, entities.ErrSessionNotFound),
		stdErrors.Is(err, entities.ErrSessionExpired):
		return errors.ErrInvalidRefreshToken()
	case stdErrors.Is(err, entities.ErrTokenExpired):
		return errors.ErrTokenExpired()
	case stdErrors.Is(err, entities.ErrOAuthStateMismatch):
		return errors.ErrOAuthFailed("google", err)
	case stdErrors.Is(err, entities.ErrUserNotActive):
		return errors.ErrForbidden("Account is deactivated")
	case stdErrors.Is(err, entities.ErrUnauthorized):
		return errors.ErrUnauthenticated()
	default:
		return err
	}
}

// SetAuthCookies stores the token pair as HTTP-only cookies
func SetAuthCookies(c echo.Context, accessToken, refreshToken string, accessMaxAge, refreshMaxAge int) {
	c.SetCookie(&http.Cookie{
		Name:     "access_token",
		Value:    accessToken,
		Path:     "/",
		MaxAge:   accessMaxAge,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
	c.SetCookie(&http.Cookie{
		Name:     "refresh_token",
		Value:    refreshToken,
		Path:     "/v1/auth",
		MaxAge:   refreshMaxAge,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
}

// ClearAuthCookies removes the auth cookies on logout
func ClearAuthCookies(c echo.Context) {
	c.SetCookie(&http.Cookie{Name: "access_token", Value: "", Path: "/", MaxAge: -1})
	c.SetCookie(&http.Cookie{Name: "refresh_token", Value: "", Path: "/v1/auth", MaxAge: -1})
}
