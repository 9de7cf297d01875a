package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

type LoginRequest struct {
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

type SetPasswordRequest struct {
	Password string `json:"password"`
}

type StatusResponse struct {
	PasswordSet   bool `json:"passwordSet"`
	Authenticated bool `json:"authenticated"`
}

// Handlers provides HTTP handlers for authentication.
type Handlers struct {
	service *Service
}

// NewHandlers creates a new auth handlers instance.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// RegisterRoutes registers auth routes on an Echo group.
func (h *Handlers) RegisterRoutes(g *echo.Group) {
	g.POST("/login", h.Login)
	g.POST("/logout", h.Logout)
	g.GET("/status", h.Status)
	g.POST("/password", h.SetPassword)
}

// Login validates the password and issues a session token.
// POST /api/v1/auth/login
func (h *Handlers) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "password is required")
	}

	if err := h.service.ValidatePassword(req.Password); err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid password")
		case errors.Is(err, ErrNoPasswordSet):
			return echo.NewHTTPError(http.StatusConflict, "no password has been set")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "authentication failed")
	}

	token, err := h.service.GenerateToken()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to generate token")
	}

	return c.JSON(http.StatusOK, LoginResponse{Token: token})
}

// Logout ends the session. Tokens are stateless, so this is a no-op the
// client pairs with discarding its token.
// POST /api/v1/auth/logout
func (h *Handlers) Logout(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"message": "logged out successfully"})
}

// Status reports whether a password is set and whether the caller's
// token is valid.
// GET /api/v1/auth/status
func (h *Handlers) Status(c echo.Context) error {
	resp := StatusResponse{PasswordSet: h.service.IsPasswordSet()}

	if token := bearerToken(c); token != "" {
		if _, err := h.service.ValidateToken(token); err == nil {
			resp.Authenticated = true
		}
	}

	return c.JSON(http.StatusOK, resp)
}

// SetPassword sets the initial password, or changes it for an
// authenticated caller.
// POST /api/v1/auth/password
func (h *Handlers) SetPassword(c echo.Context) error {
	if h.service.IsPasswordSet() {
		token := bearerToken(c)
		if token == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
		}
		if _, err := h.service.ValidateToken(token); err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
		}
	}

	var req SetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := h.service.SetPassword(req.Password); err != nil {
		if errors.Is(err, ErrPasswordRequired) {
			return echo.NewHTTPError(http.StatusBadRequest, "password is required")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to set password")
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "password updated"})
}

// Middleware returns an Echo middleware that requires a valid bearer
// token. Requests are let through while no password is configured so a
// fresh install can be set up.
func (h *Handlers) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !h.service.IsPasswordSet() {
				return next(c)
			}

			token := bearerToken(c)
			if token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			if _, err := h.service.ValidateToken(token); err != nil {
				if errors.Is(err, ErrTokenExpired) {
					return echo.NewHTTPError(http.StatusUnauthorized, "token has expired")
				}
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			return next(c)
		}
	}
}

func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	// WebSocket clients cannot set headers; allow a query token there.
	return c.QueryParam("token")
}
