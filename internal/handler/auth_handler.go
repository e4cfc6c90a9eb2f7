package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"custcrm/internal/auth"
	apperrors "custcrm/internal/errors"
	"custcrm/internal/service"
)

// AuthHandler handles login and logout.
type AuthHandler struct {
	authService service.AuthService
	sessions    *auth.SessionManager
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService, sessions *auth.SessionManager) *AuthHandler {
	return &AuthHandler{authService: authService, sessions: sessions}
}

// LoginRequest represents a login form submission.
type LoginRequest struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
	Next     string `form:"next" json:"next"`
}

// LoginFormResponse is the login page state.
type LoginFormResponse struct {
	Error string `json:"error"`
	Next  string `json:"next,omitempty"`
}

// LoginForm godoc
// @Summary Login form state
// @Tags auth
// @Produce json
// @Param next query string false "Local path to return to after login"
// @Success 200 {object} LoginFormResponse
// @Success 302 "Already signed in"
// @Router /login/ [get]
func (h *AuthHandler) LoginForm(c echo.Context) error {
	if _, err := h.sessions.Identify(c); err == nil {
		return c.Redirect(http.StatusFound, customerListPath)
	}
	return c.JSON(http.StatusOK, LoginFormResponse{Next: auth.SafeNext(c.QueryParam("next"), "")})
}

// Login godoc
// @Summary Sign in
// @Description Sets the session cookie and redirects to the customer list, or to next when it is a local path.
// @Tags auth
// @Accept x-www-form-urlencoded
// @Param username formData string true "Username"
// @Param password formData string true "Password"
// @Param next formData string false "Local path to return to"
// @Success 302 "Signed in"
// @Failure 401 {object} errors.ErrorResponse
// @Router /login/ [post]
func (h *AuthHandler) Login(c echo.Context) error {
	if _, err := h.sessions.Identify(c); err == nil {
		return c.Redirect(http.StatusFound, customerListPath)
	}

	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
	}
	if req.Next == "" {
		req.Next = c.QueryParam("next")
	}

	session, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return respondError(err)
	}

	h.sessions.SetCookie(c, session.Token, session.ExpiresAt)
	return c.Redirect(http.StatusFound, auth.SafeNext(req.Next, customerListPath))
}

// Logout godoc
// @Summary Sign out
// @Tags auth
// @Success 302 "Redirect to the login page"
// @Router /logout/ [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	id, _ := auth.IdentityFromContext(c.Request().Context())
	if err := h.authService.Logout(c.Request().Context(), id); err != nil {
		return respondError(err)
	}
	h.sessions.ClearCookie(c)
	return c.Redirect(http.StatusFound, auth.LoginPath)
}
