package auth

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	apperrors "custcrm/internal/errors"
	"custcrm/internal/model"
)

const (
	// DefaultCookieName carries the session token when none is configured.
	DefaultCookieName = "crm_session"
	// LoginPath is where unauthenticated requests are sent.
	LoginPath = "/login/"

	tokenContextKey = "session_token"
)

// UserFinder loads the account behind a session.
type UserFinder interface {
	FindByID(ctx context.Context, id uint) (*model.User, error)
}

// SessionManager issues session cookies and guards routes with them.
type SessionManager struct {
	jwt          *JWTService
	store        TokenStoreInterface
	users        UserFinder
	cookieName   string
	cookieSecure bool
	log          zerolog.Logger
}

// SessionOptions configures a SessionManager.
type SessionOptions struct {
	CookieName   string
	CookieSecure bool
}

// NewSessionManager creates a session manager.
func NewSessionManager(jwtService *JWTService, store TokenStoreInterface, users UserFinder, opts SessionOptions, log zerolog.Logger) *SessionManager {
	name := opts.CookieName
	if name == "" {
		name = DefaultCookieName
	}
	return &SessionManager{
		jwt:          jwtService,
		store:        store,
		users:        users,
		cookieName:   name,
		cookieSecure: opts.CookieSecure,
		log:          log,
	}
}

// SetCookie writes the session cookie for a freshly issued token.
func (m *SessionManager) SetCookie(c echo.Context, token string, expiresAt time.Time) {
	c.SetCookie(&http.Cookie{
		Name:     m.cookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   m.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie expires the session cookie.
func (m *SessionManager) ClearCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   m.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Middleware rejects requests without a valid, unrevoked session by
// redirecting to the login page, and attaches the Identity to the request
// context otherwise.
func (m *SessionManager) Middleware() echo.MiddlewareFunc {
	gate := echojwt.WithConfig(echojwt.Config{
		SigningKey:  m.jwt.SigningKey(),
		TokenLookup: "cookie:" + m.cookieName,
		ContextKey:  tokenContextKey,
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(Claims)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return m.redirectToLogin(c)
		},
	})

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return gate(m.attachIdentity(next))
	}
}

func (m *SessionManager) attachIdentity(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, ok := c.Get(tokenContextKey).(*jwt.Token)
		if !ok {
			return m.redirectToLogin(c)
		}
		claims, ok := token.Claims.(*Claims)
		if !ok || claims.ID == "" {
			return m.redirectToLogin(c)
		}

		id, err := m.identify(c.Request().Context(), claims)
		if err != nil {
			if !errors.Is(err, apperrors.ErrUnauthenticated) {
				return err
			}
			m.ClearCookie(c)
			return m.redirectToLogin(c)
		}

		c.SetRequest(c.Request().WithContext(WithIdentity(c.Request().Context(), id)))
		return next(c)
	}
}

// Identify resolves the session cookie of a request without enforcing it.
// It returns ErrUnauthenticated when there is no usable session.
func (m *SessionManager) Identify(c echo.Context) (*Identity, error) {
	cookie, err := c.Cookie(m.cookieName)
	if err != nil || cookie.Value == "" {
		return nil, apperrors.ErrUnauthenticated
	}
	claims, err := m.jwt.ValidateToken(cookie.Value)
	if err != nil {
		return nil, apperrors.ErrUnauthenticated
	}
	return m.identify(c.Request().Context(), claims)
}

func (m *SessionManager) identify(ctx context.Context, claims *Claims) (*Identity, error) {
	revoked, err := m.store.IsSessionRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, apperrors.ErrUnauthenticated
	}

	// role changes and deactivation apply to live sessions
	user, err := m.users.FindByID(ctx, claims.UserID)
	if err != nil || user == nil || !user.IsActive {
		if err != nil {
			m.log.Debug().Err(err).Uint("user_id", claims.UserID).Msg("session user not loadable")
		}
		return nil, apperrors.ErrUnauthenticated
	}

	id := &Identity{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role(),
		TokenID:  claims.ID,
	}
	if claims.ExpiresAt != nil {
		id.ExpiresAt = claims.ExpiresAt.Time
	}
	return id, nil
}

func (m *SessionManager) redirectToLogin(c echo.Context) error {
	return c.Redirect(http.StatusFound, LoginPath+"?next="+url.QueryEscape(c.Request().URL.RequestURI()))
}

// RequireRole allows the request only when the session role is one of roles.
func RequireRole(roles ...model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := IdentityFromContext(c.Request().Context())
			if !ok {
				return apperrors.ErrUnauthenticated
			}
			for _, r := range roles {
				if id.Role == r {
					return next(c)
				}
			}
			return apperrors.ErrForbidden
		}
	}
}

// SafeNext returns next when it is a local path, and fallback otherwise.
func SafeNext(next, fallback string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return fallback
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return fallback
	}
	return next
}
