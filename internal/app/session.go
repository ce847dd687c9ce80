package app

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/stolasapp/tracker/internal/sec"
)

// CookieName is the name of the cookie carrying the session token.
const CookieName = "tracker_session"

type cookieConfig struct {
	secure bool
	maxAge time.Duration
}

func (cfg cookieConfig) set(c echo.Context, session sec.Session) {
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpireTime,
		MaxAge:   int(cfg.maxAge.Seconds()),
		Secure:   cfg.secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (cfg cookieConfig) clear(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Path:     "/",
		MaxAge:   -1,
		Secure:   cfg.secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func sessionToken(c echo.Context) string {
	cookie, err := c.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// requireSession rejects requests without a valid session and attaches the
// caller's identity to the request context.
func requireSession(sessions *sec.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			id, err := sessions.Resolve(req.Context(), sessionToken(c))
			if err != nil {
				return err
			}
			c.SetRequest(req.WithContext(sec.SetIdentity(req.Context(), id)))
			return next(c)
		}
	}
}
