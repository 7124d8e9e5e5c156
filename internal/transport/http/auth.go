package http

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/antbox/antbox/internal/authctx"
	"github.com/antbox/antbox/internal/result"
)

const principalContextKey = "antbox.authctx"

// authMiddleware extracts a bearer token into an authctx.Context and
// stores it on the echo.Context. Requests with no Authorization header
// proceed as the anonymous principal; NodeService's own permission
// checks decide whether the anonymous principal may perform the
// requested operation via the anonymous permission vector. A header that
// is not a Bearer token, or a token that fails validation, is rejected
// with UnauthorizedError.
func (s *Server) authMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := authctx.Anonymous(c.Request().Header.Get("X-Tenant"))

		if header := c.Request().Header.Get(echo.HeaderAuthorization); header != "" {
			if !strings.HasPrefix(header, "Bearer ") {
				return result.Unauthorized("malformed authorization header")
			}
			tok := strings.TrimPrefix(header, "Bearer ")
			resolved, rerr := s.Tokens.ValidateToken(tok)
			if rerr != nil {
				return rerr
			}
			ctx = resolved
		}

		c.Set(principalContextKey, ctx)
		return next(c)
	}
}

func authFrom(c echo.Context) authctx.Context {
	if ctx, ok := c.Get(principalContextKey).(authctx.Context); ok {
		return ctx
	}
	return authctx.Anonymous("")
}
