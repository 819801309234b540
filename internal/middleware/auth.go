package middleware // package middleware contains reusable HTTP middleware functions

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/taskboard/internal/apperr"
	"github.com/iliyamo/taskboard/internal/auth"
	"github.com/iliyamo/taskboard/internal/repository"
	"github.com/iliyamo/taskboard/internal/utils"
)

// SessionCookie is the single transport for session credentials. Login
// sets it, logout clears it and this middleware reads it; the
// Authorization header is never consulted, so issuance and verification
// can not drift apart.
const SessionCookie = "jwt"

// SessionAuth returns an Echo middleware that authenticates the request
// from the session cookie. The credential must carry a valid HS256
// signature, an unexpired exp claim, and match an active token row stored
// for the claimed subject. On success the resolved identity is attached to
// the request context for downstream consumption.
//
// Every failure mode (missing cookie, bad signature, elapsed expiry,
// malformed claims, absent or revoked row) yields the identical
// unauthorized response so the reason never leaks to the caller.
func SessionAuth(secret string, tokens *repository.TokenRepo) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(SessionCookie)
			if err != nil || cookie.Value == "" {
				return apperr.Unauthorized()
			}

			claims, err := utils.ParseSessionToken(secret, cookie.Value)
			if err != nil {
				return apperr.Unauthorized()
			}

			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()

			// The signature alone is not enough: the token must still be
			// present and active in storage, otherwise a logged-out
			// credential would keep working until its expiry.
			row, err := tokens.FindActive(ctx, claims.UserID, cookie.Value)
			if err != nil {
				// Storage failures are deliberately folded into the same
				// unauthorized outcome as a missing row.
				return apperr.Unauthorized()
			}

			auth.SetIdentity(c, auth.Identity{
				UserID:  claims.UserID,
				Name:    claims.Name,
				Role:    claims.Role,
				TokenID: row.ID,
				Key:     row.Key,
			})
			return next(c)
		}
	}
}
