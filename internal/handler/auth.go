package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/taskboard/internal/apperr"
	"github.com/iliyamo/taskboard/internal/auth"
	"github.com/iliyamo/taskboard/internal/config"
	"github.com/iliyamo/taskboard/internal/middleware"
	"github.com/iliyamo/taskboard/internal/model"
	"github.com/iliyamo/taskboard/internal/queue"
	"github.com/iliyamo/taskboard/internal/repository"
	"github.com/iliyamo/taskboard/internal/utils"
)

// AuthHandler bundles dependencies for the signup/login/logout endpoints.
type AuthHandler struct {
	Cfg      config.Config
	Users    *repository.UserRepo
	Sessions *auth.Service
}

func NewAuthHandler(cfg config.Config, users *repository.UserRepo, sessions *auth.Service) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: users, Sessions: sessions}
}

// ----- DTOs -----

type signupReq struct {
	Name     string `json:"name" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type loginReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Signup validates the input shape before any storage access, stores the
// user with a hashed password and returns only non-sensitive fields.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupReq
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("Invalid request body", nil)
	}
	req.Email = strings.TrimSpace(req.Email)
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	hash, err := h.Sessions.HashPassword(req.Password)
	if err != nil {
		return apperr.Internal(err)
	}
	// Signups always start as USER; the road to ADMIN goes through an
	// admin-issued patch.
	uid, err := h.Users.Create(ctx, req.Name, req.Email, hash, model.RoleUser)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return apperr.BadRequest("User already exists!", apperr.CodeUserAlreadyExists)
		}
		return apperr.Internal(err)
	}

	publishAudit(queue.AuditEvent{Type: queue.EventUserSignedUp, UserID: uid, Email: req.Email})

	return c.JSON(http.StatusCreated, echo.Map{
		"email": req.Email,
		"role":  model.RoleUser,
	})
}

// Login checks credentials and delivers a fresh session credential via the
// session cookie. Unknown email and wrong password stay externally
// distinguishable, matching the current API contract.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("Invalid request body", nil)
	}
	req.Email = strings.TrimSpace(req.Email)
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Sessions.VerifyCredentials(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUserNotFound):
			return apperr.NotFound("User does not exists!", apperr.CodeUserNotFound)
		case errors.Is(err, auth.ErrBadPassword):
			return apperr.BadRequest("Incorrect password!", apperr.CodeIncorrectPassword)
		default:
			return apperr.Internal(err)
		}
	}

	signed, err := h.Sessions.IssueToken(ctx, u)
	if err != nil {
		return apperr.Internal(err)
	}

	c.SetCookie(h.sessionCookie(signed, int(utils.SessionTTL/time.Second)))

	publishAudit(queue.AuditEvent{Type: queue.EventUserLoggedIn, UserID: u.ID, Email: u.Email})

	return c.JSON(http.StatusOK, echo.Map{
		"userId":  u.ID,
		"message": "Login success",
	})
}

// Logout revokes the session token resolved by the authentication
// middleware and clears the cookie. A credential whose active row is gone
// already is a token-not-found condition, not a user-not-found one.
func (h *AuthHandler) Logout(c echo.Context) error {
	id, ok := auth.IdentityFrom(c)
	if !ok {
		return apperr.Unauthorized()
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Sessions.RevokeToken(ctx, id.Key, id.TokenID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("Token does not exists!", apperr.CodeTokenNotFound)
		}
		return apperr.Internal(err)
	}

	c.SetCookie(h.sessionCookie("", -1))

	publishAudit(queue.AuditEvent{Type: queue.EventUserLoggedOut, UserID: id.UserID})

	return c.JSON(http.StatusCreated, echo.Map{
		"userId":  id.UserID,
		"message": "Logout success",
	})
}

// sessionCookie builds the one session transport cookie. Secure is tied to
// the prod runtime mode so local development over plain HTTP keeps working.
func (h *AuthHandler) sessionCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.Cfg.IsProd(),
	}
}

// publishAudit fires a best-effort audit event without blocking the
// request; a dead broker only costs a warning log.
func publishAudit(ev queue.AuditEvent) {
	ev.At = time.Now().UTC()
	go func() { _ = queue.PublishAudit(context.Background(), ev) }()
}
