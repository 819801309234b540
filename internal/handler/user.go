package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/taskboard/internal/apperr"
	"github.com/iliyamo/taskboard/internal/auth"
	"github.com/iliyamo/taskboard/internal/model"
	"github.com/iliyamo/taskboard/internal/repository"
)

// UserHandler serves the admin-only user management endpoints. Routes are
// guarded by SessionAuth plus RequireAdmin in the router.
type UserHandler struct {
	Users  *repository.UserRepo
	Hasher sessionHasher
}

// sessionHasher is the narrow dependency the patch flow needs: re-hashing
// a password when the patch carries a new one.
type sessionHasher interface {
	HashPassword(plain string) (string, error)
}

func NewUserHandler(users *repository.UserRepo, hasher sessionHasher) *UserHandler {
	return &UserHandler{Users: users, Hasher: hasher}
}

// userResponse is the public shape of a user; the password hash never
// leaves the server.
type userResponse struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Deleted   bool      `json:"deleted"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toUserResponse(u model.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		Deleted:   u.Deleted,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// userPatchReq is the validated partial patch an admin may apply. Absent
// fields leave the stored values untouched.
type userPatchReq struct {
	Name     *string `json:"name" validate:"omitempty,min=3"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Password *string `json:"password" validate:"omitempty,min=6"`
	Role     *string `json:"role" validate:"omitempty,oneof=USER ADMIN"`
	Deleted  *bool   `json:"deleted"`
}

// List returns users. Soft-deleted accounts are hidden unless the caller
// asks for them with ?deleted=true.
func (h *UserHandler) List(c echo.Context) error {
	var filter *bool
	if q := c.QueryParam("deleted"); q != "" {
		v, err := strconv.ParseBool(q)
		if err != nil {
			return apperr.Validation("Invalid deleted filter", nil)
		}
		filter = &v
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	users, err := h.Users.List(ctx, filter)
	if err != nil {
		return apperr.Internal(err)
	}
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	return c.JSON(http.StatusOK, out)
}

// Find returns a single live user by id.
func (h *UserHandler) Find(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, id, false)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("User not found", apperr.CodeUserNotFound)
		}
		return apperr.Internal(err)
	}
	return c.JSON(http.StatusOK, toUserResponse(u))
}

// Update applies a partial patch to a user. An admin removing their own
// ADMIN role is rejected before any write so lockout by self-demotion is
// impossible; the password is re-hashed only when the patch carries a new
// plaintext.
func (h *UserHandler) Update(c echo.Context) error {
	ident, ok := auth.IdentityFrom(c)
	if !ok {
		return apperr.Unauthorized()
	}
	targetID, err := pathID(c)
	if err != nil {
		return err
	}

	var patch userPatchReq
	if err := c.Bind(&patch); err != nil {
		return apperr.Validation("Invalid request body", nil)
	}
	if err := c.Validate(&patch); err != nil {
		return err
	}

	if ident.UserID == targetID && patch.Role != nil && *patch.Role != model.RoleAdmin {
		return apperr.BadRequest("You cannot demote yourself", apperr.CodeSelfDemotion)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	// Deleted rows stay patchable so an admin can restore an account by
	// clearing the flag.
	existing, err := h.Users.GetByID(ctx, targetID, true)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("User not found", apperr.CodeUserNotFound)
		}
		return apperr.Internal(err)
	}

	updated := existing
	if patch.Name != nil {
		updated.Name = *patch.Name
	}
	if patch.Email != nil {
		updated.Email = *patch.Email
	}
	if patch.Role != nil {
		updated.Role = *patch.Role
	}
	if patch.Deleted != nil {
		updated.Deleted = *patch.Deleted
	}
	if patch.Password != nil {
		hash, err := h.Hasher.HashPassword(*patch.Password)
		if err != nil {
			return apperr.Internal(err)
		}
		updated.Password = hash
	}

	if err := h.Users.Update(ctx, updated); err != nil {
		return apperr.Internal(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "User updated",
		"user":    toUserResponse(updated),
	})
}

// Delete soft-deletes a user; the row stays in storage with the flag set.
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("User not found", apperr.CodeUserNotFound)
		}
		return apperr.Internal(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "User deleted"})
}

// pathID parses the numeric :id path parameter.
func pathID(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.Validation("Invalid id parameter", nil)
	}
	return id, nil
}
