package handlers

import (
	"errors"

	"rentvideo/internal/adapters/http/middleware"
	"rentvideo/internal/adapters/persistence/models"
	"rentvideo/internal/core/services"
	"rentvideo/internal/pkg/pagination"
	"rentvideo/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles user management endpoints
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// UpdateEmailRequest represents an email change request body
type UpdateEmailRequest struct {
	Email string `json:"email"`
}

// RoleRequest represents a role assignment request body
type RoleRequest struct {
	Role string `json:"role"`
}

// List returns users with pagination (admin only)
// @Summary List users
// @Description List user accounts with pagination (admin only)
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Router /users [get]
func (h *UserHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	users, total, err := h.userService.List(c.Context(), params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list users")
	}

	responses := make([]*models.UserResponse, len(users))
	for i, u := range users {
		responses[i] = u.ToResponse()
	}

	return response.Success(c, "Users retrieved successfully", pagination.NewResponse(responses, params, total))
}

// GetByID returns a single user. Admins may view any user; users only
// themselves.
// @Summary Get user
// @Description Get a user account by ID
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{id} [get]
func (h *UserHandler) GetByID(c *fiber.Ctx) error {
	authUserID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid user ID")
	}

	if uint(id) != authUserID && !middleware.IsAdmin(c) {
		return response.Forbidden(c, "You can only view your own account")
	}

	user, err := h.userService.GetByID(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to get user")
	}

	return response.Success(c, "User retrieved successfully", fiber.Map{
		"user": user.ToResponse(),
	})
}

// UpdateEmail changes a user's email address. Admins may change any
// user; users only themselves.
// @Summary Update email
// @Description Change a user's email address
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param body body UpdateEmailRequest true "New email"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /users/{id}/email [put]
func (h *UserHandler) UpdateEmail(c *fiber.Ctx) error {
	authUserID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid user ID")
	}

	if uint(id) != authUserID && !middleware.IsAdmin(c) {
		return response.Forbidden(c, "You can only update your own account")
	}

	var req UpdateEmailRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	user, err := h.userService.UpdateEmail(c.Context(), uint(id), req.Email)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			return response.NotFound(c, "User not found")
		case errors.Is(err, services.ErrInvalidEmail):
			return response.BadRequest(c, "Invalid email address")
		case errors.Is(err, services.ErrEmailTaken):
			return response.Conflict(c, "Email already registered")
		default:
			return response.InternalServerError(c, "Failed to update email")
		}
	}

	return response.Success(c, "Email updated successfully", fiber.Map{
		"user": user.ToResponse(),
	})
}

// Delete removes a user account (admin only)
// @Summary Delete user
// @Description Delete a user account (admin only)
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{id} [delete]
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid user ID")
	}

	if err := h.userService.Delete(c.Context(), uint(id)); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to delete user")
	}

	return response.Success(c, "User deleted successfully", nil)
}

// AssignRole grants a role to a user (admin only)
// @Summary Assign role
// @Description Grant a role to a user (admin only)
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param body body RoleRequest true "Role name"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{id}/roles [post]
func (h *UserHandler) AssignRole(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid user ID")
	}

	var req RoleRequest
	if err := c.BodyParser(&req); err != nil || req.Role == "" {
		return response.BadRequest(c, "Role is required")
	}

	user, err := h.userService.AssignRole(c.Context(), uint(id), req.Role)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			return response.NotFound(c, "User not found")
		case errors.Is(err, services.ErrRoleNotFound):
			return response.NotFound(c, "Role not found")
		default:
			return response.InternalServerError(c, "Failed to assign role")
		}
	}

	return response.Success(c, "Role assigned successfully", fiber.Map{
		"user": user.ToResponse(),
	})
}

// RemoveRole revokes a role from a user (admin only)
// @Summary Remove role
// @Description Revoke a role from a user (admin only)
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param body body RoleRequest true "Role name"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{id}/roles [delete]
func (h *UserHandler) RemoveRole(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid user ID")
	}

	var req RoleRequest
	if err := c.BodyParser(&req); err != nil || req.Role == "" {
		return response.BadRequest(c, "Role is required")
	}

	user, err := h.userService.RemoveRole(c.Context(), uint(id), req.Role)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			return response.NotFound(c, "User not found")
		case errors.Is(err, services.ErrRoleNotFound):
			return response.NotFound(c, "Role not found")
		default:
			return response.InternalServerError(c, "Failed to remove role")
		}
	}

	return response.Success(c, "Role removed successfully", fiber.Map{
		"user": user.ToResponse(),
	})
}
