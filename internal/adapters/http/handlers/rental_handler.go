package handlers

import (
	"errors"

	"rentvideo/internal/adapters/http/middleware"
	"rentvideo/internal/adapters/persistence/models"
	"rentvideo/internal/core/services"
	"rentvideo/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// RentalHandler handles rental lifecycle endpoints
type RentalHandler struct {
	rentalService *services.RentalService
}

// NewRentalHandler creates a new rental handler
func NewRentalHandler(rentalService *services.RentalService) *RentalHandler {
	return &RentalHandler{rentalService: rentalService}
}

// RentRequest represents a checkout request body
type RentRequest struct {
	VideoID uint `json:"video_id"`
}

// ReturnRequest represents a return-by-video request body
type ReturnRequest struct {
	VideoID uint `json:"video_id"`
}

// Rent checks out a video for the authenticated user
// @Summary Rent a video
// @Description Check out one copy of a video for the current user
// @Tags Rentals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body RentRequest true "Video to rent"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /rentals [post]
func (h *RentalHandler) Rent(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req RentRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.VideoID == 0 {
		return response.BadRequest(c, "Video ID is required")
	}

	rental, err := h.rentalService.Rent(c.Context(), userID, req.VideoID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			return response.NotFound(c, "User not found")
		case errors.Is(err, services.ErrVideoNotFound):
			return response.NotFound(c, "Video not found")
		case errors.Is(err, services.ErrNoAvailableCopies):
			return response.Conflict(c, "No copies of this video are available")
		case errors.Is(err, services.ErrDuplicateRental):
			return response.Conflict(c, "You already have an unreturned copy of this video")
		default:
			return response.InternalServerError(c, "Failed to rent video")
		}
	}

	return response.Created(c, "Video rented successfully", fiber.Map{
		"rental": rental.ToResponse(),
	})
}

// Return closes the authenticated user's open rental for a video
// @Summary Return a video
// @Description Return the current user's open rental for a video
// @Tags Rentals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ReturnRequest true "Video to return"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /rentals/return [post]
func (h *RentalHandler) Return(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req ReturnRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.VideoID == 0 {
		return response.BadRequest(c, "Video ID is required")
	}

	rental, err := h.rentalService.ReturnByUserAndVideo(c.Context(), userID, req.VideoID)
	if err != nil {
		return h.returnError(c, err)
	}

	return response.Success(c, "Video returned successfully", fiber.Map{
		"rental": rental.ToResponse(),
	})
}

// ReturnByID closes a rental by its ID. Admins may close any rental;
// users only their own.
// @Summary Return a rental by ID
// @Description Close an open rental by its rental ID
// @Tags Rentals
// @Produce json
// @Security BearerAuth
// @Param id path int true "Rental ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /rentals/{id}/return [post]
func (h *RentalHandler) ReturnByID(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid rental ID")
	}

	rental, err := h.rentalService.GetRentalByID(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrRentalNotFound) {
			return response.NotFound(c, "Rental not found")
		}
		return response.InternalServerError(c, "Failed to return video")
	}

	if rental.UserID != userID && !middleware.IsAdmin(c) {
		return response.Forbidden(c, "You can only return your own rentals")
	}

	rental, err = h.rentalService.Return(c.Context(), uint(id))
	if err != nil {
		return h.returnError(c, err)
	}

	return response.Success(c, "Video returned successfully", fiber.Map{
		"rental": rental.ToResponse(),
	})
}

// GetByID returns a single rental. Admins may view any rental; users
// only their own.
// @Summary Get rental
// @Description Get a rental by its ID
// @Tags Rentals
// @Produce json
// @Security BearerAuth
// @Param id path int true "Rental ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /rentals/{id} [get]
func (h *RentalHandler) GetByID(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid rental ID")
	}

	rental, err := h.rentalService.GetRentalByID(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrRentalNotFound) {
			return response.NotFound(c, "Rental not found")
		}
		return response.InternalServerError(c, "Failed to get rental")
	}

	if rental.UserID != userID && !middleware.IsAdmin(c) {
		return response.Forbidden(c, "You can only view your own rentals")
	}

	return response.Success(c, "Rental retrieved successfully", fiber.Map{
		"rental": rental.ToResponse(),
	})
}

// List returns all rentals (admin only)
// @Summary List all rentals
// @Description List every rental in the system (admin only)
// @Tags Rentals
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /rentals [get]
func (h *RentalHandler) List(c *fiber.Ctx) error {
	rentals, err := h.rentalService.GetAllRentals(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to list rentals")
	}

	return response.Success(c, "Rentals retrieved successfully", fiber.Map{
		"rentals": toRentalResponses(rentals),
	})
}

// ListMine returns the authenticated user's rentals
// @Summary List my rentals
// @Description List the current user's rental history
// @Tags Rentals
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /rentals/me [get]
func (h *RentalHandler) ListMine(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	rentals, err := h.rentalService.GetRentalsByUser(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to list rentals")
	}

	return response.Success(c, "Rentals retrieved successfully", fiber.Map{
		"rentals": toRentalResponses(rentals),
	})
}

// ListByUser returns a user's rentals. Admins may view any user; users
// only themselves.
// @Summary List rentals by user
// @Description List a user's rental history
// @Tags Rentals
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /rentals/user/{id} [get]
func (h *RentalHandler) ListByUser(c *fiber.Ctx) error {
	authUserID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid user ID")
	}

	if uint(id) != authUserID && !middleware.IsAdmin(c) {
		return response.Forbidden(c, "You can only view your own rentals")
	}

	rentals, err := h.rentalService.GetRentalsByUser(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to list rentals")
	}

	return response.Success(c, "Rentals retrieved successfully", fiber.Map{
		"rentals": toRentalResponses(rentals),
	})
}

// returnError maps return-path service errors to HTTP responses
func (h *RentalHandler) returnError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrUserNotFound):
		return response.NotFound(c, "User not found")
	case errors.Is(err, services.ErrVideoNotFound):
		return response.NotFound(c, "Video not found")
	case errors.Is(err, services.ErrRentalNotFound):
		return response.NotFound(c, "Rental not found")
	case errors.Is(err, services.ErrNoActiveRental):
		return response.NotFound(c, "No active rental for this video")
	case errors.Is(err, services.ErrAlreadyReturned):
		return response.Conflict(c, "Video already returned")
	default:
		return response.InternalServerError(c, "Failed to return video")
	}
}

// toRentalResponses converts rentals to response DTOs
func toRentalResponses(rentals []*models.Rental) []*models.RentalResponse {
	out := make([]*models.RentalResponse, len(rentals))
	for i, r := range rentals {
		out[i] = r.ToResponse()
	}
	return out
}
