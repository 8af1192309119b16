package handlers

import (
	"errors"

	"rentvideo/internal/core/services"
	"rentvideo/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// VideoHandler handles video catalog endpoints
type VideoHandler struct {
	videoService *services.VideoService
}

// NewVideoHandler creates a new video handler
func NewVideoHandler(videoService *services.VideoService) *VideoHandler {
	return &VideoHandler{videoService: videoService}
}

// List returns all videos in the catalog
// @Summary List videos
// @Description List all videos in the catalog
// @Tags Videos
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /videos [get]
func (h *VideoHandler) List(c *fiber.Ctx) error {
	videos, err := h.videoService.List(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to list videos")
	}

	return response.Success(c, "Videos retrieved successfully", fiber.Map{
		"videos": videos,
	})
}

// Search finds videos by title
// @Summary Search videos
// @Description Case-insensitive substring search on video titles
// @Tags Videos
// @Produce json
// @Security BearerAuth
// @Param q query string true "Title fragment"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /videos/search [get]
func (h *VideoHandler) Search(c *fiber.Ctx) error {
	query := c.Query("q")

	videos, err := h.videoService.Search(c.Context(), query)
	if err != nil {
		if errors.Is(err, services.ErrInvalidSearchQuery) {
			return response.BadRequest(c, "Search query is required")
		}
		return response.InternalServerError(c, "Failed to search videos")
	}

	return response.Success(c, "Videos retrieved successfully", fiber.Map{
		"videos": videos,
		"query":  query,
	})
}

// GetByID returns a single video
// @Summary Get video
// @Description Get a video by its ID
// @Tags Videos
// @Produce json
// @Security BearerAuth
// @Param id path int true "Video ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /videos/{id} [get]
func (h *VideoHandler) GetByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid video ID")
	}

	video, err := h.videoService.GetByID(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrVideoNotFound) {
			return response.NotFound(c, "Video not found")
		}
		return response.InternalServerError(c, "Failed to get video")
	}

	return response.Success(c, "Video retrieved successfully", fiber.Map{
		"video": video,
	})
}

// Create adds a new video to the catalog
// @Summary Create video
// @Description Add a new video to the catalog (admin only)
// @Tags Videos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateVideoInput true "Video data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /videos [post]
func (h *VideoHandler) Create(c *fiber.Ctx) error {
	var req services.CreateVideoInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	video, err := h.videoService.Create(c.Context(), req)
	if err != nil {
		if msg, ok := videoValidationMessage(err); ok {
			return response.BadRequest(c, msg)
		}
		return response.InternalServerError(c, "Failed to create video")
	}

	return response.Created(c, "Video created successfully", fiber.Map{
		"video": video,
	})
}

// Update modifies an existing video
// @Summary Update video
// @Description Update a video's fields (admin only)
// @Tags Videos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Video ID"
// @Param body body services.UpdateVideoInput true "Fields to update"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /videos/{id} [put]
func (h *VideoHandler) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid video ID")
	}

	var req services.UpdateVideoInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	video, err := h.videoService.Update(c.Context(), uint(id), req)
	if err != nil {
		if errors.Is(err, services.ErrVideoNotFound) {
			return response.NotFound(c, "Video not found")
		}
		if msg, ok := videoValidationMessage(err); ok {
			return response.BadRequest(c, msg)
		}
		return response.InternalServerError(c, "Failed to update video")
	}

	return response.Success(c, "Video updated successfully", fiber.Map{
		"video": video,
	})
}

// Delete removes a video from the catalog
// @Summary Delete video
// @Description Delete a video from the catalog (admin only)
// @Tags Videos
// @Produce json
// @Security BearerAuth
// @Param id path int true "Video ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /videos/{id} [delete]
func (h *VideoHandler) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid video ID")
	}

	if err := h.videoService.Delete(c.Context(), uint(id)); err != nil {
		if errors.Is(err, services.ErrVideoNotFound) {
			return response.NotFound(c, "Video not found")
		}
		return response.InternalServerError(c, "Failed to delete video")
	}

	return response.Success(c, "Video deleted successfully", nil)
}

// videoValidationMessage maps catalog validation errors to messages
func videoValidationMessage(err error) (string, bool) {
	switch {
	case errors.Is(err, services.ErrInvalidVideoInput):
		return "Title, director and genre are required", true
	case errors.Is(err, services.ErrInvalidReleaseYear):
		return "Release year must be 1888 or later", true
	case errors.Is(err, services.ErrNegativeCopies):
		return "Available copies must not be negative", true
	case errors.Is(err, services.ErrNegativeRentalPrice):
		return "Rental price must not be negative", true
	}
	return "", false
}
