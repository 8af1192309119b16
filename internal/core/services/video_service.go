package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"rentvideo/internal/adapters/persistence/models"
	"rentvideo/internal/adapters/persistence/repositories"

	"gorm.io/gorm"
)

// Video catalog errors
var (
	ErrVideoNotFound       = errors.New("video not found")
	ErrInvalidVideoInput   = errors.New("invalid video input")
	ErrInvalidSearchQuery  = errors.New("search query must not be empty")
	ErrInvalidReleaseYear  = errors.New("release year must be 1888 or later")
	ErrNegativeCopies      = errors.New("available copies must not be negative")
	ErrNegativeRentalPrice = errors.New("rental price must not be negative")
)

// VideoService handles video catalog operations
type VideoService struct {
	videoRepo repositories.VideoRepository
}

// NewVideoService creates a new video service
func NewVideoService(db *gorm.DB) *VideoService {
	return &VideoService{
		videoRepo: repositories.NewVideoRepository(db),
	}
}

// CreateVideoInput represents input for creating a video
type CreateVideoInput struct {
	Title           string  `json:"title"`
	Director        string  `json:"director"`
	Genre           string  `json:"genre"`
	ReleaseYear     int     `json:"release_year"`
	AvailableCopies int     `json:"available_copies"`
	RentalPrice     float64 `json:"rental_price"`
}

// UpdateVideoInput represents input for updating a video. Every
// mutable field is overwritten with the supplied value.
type UpdateVideoInput = CreateVideoInput

// Create adds a new video to the catalog
func (s *VideoService) Create(ctx context.Context, input CreateVideoInput) (*models.Video, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Director = strings.TrimSpace(input.Director)
	input.Genre = strings.TrimSpace(input.Genre)

	if input.Title == "" || input.Director == "" || input.Genre == "" {
		return nil, ErrInvalidVideoInput
	}
	if err := validateVideoNumbers(input.ReleaseYear, input.AvailableCopies, input.RentalPrice); err != nil {
		return nil, err
	}

	video := &models.Video{
		Title:           input.Title,
		Director:        input.Director,
		Genre:           input.Genre,
		ReleaseYear:     input.ReleaseYear,
		AvailableCopies: input.AvailableCopies,
		RentalPrice:     input.RentalPrice,
	}

	if err := s.videoRepo.Create(ctx, video); err != nil {
		return nil, err
	}
	return video, nil
}

// GetByID gets a video by ID
func (s *VideoService) GetByID(ctx context.Context, id uint) (*models.Video, error) {
	video, err := s.videoRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVideoNotFound
		}
		return nil, err
	}
	return video, nil
}

// List lists all videos in the catalog
func (s *VideoService) List(ctx context.Context) ([]*models.Video, error) {
	return s.videoRepo.List(ctx)
}

// Search finds videos whose title contains the query,
// case-insensitively.
func (s *VideoService) Search(ctx context.Context, query string) ([]*models.Video, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrInvalidSearchQuery
	}
	return s.videoRepo.SearchByTitle(ctx, query)
}

// Update overwrites every mutable field of an existing video.
// AvailableCopies may be set freely here; the rental endpoints are the
// only place the count is guarded against open rentals.
func (s *VideoService) Update(ctx context.Context, id uint, input UpdateVideoInput) (*models.Video, error) {
	video, err := s.videoRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVideoNotFound
		}
		return nil, err
	}

	input.Title = strings.TrimSpace(input.Title)
	input.Director = strings.TrimSpace(input.Director)
	input.Genre = strings.TrimSpace(input.Genre)

	if input.Title == "" || input.Director == "" || input.Genre == "" {
		return nil, ErrInvalidVideoInput
	}
	if err := validateVideoNumbers(input.ReleaseYear, input.AvailableCopies, input.RentalPrice); err != nil {
		return nil, err
	}

	video.Title = input.Title
	video.Director = input.Director
	video.Genre = input.Genre
	video.ReleaseYear = input.ReleaseYear
	video.AvailableCopies = input.AvailableCopies
	video.RentalPrice = input.RentalPrice

	if err := s.videoRepo.Update(ctx, video); err != nil {
		return nil, err
	}
	return video, nil
}

// Delete removes a video from the catalog. Rental history rows keep
// their video_id, so past rentals still resolve for reporting.
func (s *VideoService) Delete(ctx context.Context, id uint) error {
	if _, err := s.videoRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrVideoNotFound
		}
		return err
	}
	return s.videoRepo.Delete(ctx, id)
}

// validateVideoNumbers validates the numeric video fields. 1888 is the
// year of the oldest surviving film.
func validateVideoNumbers(year, copies int, price float64) error {
	if year < 1888 || year > time.Now().Year()+1 {
		return ErrInvalidReleaseYear
	}
	if copies < 0 {
		return ErrNegativeCopies
	}
	if price < 0 {
		return ErrNegativeRentalPrice
	}
	return nil
}
