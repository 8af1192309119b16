package services

import (
	"context"
	"errors"
	"time"

	"rentvideo/internal/adapters/persistence/models"
	"rentvideo/internal/adapters/persistence/repositories"

	"gorm.io/gorm"
)

// Rental engine errors
var (
	ErrRentalNotFound    = errors.New("rental not found")
	ErrNoActiveRental    = errors.New("no active rental for this user and video")
	ErrNoAvailableCopies = errors.New("no available copies for this video")
	ErrDuplicateRental   = errors.New("user already has an unreturned copy of this video")
	ErrAlreadyReturned   = errors.New("video already returned")
)

// RentalService is the rental lifecycle engine. Each Rent and Return
// runs as a single database transaction; the store is the sole arbiter
// of mutual exclusion between concurrent requests.
type RentalService struct {
	db         *gorm.DB
	userRepo   repositories.UserRepository
	rentalRepo repositories.RentalRepository

	// now is the clock used for rental and return dates. Overridable
	// in tests to pin billing periods.
	now func() time.Time
}

// NewRentalService creates a new rental service
func NewRentalService(db *gorm.DB) *RentalService {
	return &RentalService{
		db:         db,
		userRepo:   repositories.NewUserRepository(db),
		rentalRepo: repositories.NewRentalRepository(db),
		now:        time.Now,
	}
}

// Rent checks out one copy of a video to a user. Failures are reported
// in precondition order: unknown user, unknown video, no copy
// available, open rental already held for the same video. The copy
// decrement runs as the first statement of the transaction so that
// concurrent checkouts of one video serialize on the row lock; the
// decrement and the rental insert commit together or not at all.
func (s *RentalService) Rent(ctx context.Context, userID, videoID uint) (*models.Rental, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	var rental *models.Rental
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		videoRepo := repositories.NewVideoRepository(tx)
		rentalRepo := repositories.NewRentalRepository(tx)

		// Guarded decrement first. The blocking UPDATE serializes
		// concurrent checkouts of the same video, so the duplicate
		// check below reads a row set that includes every rental a
		// competing transaction committed. It also loses the race
		// cleanly when another transaction took the last copy.
		taken, err := videoRepo.TakeCopy(ctx, videoID)
		if err != nil {
			return err
		}
		if !taken {
			// Distinguish a missing title from an out-of-stock one.
			if _, err := videoRepo.GetByID(ctx, videoID); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrVideoNotFound
				}
				return err
			}
			return ErrNoAvailableCopies
		}

		exists, err := rentalRepo.ExistsOpenByUserAndVideo(ctx, userID, videoID)
		if err != nil {
			return err
		}
		if exists {
			// Rolling back the transaction undoes the decrement.
			return ErrDuplicateRental
		}

		rental = &models.Rental{
			UserID:     userID,
			VideoID:    videoID,
			RentalDate: s.today(),
		}
		return rentalRepo.Create(ctx, rental)
	})
	if err != nil {
		return nil, err
	}

	return s.rentalRepo.GetByID(ctx, rental.ID)
}

// Return closes a rental by its ID, computing the total cost and
// releasing the copy back to the catalog.
func (s *RentalService) Return(ctx context.Context, rentalID uint) (*models.Rental, error) {
	var out *models.Rental
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rentalRepo := repositories.NewRentalRepository(tx)
		videoRepo := repositories.NewVideoRepository(tx)

		rental, err := rentalRepo.GetByID(ctx, rentalID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRentalNotFound
			}
			return err
		}

		if err := s.closeRental(ctx, rentalRepo, videoRepo, rental); err != nil {
			return err
		}
		out = rental
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ReturnByUserAndVideo closes the unique open rental for a
// (user, video) pair.
func (s *RentalService) ReturnByUserAndVideo(ctx context.Context, userID, videoID uint) (*models.Rental, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	var out *models.Rental
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rentalRepo := repositories.NewRentalRepository(tx)
		videoRepo := repositories.NewVideoRepository(tx)

		if _, err := videoRepo.GetByID(ctx, videoID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrVideoNotFound
			}
			return err
		}

		rental, err := rentalRepo.FindOpenByUserAndVideo(ctx, userID, videoID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNoActiveRental
			}
			return err
		}

		if err := s.closeRental(ctx, rentalRepo, videoRepo, rental); err != nil {
			return err
		}
		out = rental
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// closeRental sets the return date and total cost on an open rental and
// gives the copy back. Must run inside the caller's transaction.
func (s *RentalService) closeRental(ctx context.Context, rentalRepo repositories.RentalRepository, videoRepo repositories.VideoRepository, rental *models.Rental) error {
	if rental.ReturnDate != nil {
		return ErrAlreadyReturned
	}

	today := s.today()
	days := daysBetween(rental.RentalDate, today)
	if days == 0 {
		// Same-day returns are billed a flat minimum of one day.
		days = 1
	}

	// The video row can be gone if the catalog deleted it while the
	// rental was open; bill nothing rather than fail the return.
	price := 0.0
	if rental.Video != nil {
		price = rental.Video.RentalPrice
	}
	cost := float64(days) * price

	rental.ReturnDate = &today
	rental.TotalCost = &cost

	// Guarded close: only the writer that flips return_date from NULL
	// gives the copy back. A concurrent return that read the rental
	// while it was still open loses here instead of incrementing the
	// count a second time.
	closed, err := rentalRepo.Close(ctx, rental)
	if err != nil {
		return err
	}
	if !closed {
		return ErrAlreadyReturned
	}
	return videoRepo.GiveBackCopy(ctx, rental.VideoID)
}

// GetAllRentals lists all rentals
func (s *RentalService) GetAllRentals(ctx context.Context) ([]*models.Rental, error) {
	return s.rentalRepo.List(ctx)
}

// GetRentalsByUser lists rentals for a user
func (s *RentalService) GetRentalsByUser(ctx context.Context, userID uint) ([]*models.Rental, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return s.rentalRepo.ListByUser(ctx, userID)
}

// GetRentalByID gets a rental by ID
func (s *RentalService) GetRentalByID(ctx context.Context, id uint) (*models.Rental, error) {
	rental, err := s.rentalRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRentalNotFound
		}
		return nil, err
	}
	return rental, nil
}

// today returns the current date from the service clock
func (s *RentalService) today() time.Time {
	t := s.now()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// daysBetween returns the civil-calendar day difference between two
// dates, ignoring the time of day.
func daysBetween(from, to time.Time) int {
	f := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	t := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(t.Sub(f).Hours() / 24)
}
