package repositories

import (
	"context"
	"time"

	"rentvideo/internal/adapters/persistence/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// rentalRepository implements RentalRepository interface
type rentalRepository struct {
	db *gorm.DB
}

// NewRentalRepository creates a new rental repository
func NewRentalRepository(db *gorm.DB) RentalRepository {
	return &rentalRepository{db: db}
}

// Create creates a new rental
func (r *rentalRepository) Create(ctx context.Context, rental *models.Rental) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(rental).Error
}

// GetByID gets a rental by ID with relations
func (r *rentalRepository) GetByID(ctx context.Context, id uint) (*models.Rental, error) {
	var rental models.Rental
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Video").
		Where("id = ?", id).
		First(&rental).Error
	if err != nil {
		return nil, err
	}
	return &rental, nil
}

// Close stamps the return date and total cost on a rental only while
// it is still open. The guard in the WHERE clause makes the close
// atomic: of two concurrent returns of the same rental, exactly one
// flips return_date. Returns false when the rental was already closed.
func (r *rentalRepository) Close(ctx context.Context, rental *models.Rental) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Rental{}).
		Where("id = ? AND return_date IS NULL", rental.ID).
		Updates(map[string]interface{}{
			"return_date": rental.ReturnDate,
			"total_cost":  rental.TotalCost,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// List lists all rentals
func (r *rentalRepository) List(ctx context.Context) ([]*models.Rental, error) {
	var rentals []*models.Rental
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Video").
		Find(&rentals).Error
	return rentals, err
}

// ListByUser lists rentals for a user
func (r *rentalRepository) ListByUser(ctx context.Context, userID uint) ([]*models.Rental, error) {
	var rentals []*models.Rental
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Video").
		Where("user_id = ?", userID).
		Find(&rentals).Error
	return rentals, err
}

// FindOpenByUserAndVideo finds the unique open rental for a
// (user, video) pair
func (r *rentalRepository) FindOpenByUserAndVideo(ctx context.Context, userID, videoID uint) (*models.Rental, error) {
	var rental models.Rental
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Video").
		Where("user_id = ? AND video_id = ? AND return_date IS NULL", userID, videoID).
		First(&rental).Error
	if err != nil {
		return nil, err
	}
	return &rental, nil
}

// ExistsOpenByUserAndVideo checks whether an open rental exists for a
// (user, video) pair
func (r *rentalRepository) ExistsOpenByUserAndVideo(ctx context.Context, userID, videoID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Rental{}).
		Where("user_id = ? AND video_id = ? AND return_date IS NULL", userID, videoID).
		Count(&count).Error
	return count > 0, err
}

// ListOpenOlderThan lists open rentals whose rental date is on or
// before the cutoff
func (r *rentalRepository) ListOpenOlderThan(ctx context.Context, cutoff time.Time) ([]*models.Rental, error) {
	var rentals []*models.Rental
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Video").
		Where("return_date IS NULL AND rental_date <= ?", cutoff).
		Find(&rentals).Error
	return rentals, err
}
