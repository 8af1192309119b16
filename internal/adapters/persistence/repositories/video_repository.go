package repositories

import (
	"context"

	"rentvideo/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// videoRepository implements VideoRepository interface
type videoRepository struct {
	db *gorm.DB
}

// NewVideoRepository creates a new video repository
func NewVideoRepository(db *gorm.DB) VideoRepository {
	return &videoRepository{db: db}
}

// Create creates a new video
func (r *videoRepository) Create(ctx context.Context, video *models.Video) error {
	return r.db.WithContext(ctx).Create(video).Error
}

// GetByID gets a video by ID
func (r *videoRepository) GetByID(ctx context.Context, id uint) (*models.Video, error) {
	var video models.Video
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&video).Error
	if err != nil {
		return nil, err
	}
	return &video, nil
}

// Update updates a video
func (r *videoRepository) Update(ctx context.Context, video *models.Video) error {
	return r.db.WithContext(ctx).Save(video).Error
}

// Delete deletes a video
func (r *videoRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Video{}, id).Error
}

// List lists all videos
func (r *videoRepository) List(ctx context.Context) ([]*models.Video, error) {
	var videos []*models.Video
	err := r.db.WithContext(ctx).Find(&videos).Error
	return videos, err
}

// SearchByTitle finds videos whose title contains the query, case-insensitive
func (r *videoRepository) SearchByTitle(ctx context.Context, query string) ([]*models.Video, error) {
	var videos []*models.Video
	err := r.db.WithContext(ctx).
		Where("LOWER(title) LIKE LOWER(?)", "%"+query+"%").
		Find(&videos).Error
	return videos, err
}

// SearchByGenre finds videos whose genre contains the query, case-insensitive
func (r *videoRepository) SearchByGenre(ctx context.Context, query string) ([]*models.Video, error) {
	var videos []*models.Video
	err := r.db.WithContext(ctx).
		Where("LOWER(genre) LIKE LOWER(?)", "%"+query+"%").
		Find(&videos).Error
	return videos, err
}

// SearchByDirector finds videos whose director contains the query, case-insensitive
func (r *videoRepository) SearchByDirector(ctx context.Context, query string) ([]*models.Video, error) {
	var videos []*models.Video
	err := r.db.WithContext(ctx).
		Where("LOWER(director) LIKE LOWER(?)", "%"+query+"%").
		Find(&videos).Error
	return videos, err
}

// TakeCopy decrements the available-copy count by one. The guard in
// the WHERE clause makes the decrement atomic: two concurrent takes of
// the last copy cannot both succeed, and the count cannot go negative.
// Returns false when no copy was available.
func (r *videoRepository) TakeCopy(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Video{}).
		Where("id = ? AND available_copies > 0", id).
		UpdateColumn("available_copies", gorm.Expr("available_copies - 1"))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// GiveBackCopy increments the available-copy count by one
func (r *videoRepository) GiveBackCopy(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Model(&models.Video{}).
		Where("id = ?", id).
		UpdateColumn("available_copies", gorm.Expr("available_copies + 1")).Error
}
