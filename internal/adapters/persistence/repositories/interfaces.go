package repositories

import (
	"context"
	"time"

	"rentvideo/internal/adapters/persistence/models"
)

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, offset, limit int) ([]*models.User, int64, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	AddRole(ctx context.Context, user *models.User, role *models.Role) error
	RemoveRole(ctx context.Context, user *models.User, role *models.Role) error
}

// RoleRepository defines role repository interface
type RoleRepository interface {
	GetByName(ctx context.Context, name string) (*models.Role, error)
	Create(ctx context.Context, role *models.Role) error
}

// RefreshTokenRepository defines refresh token repository interface
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, id uint) error
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByUserID(ctx context.Context, userID uint) error
	DeleteExpired(ctx context.Context) error
}

// VideoRepository defines video catalog repository interface.
// TakeCopy and GiveBackCopy are the only writers of AvailableCopies
// during the rental lifecycle; both must run inside the caller's
// transaction.
type VideoRepository interface {
	Create(ctx context.Context, video *models.Video) error
	GetByID(ctx context.Context, id uint) (*models.Video, error)
	Update(ctx context.Context, video *models.Video) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context) ([]*models.Video, error)
	SearchByTitle(ctx context.Context, query string) ([]*models.Video, error)
	SearchByGenre(ctx context.Context, query string) ([]*models.Video, error)
	SearchByDirector(ctx context.Context, query string) ([]*models.Video, error)
	TakeCopy(ctx context.Context, id uint) (bool, error)
	GiveBackCopy(ctx context.Context, id uint) error
}

// RentalRepository defines rental ledger repository interface. Close is
// the only writer of closed rentals; it must run inside the caller's
// transaction.
type RentalRepository interface {
	Create(ctx context.Context, rental *models.Rental) error
	GetByID(ctx context.Context, id uint) (*models.Rental, error)
	Close(ctx context.Context, rental *models.Rental) (bool, error)
	List(ctx context.Context) ([]*models.Rental, error)
	ListByUser(ctx context.Context, userID uint) ([]*models.Rental, error)
	FindOpenByUserAndVideo(ctx context.Context, userID, videoID uint) (*models.Rental, error)
	ExistsOpenByUserAndVideo(ctx context.Context, userID, videoID uint) (bool, error)
	ListOpenOlderThan(ctx context.Context, cutoff time.Time) ([]*models.Rental, error)
}
