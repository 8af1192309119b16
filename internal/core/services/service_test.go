package services

import (
	"context"
	"testing"

	"rentvideo/internal/adapters/persistence/models"
	"rentvideo/internal/adapters/persistence/repositories"
	"rentvideo/internal/core/domain"
	"rentvideo/internal/pkg/password"

	"github.com/stretchr/testify/require"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an in-memory sqlite database. The pool is limited to
// a single connection so concurrent transactions serialize instead of
// hitting locked-database errors.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, models.AutoMigrate(db))

	for _, name := range []string{string(domain.RoleUser), string(domain.RoleAdmin)} {
		require.NoError(t, db.Create(&models.Role{Name: name}).Error)
	}

	return db
}

// createUser inserts a user carrying the USER role
func createUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	roleRepo := repositories.NewRoleRepository(db)
	userRole, err := roleRepo.GetByName(context.Background(), string(domain.RoleUser))
	require.NoError(t, err)

	hashed, err := password.Hash("secret-pass")
	require.NoError(t, err)

	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: hashed,
		IsActive: true,
		Roles:    []models.Role{*userRole},
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// createVideo inserts a video with the given copy count and price
func createVideo(t *testing.T, db *gorm.DB, title string, copies int, price float64) *models.Video {
	t.Helper()

	video := &models.Video{
		Title:           title,
		Director:        "Test Director",
		Genre:           "Drama",
		ReleaseYear:     2000,
		AvailableCopies: copies,
		RentalPrice:     price,
	}
	require.NoError(t, db.Create(video).Error)
	return video
}
