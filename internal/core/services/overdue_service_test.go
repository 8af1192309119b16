package services

import (
	"context"
	"testing"
	"time"

	"rentvideo/internal/adapters/persistence/models"
	"rentvideo/internal/adapters/persistence/repositories"

	"github.com/stretchr/testify/require"
)

func TestOverdueReportFindsOnlyOldOpenRentals(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := createUser(t, db, "alice")
	video := createVideo(t, db, "The Matrix", 5, 2.99)

	now := time.Now()
	returned := now.AddDate(0, 0, -10)

	rentals := []*models.Rental{
		// Open for 20 days: overdue
		{UserID: user.ID, VideoID: video.ID, RentalDate: now.AddDate(0, 0, -20)},
		// Open for 3 days: not overdue yet
		{UserID: user.ID, VideoID: video.ID, RentalDate: now.AddDate(0, 0, -3)},
		// Old but already returned
		{UserID: user.ID, VideoID: video.ID, RentalDate: now.AddDate(0, 0, -30), ReturnDate: &returned},
	}
	for _, r := range rentals {
		require.NoError(t, db.Create(r).Error)
	}

	repo := repositories.NewRentalRepository(db)
	overdue, err := repo.ListOpenOlderThan(ctx, now.AddDate(0, 0, -14))
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	require.Equal(t, rentals[0].ID, overdue[0].ID)

	svc := NewOverdueService(db, 14)
	require.NoError(t, svc.Report(ctx))
}
