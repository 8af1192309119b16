package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"rentvideo/internal/adapters/persistence/models"
	"rentvideo/internal/adapters/persistence/repositories"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// newRentalService builds a rental service with a pinned clock
func newRentalService(db *gorm.DB, now time.Time) *RentalService {
	svc := NewRentalService(db)
	svc.now = func() time.Time { return now }
	return svc
}

func TestRentDecrementsCopiesAndOpensRental(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := createUser(t, db, "alice")
	video := createVideo(t, db, "The Matrix", 1, 2.99)

	svc := NewRentalService(db)

	rental, err := svc.Rent(ctx, user.ID, video.ID)
	require.NoError(t, err)
	require.Equal(t, user.ID, rental.UserID)
	require.Equal(t, video.ID, rental.VideoID)
	require.True(t, rental.IsOpen())
	require.Nil(t, rental.TotalCost)

	var got models.Video
	require.NoError(t, db.First(&got, video.ID).Error)
	require.Equal(t, 0, got.AvailableCopies)
}

func TestRentFailsWhenNoCopiesAvailable(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	video := createVideo(t, db, "Inception", 1, 3.49)

	svc := NewRentalService(db)

	_, err := svc.Rent(ctx, alice.ID, video.ID)
	require.NoError(t, err)

	_, err = svc.Rent(ctx, bob.ID, video.ID)
	require.ErrorIs(t, err, ErrNoAvailableCopies)
}

func TestRentRejectsDuplicateOpenRental(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := createUser(t, db, "alice")
	video := createVideo(t, db, "Avatar", 6, 3.99)

	svc := NewRentalService(db)

	_, err := svc.Rent(ctx, user.ID, video.ID)
	require.NoError(t, err)

	_, err = svc.Rent(ctx, user.ID, video.ID)
	require.ErrorIs(t, err, ErrDuplicateRental)

	// Copy count only dropped once
	var got models.Video
	require.NoError(t, db.First(&got, video.ID).Error)
	require.Equal(t, 5, got.AvailableCopies)
}

func TestRentUnknownUserOrVideo(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := createUser(t, db, "alice")
	video := createVideo(t, db, "Pulp Fiction", 2, 2.79)

	svc := NewRentalService(db)

	_, err := svc.Rent(ctx, 9999, video.ID)
	require.ErrorIs(t, err, ErrUserNotFound)

	_, err = svc.Rent(ctx, user.ID, 9999)
	require.ErrorIs(t, err, ErrVideoNotFound)
}

func TestConcurrentRentsNeverOversell(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	video := createVideo(t, db, "The Shawshank Redemption", 3, 2.50)

	users := make([]*models.User, 10)
	for i := range users {
		users[i] = createUser(t, db, "user"+string(rune('a'+i)))
	}

	svc := NewRentalService(db)

	var wg sync.WaitGroup
	errs := make([]error, len(users))
	for i, u := range users {
		wg.Add(1)
		go func(i int, userID uint) {
			defer wg.Done()
			_, errs[i] = svc.Rent(ctx, userID, video.ID)
		}(i, u.ID)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			require.ErrorIs(t, err, ErrNoAvailableCopies)
		}
	}
	require.Equal(t, 3, succeeded)

	var got models.Video
	require.NoError(t, db.First(&got, video.ID).Error)
	require.Equal(t, 0, got.AvailableCopies)

	var openCount int64
	require.NoError(t, db.Model(&models.Rental{}).Where("return_date IS NULL").Count(&openCount).Error)
	require.EqualValues(t, 3, openCount)
}

func TestSameDayReturnBillsOneDay(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := createUser(t, db, "alice")
	video := createVideo(t, db, "The Matrix", 1, 2.99)

	svc := newRentalService(db, time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))

	rental, err := svc.Rent(ctx, user.ID, video.ID)
	require.NoError(t, err)

	returned, err := svc.Return(ctx, rental.ID)
	require.NoError(t, err)
	require.NotNil(t, returned.ReturnDate)
	require.NotNil(t, returned.TotalCost)
	require.InDelta(t, 2.99, *returned.TotalCost, 0.001)

	// Copy goes back to the catalog
	var got models.Video
	require.NoError(t, db.First(&got, video.ID).Error)
	require.Equal(t, 1, got.AvailableCopies)
}

func TestMultiDayReturnBillsCalendarDays(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := createUser(t, db, "alice")
	video := createVideo(t, db, "Inception", 3, 3.49)

	svc := newRentalService(db, time.Date(2026, 3, 10, 23, 0, 0, 0, time.UTC))

	rental, err := svc.Rent(ctx, user.ID, video.ID)
	require.NoError(t, err)

	// Three calendar days later, early morning. The wall-clock gap is
	// under 56 hours but billing counts dates, not hours.
	svc.now = func() time.Time { return time.Date(2026, 3, 13, 6, 0, 0, 0, time.UTC) }

	returned, err := svc.Return(ctx, rental.ID)
	require.NoError(t, err)
	require.InDelta(t, 3*3.49, *returned.TotalCost, 0.001)
}

func TestReturnByUserAndVideo(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := createUser(t, db, "alice")
	video := createVideo(t, db, "Avatar", 6, 3.99)

	svc := NewRentalService(db)

	_, err := svc.Rent(ctx, user.ID, video.ID)
	require.NoError(t, err)

	returned, err := svc.ReturnByUserAndVideo(ctx, user.ID, video.ID)
	require.NoError(t, err)
	require.False(t, returned.IsOpen())

	// No open rental left for the pair
	_, err = svc.ReturnByUserAndVideo(ctx, user.ID, video.ID)
	require.ErrorIs(t, err, ErrNoActiveRental)
}

func TestDoubleReturnIsRejected(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := createUser(t, db, "alice")
	video := createVideo(t, db, "Pulp Fiction", 2, 2.79)

	svc := NewRentalService(db)

	rental, err := svc.Rent(ctx, user.ID, video.ID)
	require.NoError(t, err)

	_, err = svc.Return(ctx, rental.ID)
	require.NoError(t, err)

	_, err = svc.Return(ctx, rental.ID)
	require.ErrorIs(t, err, ErrAlreadyReturned)

	// Copy count unchanged by the failed second return
	var got models.Video
	require.NoError(t, db.First(&got, video.ID).Error)
	require.Equal(t, 2, got.AvailableCopies)
}

func TestRentReportsOutOfStockBeforeDuplicate(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := createUser(t, db, "alice")
	video := createVideo(t, db, "The Matrix", 1, 2.99)

	svc := NewRentalService(db)

	_, err := svc.Rent(ctx, user.ID, video.ID)
	require.NoError(t, err)

	// With zero copies left the stock error wins, even though the user
	// also holds an open rental for the title.
	_, err = svc.Rent(ctx, user.ID, video.ID)
	require.ErrorIs(t, err, ErrNoAvailableCopies)
}

func TestStaleReturnDoesNotFreeCopyTwice(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := createUser(t, db, "alice")
	video := createVideo(t, db, "Inception", 1, 3.49)

	svc := NewRentalService(db)

	rental, err := svc.Rent(ctx, user.ID, video.ID)
	require.NoError(t, err)

	// A second writer reads the rental while it is still open, then the
	// first return commits under it.
	stale, err := repositories.NewRentalRepository(db).GetByID(ctx, rental.ID)
	require.NoError(t, err)
	require.True(t, stale.IsOpen())

	_, err = svc.Return(ctx, rental.ID)
	require.NoError(t, err)

	// The stale writer passes the open check on its snapshot but loses
	// the guarded close.
	err = db.Transaction(func(tx *gorm.DB) error {
		return svc.closeRental(ctx, repositories.NewRentalRepository(tx), repositories.NewVideoRepository(tx), stale)
	})
	require.ErrorIs(t, err, ErrAlreadyReturned)

	// The copy was given back exactly once
	var got models.Video
	require.NoError(t, db.First(&got, video.ID).Error)
	require.Equal(t, 1, got.AvailableCopies)
}

func TestCloseIsGuardedAgainstConcurrentWriters(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := createUser(t, db, "alice")
	video := createVideo(t, db, "Avatar", 6, 3.99)

	svc := NewRentalService(db)

	rental, err := svc.Rent(ctx, user.ID, video.ID)
	require.NoError(t, err)

	repo := repositories.NewRentalRepository(db)
	first, err := repo.GetByID(ctx, rental.ID)
	require.NoError(t, err)
	second, err := repo.GetByID(ctx, rental.ID)
	require.NoError(t, err)

	today := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	cost := 3.99
	first.ReturnDate = &today
	first.TotalCost = &cost
	second.ReturnDate = &today
	second.TotalCost = &cost

	closed, err := repo.Close(ctx, first)
	require.NoError(t, err)
	require.True(t, closed)

	closed, err = repo.Close(ctx, second)
	require.NoError(t, err)
	require.False(t, closed)
}

func TestRentAgainAfterReturn(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := createUser(t, db, "alice")
	video := createVideo(t, db, "The Matrix", 1, 2.99)

	svc := NewRentalService(db)

	first, err := svc.Rent(ctx, user.ID, video.ID)
	require.NoError(t, err)

	_, err = svc.Return(ctx, first.ID)
	require.NoError(t, err)

	second, err := svc.Rent(ctx, user.ID, video.ID)
	require.NoError(t, err)
	require.NotEqual(t, first.ID, second.ID)

	rentals, err := svc.GetRentalsByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, rentals, 2)
}

func TestLastCopyLifecycle(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	video := createVideo(t, db, "The Matrix", 1, 2.99)

	svc := NewRentalService(db)

	// Alice takes the last copy
	rental, err := svc.Rent(ctx, alice.ID, video.ID)
	require.NoError(t, err)

	var got models.Video
	require.NoError(t, db.First(&got, video.ID).Error)
	require.Equal(t, 0, got.AvailableCopies)

	// Bob is out of luck
	_, err = svc.Rent(ctx, bob.ID, video.ID)
	require.ErrorIs(t, err, ErrNoAvailableCopies)

	// Same-day return bills one day and frees the copy
	returned, err := svc.Return(ctx, rental.ID)
	require.NoError(t, err)
	require.InDelta(t, 2.99, *returned.TotalCost, 0.001)

	require.NoError(t, db.First(&got, video.ID).Error)
	require.Equal(t, 1, got.AvailableCopies)

	// Now Bob can rent it
	_, err = svc.Rent(ctx, bob.ID, video.ID)
	require.NoError(t, err)
}

func TestGetRentalsByUnknownUser(t *testing.T) {
	db := newTestDB(t)
	svc := NewRentalService(db)

	_, err := svc.GetRentalsByUser(context.Background(), 42)
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestGetRentalByIDNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := NewRentalService(db)

	_, err := svc.GetRentalByID(context.Background(), 42)
	require.ErrorIs(t, err, ErrRentalNotFound)
}

func TestDaysBetweenIgnoresTimeOfDay(t *testing.T) {
	from := time.Date(2026, 1, 31, 23, 59, 0, 0, time.UTC)
	to := time.Date(2026, 2, 1, 0, 1, 0, 0, time.UTC)
	require.Equal(t, 1, daysBetween(from, to))

	require.Equal(t, 0, daysBetween(to, to))
	require.Equal(t, 31, daysBetween(
		time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
	))
}
