package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCreateVideoValidation(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	svc := NewVideoService(db)

	_, err := svc.Create(ctx, CreateVideoInput{Director: "X", Genre: "Y", ReleaseYear: 2000})
	require.ErrorIs(t, err, ErrInvalidVideoInput)

	_, err = svc.Create(ctx, CreateVideoInput{Title: "T", Director: "X", Genre: "Y", ReleaseYear: 1800})
	require.ErrorIs(t, err, ErrInvalidReleaseYear)

	_, err = svc.Create(ctx, CreateVideoInput{Title: "T", Director: "X", Genre: "Y", ReleaseYear: 2000, AvailableCopies: -1})
	require.ErrorIs(t, err, ErrNegativeCopies)

	_, err = svc.Create(ctx, CreateVideoInput{Title: "T", Director: "X", Genre: "Y", ReleaseYear: 2000, RentalPrice: -0.5})
	require.ErrorIs(t, err, ErrNegativeRentalPrice)

	video, err := svc.Create(ctx, CreateVideoInput{
		Title:           "  The Matrix  ",
		Director:        "Lana Wachowski",
		Genre:           "Sci-Fi",
		ReleaseYear:     1999,
		AvailableCopies: 5,
		RentalPrice:     2.99,
	})
	require.NoError(t, err)
	require.Equal(t, "The Matrix", video.Title)
	require.NotZero(t, video.ID)
}

func TestSearchByTitleIsCaseInsensitive(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	createVideo(t, db, "The Matrix", 5, 2.99)
	createVideo(t, db, "The Matrix Reloaded", 3, 2.99)
	createVideo(t, db, "Inception", 3, 3.49)

	svc := NewVideoService(db)

	results, err := svc.Search(ctx, "matrix")
	require.NoError(t, err)
	require.Len(t, results, 2)

	results, err = svc.Search(ctx, "MATRIX RE")
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "The Matrix Reloaded", results[0].Title)

	results, err = svc.Search(ctx, "nosuchtitle")
	require.NoError(t, err)
	require.Empty(t, results)

	_, err = svc.Search(ctx, "   ")
	require.ErrorIs(t, err, ErrInvalidSearchQuery)
}

func TestSearchDoesNotMatchDirectorOrGenre(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	createVideo(t, db, "Inception", 3, 3.49)

	svc := NewVideoService(db)

	// "Test Director" and "Drama" are set by the fixture; only titles
	// are searched.
	results, err := svc.Search(ctx, "Director")
	require.NoError(t, err)
	require.Empty(t, results)

	results, err = svc.Search(ctx, "Drama")
	require.NoError(t, err)
	require.Empty(t, results)
}

func TestUpdateVideoOverwritesAllFields(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	video := createVideo(t, db, "Avatar", 6, 3.99)

	svc := NewVideoService(db)

	updated, err := svc.Update(ctx, video.ID, UpdateVideoInput{
		Title:           "Avatar: The Way of Water",
		Director:        "James Cameron",
		Genre:           "Sci-Fi",
		ReleaseYear:     2022,
		AvailableCopies: 4,
		RentalPrice:     4.49,
	})
	require.NoError(t, err)
	require.Equal(t, "Avatar: The Way of Water", updated.Title)
	require.Equal(t, 2022, updated.ReleaseYear)
	require.Equal(t, 4, updated.AvailableCopies)
	require.InDelta(t, 4.49, updated.RentalPrice, 0.001)

	_, err = svc.Update(ctx, video.ID, UpdateVideoInput{
		Title: " ", Director: "X", Genre: "Y", ReleaseYear: 2000,
	})
	require.ErrorIs(t, err, ErrInvalidVideoInput)

	_, err = svc.Update(ctx, video.ID, UpdateVideoInput{
		Title: "T", Director: "X", Genre: "Y", ReleaseYear: 2000, AvailableCopies: -1,
	})
	require.ErrorIs(t, err, ErrNegativeCopies)

	_, err = svc.Update(ctx, 9999, UpdateVideoInput{
		Title: "T", Director: "X", Genre: "Y", ReleaseYear: 2000,
	})
	require.ErrorIs(t, err, ErrVideoNotFound)
}

func TestUpdateAndDeleteIgnoreOpenRentals(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := createUser(t, db, "alice")
	video := createVideo(t, db, "Pulp Fiction", 2, 2.79)

	rentalSvc := NewRentalService(db)
	_, err := rentalSvc.Rent(ctx, user.ID, video.ID)
	require.NoError(t, err)

	// Catalog writes are not guarded against open rentals. An admin can
	// zero the count or delete the title while a copy is out.
	svc := NewVideoService(db)

	updated, err := svc.Update(ctx, video.ID, UpdateVideoInput{
		Title:           video.Title,
		Director:        video.Director,
		Genre:           video.Genre,
		ReleaseYear:     video.ReleaseYear,
		AvailableCopies: 0,
		RentalPrice:     video.RentalPrice,
	})
	require.NoError(t, err)
	require.Equal(t, 0, updated.AvailableCopies)

	require.NoError(t, svc.Delete(ctx, video.ID))

	_, err = svc.GetByID(ctx, video.ID)
	require.ErrorIs(t, err, ErrVideoNotFound)
}

func TestDeleteVideoNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := NewVideoService(db)

	err := svc.Delete(context.Background(), 42)
	require.ErrorIs(t, err, ErrVideoNotFound)
}
