package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUpdateEmail(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	alice := createUser(t, db, "alice")
	createUser(t, db, "bob")

	svc := NewUserService(db)

	updated, err := svc.UpdateEmail(ctx, alice.ID, "  Alice.New@Example.com ")
	require.NoError(t, err)
	require.Equal(t, "alice.new@example.com", updated.Email)

	_, err = svc.UpdateEmail(ctx, alice.ID, "not-an-email")
	require.ErrorIs(t, err, ErrInvalidEmail)

	_, err = svc.UpdateEmail(ctx, alice.ID, "bob@example.com")
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestAssignAndRemoveRole(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	alice := createUser(t, db, "alice")

	svc := NewUserService(db)

	user, err := svc.AssignRole(ctx, alice.ID, "admin")
	require.NoError(t, err)
	require.True(t, user.HasRole("ADMIN"))
	require.True(t, user.HasRole("USER"))

	// Assigning twice is a no-op
	user, err = svc.AssignRole(ctx, alice.ID, "ADMIN")
	require.NoError(t, err)
	require.Len(t, user.Roles, 2)

	user, err = svc.RemoveRole(ctx, alice.ID, "ADMIN")
	require.NoError(t, err)
	require.False(t, user.HasRole("ADMIN"))

	_, err = svc.AssignRole(ctx, alice.ID, "SUPERVISOR")
	require.ErrorIs(t, err, ErrRoleNotFound)
}

func TestListUsersPagination(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	createUser(t, db, "alice")
	createUser(t, db, "bob")
	createUser(t, db, "carol")

	svc := NewUserService(db)

	users, total, err := svc.List(ctx, 0, 2)
	require.NoError(t, err)
	require.EqualValues(t, 3, total)
	require.Len(t, users, 2)

	users, _, err = svc.List(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, users, 1)
}

func TestDeactivateUser(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	alice := createUser(t, db, "alice")

	svc := NewUserService(db)

	require.NoError(t, svc.Deactivate(ctx, alice.ID))

	user, err := svc.GetByID(ctx, alice.ID)
	require.NoError(t, err)
	require.False(t, user.IsActive)
}

func TestDeleteUserNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	err := svc.Delete(context.Background(), 42)
	require.ErrorIs(t, err, ErrUserNotFound)
}
