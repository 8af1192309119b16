package services

import (
	"context"
	"errors"
	"strings"

	"rentvideo/internal/adapters/persistence/models"
	"rentvideo/internal/adapters/persistence/repositories"
	"rentvideo/internal/core/domain"

	"gorm.io/gorm"
)

// User management errors
var (
	ErrUserNotFound = errors.New("user not found")
	ErrRoleNotFound = errors.New("role not found")
	ErrInvalidEmail = errors.New("invalid email address")
	ErrEmailTaken   = errors.New("email already registered")
)

// UserService handles user management operations
type UserService struct {
	userRepo repositories.UserRepository
	roleRepo repositories.RoleRepository
}

// NewUserService creates a new user service
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{
		userRepo: repositories.NewUserRepository(db),
		roleRepo: repositories.NewRoleRepository(db),
	}
}

// List lists users with pagination
func (s *UserService) List(ctx context.Context, offset, limit int) ([]*models.User, int64, error) {
	return s.userRepo.List(ctx, offset, limit)
}

// GetByID gets a user by ID
func (s *UserService) GetByID(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateEmail changes a user's email address
func (s *UserService) UpdateEmail(ctx context.Context, id uint, email string) (*models.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if !strings.Contains(email, "@") {
		return nil, ErrInvalidEmail
	}

	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if email != user.Email {
		taken, err := s.userRepo.ExistsByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrEmailTaken
		}
	}

	user.Email = email
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Deactivate disables a user account without deleting its history
func (s *UserService) Deactivate(ctx context.Context, id uint) error {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	user.IsActive = false
	return s.userRepo.Update(ctx, user)
}

// Delete removes a user account
func (s *UserService) Delete(ctx context.Context, id uint) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.userRepo.Delete(ctx, id)
}

// AssignRole grants a role to a user. No-op when already granted.
func (s *UserService) AssignRole(ctx context.Context, userID uint, roleName string) (*models.User, error) {
	roleName = strings.ToUpper(strings.TrimSpace(roleName))
	if !domain.ValidRole(roleName) {
		return nil, ErrRoleNotFound
	}

	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	role, err := s.roleRepo.GetByName(ctx, roleName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, err
	}

	if user.HasRole(role.Name) {
		return user, nil
	}

	if err := s.userRepo.AddRole(ctx, user, role); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, userID)
}

// RemoveRole revokes a role from a user
func (s *UserService) RemoveRole(ctx context.Context, userID uint, roleName string) (*models.User, error) {
	roleName = strings.ToUpper(strings.TrimSpace(roleName))
	if !domain.ValidRole(roleName) {
		return nil, ErrRoleNotFound
	}

	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	role, err := s.roleRepo.GetByName(ctx, roleName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, err
	}

	if err := s.userRepo.RemoveRole(ctx, user, role); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, userID)
}
