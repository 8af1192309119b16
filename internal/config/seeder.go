package config

import (
	"log"

	"rentvideo/internal/adapters/persistence/models"
	"rentvideo/internal/core/domain"
	"rentvideo/internal/pkg/password"

	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	log.Println("Running database seeders...")

	if err := s.seedRoles(); err != nil {
		return err
	}
	if err := s.seedUsers(); err != nil {
		return err
	}
	if err := s.seedVideos(); err != nil {
		return err
	}

	log.Println("Database seeding completed")
	return nil
}

// seedRoles creates the USER and ADMIN roles if they don't exist
func (s *Seeder) seedRoles() error {
	for _, name := range []string{string(domain.RoleUser), string(domain.RoleAdmin)} {
		var count int64
		s.db.Model(&models.Role{}).Where("name = ?", name).Count(&count)
		if count > 0 {
			continue
		}
		if err := s.db.Create(&models.Role{Name: name}).Error; err != nil {
			return err
		}
	}
	return nil
}

// seedUsers seeds default admin and regular user accounts.
// Development/testing only; create production accounts through the
// registration endpoint.
func (s *Seeder) seedUsers() error {
	var userRole, adminRole models.Role
	if err := s.db.Where("name = ?", string(domain.RoleUser)).First(&userRole).Error; err != nil {
		return err
	}
	if err := s.db.Where("name = ?", string(domain.RoleAdmin)).First(&adminRole).Error; err != nil {
		return err
	}

	seeds := []struct {
		username string
		email    string
		plain    string
		roles    []models.Role
	}{
		{"admin", "admin@example.com", "adminpass", []models.Role{userRole, adminRole}},
		{"user", "user@example.com", "userpass", []models.Role{userRole}},
	}

	for _, seed := range seeds {
		var count int64
		s.db.Model(&models.User{}).Where("username = ?", seed.username).Count(&count)
		if count > 0 {
			continue
		}

		hashed, err := password.Hash(seed.plain)
		if err != nil {
			return err
		}

		user := &models.User{
			Username: seed.username,
			Email:    seed.email,
			Password: hashed,
			IsActive: true,
			Roles:    seed.roles,
		}
		if err := s.db.Create(user).Error; err != nil {
			return err
		}
		log.Printf("Seeded user: %s", user.Username)
	}

	return nil
}

// seedVideos seeds the sample catalog when the videos table is empty
func (s *Seeder) seedVideos() error {
	var count int64
	s.db.Model(&models.Video{}).Count(&count)
	if count > 0 {
		return nil
	}

	videos := []models.Video{
		{Title: "The Matrix", Director: "Lana Wachowski", Genre: "Sci-Fi", ReleaseYear: 1999, AvailableCopies: 5, RentalPrice: 2.99},
		{Title: "Inception", Director: "Christopher Nolan", Genre: "Sci-Fi", ReleaseYear: 2010, AvailableCopies: 3, RentalPrice: 3.49},
		{Title: "Pulp Fiction", Director: "Quentin Tarantino", Genre: "Crime", ReleaseYear: 1994, AvailableCopies: 2, RentalPrice: 2.79},
		{Title: "The Shawshank Redemption", Director: "Frank Darabont", Genre: "Drama", ReleaseYear: 1994, AvailableCopies: 4, RentalPrice: 2.50},
		{Title: "Avatar", Director: "James Cameron", Genre: "Sci-Fi", ReleaseYear: 2009, AvailableCopies: 6, RentalPrice: 3.99},
	}

	if err := s.db.Create(&videos).Error; err != nil {
		return err
	}

	log.Printf("Seeded %d videos", len(videos))
	return nil
}
