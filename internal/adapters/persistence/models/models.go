package models

import (
	"time"

	"gorm.io/gorm"
)

// ============================================================
// Auth & User Tables
// ============================================================

// Role represents roles table
type Role struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;size:20;not null" json:"name"`
}

func (Role) TableName() string {
	return "roles"
}

// User represents users table
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Email     string    `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`
	Roles     []Role    `gorm:"many2many:user_roles" json:"roles,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// RoleNames returns the user's role names as a plain slice
func (u *User) RoleNames() []string {
	names := make([]string, len(u.Roles))
	for i, r := range u.Roles {
		names[i] = r.Name
	}
	return names
}

// HasRole reports whether the user carries the given role
func (u *User) HasRole(name string) bool {
	for _, r := range u.Roles {
		if r.Name == name {
			return true
		}
	}
	return false
}

// UserResponse DTO
type UserResponse struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Roles     []string  `json:"roles"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Roles:     u.RoleNames(),
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

// RefreshToken represents refresh_tokens table
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
	User      User       `gorm:"foreignKey:UserID" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// ============================================================
// Catalog & Rental Tables
// ============================================================

// Video represents videos table. AvailableCopies is maintained
// incrementally by the rental engine and must never go negative.
type Video struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Title           string    `gorm:"size:200;not null;index" json:"title"`
	Director        string    `gorm:"size:100;not null" json:"director"`
	Genre           string    `gorm:"size:50;not null" json:"genre"`
	ReleaseYear     int       `gorm:"not null" json:"release_year"`
	AvailableCopies int       `gorm:"not null" json:"available_copies"`
	RentalPrice     float64   `gorm:"type:decimal(10,2);not null" json:"rental_price"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Video) TableName() string {
	return "videos"
}

// Rental represents rentals table. A nil ReturnDate means the rental
// is open and the copy is still checked out. TotalCost is set exactly
// once, when the rental is closed.
type Rental struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	UserID     uint       `gorm:"not null;index" json:"user_id"`
	VideoID    uint       `gorm:"not null;index" json:"video_id"`
	RentalDate time.Time  `gorm:"type:date;not null" json:"rental_date"`
	ReturnDate *time.Time `gorm:"type:date" json:"return_date"`
	TotalCost  *float64   `gorm:"type:decimal(10,2)" json:"total_cost"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// Relations
	User  *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Video *Video `gorm:"foreignKey:VideoID" json:"video,omitempty"`
}

func (Rental) TableName() string {
	return "rentals"
}

// IsOpen reports whether the rental is still active
func (r *Rental) IsOpen() bool {
	return r.ReturnDate == nil
}

// RentalResponse DTO
type RentalResponse struct {
	ID         uint       `json:"id"`
	UserID     uint       `json:"user_id"`
	Username   string     `json:"username,omitempty"`
	VideoID    uint       `json:"video_id"`
	VideoTitle string     `json:"video_title,omitempty"`
	RentalDate time.Time  `json:"rental_date"`
	ReturnDate *time.Time `json:"return_date"`
	TotalCost  *float64   `json:"total_cost"`
}

func (r *Rental) ToResponse() *RentalResponse {
	resp := &RentalResponse{
		ID:         r.ID,
		UserID:     r.UserID,
		VideoID:    r.VideoID,
		RentalDate: r.RentalDate,
		ReturnDate: r.ReturnDate,
		TotalCost:  r.TotalCost,
	}

	if r.User != nil {
		resp.Username = r.User.Username
	}
	if r.Video != nil {
		resp.VideoTitle = r.Video.Title
	}

	return resp
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Role{},
		&User{},
		&RefreshToken{},
		&Video{},
		&Rental{},
	)
}
