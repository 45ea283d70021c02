package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
	RoleDonor = "donor"
)

// User represents the users table of the auth subsystem
type User struct {
	ID           string            `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string            `gorm:"uniqueIndex;not null;size:255" json:"email"`
	PasswordHash string            `gorm:"not null;size:255" json:"-"`
	Role         string            `gorm:"size:20;not null" json:"role"`
	Metadata     datatypes.JSONMap `gorm:"type:jsonb" json:"user_metadata,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// TableName specifies the table name for User model
func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// FullName returns the name captured at sign-up, if any
func (u User) FullName() string {
	if u.Metadata == nil {
		return ""
	}
	name, _ := u.Metadata["full_name"].(string)
	return name
}

// RefreshToken represents the refresh_tokens table
type RefreshToken struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"type:uuid;not null;index" json:"user_id"`
	TokenHash string    `gorm:"not null;size:255;index" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
	Revoked   bool      `gorm:"default:false" json:"revoked"`
	User      User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName specifies the table name for RefreshToken model
func (RefreshToken) TableName() string {
	return "refresh_tokens"
}
