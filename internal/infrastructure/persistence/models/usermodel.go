package models

import (
	"time"

	"gorm.io/gorm"

	"kuppi/internal/shared/constants"
)

// UserModel represents the database persistence model for users.
type UserModel struct {
	ID           uint   `gorm:"primarykey"`
	SID          string `gorm:"not null;size:32;uniqueIndex:idx_user_sid"` // Stripe-style ID: usr_xxxxxxxx
	Email        string `gorm:"not null;size:255;uniqueIndex:idx_user_email"`
	Name         string `gorm:"not null;size:100"`
	PasswordHash string `gorm:"not null;size:255"`
	IsAdmin      bool   `gorm:"not null;default:false"`
	LastLoginAt  *time.Time
	Version      int `gorm:"not null;default:1"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName specifies the table name for GORM.
func (UserModel) TableName() string {
	return constants.TableUsers
}

// BeforeCreate hook for GORM.
func (m *UserModel) BeforeCreate(tx *gorm.DB) error {
	if m.Version == 0 {
		m.Version = 1
	}
	return nil
}
