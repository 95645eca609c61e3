package models

import (
	"time"

	"gorm.io/gorm"

	"kuppi/internal/shared/constants"
)

// VideoModel represents the database persistence model for videos.
type VideoModel struct {
	ID          uint   `gorm:"primarykey"`
	SID         string `gorm:"not null;size:32;uniqueIndex:idx_video_sid"` // Stripe-style ID: vid_xxxxxxxx
	CardID      uint   `gorm:"not null;index:idx_video_card_id"`
	Title       string `gorm:"not null;size:150"`
	Description string `gorm:"size:5000"`
	MediaRef    string `gorm:"size:255"` // hosted-video identifier
	Duration    string `gorm:"size:20"`
	MaxPlays    uint   `gorm:"not null;default:3"`
	Position    int    `gorm:"not null;default:0"`
	Version     int    `gorm:"not null;default:1"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName specifies the table name for GORM.
func (VideoModel) TableName() string {
	return constants.TableVideos
}

// BeforeCreate hook for GORM.
func (m *VideoModel) BeforeCreate(tx *gorm.DB) error {
	if m.MaxPlays == 0 {
		m.MaxPlays = constants.DefaultMaxPlays
	}
	if m.Version == 0 {
		m.Version = 1
	}
	return nil
}
