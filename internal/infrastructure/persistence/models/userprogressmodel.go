package models

import (
	"time"

	"kuppi/internal/shared/constants"
)

// UserProgressModel represents the database persistence model for per-user
// play counts. The composite unique index on (user_id, video_id) is what
// guarantees at most one row per pair; concurrent first plays race on the
// insert and the loser falls back to the guarded increment.
type UserProgressModel struct {
	ID            uint `gorm:"primarykey"`
	UserID        uint `gorm:"not null;uniqueIndex:idx_user_progress_pair"`
	VideoID       uint `gorm:"not null;uniqueIndex:idx_user_progress_pair;index:idx_user_progress_video_id"`
	PlaysUsed     uint `gorm:"not null;default:0"`
	LastWatchedAt time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TableName specifies the table name for GORM.
func (UserProgressModel) TableName() string {
	return constants.TableUserProgress
}
