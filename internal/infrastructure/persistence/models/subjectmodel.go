package models

import (
	"time"

	"gorm.io/gorm"

	"kuppi/internal/shared/constants"
)

// SubjectModel represents the database persistence model for subjects.
type SubjectModel struct {
	ID          uint   `gorm:"primarykey"`
	SID         string `gorm:"not null;size:32;uniqueIndex:idx_subject_sid"` // Stripe-style ID: sub_xxxxxxxx
	Name        string `gorm:"not null;size:100;index:idx_subject_name"`
	Description string `gorm:"size:2000"`
	SortOrder   int    `gorm:"not null;default:0"`
	Version     int    `gorm:"not null;default:1"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName specifies the table name for GORM.
func (SubjectModel) TableName() string {
	return constants.TableSubjects
}

// BeforeCreate hook for GORM.
func (m *SubjectModel) BeforeCreate(tx *gorm.DB) error {
	if m.Version == 0 {
		m.Version = 1
	}
	return nil
}
