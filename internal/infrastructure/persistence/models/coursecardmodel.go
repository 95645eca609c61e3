package models

import (
	"time"

	"gorm.io/gorm"

	"kuppi/internal/shared/constants"
)

// CourseCardModel represents the database persistence model for course cards.
type CourseCardModel struct {
	ID          uint   `gorm:"primarykey"`
	SID         string `gorm:"not null;size:32;uniqueIndex:idx_course_card_sid"` // Stripe-style ID: card_xxxxxxxx
	SubjectID   uint   `gorm:"not null;index:idx_course_card_subject_id"`
	Name        string `gorm:"not null;size:150"`
	Description string `gorm:"size:5000"`
	Price       uint64 `gorm:"not null;default:0"` // minor currency units
	Currency    string `gorm:"not null;size:3;default:LKR"`
	IsFree      bool   `gorm:"not null;default:false;index:idx_course_card_is_free"`
	SortOrder   int    `gorm:"not null;default:0"`
	Version     int    `gorm:"not null;default:1"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName specifies the table name for GORM.
func (CourseCardModel) TableName() string {
	return constants.TableCourseCards
}

// BeforeCreate hook for GORM.
func (m *CourseCardModel) BeforeCreate(tx *gorm.DB) error {
	if m.Currency == "" {
		m.Currency = "LKR"
	}
	if m.Version == 0 {
		m.Version = 1
	}
	return nil
}
