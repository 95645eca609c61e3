package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"kuppi/internal/shared/constants"
)

// PurchaseModel represents the database persistence model for purchases.
// OrderNo carries a unique index: it is the natural dedup key that makes
// gateway callback replays idempotent at the storage layer.
type PurchaseModel struct {
	ID               uint    `gorm:"primarykey"`
	SID              string  `gorm:"not null;size:32;uniqueIndex:idx_purchase_sid"` // Stripe-style ID: pur_xxxxxxxx
	UserID           uint    `gorm:"not null;index:idx_purchase_user_id;index:idx_purchase_user_card,priority:1"`
	CardID           uint    `gorm:"not null;index:idx_purchase_card_id;index:idx_purchase_user_card,priority:2"`
	OrderNo          string  `gorm:"not null;size:64;uniqueIndex:idx_purchase_order_no"`
	Amount           int64   `gorm:"not null"` // minor currency units
	Currency         string  `gorm:"not null;size:3;default:LKR"`
	Status           string  `gorm:"not null;default:pending;size:20;index:idx_purchase_status"`
	GatewayPaymentID *string `gorm:"size:128"`
	FailureReason    *string `gorm:"size:500"`
	PurchasedAt      *time.Time
	ExpiredAt        time.Time
	Metadata         datatypes.JSON
	Version          int `gorm:"not null;default:1"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// TableName specifies the table name for GORM.
func (PurchaseModel) TableName() string {
	return constants.TablePurchases
}

// BeforeCreate hook for GORM.
func (m *PurchaseModel) BeforeCreate(tx *gorm.DB) error {
	if m.Status == "" {
		m.Status = "pending"
	}
	if m.Version == 0 {
		m.Version = 1
	}
	return nil
}
