package purchase

import (
	"context"
)

type PurchaseRepository interface {
	Create(ctx context.Context, purchase *Purchase) error
	GetByID(ctx context.Context, id uint) (*Purchase, error)
	GetBySID(ctx context.Context, sid string) (*Purchase, error)
	GetByOrderNo(ctx context.Context, orderNo string) (*Purchase, error)
	Update(ctx context.Context, purchase *Purchase) error

	// ListCompletedCardIDs returns the set of course card IDs the user has a
	// completed purchase for. This is the entitlement set.
	ListCompletedCardIDs(ctx context.Context, userID uint) ([]uint, error)
	HasCompletedPurchase(ctx context.Context, userID, cardID uint) (bool, error)

	ListByUserID(ctx context.Context, userID uint, filter PurchaseFilter) ([]*Purchase, int64, error)
	FindExpiredPending(ctx context.Context, limit int) ([]*Purchase, error)

	DeleteByCardIDs(ctx context.Context, cardIDs []uint) error
	DeleteByUserID(ctx context.Context, userID uint) error
}

type PurchaseFilter struct {
	CardID   *uint
	Status   *string
	Page     int
	PageSize int
}
