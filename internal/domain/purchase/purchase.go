package purchase

import (
	"fmt"
	"time"

	vo "kuppi/internal/domain/purchase/valueobjects"
	"kuppi/internal/shared/biztime"
	"kuppi/internal/shared/id"
)

// Purchase is one attempt to buy a course card. Exactly one purchase row is
// created per attempt; a retry after failure is a brand-new purchase with a
// fresh order number, never a resumed one.
type Purchase struct {
	id      uint
	sid     string // Stripe-style ID: pur_xxxxxxxx
	userID  uint
	cardID  uint
	orderNo string
	amount  vo.Money
	status  vo.PurchaseStatus

	gatewayPaymentID *string
	failureReason    *string

	purchasedAt *time.Time
	expiredAt   time.Time

	metadata map[string]interface{}

	version   int
	createdAt time.Time
	updatedAt time.Time
}

// NewPurchase creates a pending purchase. pendingTTL bounds how long the
// gateway redirect may stay unresolved before the sweep fails it.
func NewPurchase(userID, cardID uint, orderNo vo.OrderNo, amount vo.Money, pendingTTL time.Duration) (*Purchase, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if cardID == 0 {
		return nil, fmt.Errorf("course card ID is required")
	}
	if orderNo.IsZero() {
		return nil, fmt.Errorf("order number is required")
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("amount must be positive")
	}
	if pendingTTL <= 0 {
		return nil, fmt.Errorf("pending TTL must be positive")
	}

	now := biztime.NowUTC()
	return &Purchase{
		sid:       id.NewPurchaseSID(),
		userID:    userID,
		cardID:    cardID,
		orderNo:   orderNo.Value(),
		amount:    amount,
		status:    vo.PurchaseStatusPending,
		expiredAt: now.Add(pendingTTL),
		metadata:  make(map[string]interface{}),
		version:   1,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ReconstructPurchase reconstructs a purchase from persistence
func ReconstructPurchase(
	id uint,
	sid string,
	userID uint,
	cardID uint,
	orderNo string,
	amount vo.Money,
	status string,
	gatewayPaymentID *string,
	failureReason *string,
	purchasedAt *time.Time,
	expiredAt time.Time,
	metadata map[string]interface{},
	version int,
	createdAt, updatedAt time.Time,
) (*Purchase, error) {
	if id == 0 {
		return nil, fmt.Errorf("purchase ID cannot be zero")
	}
	if sid == "" {
		return nil, fmt.Errorf("purchase SID is required")
	}
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if cardID == 0 {
		return nil, fmt.Errorf("course card ID is required")
	}
	if orderNo == "" {
		return nil, fmt.Errorf("order number is required")
	}

	purchaseStatus := vo.PurchaseStatus(status)
	if !purchaseStatus.IsValid() {
		return nil, fmt.Errorf("invalid purchase status: %s", status)
	}

	if metadata == nil {
		metadata = make(map[string]interface{})
	}

	return &Purchase{
		id:               id,
		sid:              sid,
		userID:           userID,
		cardID:           cardID,
		orderNo:          orderNo,
		amount:           amount,
		status:           purchaseStatus,
		gatewayPaymentID: gatewayPaymentID,
		failureReason:    failureReason,
		purchasedAt:      purchasedAt,
		expiredAt:        expiredAt,
		metadata:         metadata,
		version:          version,
		createdAt:        createdAt,
		updatedAt:        updatedAt,
	}, nil
}

// Complete marks the purchase completed, granting entitlement once the
// evaluator observes it. Completing an already completed purchase is a
// no-op so that replayed gateway callbacks stay harmless.
func (p *Purchase) Complete(gatewayPaymentID string) error {
	if p.status.IsCompleted() {
		return nil
	}
	if p.status != vo.PurchaseStatusPending {
		return fmt.Errorf("cannot complete purchase with status %s", p.status)
	}

	now := biztime.NowUTC()
	p.status = vo.PurchaseStatusCompleted
	if gatewayPaymentID != "" {
		p.gatewayPaymentID = &gatewayPaymentID
	}
	p.purchasedAt = &now
	p.updatedAt = now
	p.version++

	return nil
}

// Fail marks the purchase failed. Failing an already failed purchase is a
// no-op; a completed purchase can never be failed.
func (p *Purchase) Fail(reason string) error {
	if p.status == vo.PurchaseStatusFailed {
		return nil
	}
	if p.status.IsFinal() {
		return fmt.Errorf("cannot fail purchase with final status %s", p.status)
	}

	p.status = vo.PurchaseStatusFailed
	if reason != "" {
		p.failureReason = &reason
	}
	p.updatedAt = biztime.NowUTC()
	p.version++

	return nil
}

// IsExpired reports whether a still-pending purchase has outlived its TTL.
func (p *Purchase) IsExpired() bool {
	return p.status.IsPending() && biztime.NowUTC().After(p.expiredAt)
}

func (p *Purchase) ID() uint {
	return p.id
}

// SetID assigns the persistence ID after insert
func (p *Purchase) SetID(id uint) error {
	if p.id != 0 {
		return fmt.Errorf("purchase ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("purchase ID cannot be zero")
	}
	p.id = id
	return nil
}

// SID returns the Stripe-style short ID
func (p *Purchase) SID() string {
	return p.sid
}

func (p *Purchase) UserID() uint {
	return p.userID
}

func (p *Purchase) CardID() uint {
	return p.cardID
}

func (p *Purchase) OrderNo() string {
	return p.orderNo
}

func (p *Purchase) Amount() vo.Money {
	return p.amount
}

func (p *Purchase) Status() vo.PurchaseStatus {
	return p.status
}

func (p *Purchase) GatewayPaymentID() *string {
	return p.gatewayPaymentID
}

func (p *Purchase) FailureReason() *string {
	return p.failureReason
}

func (p *Purchase) PurchasedAt() *time.Time {
	return p.purchasedAt
}

func (p *Purchase) ExpiredAt() time.Time {
	return p.expiredAt
}

func (p *Purchase) Metadata() map[string]interface{} {
	return p.metadata
}

// SetMetadata sets a metadata key-value pair
func (p *Purchase) SetMetadata(key string, value interface{}) {
	if p.metadata == nil {
		p.metadata = make(map[string]interface{})
	}
	p.metadata[key] = value
	p.updatedAt = biztime.NowUTC()
}

func (p *Purchase) Version() int {
	return p.version
}

func (p *Purchase) CreatedAt() time.Time {
	return p.createdAt
}

func (p *Purchase) UpdatedAt() time.Time {
	return p.updatedAt
}
