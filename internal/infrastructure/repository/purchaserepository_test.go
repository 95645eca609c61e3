package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kuppi/internal/domain/purchase"
	vo "kuppi/internal/domain/purchase/valueobjects"
	apperrors "kuppi/internal/shared/errors"
	"kuppi/internal/shared/logger"
)

func newTestPurchase(t *testing.T, userID, cardID uint, cardSID string, ttl time.Duration) *purchase.Purchase {
	t.Helper()
	orderNo, err := vo.NewOrderNo(cardSID)
	require.NoError(t, err)

	p, err := purchase.NewPurchase(userID, cardID, orderNo, vo.NewMoney(250000, "LKR"), ttl)
	require.NoError(t, err)
	return p
}

func TestPurchaseRepository_CreateAndGetByOrderNo(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPurchaseRepository(db, logger.NewLogger())
	ctx := context.Background()

	p := newTestPurchase(t, 1, 2, "card_abc123XYZ789", 24*time.Hour)
	require.NoError(t, repo.Create(ctx, p))
	assert.NotZero(t, p.ID())

	found, err := repo.GetByOrderNo(ctx, p.OrderNo())
	require.NoError(t, err)
	assert.Equal(t, p.SID(), found.SID())
	assert.Equal(t, vo.PurchaseStatusPending, found.Status())
	assert.Equal(t, int64(250000), found.Amount().AmountInCents())
}

func TestPurchaseRepository_DuplicateOrderNoRejected(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPurchaseRepository(db, logger.NewLogger())
	ctx := context.Background()

	p1 := newTestPurchase(t, 1, 2, "card_abc123XYZ789", 24*time.Hour)
	require.NoError(t, repo.Create(ctx, p1))

	orderNo, err := vo.ParseOrderNo(p1.OrderNo())
	require.NoError(t, err)
	p2, err := purchase.NewPurchase(1, 2, orderNo, vo.NewMoney(250000, "LKR"), 24*time.Hour)
	require.NoError(t, err)

	err = repo.Create(ctx, p2)

	require.Error(t, err)
	assert.True(t, apperrors.IsConflictError(err))
}

func TestPurchaseRepository_CompleteAndEntitlementSet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPurchaseRepository(db, logger.NewLogger())
	ctx := context.Background()

	p := newTestPurchase(t, 1, 2, "card_abc123XYZ789", 24*time.Hour)
	require.NoError(t, repo.Create(ctx, p))

	cardIDs, err := repo.ListCompletedCardIDs(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, cardIDs, "pending purchase grants nothing")

	require.NoError(t, p.Complete("payment_123"))
	require.NoError(t, repo.Update(ctx, p))

	cardIDs, err = repo.ListCompletedCardIDs(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []uint{2}, cardIDs)

	owned, err := repo.HasCompletedPurchase(ctx, 1, 2)
	require.NoError(t, err)
	assert.True(t, owned)

	owned, err = repo.HasCompletedPurchase(ctx, 2, 2)
	require.NoError(t, err)
	assert.False(t, owned, "entitlement is per user")
}

func TestPurchaseRepository_FindExpiredPending(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPurchaseRepository(db, logger.NewLogger())
	ctx := context.Background()

	expired := newTestPurchase(t, 1, 2, "card_abc123XYZ789", time.Millisecond)
	require.NoError(t, repo.Create(ctx, expired))

	fresh := newTestPurchase(t, 1, 3, "card_def456UVW012", 24*time.Hour)
	require.NoError(t, repo.Create(ctx, fresh))

	completed := newTestPurchase(t, 2, 2, "card_ghi789RST345", time.Millisecond)
	require.NoError(t, repo.Create(ctx, completed))
	require.NoError(t, completed.Complete("payment_123"))
	require.NoError(t, repo.Update(ctx, completed))

	time.Sleep(5 * time.Millisecond)

	found, err := repo.FindExpiredPending(ctx, 100)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, expired.SID(), found[0].SID())
}

func TestPurchaseRepository_DeleteByCardIDs(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPurchaseRepository(db, logger.NewLogger())
	ctx := context.Background()

	p1 := newTestPurchase(t, 1, 2, "card_abc123XYZ789", 24*time.Hour)
	require.NoError(t, repo.Create(ctx, p1))
	p2 := newTestPurchase(t, 1, 3, "card_def456UVW012", 24*time.Hour)
	require.NoError(t, repo.Create(ctx, p2))

	require.NoError(t, repo.DeleteByCardIDs(ctx, []uint{2}))

	_, err := repo.GetByOrderNo(ctx, p1.OrderNo())
	assert.True(t, apperrors.IsNotFoundError(err))

	_, err = repo.GetByOrderNo(ctx, p2.OrderNo())
	assert.NoError(t, err)
}

func TestPurchaseRepository_ListByUserID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPurchaseRepository(db, logger.NewLogger())
	ctx := context.Background()

	p1 := newTestPurchase(t, 1, 2, "card_abc123XYZ789", 24*time.Hour)
	require.NoError(t, repo.Create(ctx, p1))
	p2 := newTestPurchase(t, 1, 3, "card_def456UVW012", 24*time.Hour)
	require.NoError(t, repo.Create(ctx, p2))
	other := newTestPurchase(t, 2, 2, "card_ghi789RST345", 24*time.Hour)
	require.NoError(t, repo.Create(ctx, other))

	list, total, err := repo.ListByUserID(ctx, 1, purchase.PurchaseFilter{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, list, 2)

	status := "pending"
	cardID := uint(3)
	list, total, err = repo.ListByUserID(ctx, 1, purchase.PurchaseFilter{
		CardID: &cardID, Status: &status, Page: 1, PageSize: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, list, 1)
	assert.Equal(t, p2.SID(), list[0].SID())
}
