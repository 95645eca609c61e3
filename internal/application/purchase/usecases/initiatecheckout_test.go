package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kuppi/internal/domain/catalog"
	vo "kuppi/internal/domain/purchase/valueobjects"
	"kuppi/internal/shared/logger"
)

func newInitiateUC(f *fixture) *InitiateCheckoutUseCase {
	return NewInitiateCheckoutUseCase(
		f.purchaseRepo, f.cardRepo, f.userRepo, f.gateway,
		24*time.Hour, logger.NewLogger(),
	)
}

func TestInitiateCheckout_CreatesPendingPurchase(t *testing.T) {
	f := newFixture(t)
	uc := newInitiateUC(f)
	ctx := context.Background()

	result, err := uc.Execute(ctx, InitiateCheckoutCommand{
		UserID:  f.buyer.ID(),
		CardSID: f.card.SID(),
		Phone:   "0771234567",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, result.PurchaseSID)
	assert.NotEmpty(t, result.OrderNo)
	assert.Equal(t, "https://sandbox.payhere.lk/pay/checkout", result.CheckoutURL)

	stored, err := f.purchaseRepo.GetByOrderNo(ctx, result.OrderNo)
	require.NoError(t, err)
	assert.Equal(t, vo.PurchaseStatusPending, stored.Status())
	assert.Equal(t, f.buyer.ID(), stored.UserID())
	assert.Equal(t, f.card.ID(), stored.CardID())
	assert.Equal(t, int64(250000), stored.Amount().AmountInCents())

	// the order number embeds the card so callbacks can trace it back
	orderNo, err := vo.ParseOrderNo(result.OrderNo)
	require.NoError(t, err)
	assert.Equal(t, f.card.SID(), orderNo.CardSID())
}

func TestInitiateCheckout_RejectsFreeCard(t *testing.T) {
	f := newFixture(t)
	uc := newInitiateUC(f)
	ctx := context.Background()

	subject, err := f.subjectRepo.GetByID(ctx, 1)
	require.NoError(t, err)
	freeCard, err := catalog.NewCourseCard(subject.ID(), "Free Seminar", "", 0, "LKR", true, 0)
	require.NoError(t, err)
	require.NoError(t, f.cardRepo.Create(ctx, freeCard))

	_, err = uc.Execute(ctx, InitiateCheckoutCommand{
		UserID:  f.buyer.ID(),
		CardSID: freeCard.SID(),
	})
	assert.Error(t, err)
}

func TestInitiateCheckout_RejectsAlreadyOwnedCard(t *testing.T) {
	f := newFixture(t)
	initiateUC := newInitiateUC(f)
	callbackUC := newCallbackUC(f)
	ctx := context.Background()

	pending := f.pendingPurchase(t, time.Hour)
	require.NoError(t, callbackUC.Execute(ctx, successNotify(pending.OrderNo(), "2500.00", "LKR")))

	_, err := initiateUC.Execute(ctx, InitiateCheckoutCommand{
		UserID:  f.buyer.ID(),
		CardSID: f.card.SID(),
	})
	assert.Error(t, err)
}

func TestInitiateCheckout_AllowsRetryAfterFailedPurchase(t *testing.T) {
	f := newFixture(t)
	uc := newInitiateUC(f)
	dismissUC := NewDismissCheckoutUseCase(f.purchaseRepo, logger.NewLogger())
	ctx := context.Background()

	first, err := uc.Execute(ctx, InitiateCheckoutCommand{
		UserID:  f.buyer.ID(),
		CardSID: f.card.SID(),
	})
	require.NoError(t, err)

	require.NoError(t, dismissUC.Execute(ctx, DismissCheckoutCommand{
		UserID:      f.buyer.ID(),
		PurchaseSID: first.PurchaseSID,
	}))

	// a failed attempt never blocks a fresh checkout
	second, err := uc.Execute(ctx, InitiateCheckoutCommand{
		UserID:  f.buyer.ID(),
		CardSID: f.card.SID(),
	})
	require.NoError(t, err)
	assert.NotEqual(t, first.OrderNo, second.OrderNo)
}
