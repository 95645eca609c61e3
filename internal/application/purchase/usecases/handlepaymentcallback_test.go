package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kuppi/internal/application/purchase/paymentgateway"
	vo "kuppi/internal/domain/purchase/valueobjects"
	"kuppi/internal/shared/logger"
)

func newCallbackUC(f *fixture) *HandlePaymentCallbackUseCase {
	return NewHandlePaymentCallbackUseCase(
		f.purchaseRepo, f.cardRepo, f.userRepo, f.gateway,
		f.cache, f.publisher, logger.NewLogger(),
	)
}

func TestHandlePaymentCallback_SuccessCompletesPurchase(t *testing.T) {
	f := newFixture(t)
	uc := newCallbackUC(f)
	ctx := context.Background()

	pending := f.pendingPurchase(t, time.Hour)
	values := successNotify(pending.OrderNo(), "2500.00", "LKR")

	require.NoError(t, uc.Execute(ctx, values))

	stored, err := f.purchaseRepo.GetByOrderNo(ctx, pending.OrderNo())
	require.NoError(t, err)
	assert.Equal(t, vo.PurchaseStatusCompleted, stored.Status())
	require.NotNil(t, stored.GatewayPaymentID())
	assert.Equal(t, "320025471", *stored.GatewayPaymentID())
	assert.NotNil(t, stored.PurchasedAt())

	// entitlement cache dropped and purchase event published for the buyer
	assert.Contains(t, f.cache.invalidated, f.buyer.ID())
	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, "purchase", f.publisher.events[0].stream)
	assert.Equal(t, f.buyer.ID(), f.publisher.events[0].userID)
	assert.Equal(t, f.card.SID(), f.publisher.events[0].entitySID)
}

func TestHandlePaymentCallback_ReplayIsNoOp(t *testing.T) {
	f := newFixture(t)
	uc := newCallbackUC(f)
	ctx := context.Background()

	pending := f.pendingPurchase(t, time.Hour)
	values := successNotify(pending.OrderNo(), "2500.00", "LKR")

	require.NoError(t, uc.Execute(ctx, values))
	firstEvents := len(f.publisher.events)

	// the gateway retries the notification; replays change nothing
	for i := 0; i < 3; i++ {
		require.NoError(t, uc.Execute(ctx, values))
	}

	stored, err := f.purchaseRepo.GetByOrderNo(ctx, pending.OrderNo())
	require.NoError(t, err)
	assert.Equal(t, vo.PurchaseStatusCompleted, stored.Status())
	assert.Len(t, f.publisher.events, firstEvents)
}

func TestHandlePaymentCallback_AmountMismatchFailsPurchase(t *testing.T) {
	f := newFixture(t)
	uc := newCallbackUC(f)
	ctx := context.Background()

	pending := f.pendingPurchase(t, time.Hour)
	values := successNotify(pending.OrderNo(), "1.00", "LKR")

	// ack with nil so the gateway stops retrying a known mismatch
	require.NoError(t, uc.Execute(ctx, values))

	stored, err := f.purchaseRepo.GetByOrderNo(ctx, pending.OrderNo())
	require.NoError(t, err)
	assert.Equal(t, vo.PurchaseStatusFailed, stored.Status())
	assert.Empty(t, f.publisher.events)
	assert.Empty(t, f.cache.invalidated)
}

func TestHandlePaymentCallback_CurrencyMismatchFailsPurchase(t *testing.T) {
	f := newFixture(t)
	uc := newCallbackUC(f)
	ctx := context.Background()

	pending := f.pendingPurchase(t, time.Hour)
	values := successNotify(pending.OrderNo(), "2500.00", "USD")

	require.NoError(t, uc.Execute(ctx, values))

	stored, err := f.purchaseRepo.GetByOrderNo(ctx, pending.OrderNo())
	require.NoError(t, err)
	assert.Equal(t, vo.PurchaseStatusFailed, stored.Status())
}

func TestHandlePaymentCallback_FailureStatusFailsPurchase(t *testing.T) {
	f := newFixture(t)
	uc := newCallbackUC(f)
	ctx := context.Background()

	pending := f.pendingPurchase(t, time.Hour)
	values := successNotify(pending.OrderNo(), "2500.00", "LKR")
	values.Set("status_code", paymentgateway.StatusCodeCanceled)

	require.NoError(t, uc.Execute(ctx, values))

	stored, err := f.purchaseRepo.GetByOrderNo(ctx, pending.OrderNo())
	require.NoError(t, err)
	assert.Equal(t, vo.PurchaseStatusFailed, stored.Status())
	require.NotNil(t, stored.FailureReason())
	assert.Contains(t, *stored.FailureReason(), paymentgateway.StatusCodeCanceled)
	assert.Empty(t, f.publisher.events)
}

func TestHandlePaymentCallback_MalformedOrderNoRejected(t *testing.T) {
	f := newFixture(t)
	uc := newCallbackUC(f)

	values := successNotify("not-an-order-number", "2500.00", "LKR")

	err := uc.Execute(context.Background(), values)
	assert.Error(t, err)
}

func TestHandlePaymentCallback_UnknownOrderRejected(t *testing.T) {
	f := newFixture(t)
	uc := newCallbackUC(f)

	orderNo, err := vo.NewOrderNo(f.card.SID())
	require.NoError(t, err)
	values := successNotify(orderNo.Value(), "2500.00", "LKR")

	assert.Error(t, uc.Execute(context.Background(), values))
}

type recordingNotifier struct {
	sent chan string
}

func (n *recordingNotifier) SendPurchaseReceipt(to, userName, cardName, orderNo, amount string) error {
	n.sent <- to
	return nil
}

func TestHandlePaymentCallback_SendsReceipt(t *testing.T) {
	f := newFixture(t)
	uc := newCallbackUC(f)
	notifier := &recordingNotifier{sent: make(chan string, 1)}
	uc.SetReceiptNotifier(notifier)
	ctx := context.Background()

	pending := f.pendingPurchase(t, time.Hour)
	require.NoError(t, uc.Execute(ctx, successNotify(pending.OrderNo(), "2500.00", "LKR")))

	select {
	case to := <-notifier.sent:
		assert.Equal(t, f.buyer.Email(), to)
	case <-time.After(2 * time.Second):
		t.Fatal("receipt was never sent")
	}
}
