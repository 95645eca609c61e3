package purchase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "kuppi/internal/domain/purchase/valueobjects"
)

// --- helpers ---

func newPendingPurchase(t *testing.T) *Purchase {
	t.Helper()
	orderNo, err := vo.NewOrderNo("card_abc123XYZ789")
	require.NoError(t, err)

	p, err := NewPurchase(1, 2, orderNo, vo.NewMoney(250000, "LKR"), 24*time.Hour)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p
}

func TestNewPurchase_ValidInput(t *testing.T) {
	p := newPendingPurchase(t)

	assert.NotEmpty(t, p.SID())
	assert.Equal(t, uint(1), p.UserID())
	assert.Equal(t, uint(2), p.CardID())
	assert.Equal(t, vo.PurchaseStatusPending, p.Status())
	assert.Nil(t, p.PurchasedAt())
	assert.Nil(t, p.GatewayPaymentID())
	assert.False(t, p.IsExpired())
	assert.Equal(t, 1, p.Version())
}

func TestNewPurchase_InvalidInput(t *testing.T) {
	orderNo, err := vo.NewOrderNo("card_abc123XYZ789")
	require.NoError(t, err)
	amount := vo.NewMoney(250000, "LKR")

	tests := []struct {
		name    string
		userID  uint
		cardID  uint
		orderNo vo.OrderNo
		amount  vo.Money
		ttl     time.Duration
	}{
		{"missing user", 0, 2, orderNo, amount, time.Hour},
		{"missing card", 1, 0, orderNo, amount, time.Hour},
		{"zero order number", 1, 2, vo.OrderNo{}, amount, time.Hour},
		{"non-positive amount", 1, 2, orderNo, vo.NewMoney(0, "LKR"), time.Hour},
		{"non-positive ttl", 1, 2, orderNo, amount, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p, err := NewPurchase(tc.userID, tc.cardID, tc.orderNo, tc.amount, tc.ttl)
			assert.Error(t, err)
			assert.Nil(t, p)
		})
	}
}

func TestPurchase_Complete(t *testing.T) {
	p := newPendingPurchase(t)

	err := p.Complete("payment_12345")

	require.NoError(t, err)
	assert.Equal(t, vo.PurchaseStatusCompleted, p.Status())
	require.NotNil(t, p.GatewayPaymentID())
	assert.Equal(t, "payment_12345", *p.GatewayPaymentID())
	assert.NotNil(t, p.PurchasedAt())
	assert.Equal(t, 2, p.Version())
}

func TestPurchase_Complete_IdempotentReplay(t *testing.T) {
	p := newPendingPurchase(t)
	require.NoError(t, p.Complete("payment_12345"))

	firstPurchasedAt := p.PurchasedAt()
	require.NoError(t, p.Complete("payment_99999"))

	// replay must not touch anything
	assert.Equal(t, "payment_12345", *p.GatewayPaymentID())
	assert.Equal(t, firstPurchasedAt, p.PurchasedAt())
	assert.Equal(t, 2, p.Version())
}

func TestPurchase_Fail(t *testing.T) {
	p := newPendingPurchase(t)

	err := p.Fail("payment dismissed")

	require.NoError(t, err)
	assert.Equal(t, vo.PurchaseStatusFailed, p.Status())
	require.NotNil(t, p.FailureReason())
	assert.Equal(t, "payment dismissed", *p.FailureReason())
}

func TestPurchase_TerminalTransitions(t *testing.T) {
	t.Run("completed cannot fail", func(t *testing.T) {
		p := newPendingPurchase(t)
		require.NoError(t, p.Complete("payment_12345"))

		err := p.Fail("too late")

		assert.Error(t, err)
		assert.Equal(t, vo.PurchaseStatusCompleted, p.Status())
	})

	t.Run("failed cannot complete", func(t *testing.T) {
		p := newPendingPurchase(t)
		require.NoError(t, p.Fail("dismissed"))

		err := p.Complete("payment_12345")

		assert.Error(t, err)
		assert.Equal(t, vo.PurchaseStatusFailed, p.Status())
	})

	t.Run("failing twice is a no-op", func(t *testing.T) {
		p := newPendingPurchase(t)
		require.NoError(t, p.Fail("dismissed"))
		require.NoError(t, p.Fail("again"))
		assert.Equal(t, "dismissed", *p.FailureReason())
	})
}

func TestPurchase_IsExpired(t *testing.T) {
	orderNo, err := vo.NewOrderNo("card_abc123XYZ789")
	require.NoError(t, err)

	p, err := NewPurchase(1, 2, orderNo, vo.NewMoney(250000, "LKR"), time.Millisecond)
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	assert.True(t, p.IsExpired())

	require.NoError(t, p.Fail("expired"))
	assert.False(t, p.IsExpired())
}
