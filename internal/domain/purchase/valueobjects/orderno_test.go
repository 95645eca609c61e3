package valueobjects

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrderNo(t *testing.T) {
	orderNo, err := NewOrderNo("card_abc123XYZ789")

	require.NoError(t, err)
	assert.Equal(t, "card_abc123XYZ789", orderNo.CardSID())
	assert.Regexp(t, `^ORDER_\d+-[0-9A-Za-z]{6}_card_abc123XYZ789$`, orderNo.Value())
	assert.WithinDuration(t, time.Now(), orderNo.IssuedAt(), time.Second)
}

func TestNewOrderNo_DistinctWithinSameMillisecond(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		orderNo, err := NewOrderNo("card_abc123XYZ789")
		require.NoError(t, err)
		_, dup := seen[orderNo.Value()]
		assert.False(t, dup, "duplicate order number %s", orderNo.Value())
		seen[orderNo.Value()] = struct{}{}
	}
}

func TestNewOrderNo_RejectsBadCardSID(t *testing.T) {
	tests := []string{"", "card_", "vid_abc123XYZ789", "abc123XYZ789"}

	for _, sid := range tests {
		_, err := NewOrderNo(sid)
		assert.Error(t, err, "sid %q", sid)
	}
}

func TestParseOrderNo_RoundTrip(t *testing.T) {
	orderNo, err := NewOrderNo("card_abc123XYZ789")
	require.NoError(t, err)

	parsed, err := ParseOrderNo(orderNo.Value())

	require.NoError(t, err)
	assert.Equal(t, orderNo.Value(), parsed.Value())
	assert.Equal(t, "card_abc123XYZ789", parsed.CardSID())
	assert.Equal(t, orderNo.IssuedAt(), parsed.IssuedAt())
}

func TestParseOrderNo_KnownValue(t *testing.T) {
	parsed, err := ParseOrderNo("ORDER_1700000000000-a1B2c3_card_abc123XYZ789")

	require.NoError(t, err)
	assert.Equal(t, "card_abc123XYZ789", parsed.CardSID())
	assert.Equal(t, time.UnixMilli(1700000000000), parsed.IssuedAt())
}

func TestParseOrderNo_AcceptsBareTimestamp(t *testing.T) {
	parsed, err := ParseOrderNo("ORDER_1700000000000_card_abc123XYZ789")

	require.NoError(t, err)
	assert.Equal(t, "card_abc123XYZ789", parsed.CardSID())
	assert.Equal(t, time.UnixMilli(1700000000000), parsed.IssuedAt())
}

func TestParseOrderNo_FailsClosed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"missing parts", "ORDER_1700000000000-a1B2c3"},
		{"wrong prefix", "PAY_1700000000000-a1B2c3_card_abc123XYZ789"},
		{"empty nonce", "ORDER_1700000000000-_card_abc123XYZ789"},
		{"non-numeric timestamp", "ORDER_notatime-a1B2c3_card_abc123XYZ789"},
		{"negative timestamp", "ORDER_-5-a1B2c3_card_abc123XYZ789"},
		{"wrong sid prefix", "ORDER_1700000000000-a1B2c3_vid_abc123XYZ789"},
		{"bare card id", "ORDER_1700000000000-a1B2c3_C1"},
		{"empty sid", "ORDER_1700000000000-a1B2c3_"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			parsed, err := ParseOrderNo(tc.raw)
			assert.Error(t, err)
			assert.True(t, parsed.IsZero())
		})
	}
}
