package valueobjects

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"kuppi/internal/shared/id"
)

// OrderNo is the order identifier sent to the payment gateway. It encodes
// the issue time and the course card being bought so a redirect callback
// can be traced back to a card without a separate lookup table:
//
//	ORDER_<unix-millis>-<nonce>_<card_sid>
//
// The nonce keeps two checkout attempts within the same millisecond from
// colliding on the unique order number index. Parsing fails closed:
// anything that does not match the exact shape is rejected rather than
// guessed at.
type OrderNo struct {
	value    string
	issuedAt time.Time
	cardSID  string
}

const (
	orderNoPrefix      = "ORDER"
	orderNoNonceLength = 6
)

// NewOrderNo builds an order number for the given course card SID at the
// current time.
func NewOrderNo(cardSID string) (OrderNo, error) {
	return newOrderNoAt(cardSID, time.Now())
}

func newOrderNoAt(cardSID string, at time.Time) (OrderNo, error) {
	if err := id.ValidatePrefix(cardSID, id.PrefixCourseCard); err != nil {
		return OrderNo{}, fmt.Errorf("invalid course card SID %q: %w", cardSID, err)
	}

	millis := at.UnixMilli()
	nonce := id.MustGenerate(orderNoNonceLength)
	return OrderNo{
		value:    fmt.Sprintf("%s_%d-%s_%s", orderNoPrefix, millis, nonce, cardSID),
		issuedAt: time.UnixMilli(millis),
		cardSID:  cardSID,
	}, nil
}

// ParseOrderNo validates and decomposes an order number received from the
// gateway callback.
func ParseOrderNo(raw string) (OrderNo, error) {
	parts := strings.SplitN(raw, "_", 3)
	if len(parts) != 3 {
		return OrderNo{}, fmt.Errorf("malformed order number: %q", raw)
	}
	if parts[0] != orderNoPrefix {
		return OrderNo{}, fmt.Errorf("unexpected order number prefix: %q", raw)
	}

	// Order numbers issued before the nonce was introduced have a bare
	// timestamp segment; both shapes parse.
	millisPart, nonce, hasNonce := strings.Cut(parts[1], "-")
	if hasNonce && nonce == "" {
		return OrderNo{}, fmt.Errorf("empty order number nonce: %q", raw)
	}

	millis, err := strconv.ParseInt(millisPart, 10, 64)
	if err != nil || millis <= 0 {
		return OrderNo{}, fmt.Errorf("invalid order number timestamp: %q", raw)
	}

	cardSID := parts[2]
	if err := id.ValidatePrefix(cardSID, id.PrefixCourseCard); err != nil {
		return OrderNo{}, fmt.Errorf("invalid course card SID in order number %q: %w", raw, err)
	}

	return OrderNo{
		value:    raw,
		issuedAt: time.UnixMilli(millis),
		cardSID:  cardSID,
	}, nil
}

func (o OrderNo) Value() string {
	return o.value
}

func (o OrderNo) IssuedAt() time.Time {
	return o.issuedAt
}

// CardSID returns the course card SID encoded in the order number.
func (o OrderNo) CardSID() string {
	return o.cardSID
}

func (o OrderNo) IsZero() bool {
	return o.value == ""
}

func (o OrderNo) String() string {
	return o.value
}
