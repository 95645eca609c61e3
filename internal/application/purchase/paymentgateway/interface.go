package paymentgateway

import (
	"context"
	"net/url"
	"time"
)

// PaymentGateway defines the interface for payment gateway integrations
type PaymentGateway interface {
	// CreateCheckout builds the signed checkout request for the gateway's
	// hosted payment page.
	CreateCheckout(ctx context.Context, req CreateCheckoutRequest) (*CheckoutSession, error)
	// VerifyCallback verifies and parses the server-to-server payment
	// notification. The returned CallbackData.Amount is in the smallest
	// currency unit to match the Purchase.Amount stored in the database.
	VerifyCallback(values url.Values) (*CallbackData, error)
}

// CreateCheckoutRequest contains the data needed to start a checkout
type CreateCheckoutRequest struct {
	OrderNo   string
	Amount    int64 // smallest currency unit (cents)
	Currency  string
	ItemName  string
	FirstName string
	LastName  string
	Email     string
	Phone     string
}

// CheckoutSession is the signed parameter set the client posts to the
// gateway's hosted payment page.
type CheckoutSession struct {
	CheckoutURL string
	Fields      map[string]string
}

// CallbackData contains the parsed payment notification from the gateway.
type CallbackData struct {
	OrderNo          string
	GatewayPaymentID string
	Amount           int64 // smallest currency unit (cents)
	Currency         string
	StatusCode       string
	PaidAt           time.Time
	RawData          map[string]string
}

// Gateway status codes for the notify callback.
const (
	StatusCodeSuccess    = "2"
	StatusCodePending    = "0"
	StatusCodeCanceled   = "-1"
	StatusCodeFailed     = "-2"
	StatusCodeChargeback = "-3"
)
