package paymentgateway

import (
	"context"
	"crypto/md5"
	"crypto/subtle"
	"fmt"
	"math/big"
	"net/url"
	"strings"

	"kuppi/internal/shared/biztime"
	"kuppi/internal/shared/config"
	apperrors "kuppi/internal/shared/errors"
	"kuppi/internal/shared/logger"
)

const (
	payhereSandboxCheckoutURL = "https://sandbox.payhere.lk/pay/checkout"
	payhereLiveCheckoutURL    = "https://www.payhere.lk/pay/checkout"
)

// PayHereGateway implements PaymentGateway for the PayHere hosted checkout.
// Checkout requests carry an MD5 signature over the order fields; notify
// callbacks carry an md5sig computed the same way plus the status code.
type PayHereGateway struct {
	merchantID     string
	merchantSecret string
	sandbox        bool
	notifyURL      string
	returnURL      string
	cancelURL      string
	logger         logger.Interface
}

func NewPayHereGateway(cfg config.PaymentConfig, logger logger.Interface) *PayHereGateway {
	return &PayHereGateway{
		merchantID:     cfg.MerchantID,
		merchantSecret: cfg.MerchantSecret,
		sandbox:        cfg.Sandbox,
		notifyURL:      cfg.NotifyURL,
		returnURL:      cfg.ReturnURL,
		cancelURL:      cfg.CancelURL,
		logger:         logger,
	}
}

func (g *PayHereGateway) CreateCheckout(ctx context.Context, req CreateCheckoutRequest) (*CheckoutSession, error) {
	if req.OrderNo == "" {
		return nil, apperrors.NewValidationError("order number is required")
	}
	if req.Amount <= 0 {
		return nil, apperrors.NewValidationError("amount must be positive")
	}

	amountStr := formatAmount(req.Amount)
	hash := g.checkoutHash(req.OrderNo, amountStr, req.Currency)

	fields := map[string]string{
		"merchant_id": g.merchantID,
		"return_url":  g.returnURL,
		"cancel_url":  g.cancelURL,
		"notify_url":  g.notifyURL,
		"order_id":    req.OrderNo,
		"items":       req.ItemName,
		"amount":      amountStr,
		"currency":    req.Currency,
		"hash":        hash,
		"first_name":  req.FirstName,
		"last_name":   req.LastName,
		"email":       req.Email,
		"phone":       req.Phone,
		"country":     "Sri Lanka",
	}

	checkoutURL := payhereLiveCheckoutURL
	if g.sandbox {
		checkoutURL = payhereSandboxCheckoutURL
	}

	return &CheckoutSession{
		CheckoutURL: checkoutURL,
		Fields:      fields,
	}, nil
}

func (g *PayHereGateway) VerifyCallback(values url.Values) (*CallbackData, error) {
	merchantID := values.Get("merchant_id")
	orderNo := values.Get("order_id")
	paymentID := values.Get("payment_id")
	amountStr := values.Get("payhere_amount")
	currency := values.Get("payhere_currency")
	statusCode := values.Get("status_code")
	md5sig := values.Get("md5sig")

	if merchantID == "" || orderNo == "" || amountStr == "" || currency == "" || statusCode == "" || md5sig == "" {
		return nil, apperrors.NewValidationError("incomplete payment notification")
	}
	if merchantID != g.merchantID {
		return nil, apperrors.NewValidationError("merchant id mismatch")
	}

	expected := g.notifySignature(orderNo, amountStr, currency, statusCode)
	if subtle.ConstantTimeCompare([]byte(expected), []byte(strings.ToUpper(md5sig))) != 1 {
		g.logger.Warnw("payment notification signature mismatch",
			"order_no", orderNo,
		)
		return nil, apperrors.NewValidationError("invalid payment notification signature")
	}

	amount, err := parseAmount(amountStr)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid payment amount", err.Error())
	}

	raw := make(map[string]string, len(values))
	for k := range values {
		raw[k] = values.Get(k)
	}

	return &CallbackData{
		OrderNo:          orderNo,
		GatewayPaymentID: paymentID,
		Amount:           amount,
		Currency:         currency,
		StatusCode:       statusCode,
		PaidAt:           biztime.NowUTC(),
		RawData:          raw,
	}, nil
}

// checkoutHash computes UPPER(MD5(merchant_id + order_id + amount + currency
// + UPPER(MD5(merchant_secret)))).
func (g *PayHereGateway) checkoutHash(orderNo, amount, currency string) string {
	secretHash := upperMD5(g.merchantSecret)
	return upperMD5(g.merchantID + orderNo + amount + currency + secretHash)
}

// notifySignature adds the status code between currency and the hashed secret.
func (g *PayHereGateway) notifySignature(orderNo, amount, currency, statusCode string) string {
	secretHash := upperMD5(g.merchantSecret)
	return upperMD5(g.merchantID + orderNo + amount + currency + statusCode + secretHash)
}

func upperMD5(s string) string {
	sum := md5.Sum([]byte(s))
	return strings.ToUpper(fmt.Sprintf("%x", sum))
}

// formatAmount renders cents as a two-decimal string, e.g. 250000 -> "2500.00".
func formatAmount(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}

// parseAmount converts a two-decimal amount string back to cents without
// going through floating point.
func parseAmount(s string) (int64, error) {
	s = strings.ReplaceAll(s, ",", "")
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return 0, fmt.Errorf("malformed amount %q", s)
	}
	r.Mul(r, big.NewRat(100, 1))
	if !r.IsInt() {
		return 0, fmt.Errorf("amount %q has sub-cent precision", s)
	}
	return r.Num().Int64(), nil
}
