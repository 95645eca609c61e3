package usecases

import (
	"context"
	"fmt"
	"strings"
	"time"

	"kuppi/internal/application/purchase/paymentgateway"
	"kuppi/internal/domain/catalog"
	"kuppi/internal/domain/purchase"
	vo "kuppi/internal/domain/purchase/valueobjects"
	"kuppi/internal/domain/user"
	apperrors "kuppi/internal/shared/errors"
	"kuppi/internal/shared/logger"
)

// InitiateCheckoutCommand contains the data needed to start a checkout
type InitiateCheckoutCommand struct {
	UserID  uint
	CardSID string
	Phone   string
}

// InitiateCheckoutResult carries the pending purchase and the signed
// gateway parameters the client posts to the hosted payment page.
type InitiateCheckoutResult struct {
	PurchaseSID string            `json:"purchase_sid"`
	OrderNo     string            `json:"order_no"`
	CheckoutURL string            `json:"checkout_url"`
	Fields      map[string]string `json:"fields"`
}

// InitiateCheckoutUseCase creates a pending purchase for a paid course card
// and builds the gateway checkout session. The order number embeds the card
// SID so the callback can recover the card without a lookup table.
type InitiateCheckoutUseCase struct {
	purchaseRepo purchase.PurchaseRepository
	cardRepo     catalog.CourseCardRepository
	userRepo     user.UserRepository
	gateway      paymentgateway.PaymentGateway
	pendingTTL   time.Duration
	logger       logger.Interface
}

func NewInitiateCheckoutUseCase(
	purchaseRepo purchase.PurchaseRepository,
	cardRepo catalog.CourseCardRepository,
	userRepo user.UserRepository,
	gateway paymentgateway.PaymentGateway,
	pendingTTL time.Duration,
	logger logger.Interface,
) *InitiateCheckoutUseCase {
	return &InitiateCheckoutUseCase{
		purchaseRepo: purchaseRepo,
		cardRepo:     cardRepo,
		userRepo:     userRepo,
		gateway:      gateway,
		pendingTTL:   pendingTTL,
		logger:       logger,
	}
}

func (uc *InitiateCheckoutUseCase) Execute(ctx context.Context, cmd InitiateCheckoutCommand) (*InitiateCheckoutResult, error) {
	card, err := uc.cardRepo.GetBySID(ctx, cmd.CardSID)
	if err != nil {
		return nil, err
	}

	// Free cards never go through checkout; they are accessible to every
	// signed-in user already.
	if card.IsFree() {
		return nil, apperrors.NewValidationError("free course cards do not require purchase")
	}

	owned, err := uc.purchaseRepo.HasCompletedPurchase(ctx, cmd.UserID, card.ID())
	if err != nil {
		return nil, fmt.Errorf("failed to check existing purchase: %w", err)
	}
	if owned {
		return nil, apperrors.NewConflictError("course card already purchased")
	}

	buyer, err := uc.userRepo.GetByID(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}

	orderNo, err := vo.NewOrderNo(card.SID())
	if err != nil {
		return nil, fmt.Errorf("failed to build order number: %w", err)
	}

	amount := vo.NewMoney(int64(card.Price()), card.Currency())

	pending, err := purchase.NewPurchase(cmd.UserID, card.ID(), orderNo, amount, uc.pendingTTL)
	if err != nil {
		return nil, err
	}

	if err := uc.purchaseRepo.Create(ctx, pending); err != nil {
		return nil, fmt.Errorf("failed to create purchase: %w", err)
	}

	firstName, lastName := splitName(buyer.Name())
	session, err := uc.gateway.CreateCheckout(ctx, paymentgateway.CreateCheckoutRequest{
		OrderNo:   orderNo.Value(),
		Amount:    amount.AmountInCents(),
		Currency:  amount.Currency(),
		ItemName:  card.Name(),
		FirstName: firstName,
		LastName:  lastName,
		Email:     buyer.Email(),
		Phone:     cmd.Phone,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	uc.logger.Infow("checkout initiated",
		"purchase_sid", pending.SID(),
		"order_no", orderNo.Value(),
		"user_id", cmd.UserID,
		"card_sid", card.SID(),
		"amount", amount.AmountInCents(),
	)

	return &InitiateCheckoutResult{
		PurchaseSID: pending.SID(),
		OrderNo:     orderNo.Value(),
		CheckoutURL: session.CheckoutURL,
		Fields:      session.Fields,
	}, nil
}

func splitName(full string) (first, last string) {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return "", ""
	}
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}
