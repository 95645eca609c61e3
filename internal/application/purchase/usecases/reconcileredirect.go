package usecases

import (
	"context"

	"kuppi/internal/domain/catalog"
	"kuppi/internal/domain/purchase"
	vo "kuppi/internal/domain/purchase/valueobjects"
	apperrors "kuppi/internal/shared/errors"
	"kuppi/internal/shared/logger"
)

// ReconcileRedirectCommand identifies the order carried by the success
// redirect query string.
type ReconcileRedirectCommand struct {
	UserID  uint
	OrderNo string
}

// ReconcileRedirectResult reports the purchase state observed at redirect
// time.
type ReconcileRedirectResult struct {
	PurchaseSID string `json:"purchase_sid"`
	CardSID     string `json:"card_sid"`
	Status      string `json:"status"`
}

// ReconcileRedirectUseCase resolves the success-redirect page load into the
// purchase's current state. It is strictly read-only: the browser redirect
// carries no proof of payment, so only the signature-verified gateway
// notification may complete an order. Until that notification lands the
// redirect reports pending and the client polls.
type ReconcileRedirectUseCase struct {
	purchaseRepo purchase.PurchaseRepository
	cardRepo     catalog.CourseCardRepository
	logger       logger.Interface
}

func NewReconcileRedirectUseCase(
	purchaseRepo purchase.PurchaseRepository,
	cardRepo catalog.CourseCardRepository,
	logger logger.Interface,
) *ReconcileRedirectUseCase {
	return &ReconcileRedirectUseCase{
		purchaseRepo: purchaseRepo,
		cardRepo:     cardRepo,
		logger:       logger,
	}
}

func (uc *ReconcileRedirectUseCase) Execute(ctx context.Context, cmd ReconcileRedirectCommand) (*ReconcileRedirectResult, error) {
	orderNo, err := vo.ParseOrderNo(cmd.OrderNo)
	if err != nil {
		return nil, apperrors.NewValidationError("malformed order number", err.Error())
	}

	order, err := uc.purchaseRepo.GetByOrderNo(ctx, orderNo.Value())
	if err != nil {
		return nil, err
	}

	if order.UserID() != cmd.UserID {
		return nil, apperrors.NewForbiddenError("purchase belongs to another user")
	}

	card, err := uc.cardRepo.GetByID(ctx, order.CardID())
	if err != nil {
		return nil, err
	}

	uc.logger.Debugw("redirect observed purchase state",
		"purchase_sid", order.SID(),
		"order_no", order.OrderNo(),
		"status", string(order.Status()),
	)

	return &ReconcileRedirectResult{
		PurchaseSID: order.SID(),
		CardSID:     card.SID(),
		Status:      string(order.Status()),
	}, nil
}
