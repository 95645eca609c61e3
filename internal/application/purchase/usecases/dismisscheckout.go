package usecases

import (
	"context"
	"fmt"

	"kuppi/internal/domain/purchase"
	apperrors "kuppi/internal/shared/errors"
	"kuppi/internal/shared/logger"
)

// DismissCheckoutCommand identifies the checkout the user abandoned.
type DismissCheckoutCommand struct {
	UserID      uint
	PurchaseSID string
}

// DismissCheckoutUseCase marks a pending purchase as failed when the user
// dismisses the payment dialog. Dismissal leaves no partial entitlement: a
// failed purchase never enters the entitlement set.
type DismissCheckoutUseCase struct {
	purchaseRepo purchase.PurchaseRepository
	logger       logger.Interface
}

func NewDismissCheckoutUseCase(
	purchaseRepo purchase.PurchaseRepository,
	logger logger.Interface,
) *DismissCheckoutUseCase {
	return &DismissCheckoutUseCase{
		purchaseRepo: purchaseRepo,
		logger:       logger,
	}
}

func (uc *DismissCheckoutUseCase) Execute(ctx context.Context, cmd DismissCheckoutCommand) error {
	order, err := uc.purchaseRepo.GetBySID(ctx, cmd.PurchaseSID)
	if err != nil {
		return err
	}

	if order.UserID() != cmd.UserID {
		return apperrors.NewForbiddenError("purchase belongs to another user")
	}

	// A completed purchase cannot be dismissed; the success callback won.
	if order.Status().IsCompleted() {
		return apperrors.NewConflictError("purchase already completed")
	}

	if err := order.Fail("checkout dismissed by user"); err != nil {
		return err
	}

	if err := uc.purchaseRepo.Update(ctx, order); err != nil {
		return fmt.Errorf("failed to update dismissed purchase: %w", err)
	}

	uc.logger.Infow("checkout dismissed",
		"purchase_sid", order.SID(),
		"order_no", order.OrderNo(),
		"user_id", cmd.UserID,
	)
	return nil
}
