package usecases

import (
	"context"
	"fmt"

	"kuppi/internal/domain/purchase"
	"kuppi/internal/shared/logger"
)

// expireBatchSize bounds how many stale checkouts one sweep processes.
const expireBatchSize = 100

// ExpirePurchasesUseCase fails pending purchases whose checkout window has
// passed. This is a background job run by the scheduler; it only touches
// pending rows, so a success callback that lands first always wins.
type ExpirePurchasesUseCase struct {
	purchaseRepo purchase.PurchaseRepository
	logger       logger.Interface
}

func NewExpirePurchasesUseCase(
	purchaseRepo purchase.PurchaseRepository,
	logger logger.Interface,
) *ExpirePurchasesUseCase {
	return &ExpirePurchasesUseCase{
		purchaseRepo: purchaseRepo,
		logger:       logger,
	}
}

// Execute finds and fails expired pending purchases.
// Returns the number of purchases marked as failed.
func (uc *ExpirePurchasesUseCase) Execute(ctx context.Context) (int, error) {
	expired, err := uc.purchaseRepo.FindExpiredPending(ctx, expireBatchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to find expired purchases: %w", err)
	}

	if len(expired) == 0 {
		return 0, nil
	}

	uc.logger.Infow("found expired pending purchases to process", "count", len(expired))

	markedCount := 0
	for _, order := range expired {
		if err := order.Fail("checkout expired"); err != nil {
			uc.logger.Warnw("failed to mark purchase as expired",
				"purchase_sid", order.SID(),
				"current_status", string(order.Status()),
				"error", err,
			)
			continue
		}

		if err := uc.purchaseRepo.Update(ctx, order); err != nil {
			uc.logger.Errorw("failed to update expired purchase",
				"purchase_sid", order.SID(),
				"error", err,
			)
			continue
		}

		markedCount++
		uc.logger.Debugw("purchase marked as expired",
			"purchase_sid", order.SID(),
			"order_no", order.OrderNo(),
		)
	}

	return markedCount, nil
}
