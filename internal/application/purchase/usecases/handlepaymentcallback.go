package usecases

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"kuppi/internal/application/purchase/paymentgateway"
	"kuppi/internal/domain/catalog"
	"kuppi/internal/domain/purchase"
	vo "kuppi/internal/domain/purchase/valueobjects"
	"kuppi/internal/domain/user"
	"kuppi/internal/infrastructure/cache"
	"kuppi/internal/infrastructure/pubsub"
	apperrors "kuppi/internal/shared/errors"
	"kuppi/internal/shared/goroutine"
	"kuppi/internal/shared/logger"
)

// ReceiptNotifier sends a purchase receipt to the buyer.
type ReceiptNotifier interface {
	SendPurchaseReceipt(to, userName, cardName, orderNo, amount string) error
}

// HandlePaymentCallbackUseCase reconciles a gateway payment notification into
// durable purchase state. Replaying the same notification is a no-op: the
// order number is the natural dedup key and Complete does not transition an
// already completed purchase.
type HandlePaymentCallbackUseCase struct {
	purchaseRepo     purchase.PurchaseRepository
	cardRepo         catalog.CourseCardRepository
	userRepo         user.UserRepository
	gateway          paymentgateway.PaymentGateway
	entitlementCache cache.EntitlementCache
	publisher        pubsub.ChangeEventPublisher
	receiptNotifier  ReceiptNotifier // Optional
	logger           logger.Interface
}

func NewHandlePaymentCallbackUseCase(
	purchaseRepo purchase.PurchaseRepository,
	cardRepo catalog.CourseCardRepository,
	userRepo user.UserRepository,
	gateway paymentgateway.PaymentGateway,
	entitlementCache cache.EntitlementCache,
	publisher pubsub.ChangeEventPublisher,
	logger logger.Interface,
) *HandlePaymentCallbackUseCase {
	return &HandlePaymentCallbackUseCase{
		purchaseRepo:     purchaseRepo,
		cardRepo:         cardRepo,
		userRepo:         userRepo,
		gateway:          gateway,
		entitlementCache: entitlementCache,
		publisher:        publisher,
		logger:           logger,
	}
}

// SetReceiptNotifier sets the receipt notifier (optional dependency injection)
func (uc *HandlePaymentCallbackUseCase) SetReceiptNotifier(notifier ReceiptNotifier) {
	uc.receiptNotifier = notifier
}

func (uc *HandlePaymentCallbackUseCase) Execute(ctx context.Context, values url.Values) error {
	callbackData, err := uc.gateway.VerifyCallback(values)
	if err != nil {
		uc.logger.Warnw("invalid payment callback", "error", err)
		return apperrors.NewValidationError("invalid payment callback", err.Error())
	}

	// The order number format is the contract with the gateway. Reject
	// anything that does not parse rather than guessing.
	orderNo, err := vo.ParseOrderNo(callbackData.OrderNo)
	if err != nil {
		uc.logger.Warnw("malformed order number in callback",
			"order_no", callbackData.OrderNo, "error", err)
		return apperrors.NewValidationError("malformed order number", err.Error())
	}

	order, err := uc.purchaseRepo.GetByOrderNo(ctx, orderNo.Value())
	if err != nil {
		uc.logger.Warnw("purchase not found for callback",
			"order_no", orderNo.Value(), "error", err)
		return fmt.Errorf("purchase not found: %w", err)
	}

	if order.Status().IsCompleted() {
		uc.logger.Infow("payment callback already processed",
			"purchase_sid", order.SID(), "order_no", orderNo.Value())
		return nil
	}

	if callbackData.StatusCode == paymentgateway.StatusCodeSuccess {
		return uc.handleSuccess(ctx, order, callbackData)
	}
	return uc.handleFailure(ctx, order, callbackData)
}

func (uc *HandlePaymentCallbackUseCase) handleSuccess(
	ctx context.Context,
	order *purchase.Purchase,
	callbackData *paymentgateway.CallbackData,
) error {
	if callbackData.Amount != order.Amount().AmountInCents() ||
		callbackData.Currency != order.Amount().Currency() {
		uc.logger.Errorw("callback amount/currency mismatch",
			"purchase_sid", order.SID(),
			"expected_amount", order.Amount().AmountInCents(),
			"callback_amount", callbackData.Amount,
			"expected_currency", order.Amount().Currency(),
			"callback_currency", callbackData.Currency,
		)
		reason := fmt.Sprintf("amount/currency mismatch: got %d %s",
			callbackData.Amount, callbackData.Currency)
		if markErr := order.Fail(reason); markErr != nil {
			return markErr
		}
		if updateErr := uc.purchaseRepo.Update(ctx, order); updateErr != nil {
			return fmt.Errorf("failed to update purchase after amount mismatch: %w", updateErr)
		}
		// Acknowledge callback to avoid repeated retries for a known mismatch
		return nil
	}

	if err := order.Complete(callbackData.GatewayPaymentID); err != nil {
		return err
	}

	if err := uc.purchaseRepo.Update(ctx, order); err != nil {
		return fmt.Errorf("failed to update purchase: %w", err)
	}

	// The cached entitlement set is stale the moment the purchase
	// completes; drop it so the next read recomputes from storage.
	if err := uc.entitlementCache.Invalidate(ctx, order.UserID()); err != nil {
		uc.logger.Warnw("failed to invalidate entitlement cache",
			"user_id", order.UserID(), "error", err)
	}

	cardSID := ""
	card, err := uc.cardRepo.GetByID(ctx, order.CardID())
	if err != nil {
		uc.logger.Warnw("failed to load card for purchase event",
			"card_id", order.CardID(), "error", err)
	} else {
		cardSID = card.SID()
	}

	if err := uc.publisher.PublishPurchaseChange(ctx, order.UserID(), cardSID); err != nil {
		uc.logger.Warnw("failed to publish purchase change",
			"purchase_sid", order.SID(), "error", err)
	}

	uc.logger.Infow("payment processed successfully",
		"purchase_sid", order.SID(),
		"order_no", order.OrderNo(),
		"gateway_payment_id", callbackData.GatewayPaymentID,
	)

	if uc.receiptNotifier != nil && card != nil {
		uc.sendReceiptAsync(order, card)
	}

	return nil
}

func (uc *HandlePaymentCallbackUseCase) handleFailure(
	ctx context.Context,
	order *purchase.Purchase,
	callbackData *paymentgateway.CallbackData,
) error {
	reason := fmt.Sprintf("gateway status %s", callbackData.StatusCode)
	if err := order.Fail(reason); err != nil {
		return err
	}

	if err := uc.purchaseRepo.Update(ctx, order); err != nil {
		return fmt.Errorf("failed to update failed purchase: %w", err)
	}

	uc.logger.Infow("payment marked as failed",
		"purchase_sid", order.SID(),
		"order_no", order.OrderNo(),
		"status_code", callbackData.StatusCode,
	)
	return nil
}

func (uc *HandlePaymentCallbackUseCase) sendReceiptAsync(order *purchase.Purchase, card *catalog.CourseCard) {
	goroutine.SafeGo(uc.logger, "purchase-receipt", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		buyer, err := uc.userRepo.GetByID(ctx, order.UserID())
		if err != nil {
			uc.logger.Warnw("failed to load buyer for receipt",
				"user_id", order.UserID(), "error", err)
			return
		}

		if err := uc.receiptNotifier.SendPurchaseReceipt(
			buyer.Email(),
			buyer.Name(),
			card.Name(),
			order.OrderNo(),
			order.Amount().String(),
		); err != nil {
			uc.logger.Warnw("failed to send purchase receipt",
				"purchase_sid", order.SID(), "error", err)
		}
	})
}
