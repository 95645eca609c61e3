package usecases

import (
	"context"
	"fmt"

	"kuppi/internal/domain/catalog"
	"kuppi/internal/domain/progress"
	"kuppi/internal/domain/purchase"
	"kuppi/internal/infrastructure/pubsub"
	"kuppi/internal/shared/db"
	"kuppi/internal/shared/logger"
)

// DeleteCourseCardUseCase removes a course card together with its videos and
// every dependent per-user row. The whole removal runs in one transaction so
// no orphaned progress or purchase row survives a partial failure.
type DeleteCourseCardUseCase struct {
	cardRepo     catalog.CourseCardRepository
	videoRepo    catalog.VideoRepository
	progressRepo progress.UserProgressRepository
	purchaseRepo purchase.PurchaseRepository
	txManager    *db.TransactionManager
	publisher    pubsub.ChangeEventPublisher
	logger       logger.Interface
}

func NewDeleteCourseCardUseCase(
	cardRepo catalog.CourseCardRepository,
	videoRepo catalog.VideoRepository,
	progressRepo progress.UserProgressRepository,
	purchaseRepo purchase.PurchaseRepository,
	txManager *db.TransactionManager,
	publisher pubsub.ChangeEventPublisher,
	logger logger.Interface,
) *DeleteCourseCardUseCase {
	return &DeleteCourseCardUseCase{
		cardRepo:     cardRepo,
		videoRepo:    videoRepo,
		progressRepo: progressRepo,
		purchaseRepo: purchaseRepo,
		txManager:    txManager,
		publisher:    publisher,
		logger:       logger,
	}
}

func (uc *DeleteCourseCardUseCase) Execute(ctx context.Context, cardSID string) error {
	card, err := uc.cardRepo.GetBySID(ctx, cardSID)
	if err != nil {
		return err
	}

	err = uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		return uc.deleteCardCascade(txCtx, card.ID())
	})
	if err != nil {
		return err
	}

	if err := uc.publisher.PublishCatalogChange(ctx, card.SID()); err != nil {
		uc.logger.Warnw("failed to publish catalog change",
			"card_sid", card.SID(), "error", err)
	}

	uc.logger.Infow("course card deleted", "card_sid", card.SID(), "name", card.Name())
	return nil
}

// deleteCardCascade removes dependents bottom-up: play counts first, then
// purchases, then the videos and finally the card itself.
func (uc *DeleteCourseCardUseCase) deleteCardCascade(ctx context.Context, cardID uint) error {
	videos, err := uc.videoRepo.ListByCardID(ctx, cardID)
	if err != nil {
		return fmt.Errorf("failed to list card videos: %w", err)
	}

	videoIDs := make([]uint, 0, len(videos))
	for _, v := range videos {
		videoIDs = append(videoIDs, v.ID())
	}

	if err := uc.progressRepo.DeleteByVideoIDs(ctx, videoIDs); err != nil {
		return fmt.Errorf("failed to delete play counts: %w", err)
	}
	if err := uc.purchaseRepo.DeleteByCardIDs(ctx, []uint{cardID}); err != nil {
		return fmt.Errorf("failed to delete purchases: %w", err)
	}
	if err := uc.videoRepo.DeleteByCardIDs(ctx, []uint{cardID}); err != nil {
		return fmt.Errorf("failed to delete videos: %w", err)
	}
	if err := uc.cardRepo.Delete(ctx, cardID); err != nil {
		return fmt.Errorf("failed to delete course card: %w", err)
	}

	return nil
}
