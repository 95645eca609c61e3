package usecases

import (
	"context"
	"fmt"

	"kuppi/internal/domain/catalog"
	"kuppi/internal/domain/progress"
	"kuppi/internal/infrastructure/pubsub"
	"kuppi/internal/shared/db"
	"kuppi/internal/shared/logger"
)

// DeleteVideoUseCase removes a video together with every per-user play count
// recorded against it, in one transaction.
type DeleteVideoUseCase struct {
	videoRepo    catalog.VideoRepository
	progressRepo progress.UserProgressRepository
	txManager    *db.TransactionManager
	publisher    pubsub.ChangeEventPublisher
	logger       logger.Interface
}

func NewDeleteVideoUseCase(
	videoRepo catalog.VideoRepository,
	progressRepo progress.UserProgressRepository,
	txManager *db.TransactionManager,
	publisher pubsub.ChangeEventPublisher,
	logger logger.Interface,
) *DeleteVideoUseCase {
	return &DeleteVideoUseCase{
		videoRepo:    videoRepo,
		progressRepo: progressRepo,
		txManager:    txManager,
		publisher:    publisher,
		logger:       logger,
	}
}

func (uc *DeleteVideoUseCase) Execute(ctx context.Context, videoSID string) error {
	video, err := uc.videoRepo.GetBySID(ctx, videoSID)
	if err != nil {
		return err
	}

	err = uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.progressRepo.DeleteByVideoIDs(txCtx, []uint{video.ID()}); err != nil {
			return fmt.Errorf("failed to delete play counts: %w", err)
		}
		if err := uc.videoRepo.Delete(txCtx, video.ID()); err != nil {
			return fmt.Errorf("failed to delete video: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := uc.publisher.PublishCatalogChange(ctx, video.SID()); err != nil {
		uc.logger.Warnw("failed to publish catalog change",
			"video_sid", video.SID(), "error", err)
	}

	uc.logger.Infow("video deleted", "video_sid", video.SID(), "title", video.Title())
	return nil
}
