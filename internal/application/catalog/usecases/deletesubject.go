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

// DeleteSubjectUseCase removes a subject and everything under it: its course
// cards, their videos, and all dependent progress and purchase rows, in one
// transaction.
type DeleteSubjectUseCase struct {
	subjectRepo  catalog.SubjectRepository
	cardRepo     catalog.CourseCardRepository
	videoRepo    catalog.VideoRepository
	progressRepo progress.UserProgressRepository
	purchaseRepo purchase.PurchaseRepository
	txManager    *db.TransactionManager
	publisher    pubsub.ChangeEventPublisher
	logger       logger.Interface
}

func NewDeleteSubjectUseCase(
	subjectRepo catalog.SubjectRepository,
	cardRepo catalog.CourseCardRepository,
	videoRepo catalog.VideoRepository,
	progressRepo progress.UserProgressRepository,
	purchaseRepo purchase.PurchaseRepository,
	txManager *db.TransactionManager,
	publisher pubsub.ChangeEventPublisher,
	logger logger.Interface,
) *DeleteSubjectUseCase {
	return &DeleteSubjectUseCase{
		subjectRepo:  subjectRepo,
		cardRepo:     cardRepo,
		videoRepo:    videoRepo,
		progressRepo: progressRepo,
		purchaseRepo: purchaseRepo,
		txManager:    txManager,
		publisher:    publisher,
		logger:       logger,
	}
}

func (uc *DeleteSubjectUseCase) Execute(ctx context.Context, subjectSID string) error {
	subject, err := uc.subjectRepo.GetBySID(ctx, subjectSID)
	if err != nil {
		return err
	}

	err = uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		cards, err := uc.cardRepo.ListBySubjectID(txCtx, subject.ID())
		if err != nil {
			return fmt.Errorf("failed to list subject cards: %w", err)
		}

		cardIDs := make([]uint, 0, len(cards))
		for _, c := range cards {
			cardIDs = append(cardIDs, c.ID())
		}

		if len(cardIDs) > 0 {
			videos, err := uc.videoRepo.ListByCardIDs(txCtx, cardIDs)
			if err != nil {
				return fmt.Errorf("failed to list card videos: %w", err)
			}
			videoIDs := make([]uint, 0, len(videos))
			for _, v := range videos {
				videoIDs = append(videoIDs, v.ID())
			}

			if err := uc.progressRepo.DeleteByVideoIDs(txCtx, videoIDs); err != nil {
				return fmt.Errorf("failed to delete play counts: %w", err)
			}
			if err := uc.purchaseRepo.DeleteByCardIDs(txCtx, cardIDs); err != nil {
				return fmt.Errorf("failed to delete purchases: %w", err)
			}
			if err := uc.videoRepo.DeleteByCardIDs(txCtx, cardIDs); err != nil {
				return fmt.Errorf("failed to delete videos: %w", err)
			}
			for _, c := range cards {
				if err := uc.cardRepo.Delete(txCtx, c.ID()); err != nil {
					return fmt.Errorf("failed to delete course card: %w", err)
				}
			}
		}

		if err := uc.subjectRepo.Delete(txCtx, subject.ID()); err != nil {
			return fmt.Errorf("failed to delete subject: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := uc.publisher.PublishCatalogChange(ctx, subject.SID()); err != nil {
		uc.logger.Warnw("failed to publish catalog change",
			"subject_sid", subject.SID(), "error", err)
	}

	uc.logger.Infow("subject deleted", "subject_sid", subject.SID(), "name", subject.Name())
	return nil
}
