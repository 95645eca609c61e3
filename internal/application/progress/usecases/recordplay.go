package usecases

import (
	"context"
	"errors"
	"fmt"

	"kuppi/internal/domain/catalog"
	"kuppi/internal/domain/entitlement"
	"kuppi/internal/domain/progress"
	"kuppi/internal/domain/purchase"
	"kuppi/internal/infrastructure/cache"
	"kuppi/internal/infrastructure/pubsub"
	apperrors "kuppi/internal/shared/errors"
	"kuppi/internal/shared/logger"
)

// RecordPlayCommand identifies the playback the user is starting.
type RecordPlayCommand struct {
	UserID   uint
	VideoSID string
}

// PlayResult reports the play count after a successful recording.
type PlayResult struct {
	VideoSID       string `json:"video_sid"`
	PlaysUsed      uint   `json:"plays_used"`
	MaxPlays       uint   `json:"max_plays"`
	PlaysRemaining uint   `json:"plays_remaining"`
}

// RecordPlayUseCase consumes one play for a user on a video. The card gate
// is checked first; the per-video ceiling is then enforced by the storage
// layer's guarded increment, so two concurrent plays of the last slot can
// never both succeed.
type RecordPlayUseCase struct {
	videoRepo        catalog.VideoRepository
	cardRepo         catalog.CourseCardRepository
	progressRepo     progress.UserProgressRepository
	purchaseRepo     purchase.PurchaseRepository
	entitlementCache cache.EntitlementCache
	publisher        pubsub.ChangeEventPublisher
	logger           logger.Interface
}

func NewRecordPlayUseCase(
	videoRepo catalog.VideoRepository,
	cardRepo catalog.CourseCardRepository,
	progressRepo progress.UserProgressRepository,
	purchaseRepo purchase.PurchaseRepository,
	entitlementCache cache.EntitlementCache,
	publisher pubsub.ChangeEventPublisher,
	logger logger.Interface,
) *RecordPlayUseCase {
	return &RecordPlayUseCase{
		videoRepo:        videoRepo,
		cardRepo:         cardRepo,
		progressRepo:     progressRepo,
		purchaseRepo:     purchaseRepo,
		entitlementCache: entitlementCache,
		publisher:        publisher,
		logger:           logger,
	}
}

func (uc *RecordPlayUseCase) Execute(ctx context.Context, cmd RecordPlayCommand) (*PlayResult, error) {
	video, err := uc.videoRepo.GetBySID(ctx, cmd.VideoSID)
	if err != nil {
		return nil, err
	}

	card, err := uc.cardRepo.GetByID(ctx, video.CardID())
	if err != nil {
		return nil, err
	}

	purchased, err := uc.completedCardSet(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}

	if !entitlement.IsCardUnlocked(card, purchased) {
		return nil, apperrors.NewForbiddenError("course card is locked")
	}

	prog, err := uc.progressRepo.RecordPlay(ctx, cmd.UserID, video.ID(), video.MaxPlays())
	if err != nil {
		if errors.Is(err, progress.ErrNoPlaysRemaining) {
			return nil, apperrors.NewForbiddenError("no plays remaining for this video")
		}
		return nil, fmt.Errorf("failed to record play: %w", err)
	}

	if err := uc.publisher.PublishProgressChange(ctx, cmd.UserID, video.SID()); err != nil {
		uc.logger.Warnw("failed to publish progress change",
			"user_id", cmd.UserID, "video_sid", video.SID(), "error", err)
	}

	uc.logger.Infow("play recorded",
		"user_id", cmd.UserID,
		"video_sid", video.SID(),
		"plays_used", prog.PlaysUsed(),
		"max_plays", video.MaxPlays(),
	)

	return &PlayResult{
		VideoSID:       video.SID(),
		PlaysUsed:      prog.PlaysUsed(),
		MaxPlays:       video.MaxPlays(),
		PlaysRemaining: entitlement.PlaysRemaining(video, prog),
	}, nil
}

// completedCardSet resolves the user's entitlement set, serving from the
// cache when possible and falling back to storage.
func (uc *RecordPlayUseCase) completedCardSet(ctx context.Context, userID uint) (entitlement.CompletedPurchaseSet, error) {
	cardIDs, hit, err := uc.entitlementCache.GetCardIDs(ctx, userID)
	if err != nil {
		uc.logger.Warnw("entitlement cache read failed", "user_id", userID, "error", err)
	}
	if hit {
		return entitlement.NewCompletedPurchaseSet(cardIDs), nil
	}

	cardIDs, err = uc.purchaseRepo.ListCompletedCardIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load entitlements: %w", err)
	}

	if cacheErr := uc.entitlementCache.SetCardIDs(ctx, userID, cardIDs); cacheErr != nil {
		uc.logger.Warnw("entitlement cache write failed", "user_id", userID, "error", cacheErr)
	}

	return entitlement.NewCompletedPurchaseSet(cardIDs), nil
}
