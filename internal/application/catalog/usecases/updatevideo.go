package usecases

import (
	"context"
	"fmt"

	"kuppi/internal/domain/catalog"
	"kuppi/internal/infrastructure/pubsub"
	apperrors "kuppi/internal/shared/errors"
	"kuppi/internal/shared/logger"
)

// UpdateVideoCommand contains the fields to update; nil means unchanged.
// Raising or lowering MaxPlays never rewrites per-user counts; users who
// already consumed more plays than a lowered ceiling simply stay blocked.
type UpdateVideoCommand struct {
	SID         string
	Title       *string
	Description *string
	MediaRef    *string
	Duration    *string
	MaxPlays    *uint
	Position    *int
}

type UpdateVideoUseCase struct {
	videoRepo catalog.VideoRepository
	publisher pubsub.ChangeEventPublisher
	logger    logger.Interface
}

func NewUpdateVideoUseCase(
	videoRepo catalog.VideoRepository,
	publisher pubsub.ChangeEventPublisher,
	logger logger.Interface,
) *UpdateVideoUseCase {
	return &UpdateVideoUseCase{
		videoRepo: videoRepo,
		publisher: publisher,
		logger:    logger,
	}
}

func (uc *UpdateVideoUseCase) Execute(ctx context.Context, cmd UpdateVideoCommand) (*VideoDTO, error) {
	video, err := uc.videoRepo.GetBySID(ctx, cmd.SID)
	if err != nil {
		return nil, err
	}

	if cmd.Title != nil || cmd.Description != nil || cmd.Duration != nil {
		title := video.Title()
		description := video.Description()
		duration := video.Duration()
		if cmd.Title != nil {
			title = *cmd.Title
		}
		if cmd.Description != nil {
			description = *cmd.Description
		}
		if cmd.Duration != nil {
			duration = *cmd.Duration
		}
		if err := video.UpdateInfo(title, description, duration); err != nil {
			return nil, apperrors.NewValidationError("invalid video", err.Error())
		}
	}
	if cmd.MediaRef != nil {
		video.SetMediaRef(*cmd.MediaRef)
	}
	if cmd.MaxPlays != nil {
		if err := video.SetMaxPlays(*cmd.MaxPlays); err != nil {
			return nil, apperrors.NewValidationError("invalid play limit", err.Error())
		}
	}
	if cmd.Position != nil {
		video.SetPosition(*cmd.Position)
	}

	if err := uc.videoRepo.Update(ctx, video); err != nil {
		return nil, fmt.Errorf("failed to update video: %w", err)
	}

	if err := uc.publisher.PublishCatalogChange(ctx, video.SID()); err != nil {
		uc.logger.Warnw("failed to publish catalog change",
			"video_sid", video.SID(), "error", err)
	}

	dto := toVideoDTO(video)
	return &dto, nil
}
