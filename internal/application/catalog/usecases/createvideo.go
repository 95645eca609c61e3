package usecases

import (
	"context"
	"fmt"

	"kuppi/internal/domain/catalog"
	"kuppi/internal/infrastructure/pubsub"
	apperrors "kuppi/internal/shared/errors"
	"kuppi/internal/shared/logger"
)

// CreateVideoCommand contains the data needed to add a video to a card.
// MaxPlays of zero applies the configured default ceiling.
type CreateVideoCommand struct {
	CardSID     string
	Title       string
	Description string
	MediaRef    string
	Duration    string
	MaxPlays    uint
	Position    int
}

type CreateVideoUseCase struct {
	cardRepo  catalog.CourseCardRepository
	videoRepo catalog.VideoRepository
	publisher pubsub.ChangeEventPublisher
	logger    logger.Interface
}

func NewCreateVideoUseCase(
	cardRepo catalog.CourseCardRepository,
	videoRepo catalog.VideoRepository,
	publisher pubsub.ChangeEventPublisher,
	logger logger.Interface,
) *CreateVideoUseCase {
	return &CreateVideoUseCase{
		cardRepo:  cardRepo,
		videoRepo: videoRepo,
		publisher: publisher,
		logger:    logger,
	}
}

func (uc *CreateVideoUseCase) Execute(ctx context.Context, cmd CreateVideoCommand) (*VideoDTO, error) {
	card, err := uc.cardRepo.GetBySID(ctx, cmd.CardSID)
	if err != nil {
		return nil, err
	}

	video, err := catalog.NewVideo(card.ID(), cmd.Title, cmd.Description,
		cmd.MediaRef, cmd.Duration, cmd.MaxPlays, cmd.Position)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid video", err.Error())
	}

	if err := uc.videoRepo.Create(ctx, video); err != nil {
		return nil, fmt.Errorf("failed to create video: %w", err)
	}

	if err := uc.publisher.PublishCatalogChange(ctx, video.SID()); err != nil {
		uc.logger.Warnw("failed to publish catalog change",
			"video_sid", video.SID(), "error", err)
	}

	uc.logger.Infow("video created",
		"video_sid", video.SID(), "card_sid", card.SID(), "title", video.Title())

	dto := toVideoDTO(video)
	return &dto, nil
}
