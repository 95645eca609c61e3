package usecases

import (
	"context"
	"fmt"

	"kuppi/internal/domain/catalog"
	"kuppi/internal/infrastructure/pubsub"
	apperrors "kuppi/internal/shared/errors"
	"kuppi/internal/shared/logger"
)

// UpdateCourseCardCommand contains the fields to update; nil means unchanged.
// Setting IsFree to true zeroes the price; setting a price on a free card
// requires IsFree=false in the same command.
type UpdateCourseCardCommand struct {
	SID         string
	Name        *string
	Description *string
	Price       *uint64
	Currency    *string
	IsFree      *bool
	SortOrder   *int
}

type UpdateCourseCardUseCase struct {
	cardRepo  catalog.CourseCardRepository
	publisher pubsub.ChangeEventPublisher
	logger    logger.Interface
}

func NewUpdateCourseCardUseCase(
	cardRepo catalog.CourseCardRepository,
	publisher pubsub.ChangeEventPublisher,
	logger logger.Interface,
) *UpdateCourseCardUseCase {
	return &UpdateCourseCardUseCase{
		cardRepo:  cardRepo,
		publisher: publisher,
		logger:    logger,
	}
}

func (uc *UpdateCourseCardUseCase) Execute(ctx context.Context, cmd UpdateCourseCardCommand) (*CourseCardDTO, error) {
	card, err := uc.cardRepo.GetBySID(ctx, cmd.SID)
	if err != nil {
		return nil, err
	}

	if cmd.Name != nil || cmd.Description != nil {
		name := card.Name()
		description := card.Description()
		if cmd.Name != nil {
			name = *cmd.Name
		}
		if cmd.Description != nil {
			description = *cmd.Description
		}
		if err := card.UpdateInfo(name, description); err != nil {
			return nil, apperrors.NewValidationError("invalid course card", err.Error())
		}
	}

	if cmd.IsFree != nil && *cmd.IsFree {
		card.MarkFree()
	} else if cmd.Price != nil {
		currency := card.Currency()
		if cmd.Currency != nil {
			currency = *cmd.Currency
		}
		if err := card.SetPricing(*cmd.Price, currency); err != nil {
			return nil, apperrors.NewValidationError("invalid pricing", err.Error())
		}
	}

	if cmd.SortOrder != nil {
		card.UpdateSortOrder(*cmd.SortOrder)
	}

	if err := uc.cardRepo.Update(ctx, card); err != nil {
		return nil, fmt.Errorf("failed to update course card: %w", err)
	}

	if err := uc.publisher.PublishCatalogChange(ctx, card.SID()); err != nil {
		uc.logger.Warnw("failed to publish catalog change",
			"card_sid", card.SID(), "error", err)
	}

	dto := toCourseCardDTO(card, "", nil)
	return &dto, nil
}
