package usecases

import (
	"context"
	"fmt"

	"kuppi/internal/domain/catalog"
	"kuppi/internal/infrastructure/pubsub"
	apperrors "kuppi/internal/shared/errors"
	"kuppi/internal/shared/logger"
)

// UpdateSubjectCommand contains the fields to update; nil means unchanged.
type UpdateSubjectCommand struct {
	SID         string
	Name        *string
	Description *string
	SortOrder   *int
}

type UpdateSubjectUseCase struct {
	subjectRepo catalog.SubjectRepository
	publisher   pubsub.ChangeEventPublisher
	logger      logger.Interface
}

func NewUpdateSubjectUseCase(
	subjectRepo catalog.SubjectRepository,
	publisher pubsub.ChangeEventPublisher,
	logger logger.Interface,
) *UpdateSubjectUseCase {
	return &UpdateSubjectUseCase{
		subjectRepo: subjectRepo,
		publisher:   publisher,
		logger:      logger,
	}
}

func (uc *UpdateSubjectUseCase) Execute(ctx context.Context, cmd UpdateSubjectCommand) (*SubjectDTO, error) {
	subject, err := uc.subjectRepo.GetBySID(ctx, cmd.SID)
	if err != nil {
		return nil, err
	}

	if cmd.Name != nil || cmd.Description != nil {
		name := subject.Name()
		description := subject.Description()
		if cmd.Name != nil {
			name = *cmd.Name
		}
		if cmd.Description != nil {
			description = *cmd.Description
		}
		if err := subject.UpdateInfo(name, description); err != nil {
			return nil, apperrors.NewValidationError("invalid subject", err.Error())
		}
	}
	if cmd.SortOrder != nil {
		subject.UpdateSortOrder(*cmd.SortOrder)
	}

	if err := uc.subjectRepo.Update(ctx, subject); err != nil {
		return nil, fmt.Errorf("failed to update subject: %w", err)
	}

	if err := uc.publisher.PublishCatalogChange(ctx, subject.SID()); err != nil {
		uc.logger.Warnw("failed to publish catalog change",
			"subject_sid", subject.SID(), "error", err)
	}

	dto := toSubjectDTO(subject)
	return &dto, nil
}
