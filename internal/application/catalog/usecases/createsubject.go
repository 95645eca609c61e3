package usecases

import (
	"context"
	"fmt"

	"kuppi/internal/domain/catalog"
	"kuppi/internal/infrastructure/pubsub"
	apperrors "kuppi/internal/shared/errors"
	"kuppi/internal/shared/logger"
)

// CreateSubjectCommand contains the data needed to create a subject
type CreateSubjectCommand struct {
	Name        string
	Description string
	SortOrder   int
}

type CreateSubjectUseCase struct {
	subjectRepo catalog.SubjectRepository
	publisher   pubsub.ChangeEventPublisher
	logger      logger.Interface
}

func NewCreateSubjectUseCase(
	subjectRepo catalog.SubjectRepository,
	publisher pubsub.ChangeEventPublisher,
	logger logger.Interface,
) *CreateSubjectUseCase {
	return &CreateSubjectUseCase{
		subjectRepo: subjectRepo,
		publisher:   publisher,
		logger:      logger,
	}
}

func (uc *CreateSubjectUseCase) Execute(ctx context.Context, cmd CreateSubjectCommand) (*SubjectDTO, error) {
	subject, err := catalog.NewSubject(cmd.Name, cmd.Description, cmd.SortOrder)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid subject", err.Error())
	}

	if err := uc.subjectRepo.Create(ctx, subject); err != nil {
		return nil, fmt.Errorf("failed to create subject: %w", err)
	}

	if err := uc.publisher.PublishCatalogChange(ctx, subject.SID()); err != nil {
		uc.logger.Warnw("failed to publish catalog change",
			"subject_sid", subject.SID(), "error", err)
	}

	uc.logger.Infow("subject created", "subject_sid", subject.SID(), "name", subject.Name())

	dto := toSubjectDTO(subject)
	return &dto, nil
}
