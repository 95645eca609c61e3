package usecases

import (
	"context"
	"fmt"

	"kuppi/internal/domain/catalog"
	"kuppi/internal/infrastructure/pubsub"
	apperrors "kuppi/internal/shared/errors"
	"kuppi/internal/shared/logger"
)

// CreateCourseCardCommand contains the data needed to create a course card.
// A free card must carry a zero price and a paid card a positive one; the
// domain constructor rejects inconsistent combinations.
type CreateCourseCardCommand struct {
	SubjectSID  string
	Name        string
	Description string
	Price       uint64
	Currency    string
	IsFree      bool
	SortOrder   int
}

type CreateCourseCardUseCase struct {
	subjectRepo catalog.SubjectRepository
	cardRepo    catalog.CourseCardRepository
	publisher   pubsub.ChangeEventPublisher
	logger      logger.Interface
}

func NewCreateCourseCardUseCase(
	subjectRepo catalog.SubjectRepository,
	cardRepo catalog.CourseCardRepository,
	publisher pubsub.ChangeEventPublisher,
	logger logger.Interface,
) *CreateCourseCardUseCase {
	return &CreateCourseCardUseCase{
		subjectRepo: subjectRepo,
		cardRepo:    cardRepo,
		publisher:   publisher,
		logger:      logger,
	}
}

func (uc *CreateCourseCardUseCase) Execute(ctx context.Context, cmd CreateCourseCardCommand) (*CourseCardDTO, error) {
	subject, err := uc.subjectRepo.GetBySID(ctx, cmd.SubjectSID)
	if err != nil {
		return nil, err
	}

	card, err := catalog.NewCourseCard(subject.ID(), cmd.Name, cmd.Description,
		cmd.Price, cmd.Currency, cmd.IsFree, cmd.SortOrder)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid course card", err.Error())
	}

	if err := uc.cardRepo.Create(ctx, card); err != nil {
		return nil, fmt.Errorf("failed to create course card: %w", err)
	}

	if err := uc.publisher.PublishCatalogChange(ctx, card.SID()); err != nil {
		uc.logger.Warnw("failed to publish catalog change",
			"card_sid", card.SID(), "error", err)
	}

	uc.logger.Infow("course card created",
		"card_sid", card.SID(), "subject_sid", subject.SID(), "name", card.Name())

	dto := toCourseCardDTO(card, subject.SID(), nil)
	return &dto, nil
}
