package usecases

import (
	"context"

	"kuppi/internal/domain/catalog"
	"kuppi/internal/shared/logger"
	"kuppi/internal/shared/services/markdown"
)

type GetCourseCardUseCase struct {
	subjectRepo catalog.SubjectRepository
	cardRepo    catalog.CourseCardRepository
	videoRepo   catalog.VideoRepository
	renderer    markdown.MarkdownService
	logger      logger.Interface
}

func NewGetCourseCardUseCase(
	subjectRepo catalog.SubjectRepository,
	cardRepo catalog.CourseCardRepository,
	videoRepo catalog.VideoRepository,
	logger logger.Interface,
) *GetCourseCardUseCase {
	return &GetCourseCardUseCase{
		subjectRepo: subjectRepo,
		cardRepo:    cardRepo,
		videoRepo:   videoRepo,
		renderer:    markdown.NewMarkdownService(),
		logger:      logger,
	}
}

func (uc *GetCourseCardUseCase) Execute(ctx context.Context, cardSID string) (*CourseCardDTO, error) {
	card, err := uc.cardRepo.GetBySID(ctx, cardSID)
	if err != nil {
		return nil, err
	}

	subjectSID := ""
	if subject, err := uc.subjectRepo.GetByID(ctx, card.SubjectID()); err == nil {
		subjectSID = subject.SID()
	}

	videos, err := uc.videoRepo.ListByCardID(ctx, card.ID())
	if err != nil {
		return nil, err
	}

	dto := toCourseCardDTO(card, subjectSID, videos)
	if card.Description() != "" {
		html, err := uc.renderer.ToHTMLSanitized(card.Description())
		if err != nil {
			uc.logger.Warnw("failed to render card description", "card_sid", card.SID(), "error", err)
		} else {
			dto.DescriptionHTML = html
		}
	}
	return &dto, nil
}
