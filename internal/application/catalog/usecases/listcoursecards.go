package usecases

import (
	"context"

	"kuppi/internal/domain/catalog"
	"kuppi/internal/shared/logger"
)

// ListCourseCardsQuery filters and paginates course cards.
type ListCourseCardsQuery struct {
	SubjectSID *string
	IsFree     *bool
	Page       int
	PageSize   int
}

// ListCourseCardsUseCase returns course cards with their videos nested.
// Video entries never include per-user play counts; those belong to the
// per-user library view.
type ListCourseCardsUseCase struct {
	subjectRepo catalog.SubjectRepository
	cardRepo    catalog.CourseCardRepository
	videoRepo   catalog.VideoRepository
	logger      logger.Interface
}

func NewListCourseCardsUseCase(
	subjectRepo catalog.SubjectRepository,
	cardRepo catalog.CourseCardRepository,
	videoRepo catalog.VideoRepository,
	logger logger.Interface,
) *ListCourseCardsUseCase {
	return &ListCourseCardsUseCase{
		subjectRepo: subjectRepo,
		cardRepo:    cardRepo,
		videoRepo:   videoRepo,
		logger:      logger,
	}
}

func (uc *ListCourseCardsUseCase) Execute(ctx context.Context, query ListCourseCardsQuery) ([]CourseCardDTO, int64, error) {
	filter := catalog.CourseCardFilter{
		IsFree:   query.IsFree,
		Page:     query.Page,
		PageSize: query.PageSize,
	}

	subjectSIDs := make(map[uint]string)
	if query.SubjectSID != nil {
		subject, err := uc.subjectRepo.GetBySID(ctx, *query.SubjectSID)
		if err != nil {
			return nil, 0, err
		}
		id := subject.ID()
		filter.SubjectID = &id
		subjectSIDs[id] = subject.SID()
	}

	cards, total, err := uc.cardRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	cardIDs := make([]uint, 0, len(cards))
	for _, c := range cards {
		cardIDs = append(cardIDs, c.ID())
	}

	videos, err := uc.videoRepo.ListByCardIDs(ctx, cardIDs)
	if err != nil {
		return nil, 0, err
	}
	videosByCard := make(map[uint][]*catalog.Video)
	for _, v := range videos {
		videosByCard[v.CardID()] = append(videosByCard[v.CardID()], v)
	}

	dtos := make([]CourseCardDTO, 0, len(cards))
	for _, c := range cards {
		subjectSID, ok := subjectSIDs[c.SubjectID()]
		if !ok {
			subject, err := uc.subjectRepo.GetByID(ctx, c.SubjectID())
			if err == nil {
				subjectSID = subject.SID()
			}
			subjectSIDs[c.SubjectID()] = subjectSID
		}
		dtos = append(dtos, toCourseCardDTO(c, subjectSID, videosByCard[c.ID()]))
	}

	return dtos, total, nil
}
