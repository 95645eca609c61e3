package usecases

import (
	"context"

	"kuppi/internal/domain/catalog"
	"kuppi/internal/shared/logger"
)

// ListSubjectsQuery filters and paginates subjects.
type ListSubjectsQuery struct {
	Name     *string
	Page     int
	PageSize int
}

type ListSubjectsUseCase struct {
	subjectRepo catalog.SubjectRepository
	logger      logger.Interface
}

func NewListSubjectsUseCase(
	subjectRepo catalog.SubjectRepository,
	logger logger.Interface,
) *ListSubjectsUseCase {
	return &ListSubjectsUseCase{
		subjectRepo: subjectRepo,
		logger:      logger,
	}
}

func (uc *ListSubjectsUseCase) Execute(ctx context.Context, query ListSubjectsQuery) ([]SubjectDTO, int64, error) {
	subjects, total, err := uc.subjectRepo.List(ctx, catalog.SubjectFilter{
		Name:     query.Name,
		Page:     query.Page,
		PageSize: query.PageSize,
	})
	if err != nil {
		return nil, 0, err
	}

	dtos := make([]SubjectDTO, 0, len(subjects))
	for _, s := range subjects {
		dtos = append(dtos, toSubjectDTO(s))
	}
	return dtos, total, nil
}
