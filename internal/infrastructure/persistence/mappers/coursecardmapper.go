package mappers

import (
	"fmt"

	"kuppi/internal/domain/catalog"
	"kuppi/internal/infrastructure/persistence/models"
)

// CourseCardMapper handles the conversion between domain entities and persistence models.
type CourseCardMapper interface {
	ToEntity(model *models.CourseCardModel) (*catalog.CourseCard, error)
	ToModel(entity *catalog.CourseCard) *models.CourseCardModel
	ToEntities(models []*models.CourseCardModel) ([]*catalog.CourseCard, error)
}

type courseCardMapperImpl struct{}

// NewCourseCardMapper creates a new course card mapper.
func NewCourseCardMapper() CourseCardMapper {
	return &courseCardMapperImpl{}
}

func (m *courseCardMapperImpl) ToEntity(model *models.CourseCardModel) (*catalog.CourseCard, error) {
	if model == nil {
		return nil, nil
	}

	entity, err := catalog.ReconstructCourseCard(
		model.ID,
		model.SID,
		model.SubjectID,
		model.Name,
		model.Description,
		model.Price,
		model.Currency,
		model.IsFree,
		model.SortOrder,
		model.Version,
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct course card entity: %w", err)
	}

	return entity, nil
}

func (m *courseCardMapperImpl) ToModel(entity *catalog.CourseCard) *models.CourseCardModel {
	if entity == nil {
		return nil
	}

	return &models.CourseCardModel{
		ID:          entity.ID(),
		SID:         entity.SID(),
		SubjectID:   entity.SubjectID(),
		Name:        entity.Name(),
		Description: entity.Description(),
		Price:       entity.Price(),
		Currency:    entity.Currency(),
		IsFree:      entity.IsFree(),
		SortOrder:   entity.SortOrder(),
		Version:     entity.Version(),
		CreatedAt:   entity.CreatedAt(),
		UpdatedAt:   entity.UpdatedAt(),
	}
}

func (m *courseCardMapperImpl) ToEntities(modelList []*models.CourseCardModel) ([]*catalog.CourseCard, error) {
	entities := make([]*catalog.CourseCard, 0, len(modelList))
	for _, model := range modelList {
		entity, err := m.ToEntity(model)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, nil
}
