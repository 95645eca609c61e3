package mappers

import (
	"fmt"

	"kuppi/internal/domain/catalog"
	"kuppi/internal/infrastructure/persistence/models"
)

// SubjectMapper handles the conversion between domain entities and persistence models.
type SubjectMapper interface {
	ToEntity(model *models.SubjectModel) (*catalog.Subject, error)
	ToModel(entity *catalog.Subject) *models.SubjectModel
	ToEntities(models []*models.SubjectModel) ([]*catalog.Subject, error)
}

type subjectMapperImpl struct{}

// NewSubjectMapper creates a new subject mapper.
func NewSubjectMapper() SubjectMapper {
	return &subjectMapperImpl{}
}

func (m *subjectMapperImpl) ToEntity(model *models.SubjectModel) (*catalog.Subject, error) {
	if model == nil {
		return nil, nil
	}

	entity, err := catalog.ReconstructSubject(
		model.ID,
		model.SID,
		model.Name,
		model.Description,
		model.SortOrder,
		model.Version,
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct subject entity: %w", err)
	}

	return entity, nil
}

func (m *subjectMapperImpl) ToModel(entity *catalog.Subject) *models.SubjectModel {
	if entity == nil {
		return nil
	}

	return &models.SubjectModel{
		ID:          entity.ID(),
		SID:         entity.SID(),
		Name:        entity.Name(),
		Description: entity.Description(),
		SortOrder:   entity.SortOrder(),
		Version:     entity.Version(),
		CreatedAt:   entity.CreatedAt(),
		UpdatedAt:   entity.UpdatedAt(),
	}
}

func (m *subjectMapperImpl) ToEntities(modelList []*models.SubjectModel) ([]*catalog.Subject, error) {
	entities := make([]*catalog.Subject, 0, len(modelList))
	for _, model := range modelList {
		entity, err := m.ToEntity(model)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, nil
}
