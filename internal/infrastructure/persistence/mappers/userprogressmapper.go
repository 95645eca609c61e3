package mappers

import (
	"fmt"

	"kuppi/internal/domain/progress"
	"kuppi/internal/infrastructure/persistence/models"
)

// UserProgressMapper handles the conversion between domain entities and persistence models.
type UserProgressMapper interface {
	ToEntity(model *models.UserProgressModel) (*progress.UserProgress, error)
	ToModel(entity *progress.UserProgress) *models.UserProgressModel
	ToEntities(models []*models.UserProgressModel) ([]*progress.UserProgress, error)
}

type userProgressMapperImpl struct{}

// NewUserProgressMapper creates a new user progress mapper.
func NewUserProgressMapper() UserProgressMapper {
	return &userProgressMapperImpl{}
}

func (m *userProgressMapperImpl) ToEntity(model *models.UserProgressModel) (*progress.UserProgress, error) {
	if model == nil {
		return nil, nil
	}

	entity, err := progress.ReconstructUserProgress(
		model.ID,
		model.UserID,
		model.VideoID,
		model.PlaysUsed,
		model.LastWatchedAt,
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct user progress entity: %w", err)
	}

	return entity, nil
}

func (m *userProgressMapperImpl) ToModel(entity *progress.UserProgress) *models.UserProgressModel {
	if entity == nil {
		return nil
	}

	return &models.UserProgressModel{
		ID:            entity.ID(),
		UserID:        entity.UserID(),
		VideoID:       entity.VideoID(),
		PlaysUsed:     entity.PlaysUsed(),
		LastWatchedAt: entity.LastWatchedAt(),
		CreatedAt:     entity.CreatedAt(),
		UpdatedAt:     entity.UpdatedAt(),
	}
}

func (m *userProgressMapperImpl) ToEntities(modelList []*models.UserProgressModel) ([]*progress.UserProgress, error) {
	entities := make([]*progress.UserProgress, 0, len(modelList))
	for _, model := range modelList {
		entity, err := m.ToEntity(model)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, nil
}
