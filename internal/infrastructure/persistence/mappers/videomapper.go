package mappers

import (
	"fmt"

	"kuppi/internal/domain/catalog"
	"kuppi/internal/infrastructure/persistence/models"
)

// VideoMapper handles the conversion between domain entities and persistence models.
type VideoMapper interface {
	ToEntity(model *models.VideoModel) (*catalog.Video, error)
	ToModel(entity *catalog.Video) *models.VideoModel
	ToEntities(models []*models.VideoModel) ([]*catalog.Video, error)
}

type videoMapperImpl struct{}

// NewVideoMapper creates a new video mapper.
func NewVideoMapper() VideoMapper {
	return &videoMapperImpl{}
}

func (m *videoMapperImpl) ToEntity(model *models.VideoModel) (*catalog.Video, error) {
	if model == nil {
		return nil, nil
	}

	entity, err := catalog.ReconstructVideo(
		model.ID,
		model.SID,
		model.CardID,
		model.Title,
		model.Description,
		model.MediaRef,
		model.Duration,
		model.MaxPlays,
		model.Position,
		model.Version,
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct video entity: %w", err)
	}

	return entity, nil
}

func (m *videoMapperImpl) ToModel(entity *catalog.Video) *models.VideoModel {
	if entity == nil {
		return nil
	}

	return &models.VideoModel{
		ID:          entity.ID(),
		SID:         entity.SID(),
		CardID:      entity.CardID(),
		Title:       entity.Title(),
		Description: entity.Description(),
		MediaRef:    entity.MediaRef(),
		Duration:    entity.Duration(),
		MaxPlays:    entity.MaxPlays(),
		Position:    entity.Position(),
		Version:     entity.Version(),
		CreatedAt:   entity.CreatedAt(),
		UpdatedAt:   entity.UpdatedAt(),
	}
}

func (m *videoMapperImpl) ToEntities(modelList []*models.VideoModel) ([]*catalog.Video, error) {
	entities := make([]*catalog.Video, 0, len(modelList))
	for _, model := range modelList {
		entity, err := m.ToEntity(model)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, nil
}
