package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"kuppi/internal/domain/catalog"
	"kuppi/internal/infrastructure/persistence/mappers"
	"kuppi/internal/infrastructure/persistence/models"
	"kuppi/internal/shared/db"
	apperrors "kuppi/internal/shared/errors"
	"kuppi/internal/shared/logger"
)

// VideoRepositoryImpl implements the catalog.VideoRepository interface.
type VideoRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.VideoMapper
	logger logger.Interface
}

// NewVideoRepository creates a new video repository instance.
func NewVideoRepository(db *gorm.DB, logger logger.Interface) catalog.VideoRepository {
	return &VideoRepositoryImpl{
		db:     db,
		mapper: mappers.NewVideoMapper(),
		logger: logger,
	}
}

// Create creates a new video in the database.
func (r *VideoRepositoryImpl) Create(ctx context.Context, video *catalog.Video) error {
	model := r.mapper.ToModel(video)

	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Create(model).Error; err != nil {
		if apperrors.IsDuplicateError(err) {
			return apperrors.NewConflictError("video already exists")
		}
		r.logger.Errorw("failed to create video in database", "error", err)
		return fmt.Errorf("failed to create video: %w", err)
	}

	if err := video.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set video ID: %w", err)
	}

	r.logger.Infow("video created", "id", model.ID, "sid", model.SID, "title", model.Title)
	return nil
}

// GetByID retrieves a video by its numeric ID.
func (r *VideoRepositoryImpl) GetByID(ctx context.Context, id uint) (*catalog.Video, error) {
	var model models.VideoModel

	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("video not found")
		}
		return nil, fmt.Errorf("failed to get video: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

// GetBySID retrieves a video by its Stripe-style short ID.
func (r *VideoRepositoryImpl) GetBySID(ctx context.Context, sid string) (*catalog.Video, error) {
	var model models.VideoModel

	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Where("sid = ?", sid).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("video not found")
		}
		return nil, fmt.Errorf("failed to get video: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

// Update updates an existing video with optimistic locking.
func (r *VideoRepositoryImpl) Update(ctx context.Context, video *catalog.Video) error {
	model := r.mapper.ToModel(video)

	tx := db.GetTxFromContext(ctx, r.db)
	result := tx.Model(&models.VideoModel{}).
		Where("id = ? AND version = ?", model.ID, model.Version-1).
		Updates(map[string]any{
			"title":       model.Title,
			"description": model.Description,
			"media_ref":   model.MediaRef,
			"duration":    model.Duration,
			"max_plays":   model.MaxPlays,
			"position":    model.Position,
			"updated_at":  model.UpdatedAt,
			"version":     model.Version,
		})

	if result.Error != nil {
		r.logger.Errorw("failed to update video", "id", model.ID, "error", result.Error)
		return fmt.Errorf("failed to update video: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewConflictError("video was modified concurrently")
	}

	return nil
}

// Delete removes a video row. The caller cascades progress rows inside the
// surrounding transaction.
func (r *VideoRepositoryImpl) Delete(ctx context.Context, id uint) error {
	tx := db.GetTxFromContext(ctx, r.db)
	result := tx.Delete(&models.VideoModel{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete video: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("video not found")
	}
	return nil
}

// ListByCardID retrieves all videos belonging to a card in display order.
func (r *VideoRepositoryImpl) ListByCardID(ctx context.Context, cardID uint) ([]*catalog.Video, error) {
	var modelList []*models.VideoModel

	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Where("card_id = ?", cardID).
		Order("position ASC, id ASC").Find(&modelList).Error; err != nil {
		return nil, fmt.Errorf("failed to list videos: %w", err)
	}

	return r.mapper.ToEntities(modelList)
}

// ListByCardIDs retrieves all videos belonging to any of the given cards.
func (r *VideoRepositoryImpl) ListByCardIDs(ctx context.Context, cardIDs []uint) ([]*catalog.Video, error) {
	if len(cardIDs) == 0 {
		return nil, nil
	}

	var modelList []*models.VideoModel

	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Where("card_id IN ?", cardIDs).
		Order("card_id ASC, position ASC, id ASC").Find(&modelList).Error; err != nil {
		return nil, fmt.Errorf("failed to list videos: %w", err)
	}

	return r.mapper.ToEntities(modelList)
}

// CountByCardID counts the videos owned by a card.
func (r *VideoRepositoryImpl) CountByCardID(ctx context.Context, cardID uint) (int64, error) {
	var count int64

	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Model(&models.VideoModel{}).
		Where("card_id = ?", cardID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count videos: %w", err)
	}

	return count, nil
}

// DeleteByCardIDs removes every video belonging to the given cards.
func (r *VideoRepositoryImpl) DeleteByCardIDs(ctx context.Context, cardIDs []uint) error {
	if len(cardIDs) == 0 {
		return nil
	}

	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Where("card_id IN ?", cardIDs).
		Delete(&models.VideoModel{}).Error; err != nil {
		r.logger.Errorw("failed to delete videos by card ids", "error", err)
		return fmt.Errorf("failed to delete videos: %w", err)
	}

	return nil
}
