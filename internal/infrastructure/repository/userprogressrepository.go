package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"kuppi/internal/domain/progress"
	"kuppi/internal/infrastructure/persistence/mappers"
	"kuppi/internal/infrastructure/persistence/models"
	"kuppi/internal/shared/biztime"
	"kuppi/internal/shared/db"
	apperrors "kuppi/internal/shared/errors"
	"kuppi/internal/shared/logger"
)

// UserProgressRepositoryImpl implements the progress.UserProgressRepository interface.
type UserProgressRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.UserProgressMapper
	logger logger.Interface
}

// NewUserProgressRepository creates a new user progress repository instance.
func NewUserProgressRepository(db *gorm.DB, logger logger.Interface) progress.UserProgressRepository {
	return &UserProgressRepositoryImpl{
		db:     db,
		mapper: mappers.NewUserProgressMapper(),
		logger: logger,
	}
}

// RecordPlay consumes one play for the (userID, videoID) pair. The
// increment and the ceiling check happen in a single conditional UPDATE so
// two concurrent calls with one play remaining can never both win. A
// missing row is inserted with playsUsed=1; if two first plays race, the
// unique pair index rejects one insert and that caller retries the guarded
// update instead.
func (r *UserProgressRepositoryImpl) RecordPlay(ctx context.Context, userID, videoID uint, maxPlays uint) (*progress.UserProgress, error) {
	tx := db.GetTxFromContext(ctx, r.db)
	now := biztime.NowUTC()

	result := tx.Model(&models.UserProgressModel{}).
		Where("user_id = ? AND video_id = ? AND plays_used < ?", userID, videoID, maxPlays).
		Updates(map[string]any{
			"plays_used":      gorm.Expr("plays_used + 1"),
			"last_watched_at": now,
			"updated_at":      now,
		})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to record play: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		existing, err := r.getModel(tx, userID, videoID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to check play record: %w", err)
		}

		if existing != nil {
			// row exists but the guard refused the increment
			r.logger.Infow("play rejected, ceiling reached",
				"user_id", userID, "video_id", videoID, "plays_used", existing.PlaysUsed)
			return nil, progress.ErrNoPlaysRemaining
		}

		if maxPlays == 0 {
			return nil, progress.ErrNoPlaysRemaining
		}

		model := &models.UserProgressModel{
			UserID:        userID,
			VideoID:       videoID,
			PlaysUsed:     1,
			LastWatchedAt: now,
		}
		if err := tx.Create(model).Error; err != nil {
			if apperrors.IsDuplicateError(err) {
				// lost a first-play race; the row exists now, take the guarded path
				return r.recordPlayOnExisting(tx, userID, videoID, maxPlays, now)
			}
			return nil, fmt.Errorf("failed to create play record: %w", err)
		}

		return r.mapper.ToEntity(model)
	}

	model, err := r.getModel(tx, userID, videoID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload play record: %w", err)
	}

	return r.mapper.ToEntity(model)
}

func (r *UserProgressRepositoryImpl) recordPlayOnExisting(tx *gorm.DB, userID, videoID, maxPlays uint, now time.Time) (*progress.UserProgress, error) {
	result := tx.Model(&models.UserProgressModel{}).
		Where("user_id = ? AND video_id = ? AND plays_used < ?", userID, videoID, maxPlays).
		Updates(map[string]any{
			"plays_used":      gorm.Expr("plays_used + 1"),
			"last_watched_at": now,
			"updated_at":      now,
		})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to record play: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, progress.ErrNoPlaysRemaining
	}

	model, err := r.getModel(tx, userID, videoID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload play record: %w", err)
	}
	return r.mapper.ToEntity(model)
}

func (r *UserProgressRepositoryImpl) getModel(tx *gorm.DB, userID, videoID uint) (*models.UserProgressModel, error) {
	var model models.UserProgressModel
	if err := tx.Where("user_id = ? AND video_id = ?", userID, videoID).
		First(&model).Error; err != nil {
		return nil, err
	}
	return &model, nil
}

// GetByUserAndVideo retrieves the progress record for one pair.
func (r *UserProgressRepositoryImpl) GetByUserAndVideo(ctx context.Context, userID, videoID uint) (*progress.UserProgress, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	model, err := r.getModel(tx, userID, videoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("progress record not found")
		}
		return nil, fmt.Errorf("failed to get progress record: %w", err)
	}

	return r.mapper.ToEntity(model)
}

// ListByUserID retrieves all progress records for a user.
func (r *UserProgressRepositoryImpl) ListByUserID(ctx context.Context, userID uint) ([]*progress.UserProgress, error) {
	var modelList []*models.UserProgressModel

	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Where("user_id = ?", userID).Find(&modelList).Error; err != nil {
		return nil, fmt.Errorf("failed to list progress records: %w", err)
	}

	return r.mapper.ToEntities(modelList)
}

// ListByUserAndVideoIDs retrieves a user's progress limited to the given videos.
func (r *UserProgressRepositoryImpl) ListByUserAndVideoIDs(ctx context.Context, userID uint, videoIDs []uint) ([]*progress.UserProgress, error) {
	if len(videoIDs) == 0 {
		return nil, nil
	}

	var modelList []*models.UserProgressModel

	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Where("user_id = ? AND video_id IN ?", userID, videoIDs).
		Find(&modelList).Error; err != nil {
		return nil, fmt.Errorf("failed to list progress records: %w", err)
	}

	return r.mapper.ToEntities(modelList)
}

// DeleteByVideoIDs removes all progress rows referencing the given videos.
func (r *UserProgressRepositoryImpl) DeleteByVideoIDs(ctx context.Context, videoIDs []uint) error {
	if len(videoIDs) == 0 {
		return nil
	}

	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Where("video_id IN ?", videoIDs).
		Delete(&models.UserProgressModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete progress records: %w", err)
	}
	return nil
}

// DeleteByUserID removes all progress rows for a user.
func (r *UserProgressRepositoryImpl) DeleteByUserID(ctx context.Context, userID uint) error {
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Where("user_id = ?", userID).
		Delete(&models.UserProgressModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete progress records: %w", err)
	}
	return nil
}
