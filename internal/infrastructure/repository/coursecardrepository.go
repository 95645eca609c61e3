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

// CourseCardRepositoryImpl implements the catalog.CourseCardRepository interface.
type CourseCardRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.CourseCardMapper
	logger logger.Interface
}

// NewCourseCardRepository creates a new course card repository instance.
func NewCourseCardRepository(db *gorm.DB, logger logger.Interface) catalog.CourseCardRepository {
	return &CourseCardRepositoryImpl{
		db:     db,
		mapper: mappers.NewCourseCardMapper(),
		logger: logger,
	}
}

// Create creates a new course card in the database.
func (r *CourseCardRepositoryImpl) Create(ctx context.Context, card *catalog.CourseCard) error {
	model := r.mapper.ToModel(card)

	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Create(model).Error; err != nil {
		if apperrors.IsDuplicateError(err) {
			return apperrors.NewConflictError("course card already exists")
		}
		r.logger.Errorw("failed to create course card in database", "error", err)
		return fmt.Errorf("failed to create course card: %w", err)
	}

	if err := card.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set course card ID: %w", err)
	}

	r.logger.Infow("course card created", "id", model.ID, "sid", model.SID, "name", model.Name)
	return nil
}

// GetByID retrieves a course card by its numeric ID.
func (r *CourseCardRepositoryImpl) GetByID(ctx context.Context, id uint) (*catalog.CourseCard, error) {
	var model models.CourseCardModel

	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("course card not found")
		}
		return nil, fmt.Errorf("failed to get course card: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

// GetBySID retrieves a course card by its Stripe-style short ID.
func (r *CourseCardRepositoryImpl) GetBySID(ctx context.Context, sid string) (*catalog.CourseCard, error) {
	var model models.CourseCardModel

	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Where("sid = ?", sid).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("course card not found")
		}
		return nil, fmt.Errorf("failed to get course card: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

// Update updates an existing course card with optimistic locking.
func (r *CourseCardRepositoryImpl) Update(ctx context.Context, card *catalog.CourseCard) error {
	model := r.mapper.ToModel(card)

	tx := db.GetTxFromContext(ctx, r.db)
	result := tx.Model(&models.CourseCardModel{}).
		Where("id = ? AND version = ?", model.ID, model.Version-1).
		Updates(map[string]any{
			"name":        model.Name,
			"description": model.Description,
			"price":       model.Price,
			"currency":    model.Currency,
			"is_free":     model.IsFree,
			"sort_order":  model.SortOrder,
			"updated_at":  model.UpdatedAt,
			"version":     model.Version,
		})

	if result.Error != nil {
		r.logger.Errorw("failed to update course card", "id", model.ID, "error", result.Error)
		return fmt.Errorf("failed to update course card: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewConflictError("course card was modified concurrently")
	}

	return nil
}

// Delete removes a course card row. The caller cascades videos, progress
// and purchases inside the surrounding transaction.
func (r *CourseCardRepositoryImpl) Delete(ctx context.Context, id uint) error {
	tx := db.GetTxFromContext(ctx, r.db)
	result := tx.Delete(&models.CourseCardModel{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete course card: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("course card not found")
	}
	return nil
}

// ListBySubjectID retrieves all cards owned by a subject ordered for display.
func (r *CourseCardRepositoryImpl) ListBySubjectID(ctx context.Context, subjectID uint) ([]*catalog.CourseCard, error) {
	var modelList []*models.CourseCardModel

	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Where("subject_id = ?", subjectID).
		Order("sort_order ASC, id ASC").Find(&modelList).Error; err != nil {
		return nil, fmt.Errorf("failed to list course cards: %w", err)
	}

	return r.mapper.ToEntities(modelList)
}

// ListAll retrieves every course card ordered for display.
func (r *CourseCardRepositoryImpl) ListAll(ctx context.Context) ([]*catalog.CourseCard, error) {
	var modelList []*models.CourseCardModel

	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Order("sort_order ASC, id ASC").Find(&modelList).Error; err != nil {
		return nil, fmt.Errorf("failed to list course cards: %w", err)
	}

	return r.mapper.ToEntities(modelList)
}

// List retrieves course cards matching the filter with pagination.
func (r *CourseCardRepositoryImpl) List(ctx context.Context, filter catalog.CourseCardFilter) ([]*catalog.CourseCard, int64, error) {
	var modelList []*models.CourseCardModel
	var total int64

	tx := db.GetTxFromContext(ctx, r.db)
	query := tx.Model(&models.CourseCardModel{})

	if filter.SubjectID != nil {
		query = query.Where("subject_id = ?", *filter.SubjectID)
	}
	if filter.IsFree != nil {
		query = query.Where("is_free = ?", *filter.IsFree)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count course cards: %w", err)
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	if err := query.Order("sort_order ASC, id ASC").Find(&modelList).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list course cards: %w", err)
	}

	entities, err := r.mapper.ToEntities(modelList)
	if err != nil {
		return nil, 0, err
	}
	return entities, total, nil
}
