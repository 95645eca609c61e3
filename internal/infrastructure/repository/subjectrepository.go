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

// SubjectRepositoryImpl implements the catalog.SubjectRepository interface.
type SubjectRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.SubjectMapper
	logger logger.Interface
}

// NewSubjectRepository creates a new subject repository instance.
func NewSubjectRepository(db *gorm.DB, logger logger.Interface) catalog.SubjectRepository {
	return &SubjectRepositoryImpl{
		db:     db,
		mapper: mappers.NewSubjectMapper(),
		logger: logger,
	}
}

// Create creates a new subject in the database.
func (r *SubjectRepositoryImpl) Create(ctx context.Context, subject *catalog.Subject) error {
	model := r.mapper.ToModel(subject)

	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Create(model).Error; err != nil {
		if apperrors.IsDuplicateError(err) {
			return apperrors.NewConflictError("subject already exists")
		}
		r.logger.Errorw("failed to create subject in database", "error", err)
		return fmt.Errorf("failed to create subject: %w", err)
	}

	if err := subject.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set subject ID: %w", err)
	}

	r.logger.Infow("subject created", "id", model.ID, "sid", model.SID, "name", model.Name)
	return nil
}

// GetByID retrieves a subject by its numeric ID.
func (r *SubjectRepositoryImpl) GetByID(ctx context.Context, id uint) (*catalog.Subject, error) {
	var model models.SubjectModel

	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("subject not found")
		}
		return nil, fmt.Errorf("failed to get subject: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

// GetBySID retrieves a subject by its Stripe-style short ID.
func (r *SubjectRepositoryImpl) GetBySID(ctx context.Context, sid string) (*catalog.Subject, error) {
	var model models.SubjectModel

	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Where("sid = ?", sid).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("subject not found")
		}
		return nil, fmt.Errorf("failed to get subject: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

// Update updates an existing subject with optimistic locking.
func (r *SubjectRepositoryImpl) Update(ctx context.Context, subject *catalog.Subject) error {
	model := r.mapper.ToModel(subject)

	tx := db.GetTxFromContext(ctx, r.db)
	result := tx.Model(&models.SubjectModel{}).
		Where("id = ? AND version = ?", model.ID, model.Version-1).
		Updates(map[string]any{
			"name":        model.Name,
			"description": model.Description,
			"sort_order":  model.SortOrder,
			"updated_at":  model.UpdatedAt,
			"version":     model.Version,
		})

	if result.Error != nil {
		r.logger.Errorw("failed to update subject", "id", model.ID, "error", result.Error)
		return fmt.Errorf("failed to update subject: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewConflictError("subject was modified concurrently")
	}

	return nil
}

// Delete removes a subject row. Cascading removal of owned cards, videos,
// progress and purchases is orchestrated by the caller inside one
// transaction; this only deletes the subject itself.
func (r *SubjectRepositoryImpl) Delete(ctx context.Context, id uint) error {
	tx := db.GetTxFromContext(ctx, r.db)
	result := tx.Delete(&models.SubjectModel{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete subject: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("subject not found")
	}
	return nil
}

// List retrieves subjects matching the filter with pagination.
func (r *SubjectRepositoryImpl) List(ctx context.Context, filter catalog.SubjectFilter) ([]*catalog.Subject, int64, error) {
	var modelList []*models.SubjectModel
	var total int64

	tx := db.GetTxFromContext(ctx, r.db)
	query := tx.Model(&models.SubjectModel{})

	if filter.Name != nil {
		query = query.Where("name LIKE ?", "%"+*filter.Name+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count subjects: %w", err)
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	if err := query.Order("sort_order ASC, id ASC").Find(&modelList).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list subjects: %w", err)
	}

	entities, err := r.mapper.ToEntities(modelList)
	if err != nil {
		return nil, 0, err
	}
	return entities, total, nil
}

// ListAll retrieves every subject ordered for display.
func (r *SubjectRepositoryImpl) ListAll(ctx context.Context) ([]*catalog.Subject, error) {
	var modelList []*models.SubjectModel

	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Order("sort_order ASC, id ASC").Find(&modelList).Error; err != nil {
		return nil, fmt.Errorf("failed to list subjects: %w", err)
	}

	return r.mapper.ToEntities(modelList)
}
