package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"kuppi/internal/domain/purchase"
	"kuppi/internal/infrastructure/persistence/mappers"
	"kuppi/internal/infrastructure/persistence/models"
	"kuppi/internal/shared/biztime"
	"kuppi/internal/shared/db"
	apperrors "kuppi/internal/shared/errors"
	"kuppi/internal/shared/logger"
)

// PurchaseRepositoryImpl implements the purchase.PurchaseRepository interface.
type PurchaseRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.PurchaseMapper
	logger logger.Interface
}

// NewPurchaseRepository creates a new purchase repository instance.
func NewPurchaseRepository(db *gorm.DB, logger logger.Interface) purchase.PurchaseRepository {
	return &PurchaseRepositoryImpl{
		db:     db,
		mapper: mappers.NewPurchaseMapper(),
		logger: logger,
	}
}

// Create inserts a new purchase. The unique order number index turns a
// duplicate insert into a conflict, which callers treat as "this order
// already has a purchase row".
func (r *PurchaseRepositoryImpl) Create(ctx context.Context, p *purchase.Purchase) error {
	model, err := r.mapper.ToModel(p)
	if err != nil {
		return fmt.Errorf("failed to map purchase entity: %w", err)
	}

	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Create(model).Error; err != nil {
		if apperrors.IsDuplicateError(err) {
			return apperrors.NewConflictError("purchase already exists for this order")
		}
		r.logger.Errorw("failed to create purchase in database", "error", err)
		return fmt.Errorf("failed to create purchase: %w", err)
	}

	if err := p.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set purchase ID: %w", err)
	}

	r.logger.Infow("purchase created",
		"id", model.ID, "sid", model.SID, "order_no", model.OrderNo, "user_id", model.UserID)
	return nil
}

// GetByID retrieves a purchase by its numeric ID.
func (r *PurchaseRepositoryImpl) GetByID(ctx context.Context, id uint) (*purchase.Purchase, error) {
	var model models.PurchaseModel

	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("purchase not found")
		}
		return nil, fmt.Errorf("failed to get purchase: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

// GetBySID retrieves a purchase by its Stripe-style short ID.
func (r *PurchaseRepositoryImpl) GetBySID(ctx context.Context, sid string) (*purchase.Purchase, error) {
	var model models.PurchaseModel

	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Where("sid = ?", sid).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("purchase not found")
		}
		return nil, fmt.Errorf("failed to get purchase: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

// GetByOrderNo retrieves a purchase by its order number, the natural dedup
// key for gateway callbacks.
func (r *PurchaseRepositoryImpl) GetByOrderNo(ctx context.Context, orderNo string) (*purchase.Purchase, error) {
	var model models.PurchaseModel

	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Where("order_no = ?", orderNo).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("purchase not found")
		}
		return nil, fmt.Errorf("failed to get purchase: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

// Update persists a status transition with optimistic locking.
func (r *PurchaseRepositoryImpl) Update(ctx context.Context, p *purchase.Purchase) error {
	model, err := r.mapper.ToModel(p)
	if err != nil {
		return fmt.Errorf("failed to map purchase entity: %w", err)
	}

	tx := db.GetTxFromContext(ctx, r.db)
	result := tx.Model(&models.PurchaseModel{}).
		Where("id = ? AND version = ?", model.ID, model.Version-1).
		Updates(map[string]any{
			"status":             model.Status,
			"gateway_payment_id": model.GatewayPaymentID,
			"failure_reason":     model.FailureReason,
			"purchased_at":       model.PurchasedAt,
			"metadata":           model.Metadata,
			"updated_at":         model.UpdatedAt,
			"version":            model.Version,
		})

	if result.Error != nil {
		r.logger.Errorw("failed to update purchase", "id", model.ID, "error", result.Error)
		return fmt.Errorf("failed to update purchase: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewConflictError("purchase was modified concurrently")
	}

	return nil
}

// ListCompletedCardIDs returns the distinct course card IDs the user has a
// completed purchase for.
func (r *PurchaseRepositoryImpl) ListCompletedCardIDs(ctx context.Context, userID uint) ([]uint, error) {
	var cardIDs []uint

	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Model(&models.PurchaseModel{}).
		Where("user_id = ? AND status = ?", userID, "completed").
		Distinct().Pluck("card_id", &cardIDs).Error; err != nil {
		return nil, fmt.Errorf("failed to list completed purchases: %w", err)
	}

	return cardIDs, nil
}

// HasCompletedPurchase reports whether the user already owns the card.
func (r *PurchaseRepositoryImpl) HasCompletedPurchase(ctx context.Context, userID, cardID uint) (bool, error) {
	var count int64

	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Model(&models.PurchaseModel{}).
		Where("user_id = ? AND card_id = ? AND status = ?", userID, cardID, "completed").
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check completed purchase: %w", err)
	}

	return count > 0, nil
}

// ListByUserID retrieves a user's purchases matching the filter with pagination.
func (r *PurchaseRepositoryImpl) ListByUserID(ctx context.Context, userID uint, filter purchase.PurchaseFilter) ([]*purchase.Purchase, int64, error) {
	var modelList []*models.PurchaseModel
	var total int64

	tx := db.GetTxFromContext(ctx, r.db)
	query := tx.Model(&models.PurchaseModel{}).Where("user_id = ?", userID)

	if filter.CardID != nil {
		query = query.Where("card_id = ?", *filter.CardID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count purchases: %w", err)
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	if err := query.Order("created_at DESC, id DESC").Find(&modelList).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list purchases: %w", err)
	}

	entities, err := r.mapper.ToEntities(modelList)
	if err != nil {
		return nil, 0, err
	}
	return entities, total, nil
}

// FindExpiredPending retrieves pending purchases whose TTL has lapsed, for
// the expiry sweep.
func (r *PurchaseRepositoryImpl) FindExpiredPending(ctx context.Context, limit int) ([]*purchase.Purchase, error) {
	var modelList []*models.PurchaseModel

	tx := db.GetTxFromContext(ctx, r.db)
	query := tx.Where("status = ? AND expired_at < ?", "pending", biztime.NowUTC()).
		Order("expired_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&modelList).Error; err != nil {
		return nil, fmt.Errorf("failed to find expired pending purchases: %w", err)
	}

	return r.mapper.ToEntities(modelList)
}

// DeleteByCardIDs removes all purchases referencing the given cards.
func (r *PurchaseRepositoryImpl) DeleteByCardIDs(ctx context.Context, cardIDs []uint) error {
	if len(cardIDs) == 0 {
		return nil
	}

	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Where("card_id IN ?", cardIDs).
		Delete(&models.PurchaseModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete purchases: %w", err)
	}
	return nil
}

// DeleteByUserID removes all purchases for a user.
func (r *PurchaseRepositoryImpl) DeleteByUserID(ctx context.Context, userID uint) error {
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Where("user_id = ?", userID).
		Delete(&models.PurchaseModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete purchases: %w", err)
	}
	return nil
}
