package mappers

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"kuppi/internal/domain/purchase"
	vo "kuppi/internal/domain/purchase/valueobjects"
	"kuppi/internal/infrastructure/persistence/models"
)

// PurchaseMapper handles the conversion between domain entities and persistence models.
type PurchaseMapper interface {
	ToEntity(model *models.PurchaseModel) (*purchase.Purchase, error)
	ToModel(entity *purchase.Purchase) (*models.PurchaseModel, error)
	ToEntities(models []*models.PurchaseModel) ([]*purchase.Purchase, error)
}

type purchaseMapperImpl struct{}

// NewPurchaseMapper creates a new purchase mapper.
func NewPurchaseMapper() PurchaseMapper {
	return &purchaseMapperImpl{}
}

func (m *purchaseMapperImpl) ToEntity(model *models.PurchaseModel) (*purchase.Purchase, error) {
	if model == nil {
		return nil, nil
	}

	var metadata map[string]interface{}
	if len(model.Metadata) > 0 {
		if err := json.Unmarshal(model.Metadata, &metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal purchase metadata: %w", err)
		}
	}

	entity, err := purchase.ReconstructPurchase(
		model.ID,
		model.SID,
		model.UserID,
		model.CardID,
		model.OrderNo,
		vo.NewMoney(model.Amount, model.Currency),
		model.Status,
		model.GatewayPaymentID,
		model.FailureReason,
		model.PurchasedAt,
		model.ExpiredAt,
		metadata,
		model.Version,
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct purchase entity: %w", err)
	}

	return entity, nil
}

func (m *purchaseMapperImpl) ToModel(entity *purchase.Purchase) (*models.PurchaseModel, error) {
	if entity == nil {
		return nil, nil
	}

	var metadataJSON datatypes.JSON
	if len(entity.Metadata()) > 0 {
		raw, err := json.Marshal(entity.Metadata())
		if err != nil {
			return nil, fmt.Errorf("failed to marshal purchase metadata: %w", err)
		}
		metadataJSON = raw
	}

	return &models.PurchaseModel{
		ID:               entity.ID(),
		SID:              entity.SID(),
		UserID:           entity.UserID(),
		CardID:           entity.CardID(),
		OrderNo:          entity.OrderNo(),
		Amount:           entity.Amount().AmountInCents(),
		Currency:         entity.Amount().Currency(),
		Status:           entity.Status().String(),
		GatewayPaymentID: entity.GatewayPaymentID(),
		FailureReason:    entity.FailureReason(),
		PurchasedAt:      entity.PurchasedAt(),
		ExpiredAt:        entity.ExpiredAt(),
		Metadata:         metadataJSON,
		Version:          entity.Version(),
		CreatedAt:        entity.CreatedAt(),
		UpdatedAt:        entity.UpdatedAt(),
	}, nil
}

func (m *purchaseMapperImpl) ToEntities(modelList []*models.PurchaseModel) ([]*purchase.Purchase, error) {
	entities := make([]*purchase.Purchase, 0, len(modelList))
	for _, model := range modelList {
		entity, err := m.ToEntity(model)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, nil
}
