package usecases

import (
	"context"

	"kuppi/internal/domain/catalog"
	"kuppi/internal/domain/purchase"
	"kuppi/internal/shared/biztime"
	"kuppi/internal/shared/logger"
)

// PurchaseDTO is the API representation of a purchase.
type PurchaseDTO struct {
	SID              string  `json:"sid"`
	CardSID          string  `json:"card_sid"`
	CardName         string  `json:"card_name"`
	OrderNo          string  `json:"order_no"`
	Amount           int64   `json:"amount"`
	Currency         string  `json:"currency"`
	Status           string  `json:"status"`
	GatewayPaymentID *string `json:"gateway_payment_id,omitempty"`
	FailureReason    *string `json:"failure_reason,omitempty"`
	PurchasedAt      *string `json:"purchased_at,omitempty"`
	CreatedAt        string  `json:"created_at"`
}

// ListPurchasesQuery filters the purchase history of one user.
type ListPurchasesQuery struct {
	UserID   uint
	Status   *string
	Page     int
	PageSize int
}

// ListPurchasesUseCase returns a user's purchase history with card names
// resolved for display.
type ListPurchasesUseCase struct {
	purchaseRepo purchase.PurchaseRepository
	cardRepo     catalog.CourseCardRepository
	logger       logger.Interface
}

func NewListPurchasesUseCase(
	purchaseRepo purchase.PurchaseRepository,
	cardRepo catalog.CourseCardRepository,
	logger logger.Interface,
) *ListPurchasesUseCase {
	return &ListPurchasesUseCase{
		purchaseRepo: purchaseRepo,
		cardRepo:     cardRepo,
		logger:       logger,
	}
}

func (uc *ListPurchasesUseCase) Execute(ctx context.Context, query ListPurchasesQuery) ([]PurchaseDTO, int64, error) {
	filter := purchase.PurchaseFilter{
		Status:   query.Status,
		Page:     query.Page,
		PageSize: query.PageSize,
	}

	orders, total, err := uc.purchaseRepo.ListByUserID(ctx, query.UserID, filter)
	if err != nil {
		return nil, 0, err
	}

	// Resolve card names in one pass; a card deleted after purchase still
	// leaves the purchase row, so missing cards degrade to an empty name.
	cardNames := make(map[uint]string)
	cardSIDs := make(map[uint]string)
	for _, order := range orders {
		if _, ok := cardNames[order.CardID()]; ok {
			continue
		}
		card, err := uc.cardRepo.GetByID(ctx, order.CardID())
		if err != nil {
			cardNames[order.CardID()] = ""
			cardSIDs[order.CardID()] = ""
			continue
		}
		cardNames[order.CardID()] = card.Name()
		cardSIDs[order.CardID()] = card.SID()
	}

	dtos := make([]PurchaseDTO, 0, len(orders))
	for _, order := range orders {
		dto := PurchaseDTO{
			SID:              order.SID(),
			CardSID:          cardSIDs[order.CardID()],
			CardName:         cardNames[order.CardID()],
			OrderNo:          order.OrderNo(),
			Amount:           order.Amount().AmountInCents(),
			Currency:         order.Amount().Currency(),
			Status:           string(order.Status()),
			GatewayPaymentID: order.GatewayPaymentID(),
			FailureReason:    order.FailureReason(),
			CreatedAt:        biztime.FormatRFC3339(order.CreatedAt()),
		}
		if order.PurchasedAt() != nil {
			formatted := biztime.FormatRFC3339(*order.PurchasedAt())
			dto.PurchasedAt = &formatted
		}
		dtos = append(dtos, dto)
	}

	return dtos, total, nil
}
