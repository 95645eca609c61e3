package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"kuppi/internal/application/purchase/usecases"
	"kuppi/internal/interfaces/http/middleware"
	"kuppi/internal/shared/errors"
	"kuppi/internal/shared/id"
	"kuppi/internal/shared/logger"
	"kuppi/internal/shared/utils"
)

type PurchaseHandler struct {
	initiateCheckoutUC *usecases.InitiateCheckoutUseCase
	handleCallbackUC   *usecases.HandlePaymentCallbackUseCase
	reconcileUC        *usecases.ReconcileRedirectUseCase
	dismissCheckoutUC  *usecases.DismissCheckoutUseCase
	listPurchasesUC    *usecases.ListPurchasesUseCase
	logger             logger.Interface
}

func NewPurchaseHandler(
	initiateCheckoutUC *usecases.InitiateCheckoutUseCase,
	handleCallbackUC *usecases.HandlePaymentCallbackUseCase,
	reconcileUC *usecases.ReconcileRedirectUseCase,
	dismissCheckoutUC *usecases.DismissCheckoutUseCase,
	listPurchasesUC *usecases.ListPurchasesUseCase,
) *PurchaseHandler {
	return &PurchaseHandler{
		initiateCheckoutUC: initiateCheckoutUC,
		handleCallbackUC:   handleCallbackUC,
		reconcileUC:        reconcileUC,
		dismissCheckoutUC:  dismissCheckoutUC,
		listPurchasesUC:    listPurchasesUC,
		logger:             logger.NewLogger(),
	}
}

type InitiateCheckoutRequest struct {
	CardSID string `json:"card_sid" binding:"required"`
	Phone   string `json:"phone" validate:"omitempty,min=9,max=20"`
}

func (h *PurchaseHandler) InitiateCheckout(c *gin.Context) {
	var req InitiateCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for initiate checkout", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.initiateCheckoutUC.Execute(c.Request.Context(), usecases.InitiateCheckoutCommand{
		UserID:  middleware.UserID(c),
		CardSID: req.CardSID,
		Phone:   req.Phone,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Checkout created")
}

// PaymentNotify receives the gateway's server-to-server notification.
// The gateway expects a bare 200 regardless of outcome; signature failures
// are logged and answered with 400 so the gateway retries nothing it signed
// incorrectly. This endpoint is unauthenticated, the signature is the auth.
func (h *PurchaseHandler) PaymentNotify(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		h.logger.Warnw("failed to parse payment notification form", "error", err)
		c.Status(http.StatusBadRequest)
		return
	}

	if err := h.handleCallbackUC.Execute(c.Request.Context(), c.Request.PostForm); err != nil {
		h.logger.Errorw("payment notification rejected", "error", err)
		c.Status(http.StatusBadRequest)
		return
	}

	c.Status(http.StatusOK)
}

// PaymentReturn handles the browser landing back from the hosted payment
// page. It only reports the purchase's current state; the redirect proves
// nothing about payment, so the client polls here until the verified
// notification has completed the order.
func (h *PurchaseHandler) PaymentReturn(c *gin.Context) {
	orderNo := c.Query("order_id")
	if orderNo == "" {
		utils.ErrorResponseWithError(c, errors.NewValidationError("order_id is required"))
		return
	}

	result, err := h.reconcileUC.Execute(c.Request.Context(), usecases.ReconcileRedirectCommand{
		UserID:  middleware.UserID(c),
		OrderNo: orderNo,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

func (h *PurchaseHandler) DismissCheckout(c *gin.Context) {
	sid, err := utils.ParseSIDParam(c, "id", id.PrefixPurchase, "purchase")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	err = h.dismissCheckoutUC.Execute(c.Request.Context(), usecases.DismissCheckoutCommand{
		UserID:      middleware.UserID(c),
		PurchaseSID: sid,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Checkout dismissed", nil)
}

func (h *PurchaseHandler) ListPurchases(c *gin.Context) {
	pagination := utils.ParsePagination(c)

	query := usecases.ListPurchasesQuery{
		UserID:   middleware.UserID(c),
		Page:     pagination.Page,
		PageSize: pagination.PageSize,
	}
	if status := c.Query("status"); status != "" {
		query.Status = &status
	}

	purchases, total, err := h.listPurchasesUC.Execute(c.Request.Context(), query)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, purchases, total, pagination.Page, pagination.PageSize)
}
