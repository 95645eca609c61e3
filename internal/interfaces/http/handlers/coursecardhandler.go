package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"kuppi/internal/application/catalog/usecases"
	"kuppi/internal/shared/id"
	"kuppi/internal/shared/logger"
	"kuppi/internal/shared/utils"
)

type CourseCardHandler struct {
	createCardUC *usecases.CreateCourseCardUseCase
	updateCardUC *usecases.UpdateCourseCardUseCase
	deleteCardUC *usecases.DeleteCourseCardUseCase
	listCardsUC  *usecases.ListCourseCardsUseCase
	getCardUC    *usecases.GetCourseCardUseCase
	logger       logger.Interface
}

func NewCourseCardHandler(
	createCardUC *usecases.CreateCourseCardUseCase,
	updateCardUC *usecases.UpdateCourseCardUseCase,
	deleteCardUC *usecases.DeleteCourseCardUseCase,
	listCardsUC *usecases.ListCourseCardsUseCase,
	getCardUC *usecases.GetCourseCardUseCase,
) *CourseCardHandler {
	return &CourseCardHandler{
		createCardUC: createCardUC,
		updateCardUC: updateCardUC,
		deleteCardUC: deleteCardUC,
		listCardsUC:  listCardsUC,
		getCardUC:    getCardUC,
		logger:       logger.NewLogger(),
	}
}

type CreateCourseCardRequest struct {
	SubjectSID  string `json:"subject_sid" binding:"required"`
	Name        string `json:"name" binding:"required,min=1,max=200"`
	Description string `json:"description"`
	Price       uint64 `json:"price"`
	Currency    string `json:"currency"`
	IsFree      bool   `json:"is_free"`
	SortOrder   int    `json:"sort_order"`
}

type UpdateCourseCardRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Price       *uint64 `json:"price"`
	Currency    *string `json:"currency"`
	IsFree      *bool   `json:"is_free"`
	SortOrder   *int    `json:"sort_order"`
}

func (h *CourseCardHandler) CreateCourseCard(c *gin.Context) {
	var req CreateCourseCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create course card", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.createCardUC.Execute(c.Request.Context(), usecases.CreateCourseCardCommand{
		SubjectSID:  req.SubjectSID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Currency:    req.Currency,
		IsFree:      req.IsFree,
		SortOrder:   req.SortOrder,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Course card created successfully")
}

func (h *CourseCardHandler) UpdateCourseCard(c *gin.Context) {
	sid, err := utils.ParseSIDParam(c, "id", id.PrefixCourseCard, "course card")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req UpdateCourseCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for update course card", "card_sid", sid, "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.updateCardUC.Execute(c.Request.Context(), usecases.UpdateCourseCardCommand{
		SID:         sid,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Currency:    req.Currency,
		IsFree:      req.IsFree,
		SortOrder:   req.SortOrder,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Course card updated successfully", result)
}

func (h *CourseCardHandler) DeleteCourseCard(c *gin.Context) {
	sid, err := utils.ParseSIDParam(c, "id", id.PrefixCourseCard, "course card")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.deleteCardUC.Execute(c.Request.Context(), sid); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Course card deleted successfully", nil)
}

func (h *CourseCardHandler) GetCourseCard(c *gin.Context) {
	sid, err := utils.ParseSIDParam(c, "id", id.PrefixCourseCard, "course card")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.getCardUC.Execute(c.Request.Context(), sid)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

func (h *CourseCardHandler) ListCourseCards(c *gin.Context) {
	pagination := utils.ParsePagination(c)

	query := usecases.ListCourseCardsQuery{
		Page:     pagination.Page,
		PageSize: pagination.PageSize,
	}
	if subjectSID := c.Query("subject_sid"); subjectSID != "" {
		query.SubjectSID = &subjectSID
	}
	if isFreeStr := c.Query("is_free"); isFreeStr != "" {
		isFree, err := strconv.ParseBool(isFreeStr)
		if err == nil {
			query.IsFree = &isFree
		}
	}

	cards, total, err := h.listCardsUC.Execute(c.Request.Context(), query)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, cards, total, pagination.Page, pagination.PageSize)
}
