package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"kuppi/internal/application/catalog/usecases"
	"kuppi/internal/shared/id"
	"kuppi/internal/shared/logger"
	"kuppi/internal/shared/utils"
)

type SubjectHandler struct {
	createSubjectUC *usecases.CreateSubjectUseCase
	updateSubjectUC *usecases.UpdateSubjectUseCase
	deleteSubjectUC *usecases.DeleteSubjectUseCase
	listSubjectsUC  *usecases.ListSubjectsUseCase
	logger          logger.Interface
}

func NewSubjectHandler(
	createSubjectUC *usecases.CreateSubjectUseCase,
	updateSubjectUC *usecases.UpdateSubjectUseCase,
	deleteSubjectUC *usecases.DeleteSubjectUseCase,
	listSubjectsUC *usecases.ListSubjectsUseCase,
) *SubjectHandler {
	return &SubjectHandler{
		createSubjectUC: createSubjectUC,
		updateSubjectUC: updateSubjectUC,
		deleteSubjectUC: deleteSubjectUC,
		listSubjectsUC:  listSubjectsUC,
		logger:          logger.NewLogger(),
	}
}

type CreateSubjectRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=200"`
	Description string `json:"description"`
	SortOrder   int    `json:"sort_order"`
}

type UpdateSubjectRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	SortOrder   *int    `json:"sort_order"`
}

func (h *SubjectHandler) CreateSubject(c *gin.Context) {
	var req CreateSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create subject", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.createSubjectUC.Execute(c.Request.Context(), usecases.CreateSubjectCommand{
		Name:        req.Name,
		Description: req.Description,
		SortOrder:   req.SortOrder,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Subject created successfully")
}

func (h *SubjectHandler) UpdateSubject(c *gin.Context) {
	sid, err := utils.ParseSIDParam(c, "id", id.PrefixSubject, "subject")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req UpdateSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for update subject", "subject_sid", sid, "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.updateSubjectUC.Execute(c.Request.Context(), usecases.UpdateSubjectCommand{
		SID:         sid,
		Name:        req.Name,
		Description: req.Description,
		SortOrder:   req.SortOrder,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Subject updated successfully", result)
}

func (h *SubjectHandler) DeleteSubject(c *gin.Context) {
	sid, err := utils.ParseSIDParam(c, "id", id.PrefixSubject, "subject")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.deleteSubjectUC.Execute(c.Request.Context(), sid); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Subject deleted successfully", nil)
}

func (h *SubjectHandler) ListSubjects(c *gin.Context) {
	pagination := utils.ParsePagination(c)

	query := usecases.ListSubjectsQuery{
		Page:     pagination.Page,
		PageSize: pagination.PageSize,
	}
	if name := c.Query("name"); name != "" {
		query.Name = &name
	}

	subjects, total, err := h.listSubjectsUC.Execute(c.Request.Context(), query)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, subjects, total, pagination.Page, pagination.PageSize)
}
