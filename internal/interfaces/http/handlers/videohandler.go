package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"kuppi/internal/application/catalog/usecases"
	"kuppi/internal/shared/id"
	"kuppi/internal/shared/logger"
	"kuppi/internal/shared/utils"
)

type VideoHandler struct {
	createVideoUC *usecases.CreateVideoUseCase
	updateVideoUC *usecases.UpdateVideoUseCase
	deleteVideoUC *usecases.DeleteVideoUseCase
	logger        logger.Interface
}

func NewVideoHandler(
	createVideoUC *usecases.CreateVideoUseCase,
	updateVideoUC *usecases.UpdateVideoUseCase,
	deleteVideoUC *usecases.DeleteVideoUseCase,
) *VideoHandler {
	return &VideoHandler{
		createVideoUC: createVideoUC,
		updateVideoUC: updateVideoUC,
		deleteVideoUC: deleteVideoUC,
		logger:        logger.NewLogger(),
	}
}

type CreateVideoRequest struct {
	CardSID     string `json:"card_sid" binding:"required"`
	Title       string `json:"title" binding:"required,min=1,max=200"`
	Description string `json:"description"`
	MediaRef    string `json:"media_ref" binding:"required"`
	Duration    string `json:"duration"`
	MaxPlays    uint   `json:"max_plays"`
	Position    int    `json:"position"`
}

type UpdateVideoRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	MediaRef    *string `json:"media_ref"`
	Duration    *string `json:"duration"`
	MaxPlays    *uint   `json:"max_plays"`
	Position    *int    `json:"position"`
}

func (h *VideoHandler) CreateVideo(c *gin.Context) {
	var req CreateVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create video", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.createVideoUC.Execute(c.Request.Context(), usecases.CreateVideoCommand{
		CardSID:     req.CardSID,
		Title:       req.Title,
		Description: req.Description,
		MediaRef:    req.MediaRef,
		Duration:    req.Duration,
		MaxPlays:    req.MaxPlays,
		Position:    req.Position,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Video created successfully")
}

func (h *VideoHandler) UpdateVideo(c *gin.Context) {
	sid, err := utils.ParseSIDParam(c, "id", id.PrefixVideo, "video")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req UpdateVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for update video", "video_sid", sid, "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.updateVideoUC.Execute(c.Request.Context(), usecases.UpdateVideoCommand{
		SID:         sid,
		Title:       req.Title,
		Description: req.Description,
		MediaRef:    req.MediaRef,
		Duration:    req.Duration,
		MaxPlays:    req.MaxPlays,
		Position:    req.Position,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Video updated successfully", result)
}

func (h *VideoHandler) DeleteVideo(c *gin.Context) {
	sid, err := utils.ParseSIDParam(c, "id", id.PrefixVideo, "video")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.deleteVideoUC.Execute(c.Request.Context(), sid); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Video deleted successfully", nil)
}
