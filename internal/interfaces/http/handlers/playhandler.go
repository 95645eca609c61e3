package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"kuppi/internal/application/progress/usecases"
	"kuppi/internal/interfaces/http/middleware"
	"kuppi/internal/shared/id"
	"kuppi/internal/shared/logger"
	"kuppi/internal/shared/utils"
)

type PlayHandler struct {
	recordPlayUC *usecases.RecordPlayUseCase
	logger       logger.Interface
}

func NewPlayHandler(recordPlayUC *usecases.RecordPlayUseCase) *PlayHandler {
	return &PlayHandler{
		recordPlayUC: recordPlayUC,
		logger:       logger.NewLogger(),
	}
}

// RecordPlay consumes one play for the authenticated user on a video.
// The response carries the remaining count so the client can update its
// counter without a round trip through the library view.
func (h *PlayHandler) RecordPlay(c *gin.Context) {
	videoSID, err := utils.ParseSIDParam(c, "id", id.PrefixVideo, "video")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.recordPlayUC.Execute(c.Request.Context(), usecases.RecordPlayCommand{
		UserID:   middleware.UserID(c),
		VideoSID: videoSID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Play recorded", result)
}
