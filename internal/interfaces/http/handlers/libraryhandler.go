package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"kuppi/internal/application/projection"
	"kuppi/internal/interfaces/http/middleware"
	"kuppi/internal/shared/logger"
	"kuppi/internal/shared/utils"
)

type LibraryHandler struct {
	builder *projection.LibraryViewBuilder
	logger  logger.Interface
}

func NewLibraryHandler(builder *projection.LibraryViewBuilder) *LibraryHandler {
	return &LibraryHandler{
		builder: builder,
		logger:  logger.NewLogger(),
	}
}

// GetLibrary returns the per-user library view: every card with its lock
// state and every video with the caller's play counts. The same payload
// shape is pushed over the websocket when the underlying data changes.
func (h *LibraryHandler) GetLibrary(c *gin.Context) {
	view, err := h.builder.Build(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", view)
}
