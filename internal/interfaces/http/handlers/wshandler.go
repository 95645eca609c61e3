package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"kuppi/internal/interfaces/http/middleware"
	"kuppi/internal/interfaces/ws"
	"kuppi/internal/shared/logger"
)

type WSHandler struct {
	hub      *ws.Hub
	upgrader websocket.Upgrader
	logger   logger.Interface
}

func NewWSHandler(hub *ws.Hub, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		logger: logger.NewLogger(),
	}
}

// Connect upgrades the request to a websocket and registers the user with
// the hub. Auth runs before the upgrade; browsers cannot set headers on
// websocket requests, so the middleware also accepts the token query param.
func (h *WSHandler) Connect(c *gin.Context) {
	userID := middleware.UserID(c)
	if userID == 0 {
		c.Status(http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warnw("websocket upgrade failed", "user_id", userID, "error", err)
		return
	}

	h.hub.Register(userID, conn)
}

func originChecker(allowedOrigins []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, allowed := range allowedOrigins {
			if allowed == "*" || allowed == origin {
				return true
			}
		}
		return false
	}
}
