package controllers

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"protocol-system/pkg/utils"
	appwebsocket "protocol-system/pkg/websocket"
)

type WebSocketController struct {
	hub      *appwebsocket.Hub
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// NewWebSocketController accepts upgrades from the listed origins only; an
// empty list accepts any origin.
func NewWebSocketController(hub *appwebsocket.Hub, allowedOrigins []string, logger *zap.Logger) *WebSocketController {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = struct{}{}
	}
	return &WebSocketController{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if len(allowed) == 0 {
					return true
				}
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				_, ok := allowed[origin]
				return ok
			},
		},
		logger: logger,
	}
}

// ServeWs runs behind AuthQuery, so the identity is already resolved.
func (ctrl *WebSocketController) ServeWs(c echo.Context) error {
	identity, err := identityOf(c)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	conn, err := ctrl.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		ctrl.logger.Warn("websocket upgrade failed", zap.Uint64("userID", identity.UserID), zap.Error(err))
		return nil
	}

	client := appwebsocket.NewClient(ctrl.hub, conn, identity.UserID)
	if !ctrl.hub.Register(client) {
		conn.Close()
		return nil
	}

	go client.WritePump()
	go client.ReadPump()

	ctrl.logger.Info("websocket client connected", zap.Uint64("userID", identity.UserID))
	return nil
}
