package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ConnectionServer upgrades a request into a push connection for the user.
type ConnectionServer interface {
	ServeWS(w http.ResponseWriter, r *http.Request, userID int64) error
}

type WSHandler struct {
	Hub ConnectionServer
}

func NewWSHandler(hub ConnectionServer) *WSHandler {
	return &WSHandler{Hub: hub}
}

// Serve blocks for the lifetime of the websocket connection.
func (h *WSHandler) Serve(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	if err := h.Hub.ServeWS(c.Writer, c.Request, actor.UserID); err != nil {
		logrus.WithField("user", actor.UserID).Warnf("websocket upgrade failed: %v", err)
	}
}
