package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"presenceHub/internal/hub"
	"presenceHub/internal/models"
	"presenceHub/internal/msgs"
	"presenceHub/internal/services"
)

type RestHandler struct {
	authService *services.AuthenticationService
	hub         *hub.Hub
}

func NewRestHandler(authService *services.AuthenticationService, h *hub.Hub) *RestHandler {
	return &RestHandler{
		authService: authService,
		hub:         h,
	}
}

func (rh *RestHandler) Healthz(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgServerIsHealthy,
	})
}

// OnlineUsers returns the current presence set for clients that poll instead
// of holding a socket open.
func (rh *RestHandler) OnlineUsers(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgOperationSuccessful,
		Data: gin.H{
			"user_ids": rh.hub.OnlineUsers(),
		},
	})
}
