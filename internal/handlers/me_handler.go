package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/healthconnect-api/internal/domain/appointment"
	"github.com/BruksfildServices01/healthconnect-api/internal/domain/user"
	"github.com/BruksfildServices01/healthconnect-api/internal/httperr"
	"github.com/BruksfildServices01/healthconnect-api/internal/middleware"
	"github.com/BruksfildServices01/healthconnect-api/internal/session"
)

type MeHandler struct {
	sessions *session.Manager
	devices  user.DeviceRepository
}

func NewMeHandler(sessions *session.Manager, devices user.DeviceRepository) *MeHandler {
	return &MeHandler{sessions: sessions, devices: devices}
}

type UpdateProfileRequest struct {
	Name    *string `json:"name"`
	Address *string `json:"address"`
	Phone   *string `json:"phone"`
}

type RegisterDeviceRequest struct {
	Token string `json:"token" binding:"required"`
}

func (h *MeHandler) GetMe(c *gin.Context) {
	u := middleware.CurrentUser(c)

	c.JSON(http.StatusOK, gin.H{
		"user":          u,
		"profile_state": domain.StateFor(u),
	})
}

func (h *MeHandler) UpdateMe(c *gin.Context) {
	var req UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.sessions.UpdateProfile(
		c.Request.Context(),
		c.GetString(middleware.ContextUserID),
		user.Details{Name: req.Name, Address: req.Address, Phone: req.Phone},
	)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *MeHandler) RegisterDevice(c *gin.Context) {
	var req RegisterDeviceRequest
	if !bindJSON(c, &req) {
		return
	}

	token := strings.TrimSpace(req.Token)
	if token == "" {
		httperr.Respond(c, httperr.ErrBusiness(httperr.CodeInvalidRequest))
		return
	}

	if err := h.devices.Register(c.Request.Context(), c.GetString(middleware.ContextUserID), token); err != nil {
		httperr.Respond(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
