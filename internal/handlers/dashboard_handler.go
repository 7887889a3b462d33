package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/healthconnect-api/internal/httperr"
	"github.com/BruksfildServices01/healthconnect-api/internal/httpresp"
	uc "github.com/BruksfildServices01/healthconnect-api/internal/usecase/appointment"
)

type DashboardHandler struct {
	dashboard *uc.Dashboard
}

func NewDashboardHandler(d *uc.Dashboard) *DashboardHandler {
	return &DashboardHandler{dashboard: d}
}

func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.dashboard.Execute(c.Request.Context())
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, stats)
}
