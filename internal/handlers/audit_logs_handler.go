package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/healthconnect-api/internal/audit"
	"github.com/BruksfildServices01/healthconnect-api/internal/httperr"
	"github.com/BruksfildServices01/healthconnect-api/internal/timezone"
)

// ======================================================
// HANDLER
// ======================================================

type AuditLogsHandler struct {
	store audit.Store
	clock timezone.Clock
}

func NewAuditLogsHandler(store audit.Store, clock timezone.Clock) *AuditLogsHandler {
	return &AuditLogsHandler{store: store, clock: clock}
}

func (h *AuditLogsHandler) List(c *gin.Context) {
	loc := h.clock().Location()

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(audit.DefaultLimit)))

	q := audit.Query{
		Action: c.Query("action"),
		Entity: c.Query("entity"),
		From:   parseDay(c.Query("from"), loc),
		To:     parseDay(c.Query("to"), loc),
		Page:   page,
		Limit:  limit,
	}.Normalize()

	logs, total, err := h.store.List(c.Request.Context(), q)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(200, gin.H{
		"page":  q.Page,
		"limit": q.Limit,
		"total": total,
		"logs":  logs,
	})
}
