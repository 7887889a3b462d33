package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/healthconnect-api/internal/audit"
	"github.com/BruksfildServices01/healthconnect-api/internal/middleware"
)

// writeAudit records an admin action on an int-keyed catalog entry.
func writeAudit(
	rec audit.Recorder,
	c *gin.Context,
	action string,
	entity string,
	entityID int,
	meta any,
) {
	rec.Dispatch(audit.Event{
		ActorID:  c.GetString(middleware.ContextUserID),
		Action:   action,
		Entity:   entity,
		EntityID: strconv.Itoa(entityID),
		Metadata: meta,
	})
}
