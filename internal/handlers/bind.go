package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/healthconnect-api/internal/httperr"
)

// bindJSON binds the body into req, answering invalid_request on failure.
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		httperr.Respond(c, httperr.Wrap(httperr.CodeInvalidRequest, err))
		return false
	}
	return true
}
