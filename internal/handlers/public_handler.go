package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/healthconnect-api/internal/domain/appointment"
	"github.com/BruksfildServices01/healthconnect-api/internal/domain/catalog"
	"github.com/BruksfildServices01/healthconnect-api/internal/httperr"
	"github.com/BruksfildServices01/healthconnect-api/internal/httpresp"
	"github.com/BruksfildServices01/healthconnect-api/internal/middleware"
	uc "github.com/BruksfildServices01/healthconnect-api/internal/usecase/appointment"
)

// PublicHandler serves what anonymous visitors can read.
type PublicHandler struct {
	catalog      *catalog.Catalog
	availability *uc.GetAvailability
}

func NewPublicHandler(c *catalog.Catalog, availability *uc.GetAvailability) *PublicHandler {
	return &PublicHandler{catalog: c, availability: availability}
}

func (h *PublicHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *PublicHandler) ListDoctors(c *gin.Context) {
	httpresp.List(c, h.catalog.Doctors(catalog.Filter{
		Group: c.Query("specialization"),
		Query: c.Query("query"),
	}))
}

func (h *PublicHandler) ListLabTests(c *gin.Context) {
	httpresp.List(c, h.catalog.LabTests(catalog.Filter{
		Group: c.Query("category"),
		Query: c.Query("query"),
	}))
}

func (h *PublicHandler) Filters(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"specializations": catalog.Specializations,
		"categories":      catalog.Categories,
	})
}

func (h *PublicHandler) Slots(c *gin.Context) {
	slots, err := h.availability.Execute(c.Query("date"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":  c.Query("date"),
		"slots": slots,
	})
}

// BookingState tells the client which booking step applies to the caller.
func (h *PublicHandler) BookingState(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"state": domain.StateFor(middleware.CurrentUser(c)),
	})
}
