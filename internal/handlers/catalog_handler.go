package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/healthconnect-api/internal/audit"
	"github.com/BruksfildServices01/healthconnect-api/internal/domain/catalog"
	"github.com/BruksfildServices01/healthconnect-api/internal/httperr"
	"github.com/BruksfildServices01/healthconnect-api/internal/httpresp"
	"github.com/BruksfildServices01/healthconnect-api/internal/models"
)

// CatalogHandler is the admin surface over the in-memory catalog.
type CatalogHandler struct {
	catalog *catalog.Catalog
	audit   audit.Recorder
}

func NewCatalogHandler(c *catalog.Catalog, rec audit.Recorder) *CatalogHandler {
	return &CatalogHandler{catalog: c, audit: rec}
}

type DoctorRequest struct {
	Name           string `json:"name" binding:"required"`
	Specialization string `json:"specialization" binding:"required"`
	Experience     string `json:"experience"`
	Image          string `json:"image"`
}

type LabTestRequest struct {
	Name     string `json:"name" binding:"required"`
	Category string `json:"category" binding:"required"`
	Image    string `json:"image"`
}

func paramID(c *gin.Context, notFound string) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		httperr.Respond(c, httperr.ErrBusiness(notFound))
		return 0, false
	}
	return id, true
}

func (r DoctorRequest) model() models.Doctor {
	return models.Doctor{
		Name:           strings.TrimSpace(r.Name),
		Specialization: strings.TrimSpace(r.Specialization),
		Experience:     strings.TrimSpace(r.Experience),
		Image:          strings.TrimSpace(r.Image),
	}
}

func (r LabTestRequest) model() models.LabTest {
	return models.LabTest{
		Name:     strings.TrimSpace(r.Name),
		Category: strings.TrimSpace(r.Category),
		Image:    strings.TrimSpace(r.Image),
	}
}

// --------------------------------------------------
// Doctors
// --------------------------------------------------

func (h *CatalogHandler) CreateDoctor(c *gin.Context) {
	var req DoctorRequest
	if !bindJSON(c, &req) {
		return
	}

	d := h.catalog.AddDoctor(req.model())
	writeAudit(h.audit, c, audit.ActionDoctorCreated, "doctor", d.ID, map[string]string{"name": d.Name})

	httpresp.Created(c, d)
}

func (h *CatalogHandler) UpdateDoctor(c *gin.Context) {
	id, ok := paramID(c, httperr.CodeDoctorNotFound)
	if !ok {
		return
	}

	var req DoctorRequest
	if !bindJSON(c, &req) {
		return
	}

	d, err := h.catalog.UpdateDoctor(id, req.model())
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	writeAudit(h.audit, c, audit.ActionDoctorUpdated, "doctor", d.ID, nil)

	httpresp.OK(c, d)
}

func (h *CatalogHandler) DeleteDoctor(c *gin.Context) {
	id, ok := paramID(c, httperr.CodeDoctorNotFound)
	if !ok {
		return
	}

	if err := h.catalog.DeleteDoctor(id); err != nil {
		httperr.Respond(c, err)
		return
	}
	writeAudit(h.audit, c, audit.ActionDoctorDeleted, "doctor", id, nil)

	httpresp.NoContent(c)
}

// --------------------------------------------------
// Lab tests
// --------------------------------------------------

func (h *CatalogHandler) CreateLabTest(c *gin.Context) {
	var req LabTestRequest
	if !bindJSON(c, &req) {
		return
	}

	t := h.catalog.AddLabTest(req.model())
	writeAudit(h.audit, c, audit.ActionLabTestCreated, "lab_test", t.ID, map[string]string{"name": t.Name})

	httpresp.Created(c, t)
}

func (h *CatalogHandler) UpdateLabTest(c *gin.Context) {
	id, ok := paramID(c, httperr.CodeLabTestNotFound)
	if !ok {
		return
	}

	var req LabTestRequest
	if !bindJSON(c, &req) {
		return
	}

	t, err := h.catalog.UpdateLabTest(id, req.model())
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	writeAudit(h.audit, c, audit.ActionLabTestUpdated, "lab_test", t.ID, nil)

	httpresp.OK(c, t)
}

func (h *CatalogHandler) DeleteLabTest(c *gin.Context) {
	id, ok := paramID(c, httperr.CodeLabTestNotFound)
	if !ok {
		return
	}

	if err := h.catalog.DeleteLabTest(id); err != nil {
		httperr.Respond(c, err)
		return
	}
	writeAudit(h.audit, c, audit.ActionLabTestDeleted, "lab_test", id, nil)

	httpresp.NoContent(c)
}
