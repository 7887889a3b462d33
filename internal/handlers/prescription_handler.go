package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/healthconnect-api/internal/domain/user"
	"github.com/BruksfildServices01/healthconnect-api/internal/httperr"
	"github.com/BruksfildServices01/healthconnect-api/internal/httpresp"
	"github.com/BruksfildServices01/healthconnect-api/internal/middleware"
	"github.com/BruksfildServices01/healthconnect-api/internal/prescription"
)

// multipart envelope allowance on top of the file itself
const uploadOverhead = 1 << 20

type PrescriptionHandler struct {
	svc *prescription.Service
}

func NewPrescriptionHandler(svc *prescription.Service) *PrescriptionHandler {
	return &PrescriptionHandler{svc: svc}
}

func (h *PrescriptionHandler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, prescription.MaxUploadSize+uploadOverhead)

	fh, err := c.FormFile("file")
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			httperr.Respond(c, httperr.ErrBusiness(httperr.CodeFileTooLarge))
			return
		}
		httperr.Respond(c, httperr.Wrap(httperr.CodeInvalidRequest, err))
		return
	}
	if fh.Size > prescription.MaxUploadSize {
		httperr.Respond(c, httperr.ErrBusiness(httperr.CodeFileTooLarge))
		return
	}

	f, err := fh.Open()
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, prescription.MaxUploadSize+1))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	u := middleware.CurrentUser(c)
	p, err := h.svc.Upload(c.Request.Context(), prescription.UploadInput{
		UserID:   u.ID,
		UserName: u.Name,
		FileName: fh.Filename,
		Purpose:  c.PostForm("purpose"),
		Data:     data,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, p)
}

func (h *PrescriptionHandler) ListMine(c *gin.Context) {
	list, err := h.svc.ListMine(c.Request.Context(), c.GetString(middleware.ContextUserID))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, list)
}

func (h *PrescriptionHandler) ListAll(c *gin.Context) {
	list, err := h.svc.ListAll(c.Request.Context(), c.Query("status"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, list)
}

func (h *PrescriptionHandler) Approve(c *gin.Context) {
	p, err := h.svc.Approve(c.Request.Context(), c.GetString(middleware.ContextUserID), c.Param("id"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, p)
}

func (h *PrescriptionHandler) Reject(c *gin.Context) {
	p, err := h.svc.Reject(c.Request.Context(), c.GetString(middleware.ContextUserID), c.Param("id"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, p)
}

func (h *PrescriptionHandler) Download(c *gin.Context) {
	admin := c.GetString(middleware.ContextUserRole) == user.RoleAdmin

	url, err := h.svc.DownloadURL(c.Request.Context(), c.GetString(middleware.ContextUserID), admin, c.Param("id"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"url":        url,
		"expires_in": int(prescription.DownloadTTL.Seconds()),
	})
}
