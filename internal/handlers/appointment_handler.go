package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	domain "github.com/BruksfildServices01/healthconnect-api/internal/domain/appointment"
	"github.com/BruksfildServices01/healthconnect-api/internal/httperr"
	"github.com/BruksfildServices01/healthconnect-api/internal/httpresp"
	"github.com/BruksfildServices01/healthconnect-api/internal/middleware"
	"github.com/BruksfildServices01/healthconnect-api/internal/models"
	uc "github.com/BruksfildServices01/healthconnect-api/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	create  *uc.CreateAppointment
	confirm *uc.ConfirmAppointment
	details *uc.SaveAppointmentDetails
	list    *uc.ListAppointments
	feed    domain.Feed
}

func NewAppointmentHandler(
	create *uc.CreateAppointment,
	confirm *uc.ConfirmAppointment,
	details *uc.SaveAppointmentDetails,
	list *uc.ListAppointments,
	feed domain.Feed,
) *AppointmentHandler {
	return &AppointmentHandler{
		create:  create,
		confirm: confirm,
		details: details,
		list:    list,
		feed:    feed,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	Item string `json:"item"`
	Type string `json:"type"`
	Date string `json:"date"`
	Time string `json:"time"`
}

type SaveDetailsRequest struct {
	Clinic        *string `json:"clinic"`
	ClinicAddress *string `json:"clinic_address"`
	TicketNumber  *string `json:"ticket_number"`
	Fees          *string `json:"fees"`
}

// ======================================================
// USER
// ======================================================

func (h *AppointmentHandler) ListMine(c *gin.Context) {
	apps, err := h.list.ForUser(c.Request.Context(), c.GetString(middleware.ContextUserID))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, apps)
}

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req CreateAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	ap, err := h.create.Execute(c.Request.Context(), uc.CreateAppointmentInput{
		UserID: c.GetString(middleware.ContextUserID),
		Item:   req.Item,
		Type:   req.Type,
		Date:   req.Date,
		Time:   req.Time,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, ap)
}

func (h *AppointmentHandler) StreamMine(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)
	h.stream(c, func(all []models.Appointment) []models.Appointment {
		return domain.ForUser(all, userID)
	})
}

// ======================================================
// ADMIN
// ======================================================

func (h *AppointmentHandler) ListAll(c *gin.Context) {
	apps, err := h.list.All(c.Request.Context())
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, apps)
}

func (h *AppointmentHandler) StreamAll(c *gin.Context) {
	h.stream(c, func(all []models.Appointment) []models.Appointment {
		if all == nil {
			return []models.Appointment{}
		}
		return all
	})
}

func (h *AppointmentHandler) Confirm(c *gin.Context) {
	ap, err := h.confirm.Execute(
		c.Request.Context(),
		c.GetString(middleware.ContextUserID),
		c.Param("id"),
	)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) SaveDetails(c *gin.Context) {
	var req SaveDetailsRequest
	if !bindJSON(c, &req) {
		return
	}

	ap, err := h.details.Execute(
		c.Request.Context(),
		c.GetString(middleware.ContextUserID),
		c.Param("id"),
		domain.Details{
			Clinic:        req.Clinic,
			ClinicAddress: req.ClinicAddress,
			TicketNumber:  req.TicketNumber,
			Fees:          req.Fees,
		},
	)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, ap)
}

// ======================================================
// STREAM
// ======================================================

// stream sends every snapshot as a "snapshot" event. A feed error is logged,
// sent once as an "error" event and ends the stream. The subscription is
// released with the request context when the client goes away.
func (h *AppointmentHandler) stream(c *gin.Context, view func([]models.Appointment) []models.Appointment) {
	ctx := c.Request.Context()

	snaps, err := h.feed.Subscribe(ctx)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	for {
		select {
		case <-ctx.Done():
			return

		case s, ok := <-snaps:
			if !ok {
				return
			}

			if s.Err != nil {
				code := httperr.CodeOf(s.Err)
				if code == "" {
					code = "feed_error"
				}
				zerolog.Ctx(ctx).Error().Err(s.Err).Str("path", c.FullPath()).Msg("appointment feed failed")
				c.SSEvent("error", httperr.HTTPError{Code: code, Message: "Live updates stopped. Reload to try again."})
				c.Writer.Flush()
				return
			}

			c.SSEvent("snapshot", view(s.Appointments))
			c.Writer.Flush()
		}
	}
}
