package appointment

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/healthconnect-api/internal/audit"
	domain "github.com/BruksfildServices01/healthconnect-api/internal/domain/appointment"
	"github.com/BruksfildServices01/healthconnect-api/internal/domain/user"
	"github.com/BruksfildServices01/healthconnect-api/internal/httperr"
	"github.com/BruksfildServices01/healthconnect-api/internal/models"
	"github.com/BruksfildServices01/healthconnect-api/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	UserID string

	Item string
	Type string
	Date string
	Time string
}

type Metrics interface {
	AppointmentCreated()
	AppointmentConfirmed()
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	users     user.Repository
	repo      domain.Repository
	publisher domain.Publisher
	audit     audit.Recorder
	metrics   Metrics
	clock     timezone.Clock
	log       zerolog.Logger
}

func NewCreateAppointment(
	users user.Repository,
	repo domain.Repository,
	publisher domain.Publisher,
	audit audit.Recorder,
	metrics Metrics,
	clock timezone.Clock,
	log zerolog.Logger,
) *CreateAppointment {
	return &CreateAppointment{
		users:     users,
		repo:      repo,
		publisher: publisher,
		audit:     audit,
		metrics:   metrics,
		clock:     clock,
		log:       log,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	// --------------------------------------------------
	// 1. Fresh profile, completeness gate
	// --------------------------------------------------
	u, err := uc.users.FindByID(ctx, in.UserID)
	if err != nil {
		if httperr.IsBusiness(err, httperr.CodeUserNotFound) {
			return nil, httperr.ErrBusiness(httperr.CodeUnauthenticated)
		}
		return nil, err
	}
	if domain.StateFor(u) != domain.FlowCollectingDateTime {
		return nil, httperr.ErrBusiness(httperr.CodeProfileIncomplete)
	}

	// --------------------------------------------------
	// 2. Booking rules, in the application timezone
	// --------------------------------------------------
	now := uc.clock()
	booking := domain.BookingInput{
		Item: in.Item,
		Type: domain.Type(in.Type),
		Date: in.Date,
		Time: in.Time,
	}
	if err := domain.ValidateBooking(booking, now); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 3. Write
	// --------------------------------------------------
	ap := domain.NewPending(uuid.NewString(), u, booking, now)
	if err := uc.repo.Create(ctx, ap); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 4. Side effects never fail the booking
	// --------------------------------------------------
	if err := uc.publisher.Publish(ctx); err != nil {
		uc.log.Warn().Err(err).Str("appointment_id", ap.ID).Msg("change publish failed")
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  u.ID,
		Action:   audit.ActionAppointmentCreated,
		Entity:   "appointment",
		EntityID: ap.ID,
		Metadata: map[string]string{"item": ap.Item, "date": ap.Date, "time": ap.Time},
	})
	uc.metrics.AppointmentCreated()

	return ap, nil
}
