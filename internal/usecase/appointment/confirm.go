package appointment

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/healthconnect-api/internal/audit"
	domain "github.com/BruksfildServices01/healthconnect-api/internal/domain/appointment"
	"github.com/BruksfildServices01/healthconnect-api/internal/models"
	"github.com/BruksfildServices01/healthconnect-api/internal/timezone"
)

// Notifier tells the booker about changes to their appointment.
type Notifier interface {
	AppointmentConfirmed(ctx context.Context, ap *models.Appointment) error
}

type ConfirmAppointment struct {
	repo      domain.Repository
	publisher domain.Publisher
	notifier  Notifier
	audit     audit.Recorder
	metrics   Metrics
	clock     timezone.Clock
	log       zerolog.Logger
}

func NewConfirmAppointment(
	repo domain.Repository,
	publisher domain.Publisher,
	notifier Notifier,
	audit audit.Recorder,
	metrics Metrics,
	clock timezone.Clock,
	log zerolog.Logger,
) *ConfirmAppointment {
	return &ConfirmAppointment{
		repo:      repo,
		publisher: publisher,
		notifier:  notifier,
		audit:     audit,
		metrics:   metrics,
		clock:     clock,
		log:       log,
	}
}

// Execute moves one appointment Pending -> Confirmed, writing only status and
// confirmation time.
func (uc *ConfirmAppointment) Execute(
	ctx context.Context,
	actorID string,
	appointmentID string,
) (*models.Appointment, error) {

	ap, err := uc.repo.Get(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	patch, err := domain.Confirm(ap, uc.clock())
	if err != nil {
		return nil, err
	}

	if err := uc.repo.Update(ctx, ap.ID, patch); err != nil {
		return nil, err
	}
	patch.Apply(ap)

	if err := uc.publisher.Publish(ctx); err != nil {
		uc.log.Warn().Err(err).Str("appointment_id", ap.ID).Msg("change publish failed")
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  actorID,
		Action:   audit.ActionAppointmentConfirmed,
		Entity:   "appointment",
		EntityID: ap.ID,
		Metadata: map[string]string{"from": string(domain.StatusPending), "to": string(domain.StatusConfirmed)},
	})
	uc.metrics.AppointmentConfirmed()

	if err := uc.notifier.AppointmentConfirmed(ctx, ap); err != nil {
		uc.log.Warn().Err(err).Str("appointment_id", ap.ID).Msg("confirmation notice failed")
	}

	return ap, nil
}
