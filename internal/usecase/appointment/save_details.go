package appointment

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/healthconnect-api/internal/audit"
	domain "github.com/BruksfildServices01/healthconnect-api/internal/domain/appointment"
	"github.com/BruksfildServices01/healthconnect-api/internal/models"
)

type SaveAppointmentDetails struct {
	repo      domain.Repository
	publisher domain.Publisher
	audit     audit.Recorder
	log       zerolog.Logger
}

func NewSaveAppointmentDetails(
	repo domain.Repository,
	publisher domain.Publisher,
	audit audit.Recorder,
	log zerolog.Logger,
) *SaveAppointmentDetails {
	return &SaveAppointmentDetails{
		repo:      repo,
		publisher: publisher,
		audit:     audit,
		log:       log,
	}
}

func trimmed(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	return &v
}

// Execute overwrites only the supplied metadata fields. Status is never
// touched.
func (uc *SaveAppointmentDetails) Execute(
	ctx context.Context,
	actorID string,
	appointmentID string,
	d domain.Details,
) (*models.Appointment, error) {

	ap, err := uc.repo.Get(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	patch := domain.DetailsPatch(domain.Details{
		Clinic:        trimmed(d.Clinic),
		ClinicAddress: trimmed(d.ClinicAddress),
		TicketNumber:  trimmed(d.TicketNumber),
		Fees:          trimmed(d.Fees),
	})
	if patch.IsEmpty() {
		return ap, nil
	}

	if err := uc.repo.Update(ctx, ap.ID, patch); err != nil {
		return nil, err
	}
	patch.Apply(ap)

	if err := uc.publisher.Publish(ctx); err != nil {
		uc.log.Warn().Err(err).Str("appointment_id", ap.ID).Msg("change publish failed")
	}

	fields := make([]string, 0, 4)
	for name, v := range map[string]*string{
		"clinic":         patch.Clinic,
		"clinic_address": patch.ClinicAddress,
		"ticket_number":  patch.TicketNumber,
		"fees":           patch.Fees,
	} {
		if v != nil {
			fields = append(fields, name)
		}
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  actorID,
		Action:   audit.ActionAppointmentDetailsUpdated,
		Entity:   "appointment",
		EntityID: ap.ID,
		Metadata: map[string]any{"fields": fields},
	})

	return ap, nil
}
