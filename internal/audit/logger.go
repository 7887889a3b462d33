package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/BruksfildServices01/healthconnect-api/internal/models"
)

// Actions recorded by the service.
const (
	ActionUserSignedUp              = "user_signed_up"
	ActionAppointmentCreated        = "appointment_created"
	ActionAppointmentConfirmed      = "appointment_confirmed"
	ActionAppointmentDetailsUpdated = "appointment_details_updated"
	ActionDoctorCreated             = "doctor_created"
	ActionDoctorUpdated             = "doctor_updated"
	ActionDoctorDeleted             = "doctor_deleted"
	ActionLabTestCreated            = "lab_test_created"
	ActionLabTestUpdated            = "lab_test_updated"
	ActionLabTestDeleted            = "lab_test_deleted"
	ActionPrescriptionUploaded      = "prescription_uploaded"
	ActionPrescriptionApproved      = "prescription_approved"
	ActionPrescriptionRejected      = "prescription_rejected"
)

type Query struct {
	Action string
	Entity string
	From   *time.Time
	To     *time.Time
	Page   int
	Limit  int
}

const (
	DefaultLimit = 50
	MaxLimit     = 200
)

// Normalize clamps paging to 1-based pages of at most MaxLimit rows.
func (q Query) Normalize() Query {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.Limit <= 0 || q.Limit > MaxLimit {
		q.Limit = DefaultLimit
	}
	return q
}

type Store interface {
	Create(ctx context.Context, log *models.AuditLog) error
	List(ctx context.Context, q Query) ([]models.AuditLog, int64, error)
}

type Logger struct {
	store Store
	now   func() time.Time
}

func New(store Store) *Logger {
	return &Logger{store: store, now: time.Now}
}

func (l *Logger) Log(ctx context.Context, ev Event) error {
	var metaJSON string
	if ev.Metadata != nil {
		if b, err := json.Marshal(ev.Metadata); err == nil {
			metaJSON = string(b)
		}
	}

	return l.store.Create(ctx, &models.AuditLog{
		ActorID:   ev.ActorID,
		Action:    ev.Action,
		Entity:    ev.Entity,
		EntityID:  ev.EntityID,
		Metadata:  metaJSON,
		CreatedAt: l.now(),
	})
}

// Recorder is what use cases depend on; *Dispatcher satisfies it.
type Recorder interface {
	Dispatch(ev Event)
}

// Discard drops every event.
type Discard struct{}

func (Discard) Dispatch(Event) {}
