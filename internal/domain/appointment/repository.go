package appointment

import (
	"context"

	"github.com/BruksfildServices01/healthconnect-api/internal/models"
)

// Repository is the appointment store. Missing ids return httperr code
// appointment_not_found; access-rule failures return permission_denied.
type Repository interface {
	Create(ctx context.Context, ap *models.Appointment) error
	Get(ctx context.Context, id string) (*models.Appointment, error)

	// List returns every appointment, newest first.
	List(ctx context.Context) ([]models.Appointment, error)

	// Update writes only the fields set in p.
	Update(ctx context.Context, id string, p Patch) error
}

// Snapshot is one delivery of the live feed: the full collection, or the error
// that ended the subscription.
type Snapshot struct {
	Appointments []models.Appointment
	Err          error
}

// Feed streams full snapshots of the collection. The channel closes when ctx
// is done or after a Snapshot carrying Err.
type Feed interface {
	Subscribe(ctx context.Context) (<-chan Snapshot, error)
}

// Publisher signals subscribers that the collection changed.
type Publisher interface {
	Publish(ctx context.Context) error
}
