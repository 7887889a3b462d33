package prescription

import (
	"context"
	"time"

	"github.com/BruksfildServices01/healthconnect-api/internal/models"
)

type Filter struct {
	UserID string
	Status Status
}

type Repository interface {
	Create(ctx context.Context, p *models.Prescription) error
	Get(ctx context.Context, id string) (*models.Prescription, error)

	// List returns matching prescriptions, newest first.
	List(ctx context.Context, f Filter) ([]models.Prescription, error)

	// Review moves a prescription from Pending Review to next. A record that
	// is no longer pending yields invalid_state_transition.
	Review(ctx context.Context, id string, next Status, at time.Time) error
}
