package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/healthconnect-api/internal/domain/appointment"
	"github.com/BruksfildServices01/healthconnect-api/internal/models"
)

type ListAppointments struct {
	repo domain.Repository
}

func NewListAppointments(repo domain.Repository) *ListAppointments {
	return &ListAppointments{repo: repo}
}

// All returns the whole collection, newest first.
func (uc *ListAppointments) All(ctx context.Context) ([]models.Appointment, error) {
	return uc.repo.List(ctx)
}

func (uc *ListAppointments) ForUser(ctx context.Context, userID string) ([]models.Appointment, error) {
	all, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return domain.ForUser(all, userID), nil
}
