package repository

import (
	"context"
	"sync"
	"time"

	domain "github.com/BruksfildServices01/healthconnect-api/internal/domain/appointment"
	"github.com/BruksfildServices01/healthconnect-api/internal/httperr"
	"github.com/BruksfildServices01/healthconnect-api/internal/models"
)

// AppointmentMemoryRepository keeps insertion order; List reverses it.
type AppointmentMemoryRepository struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]models.Appointment
}

func NewAppointmentMemoryRepository() *AppointmentMemoryRepository {
	return &AppointmentMemoryRepository{byID: map[string]models.Appointment{}}
}

func (r *AppointmentMemoryRepository) Create(_ context.Context, ap *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[ap.ID]; exists {
		return httperr.ErrBusiness(httperr.CodeDuplicateSubmission)
	}
	r.byID[ap.ID] = *ap
	r.order = append(r.order, ap.ID)
	return nil
}

func (r *AppointmentMemoryRepository) Get(_ context.Context, id string) (*models.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ap, ok := r.byID[id]
	if !ok {
		return nil, httperr.ErrBusiness(httperr.CodeAppointmentNotFound)
	}
	return &ap, nil
}

func (r *AppointmentMemoryRepository) List(_ context.Context) ([]models.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Appointment, 0, len(r.order))
	for i := len(r.order) - 1; i >= 0; i-- {
		out = append(out, r.byID[r.order[i]])
	}
	return out, nil
}

func (r *AppointmentMemoryRepository) Update(_ context.Context, id string, p domain.Patch) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ap, ok := r.byID[id]
	if !ok {
		return httperr.ErrBusiness(httperr.CodeAppointmentNotFound)
	}
	if p.IsEmpty() {
		return nil
	}
	if p.From != nil && ap.Status != string(*p.From) {
		return httperr.ErrBusiness(httperr.CodeInvalidStateTransition)
	}

	p.Apply(&ap)
	ap.UpdatedAt = time.Now()
	r.byID[id] = ap
	return nil
}

var _ domain.Repository = (*AppointmentMemoryRepository)(nil)
