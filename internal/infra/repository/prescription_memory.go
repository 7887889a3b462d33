package repository

import (
	"context"
	"sync"
	"time"

	domain "github.com/BruksfildServices01/healthconnect-api/internal/domain/prescription"
	"github.com/BruksfildServices01/healthconnect-api/internal/httperr"
	"github.com/BruksfildServices01/healthconnect-api/internal/models"
)

type PrescriptionMemoryRepository struct {
	mu    sync.Mutex
	items []models.Prescription
}

func NewPrescriptionMemoryRepository() *PrescriptionMemoryRepository {
	return &PrescriptionMemoryRepository{}
}

func (r *PrescriptionMemoryRepository) Create(_ context.Context, p *models.Prescription) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items = append(r.items, *p)
	return nil
}

func (r *PrescriptionMemoryRepository) Get(_ context.Context, id string) (*models.Prescription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.items {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, httperr.ErrBusiness(httperr.CodePrescriptionNotFound)
}

func (r *PrescriptionMemoryRepository) List(_ context.Context, f domain.Filter) ([]models.Prescription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]models.Prescription, 0)
	for i := len(r.items) - 1; i >= 0; i-- {
		p := r.items[i]
		if f.UserID != "" && p.UserID != f.UserID {
			continue
		}
		if f.Status != "" && p.Status != string(f.Status) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *PrescriptionMemoryRepository) Review(_ context.Context, id string, next domain.Status, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.items {
		if r.items[i].ID != id {
			continue
		}
		if err := domain.CanReview(domain.Status(r.items[i].Status), next); err != nil {
			return err
		}
		r.items[i].Status = string(next)
		r.items[i].ReviewedAt = &at
		r.items[i].UpdatedAt = at
		return nil
	}
	return httperr.ErrBusiness(httperr.CodePrescriptionNotFound)
}

var _ domain.Repository = (*PrescriptionMemoryRepository)(nil)
