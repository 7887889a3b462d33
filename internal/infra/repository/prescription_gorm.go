package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/healthconnect-api/internal/domain/prescription"
	"github.com/BruksfildServices01/healthconnect-api/internal/httperr"
	"github.com/BruksfildServices01/healthconnect-api/internal/models"
)

type PrescriptionGormRepository struct {
	db *gorm.DB
}

func NewPrescriptionGormRepository(db *gorm.DB) *PrescriptionGormRepository {
	return &PrescriptionGormRepository{db: db}
}

func (r *PrescriptionGormRepository) Create(ctx context.Context, p *models.Prescription) error {
	return httperr.FromPostgres(r.db.WithContext(ctx).Create(p).Error)
}

func (r *PrescriptionGormRepository) Get(ctx context.Context, id string) (*models.Prescription, error) {
	var p models.Prescription
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness(httperr.CodePrescriptionNotFound)
		}
		return nil, httperr.FromPostgres(err)
	}
	return &p, nil
}

func (r *PrescriptionGormRepository) List(ctx context.Context, f domain.Filter) ([]models.Prescription, error) {
	q := r.db.WithContext(ctx).Model(&models.Prescription{})

	if f.UserID != "" {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", string(f.Status))
	}

	var out []models.Prescription
	if err := q.Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, httperr.FromPostgres(err)
	}
	return out, nil
}

// Review is a conditional update so two admins cannot both decide.
func (r *PrescriptionGormRepository) Review(
	ctx context.Context,
	id string,
	next domain.Status,
	at time.Time,
) error {

	current, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := domain.CanReview(domain.Status(current.Status), next); err != nil {
		return err
	}

	res := r.db.WithContext(ctx).
		Model(&models.Prescription{}).
		Where("id = ? AND status = ?", id, string(domain.StatusPendingReview)).
		Updates(map[string]any{
			"status":      string(next),
			"reviewed_at": at,
			"updated_at":  at,
		})
	if res.Error != nil {
		return httperr.FromPostgres(res.Error)
	}
	if res.RowsAffected == 0 {
		return httperr.ErrBusiness(httperr.CodeInvalidStateTransition)
	}
	return nil
}

var _ domain.Repository = (*PrescriptionGormRepository)(nil)
