package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/healthconnect-api/internal/domain/appointment"
	"github.com/BruksfildServices01/healthconnect-api/internal/httperr"
	"github.com/BruksfildServices01/healthconnect-api/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

func (r *AppointmentGormRepository) Create(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return httperr.FromPostgres(r.db.WithContext(ctx).Create(ap).Error)
}

func (r *AppointmentGormRepository) Get(
	ctx context.Context,
	id string,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&ap).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness(httperr.CodeAppointmentNotFound)
		}
		return nil, httperr.FromPostgres(err)
	}

	return &ap, nil
}

func (r *AppointmentGormRepository) List(
	ctx context.Context,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&apps).Error; err != nil {
		return nil, httperr.FromPostgres(err)
	}

	return apps, nil
}

// --------------------------------------------------
// Appointment (Confirm / Details / Reminder)
// --------------------------------------------------

func (r *AppointmentGormRepository) Update(
	ctx context.Context,
	id string,
	p domain.Patch,
) error {

	if p.IsEmpty() {
		return nil
	}

	cols := patchColumns(p)
	cols["updated_at"] = time.Now()

	q := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ?", id)
	if p.From != nil {
		q = q.Where("status = ?", string(*p.From))
	}

	res := q.Updates(cols)
	if res.Error != nil {
		return httperr.FromPostgres(res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}
	if p.From == nil {
		return httperr.ErrBusiness(httperr.CodeAppointmentNotFound)
	}

	// the guarded write missed: tell a moved status apart from a missing row
	var n int64
	if err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ?", id).
		Count(&n).Error; err != nil {
		return httperr.FromPostgres(err)
	}
	if n == 0 {
		return httperr.ErrBusiness(httperr.CodeAppointmentNotFound)
	}
	return httperr.ErrBusiness(httperr.CodeInvalidStateTransition)
}

func patchColumns(p domain.Patch) map[string]any {
	cols := map[string]any{}
	if p.Status != nil {
		cols["status"] = string(*p.Status)
	}
	if p.Clinic != nil {
		cols["clinic"] = *p.Clinic
	}
	if p.ClinicAddress != nil {
		cols["clinic_address"] = *p.ClinicAddress
	}
	if p.TicketNumber != nil {
		cols["ticket_number"] = *p.TicketNumber
	}
	if p.Fees != nil {
		cols["fees"] = *p.Fees
	}
	if p.ConfirmedAt != nil {
		cols["confirmed_at"] = *p.ConfirmedAt
	}
	if p.ReminderSentAt != nil {
		cols["reminder_sent_at"] = *p.ReminderSentAt
	}
	return cols
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
