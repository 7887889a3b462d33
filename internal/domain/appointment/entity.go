package appointment

import (
	"time"

	"github.com/BruksfildServices01/healthconnect-api/internal/models"
)

// ===============================
// Patch
// ===============================

// Patch lists the fields an update may touch. Nil fields are not written.
// When From is set the write only lands if the stored status still equals it,
// otherwise the repository reports invalid_state_transition.
type Patch struct {
	From *Status

	Status         *Status
	Clinic         *string
	ClinicAddress  *string
	TicketNumber   *string
	Fees           *string
	ConfirmedAt    *time.Time
	ReminderSentAt *time.Time
}

func (p Patch) IsEmpty() bool {
	return p.Status == nil &&
		p.Clinic == nil &&
		p.ClinicAddress == nil &&
		p.TicketNumber == nil &&
		p.Fees == nil &&
		p.ConfirmedAt == nil &&
		p.ReminderSentAt == nil
}

func (p Patch) Apply(ap *models.Appointment) {
	if p.Status != nil {
		ap.Status = string(*p.Status)
	}
	if p.Clinic != nil {
		ap.Clinic = *p.Clinic
	}
	if p.ClinicAddress != nil {
		ap.ClinicAddress = *p.ClinicAddress
	}
	if p.TicketNumber != nil {
		ap.TicketNumber = *p.TicketNumber
	}
	if p.Fees != nil {
		ap.Fees = *p.Fees
	}
	if p.ConfirmedAt != nil {
		t := *p.ConfirmedAt
		ap.ConfirmedAt = &t
	}
	if p.ReminderSentAt != nil {
		t := *p.ReminderSentAt
		ap.ReminderSentAt = &t
	}
}

// ===============================
// Domain Actions
// ===============================

// NewPending builds a fresh booking. The user snapshot is copied here and never
// refreshed afterwards.
func NewPending(id string, u *models.User, in BookingInput, now time.Time) *models.Appointment {
	return &models.Appointment{
		ID:        id,
		User:      u.Snapshot(),
		Item:      in.Item,
		Type:      string(in.Type),
		Date:      in.Date,
		Time:      in.Time,
		Status:    string(InitialStatus()),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Confirm returns the patch that moves ap to Confirmed.
func Confirm(ap *models.Appointment, now time.Time) (Patch, error) {
	if err := CanConfirm(Status(ap.Status)); err != nil {
		return Patch{}, err
	}

	from, status := Status(ap.Status), StatusConfirmed
	return Patch{From: &from, Status: &status, ConfirmedAt: &now}, nil
}

// Details are the admin-managed metadata fields.
type Details struct {
	Clinic        *string
	ClinicAddress *string
	TicketNumber  *string
	Fees          *string
}

// DetailsPatch never carries a status change.
func DetailsPatch(d Details) Patch {
	return Patch{
		Clinic:        d.Clinic,
		ClinicAddress: d.ClinicAddress,
		TicketNumber:  d.TicketNumber,
		Fees:          d.Fees,
	}
}
