package appointment

import "github.com/BruksfildServices01/healthconnect-api/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPending   Status = "Pending"
	StatusConfirmed Status = "Confirmed"
)

// ===============================
// Appointment Type
// ===============================

type Type string

const (
	TypeDoctor  Type = "Doctor"
	TypeLabTest Type = "Lab Test"
)

func (t Type) Valid() bool {
	return t == TypeDoctor || t == TypeLabTest
}

// ===============================
// Validations
// ===============================

// CanConfirm allows Pending -> Confirmed only; there is no way back.
func CanConfirm(current Status) error {
	if current != StatusPending {
		return httperr.ErrBusiness(httperr.CodeInvalidStateTransition)
	}
	return nil
}

func InitialStatus() Status {
	return StatusPending
}
