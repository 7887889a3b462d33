package httperr

import (
	"errors"
	"fmt"
)

// ===============================
// Codes
// ===============================

const (
	CodeInvalidCredentials     = "invalid_credentials"
	CodeDuplicateAccount       = "duplicate_account"
	CodeInvalidPhoneNumber     = "invalid_phone_number"
	CodeRateLimited            = "rate_limited"
	CodeProviderConfiguration  = "provider_configuration_error"
	CodeChallengeFailed        = "challenge_failed"
	CodeInvalidCode            = "invalid_code"
	CodeNoPendingChallenge     = "no_pending_challenge"
	CodeProfileIncomplete      = "profile_incomplete"
	CodePermissionDenied       = "permission_denied"
	CodeInvalidStateTransition = "invalid_state_transition"
	CodeRecommendationFailed   = "recommendation_unavailable"
	CodeUnauthenticated        = "unauthenticated"
	CodeForbidden              = "forbidden"

	CodeInvalidRequest         = "invalid_request"
	CodeMissingInformation     = "missing_information"
	CodePastDate               = "past_date"
	CodeInvalidTimeSlot        = "invalid_time_slot"
	CodeInvalidAppointmentType = "invalid_appointment_type"
	CodeDuplicateSubmission    = "duplicate_submission"
	CodeUnsupportedFileType    = "unsupported_file_type"
	CodeFileTooLarge           = "file_too_large"

	CodeUserNotFound         = "user_not_found"
	CodeAppointmentNotFound  = "appointment_not_found"
	CodeDoctorNotFound       = "doctor_not_found"
	CodeLabTestNotFound      = "lab_test_not_found"
	CodePrescriptionNotFound = "prescription_not_found"
)

// ===============================
// Business error
// ===============================

type BusinessError struct {
	Code string
	Err  error
}

func (e BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Code, e.Err)
	}
	return e.Code
}

func (e BusinessError) Unwrap() error {
	return e.Err
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

// Wrap tags cause with a business code while keeping it reachable through
// errors.Is / errors.As.
func Wrap(code string, cause error) error {
	return BusinessError{Code: code, Err: cause}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// CodeOf returns the business code carried by err, or "" when err is not a
// business error.
func CodeOf(err error) string {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}
