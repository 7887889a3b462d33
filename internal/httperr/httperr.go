package httperr

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

type mapping struct {
	status  int
	message string
}

var table = map[string]mapping{
	CodeInvalidCredentials:     {http.StatusUnauthorized, "Invalid phone/email or password."},
	CodeDuplicateAccount:       {http.StatusConflict, "An account with this phone or email already exists."},
	CodeInvalidPhoneNumber:     {http.StatusBadRequest, "The phone number is not valid."},
	CodeRateLimited:            {http.StatusTooManyRequests, "Too many code requests. Try again later."},
	CodeProviderConfiguration:  {http.StatusServiceUnavailable, "Phone sign-in is not configured on this server."},
	CodeChallengeFailed:        {http.StatusBadRequest, "The verification challenge failed. Reload and try again."},
	CodeInvalidCode:            {http.StatusBadRequest, "The code is not correct."},
	CodeNoPendingChallenge:     {http.StatusBadRequest, "Request a new code first."},
	CodeProfileIncomplete:      {http.StatusUnprocessableEntity, "Complete your name, phone and address before booking."},
	CodePermissionDenied:       {http.StatusInternalServerError, "The data store rejected this request. Check the access rules and service account permissions for the users and appointments collections."},
	CodeInvalidStateTransition: {http.StatusConflict, "The record is not in a state that allows this action."},
	CodeRecommendationFailed:   {http.StatusServiceUnavailable, "An error occurred while fetching recommendations. Please try again."},
	CodeUnauthenticated:        {http.StatusUnauthorized, "Please log in."},
	CodeForbidden:              {http.StatusForbidden, "Administrator access required."},

	CodeInvalidRequest:         {http.StatusBadRequest, "Invalid request."},
	CodeMissingInformation:     {http.StatusBadRequest, "Please select a date and time to book an appointment."},
	CodePastDate:               {http.StatusBadRequest, "The date must be today or later."},
	CodeInvalidTimeSlot:        {http.StatusBadRequest, "Select one of the available time slots."},
	CodeInvalidAppointmentType: {http.StatusBadRequest, "Appointment type must be Doctor or Lab Test."},
	CodeDuplicateSubmission:    {http.StatusConflict, "This request is already being processed."},
	CodeUnsupportedFileType:    {http.StatusBadRequest, "Upload a JPEG, PNG, WebP image or a PDF."},
	CodeFileTooLarge:           {http.StatusRequestEntityTooLarge, "The file is too large."},

	CodeUserNotFound:         {http.StatusNotFound, "User not found."},
	CodeAppointmentNotFound:  {http.StatusNotFound, "Appointment not found."},
	CodeDoctorNotFound:       {http.StatusNotFound, "Doctor not found."},
	CodeLabTestNotFound:      {http.StatusNotFound, "Lab test not found."},
	CodePrescriptionNotFound: {http.StatusNotFound, "Prescription not found."},
}

// Respond converts err into the JSON error body. Errors without a business code
// are logged and reported as internal_error.
func Respond(c *gin.Context, err error) {
	code := CodeOf(err)
	m, ok := table[code]
	if !ok {
		zerolog.Ctx(c.Request.Context()).Error().Err(err).Str("path", c.FullPath()).Msg("unhandled error")
		Internal(c, "internal_error", "Something went wrong.")
		return
	}

	if code == CodePermissionDenied {
		zerolog.Ctx(c.Request.Context()).Error().Err(err).Str("path", c.FullPath()).Msg("backend permission denied")
	}

	Write(c, m.status, code, m.message)
}
