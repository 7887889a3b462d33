package appointment

import (
	"strings"
	"time"

	"github.com/BruksfildServices01/healthconnect-api/internal/domain/user"
	"github.com/BruksfildServices01/healthconnect-api/internal/httperr"
	"github.com/BruksfildServices01/healthconnect-api/internal/models"
)

const DateLayout = "2006-01-02"

// TimeSlots are the bookable daily slots, in display order.
var TimeSlots = []string{
	"09:00 AM",
	"10:00 AM",
	"11:00 AM",
	"02:00 PM",
	"03:00 PM",
	"04:00 PM",
}

type BookingInput struct {
	Item string
	Type Type
	Date string
	Time string
}

func IsValidSlot(slot string) bool {
	for _, s := range TimeSlots {
		if s == slot {
			return true
		}
	}
	return false
}

// ValidateBooking checks the request against the wizard rules. now carries
// the application timezone.
func ValidateBooking(in BookingInput, now time.Time) error {
	if !in.Type.Valid() {
		return httperr.ErrBusiness(httperr.CodeInvalidAppointmentType)
	}
	if strings.TrimSpace(in.Item) == "" || strings.TrimSpace(in.Date) == "" || strings.TrimSpace(in.Time) == "" {
		return httperr.ErrBusiness(httperr.CodeMissingInformation)
	}
	if !IsValidSlot(in.Time) {
		return httperr.ErrBusiness(httperr.CodeInvalidTimeSlot)
	}

	date, err := time.ParseInLocation(DateLayout, in.Date, now.Location())
	if err != nil {
		return httperr.ErrBusiness(httperr.CodeMissingInformation)
	}
	if date.Before(startOfDay(now)) {
		return httperr.ErrBusiness(httperr.CodePastDate)
	}
	if !SlotOpen(date, in.Time, now) {
		return httperr.ErrBusiness(httperr.CodeInvalidTimeSlot)
	}
	return nil
}

// SlotOpen reports whether the slot labelled label on day can still be
// booked at now: the day is not past and the slot has not started.
func SlotOpen(day time.Time, label string, now time.Time) bool {
	today := startOfDay(now)
	if day.Before(today) {
		return false
	}
	if day.After(today) {
		return true
	}
	start, err := slotStart(day.Format(DateLayout), label, now.Location())
	return err == nil && start.After(now)
}

// StartTime resolves the appointment's date and slot label in loc.
func StartTime(ap *models.Appointment, loc *time.Location) (time.Time, error) {
	return slotStart(ap.Date, ap.Time, loc)
}

func slotStart(date, label string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout+" 03:04 PM", date+" "+label, loc)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ===============================
// Booking wizard
// ===============================

type FlowState string

const (
	FlowPromptLogin         FlowState = "prompt_login"
	FlowBlockedNeedsProfile FlowState = "blocked_needs_profile"
	FlowCollectingDateTime  FlowState = "collecting_date_time"
)

// StateFor is the wizard's entry state for the given (possibly anonymous) user.
func StateFor(u *models.User) FlowState {
	switch {
	case u == nil:
		return FlowPromptLogin
	case !user.IsComplete(u):
		return FlowBlockedNeedsProfile
	default:
		return FlowCollectingDateTime
	}
}
