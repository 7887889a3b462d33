package appointment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/healthconnect-api/internal/httperr"
	"github.com/BruksfildServices01/healthconnect-api/internal/models"
)

var today = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

func TestValidateBooking(t *testing.T) {
	valid := BookingInput{Item: "Dr. Emily Carter", Type: TypeDoctor, Date: "2026-03-10", Time: "09:00 AM"}
	require.NoError(t, ValidateBooking(valid, today))

	tests := []struct {
		name string
		mod  func(in *BookingInput)
		code string
	}{
		{"no date", func(in *BookingInput) { in.Date = "" }, httperr.CodeMissingInformation},
		{"no time", func(in *BookingInput) { in.Time = "" }, httperr.CodeMissingInformation},
		{"no item", func(in *BookingInput) { in.Item = " " }, httperr.CodeMissingInformation},
		{"bad date", func(in *BookingInput) { in.Date = "10/03/2026" }, httperr.CodeMissingInformation},
		{"yesterday", func(in *BookingInput) { in.Date = "2026-03-09" }, httperr.CodePastDate},
		{"unknown slot", func(in *BookingInput) { in.Time = "01:00 PM" }, httperr.CodeInvalidTimeSlot},
		{"bad type", func(in *BookingInput) { in.Type = "Surgery" }, httperr.CodeInvalidAppointmentType},
	}

	t.Run("started slot today", func(t *testing.T) {
		late := today.Add(10*time.Hour + 30*time.Minute)
		err := ValidateBooking(valid, late)
		assert.True(t, httperr.IsBusiness(err, httperr.CodeInvalidTimeSlot), "got %v", err)

		later := valid
		later.Time = "11:00 AM"
		assert.NoError(t, ValidateBooking(later, late))
	})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mod(&in)
			err := ValidateBooking(in, today)
			assert.True(t, httperr.IsBusiness(err, tt.code), "got %v", err)
		})
	}
}

func TestNewPendingCopiesUserSnapshot(t *testing.T) {
	u := &models.User{ID: "u1", Name: "Alice", Phone: "5551234", Address: "1 Main St"}
	now := today.Add(8 * time.Hour)

	ap := NewPending("a1", u, BookingInput{Item: "Urinalysis", Type: TypeLabTest, Date: "2026-03-11", Time: "02:00 PM"}, now)

	assert.Equal(t, string(StatusPending), ap.Status)
	assert.Equal(t, "Lab Test", ap.Type)
	assert.Equal(t, "Alice", ap.User.Name)

	u.Name = "Renamed"
	assert.Equal(t, "Alice", ap.User.Name)
}

func TestConfirmOnlyFromPending(t *testing.T) {
	now := today.Add(time.Hour)
	ap := &models.Appointment{ID: "a1", Status: string(StatusPending)}

	p, err := Confirm(ap, now)
	require.NoError(t, err)
	require.NotNil(t, p.From)
	assert.Equal(t, StatusPending, *p.From)
	p.Apply(ap)
	assert.Equal(t, string(StatusConfirmed), ap.Status)
	require.NotNil(t, ap.ConfirmedAt)

	_, err = Confirm(ap, now)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeInvalidStateTransition))
}

func TestDetailsPatchNeverTouchesStatus(t *testing.T) {
	clinic := "City Clinic"
	p := DetailsPatch(Details{Clinic: &clinic})

	assert.Nil(t, p.Status)
	assert.False(t, p.IsEmpty())
	assert.True(t, DetailsPatch(Details{}).IsEmpty())

	ap := &models.Appointment{Status: string(StatusPending), Fees: "$40"}
	p.Apply(ap)
	assert.Equal(t, "City Clinic", ap.Clinic)
	assert.Equal(t, "$40", ap.Fees)
	assert.Equal(t, string(StatusPending), ap.Status)
}

func TestForUser(t *testing.T) {
	all := []models.Appointment{
		{ID: "1", User: models.UserSnapshot{ID: "u1"}},
		{ID: "2", User: models.UserSnapshot{ID: "u2"}},
		{ID: "3", User: models.UserSnapshot{ID: "u1"}},
	}

	got := ForUser(all, "u1")
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "3", got[1].ID)
	assert.Len(t, all, 3)

	assert.Empty(t, ForUser(all, "nobody"))
	assert.NotNil(t, ForUser(nil, ""))
}

func TestStateFor(t *testing.T) {
	assert.Equal(t, FlowPromptLogin, StateFor(nil))
	assert.Equal(t, FlowBlockedNeedsProfile, StateFor(&models.User{Name: "A", Phone: "5551234"}))
	assert.Equal(t, FlowCollectingDateTime, StateFor(&models.User{Name: "A", Phone: "5551234", Address: "x"}))
}

func TestDueForReminder(t *testing.T) {
	now := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	ap := &models.Appointment{Status: string(StatusConfirmed), Date: "2026-03-11", Time: "09:00 AM"}

	assert.True(t, DueForReminder(ap, now, 24*time.Hour))
	assert.False(t, DueForReminder(ap, now, 12*time.Hour))

	sent := now
	ap.ReminderSentAt = &sent
	assert.False(t, DueForReminder(ap, now, 24*time.Hour))

	pending := &models.Appointment{Status: string(StatusPending), Date: "2026-03-10", Time: "11:00 AM"}
	assert.False(t, DueForReminder(pending, now, 24*time.Hour))

	past := &models.Appointment{Status: string(StatusConfirmed), Date: "2026-03-10", Time: "09:00 AM"}
	assert.False(t, DueForReminder(past, now, 24*time.Hour))
}
