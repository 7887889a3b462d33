package appointment

import (
	"time"

	"github.com/BruksfildServices01/healthconnect-api/internal/models"
)

// DueForReminder reports whether a confirmed, not yet reminded appointment
// starts within (now, now+lead].
func DueForReminder(ap *models.Appointment, now time.Time, lead time.Duration) bool {
	if Status(ap.Status) != StatusConfirmed || ap.ReminderSentAt != nil {
		return false
	}

	start, err := StartTime(ap, now.Location())
	if err != nil {
		return false
	}
	return start.After(now) && !start.After(now.Add(lead))
}
