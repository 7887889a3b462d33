package appointment

import "github.com/BruksfildServices01/healthconnect-api/internal/models"

// ForUser keeps the appointments booked by userID, preserving order. The input
// slice is not modified.
func ForUser(all []models.Appointment, userID string) []models.Appointment {
	out := make([]models.Appointment, 0)
	if userID == "" {
		return out
	}
	for _, ap := range all {
		if ap.User.ID == userID {
			out = append(out, ap)
		}
	}
	return out
}
