package handlers

import (
	"time"

	domain "github.com/BruksfildServices01/healthconnect-api/internal/domain/appointment"
)

// parseDay reads an optional YYYY-MM-DD query value in loc. Empty or
// malformed values yield nil.
func parseDay(s string, loc *time.Location) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.ParseInLocation(domain.DateLayout, s, loc)
	if err != nil {
		return nil
	}
	return &t
}
