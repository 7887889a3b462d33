package appointment

import (
	"time"

	domain "github.com/BruksfildServices01/healthconnect-api/internal/domain/appointment"
	"github.com/BruksfildServices01/healthconnect-api/internal/httperr"
	"github.com/BruksfildServices01/healthconnect-api/internal/timezone"
)

type Slot struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
}

type GetAvailability struct {
	clock timezone.Clock
}

func NewGetAvailability(clock timezone.Clock) *GetAvailability {
	return &GetAvailability{clock: clock}
}

// Execute lists the daily slots for date ("" means today). Slots on past
// days, or already started today, are not available.
func (uc *GetAvailability) Execute(date string) ([]Slot, error) {
	now := uc.clock()

	day := timezone.StartOfDay(now)
	if date != "" {
		d, err := time.ParseInLocation(domain.DateLayout, date, now.Location())
		if err != nil {
			return nil, httperr.ErrBusiness(httperr.CodeInvalidRequest)
		}
		day = d
	}

	slots := make([]Slot, 0, len(domain.TimeSlots))
	for _, label := range domain.TimeSlots {
		slots = append(slots, Slot{Time: label, Available: domain.SlotOpen(day, label, now)})
	}

	return slots, nil
}
