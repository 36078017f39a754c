package booking

import (
	"fmt"

	"github.com/osteria-vecchia/reservations-api/internal/models"
)

// CalculateAvailability projects the current reservation state onto the slot
// list for one date. Only confirmed reservations count against capacity;
// waitlisted and cancelled ones do not. A blocked date makes every slot
// unavailable regardless of the capacity math.
//
// The result is a pure projection with no caching: callers must recompute it
// after every mutation.
func CalculateAvailability(date string, slots []models.Slot, reservations []models.Reservation, blocked models.BlockedList, waitlistEnabled bool) models.DayAvailability {
	committed := make(map[string]int)
	for _, r := range reservations {
		if r.Date == date && r.Status == models.StatusConfirmed {
			committed[r.Time] += r.Guests
		}
	}

	dateBlocked := blocked.DateBlocked(date)

	report := models.DayAvailability{Date: date, Open: true}
	switch {
	case dateBlocked:
		report.Open = false
		report.Reason = "date is blocked"
	case len(slots) == 0:
		report.Open = false
		report.Reason = "closed on this day"
	}

	for _, slot := range slots {
		entry := models.SlotAvailability{
			Time:              slot.Time,
			MaxGuests:         slot.MaxGuests,
			CommittedGuests:   committed[slot.Time],
			RemainingCapacity: slot.MaxGuests - committed[slot.Time],
		}
		switch {
		case dateBlocked:
			entry.Reason = "date is blocked"
		case blocked.SlotBlocked(date, slot.Time):
			entry.Reason = "slot is blocked"
		default:
			entry.Available = entry.RemainingCapacity > 0
			entry.WaitlistEligible = !entry.Available && waitlistEnabled
		}
		report.Slots = append(report.Slots, entry)
	}
	return report
}

// slotFor returns the availability entry for a specific time, or an error if
// the time is not part of the report.
func slotFor(report models.DayAvailability, slotTime string) (models.SlotAvailability, error) {
	for _, s := range report.Slots {
		if s.Time == slotTime {
			return s, nil
		}
	}
	return models.SlotAvailability{}, fmt.Errorf("%w: no %s slot on %s", ErrSlotUnavailable, slotTime, report.Date)
}
